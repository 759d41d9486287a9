package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/000001_init.up.sql")
	assert.Contains(t, files, "migrations/000001_init.down.sql")

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "EXCLUDE USING gist")
}
