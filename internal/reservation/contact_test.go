package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{" Ana@Example.COM ", "ana@example.com"},
		{"11 2345-6789", "+541123456789"},
		{"+1 650-253-0000", "+16502530000"},
	}
	for _, tt := range tests {
		got, err := NormalizeContact(tt.in, "AR")
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeContact_Invalid(t *testing.T) {
	for _, in := range []string{"ana@", "Ana <ana@example.com>", "call me maybe", "12"} {
		_, err := NormalizeContact(in, "AR")
		assert.ErrorIs(t, err, ErrInvalidContact, in)
		assert.True(t, IsValidation(err), in)
	}
}
