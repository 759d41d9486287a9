package court

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Court, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*Court), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*Court, error) {
	args := m.Called(ctx, filter)
	if cs := args.Get(0); cs != nil {
		return cs.([]*Court), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, c *Court) error {
	return m.Called(ctx, c).Error(0)
}

func TestParseSport(t *testing.T) {
	tests := []struct {
		in   string
		want Sport
	}{
		{"SOCCER", SportSoccer},
		{"soccer", SportSoccer},
		{"FUTBOL", SportSoccer},
		{" futbol ", SportSoccer},
		{"PADEL", SportPadel},
		{"padel", SportPadel},
	}
	for _, tt := range tests {
		got, err := ParseSport(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseSport("tennis")
	assert.ErrorIs(t, err, ErrInvalidSport)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Upsert", ctx, mock.MatchedBy(func(c *Court) bool { return c.ID == 1 })).Return(nil).Once()
	repo.On("Upsert", ctx, mock.MatchedBy(func(c *Court) bool { return c.ID == 2 })).Return(nil).Once()

	n, err := svc.Seed(ctx, []Court{
		{ID: 1, Name: "Cancha 1", Sport: SportSoccer},
		{ID: 2, Name: "Pádel 1", Sport: SportPadel},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)
}

func TestSeed_StopsOnInvalidCourt(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Upsert", ctx, mock.Anything).Return(nil).Once()

	n, err := svc.Seed(ctx, []Court{
		{ID: 1, Name: "Cancha 1", Sport: SportSoccer},
		{ID: 2, Name: "  ", Sport: SportPadel},
	})
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, 1, n)
	repo.AssertExpectations(t)
}

func TestSeed_PropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	boom := errors.New("connection refused")
	repo.On("Upsert", ctx, mock.Anything).Return(boom)

	_, err := svc.Seed(ctx, []Court{{ID: 1, Name: "Cancha 1", Sport: SportSoccer}})
	assert.ErrorIs(t, err, boom)
}
