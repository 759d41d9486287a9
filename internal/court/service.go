package court

import (
	"context"
	"strings"
)

type Service interface {
	GetByID(ctx context.Context, id int64) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, error)
	// Seed upserts every court in the list and returns how many were written.
	Seed(ctx context.Context, courts []Court) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id int64) (*Court, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Court, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Seed(ctx context.Context, courts []Court) (int, error) {
	n := 0
	for i := range courts {
		c := courts[i]
		if strings.TrimSpace(c.Name) == "" {
			return n, ErrEmptyName
		}
		if _, err := ParseSport(string(c.Sport)); err != nil {
			return n, err
		}
		if err := s.repo.Upsert(ctx, &c); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
