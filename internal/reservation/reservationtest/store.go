// Package reservationtest provides an in-memory reservation store for tests.
package reservationtest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
	"github.com/nekogravitycat/canchas/internal/reservation"
)

// Store implements reservation.Repository in memory. Insert is serialised by a
// mutex, which gives the same no-overlap guarantee as the PostgreSQL store.
type Store struct {
	mu     sync.Mutex
	nextID int64
	courts map[int64]court.Court
	rows   []*reservation.Reservation

	// Err, when set, makes every call fail with ErrStoreUnavailable wrapping it.
	Err error
}

var _ reservation.Repository = (*Store)(nil)

func NewStore(courts ...court.Court) *Store {
	s := &Store{courts: make(map[int64]court.Court)}
	for _, c := range courts {
		s.courts[c.ID] = c
	}
	return s
}

func (s *Store) fail() error {
	if s.Err != nil {
		return apperror.WrapSentinel(reservation.ErrStoreUnavailable, s.Err)
	}
	return nil
}

func clone(r *reservation.Reservation) *reservation.Reservation {
	c := *r
	return &c
}

// Add stores r as given, without overlap checks, and returns the stored copy.
func (s *Store) Add(r reservation.Reservation) *reservation.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	if r.State == "" {
		r.State = reservation.StateActive
	}
	if r.EndAt.IsZero() {
		r.EndAt = r.StartAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
	}
	if c, ok := s.courts[r.CourtID]; ok {
		r.CourtName, r.Sport = c.Name, c.Sport
	}
	s.rows = append(s.rows, &r)
	return clone(&r)
}

// Len returns the number of stored reservations in any state.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Store) ListByDateRange(_ context.Context, from, to time.Time) ([]*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}

	var out []*reservation.Reservation
	for _, r := range s.rows {
		if !r.StartAt.Before(from) && r.StartAt.Before(to) {
			out = append(out, clone(r))
		}
	}
	slices.SortStableFunc(out, func(a, b *reservation.Reservation) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		return cmp.Compare(a.CourtID, b.CourtID)
	})
	return out, nil
}

func (s *Store) overlapLocked(courtID int64, start, end time.Time) bool {
	for _, r := range s.rows {
		if r.ConflictsWith(courtID, start, end) {
			return true
		}
	}
	return false
}

func (s *Store) HasOverlap(_ context.Context, courtID int64, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return false, err
	}
	return s.overlapLocked(courtID, start, end), nil
}

func (s *Store) Insert(_ context.Context, res *reservation.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return err
	}

	c, ok := s.courts[res.CourtID]
	if !ok {
		return reservation.ErrCourtNotFound
	}
	if s.overlapLocked(res.CourtID, res.StartAt, res.EndAt) {
		return reservation.ErrConflict
	}

	s.nextID++
	now := time.Now()
	res.ID = s.nextID
	res.State = reservation.StateActive
	res.CourtName, res.Sport = c.Name, c.Sport
	res.CreatedAt, res.UpdatedAt = now, now
	s.rows = append(s.rows, clone(res))
	return nil
}

func (s *Store) Cancel(_ context.Context, id int64) (*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}

	for _, r := range s.rows {
		if r.ID != id {
			continue
		}
		if !r.IsActive() {
			return nil, reservation.ErrAlreadyCancelled
		}
		r.State = reservation.StateCancelled
		r.UpdatedAt = time.Now()
		return clone(r), nil
	}
	return nil, reservation.ErrNotFound
}

func (s *Store) GetByID(_ context.Context, id int64) (*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}

	for _, r := range s.rows {
		if r.ID == id {
			return clone(r), nil
		}
	}
	return nil, reservation.ErrNotFound
}

func (s *Store) ListByHolderContact(_ context.Context, contact string) ([]*reservation.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, err
	}

	var out []*reservation.Reservation
	for _, r := range s.rows {
		if r.HolderContact == contact {
			out = append(out, clone(r))
		}
	}
	slices.SortStableFunc(out, func(a, b *reservation.Reservation) int { return a.StartAt.Compare(b.StartAt) })
	return out, nil
}

func (s *Store) List(_ context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(); err != nil {
		return nil, 0, err
	}

	var matched []*reservation.Reservation
	for _, r := range s.rows {
		switch {
		case filter.From != nil && r.StartAt.Before(*filter.From):
			continue
		case filter.To != nil && !r.StartAt.Before(*filter.To):
			continue
		case filter.CourtID != 0 && r.CourtID != filter.CourtID:
			continue
		case filter.Sport != "" && r.Sport != filter.Sport:
			continue
		}
		switch filter.Status {
		case reservation.StatusAll:
		case reservation.StatusCancelled:
			if r.IsActive() {
				continue
			}
		default:
			if !r.IsActive() {
				continue
			}
		}
		matched = append(matched, clone(r))
	}
	slices.SortStableFunc(matched, func(a, b *reservation.Reservation) int { return b.StartAt.Compare(a.StartAt) })

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	total := len(matched)
	lo := min((page-1)*size, total)
	hi := min(lo+size, total)
	return matched[lo:hi], total, nil
}

// Courts exposes the store's court set as a catalogue.
func (s *Store) Courts() *Courts {
	return &Courts{s: s}
}

// Courts serves court lookups from a Store.
type Courts struct {
	s *Store
}

var _ court.Repository = (*Courts)(nil)

func (c *Courts) GetByID(_ context.Context, id int64) (*court.Court, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	ct, ok := c.s.courts[id]
	if !ok {
		return nil, court.ErrNotFound
	}
	return &ct, nil
}

func (c *Courts) List(_ context.Context, filter court.Filter) ([]*court.Court, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []*court.Court
	for _, ct := range c.s.courts {
		if filter.Sport == "" || ct.Sport == filter.Sport {
			out = append(out, &ct)
		}
	}
	slices.SortFunc(out, func(a, b *court.Court) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (c *Courts) Upsert(_ context.Context, ct *court.Court) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.courts[ct.ID] = *ct
	return nil
}
