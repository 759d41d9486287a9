package reservation

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/clock"
)

// BookRequest is a validated-at-the-boundary booking attempt.
type BookRequest struct {
	CourtID         int64
	Start           time.Time
	DurationMinutes int
	HolderName      string
	HolderContact   string
}

type Service interface {
	Book(ctx context.Context, req BookRequest) (*Reservation, error)
	// Get returns a reservation visible to the caller: its holder or an admin.
	Get(ctx context.Context, id int64, caller auth.Identity) (*Reservation, error)
	// SelfCancel cancels on behalf of the holder, enforcing the cancellation window for non-admins.
	SelfCancel(ctx context.Context, id int64, caller auth.Identity) (*Reservation, error)
	// Cancel is the administrative cancel, allowed at any time.
	Cancel(ctx context.Context, id int64) (*Reservation, error)
	ListMine(ctx context.Context, contact string) (Partition, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	// CanSelfCancel reports whether r is active and still outside the cancellation window.
	CanSelfCancel(r *Reservation) bool
}

// CourtLookup is the slice of the court catalogue the booking flow needs.
type CourtLookup interface {
	GetByID(ctx context.Context, id int64) (*court.Court, error)
}

type service struct {
	repo     Repository
	courts   CourtLookup
	settings facility.Settings
	policy   CancellationPolicy
	clock    clock.Clock
}

func NewService(repo Repository, courts CourtLookup, settings facility.Settings, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &service{
		repo:     repo,
		courts:   courts,
		settings: settings,
		policy:   CancellationPolicy{Window: settings.SelfCancelWindow},
		clock:    clk,
	}
}

func (s *service) Book(ctx context.Context, req BookRequest) (*Reservation, error) {
	// 1. Validate input
	name := strings.TrimSpace(req.HolderName)
	if name == "" {
		return nil, ErrHolderNameRequired
	}
	// Bounded before conversion so the end instant cannot overflow.
	if req.DurationMinutes <= 0 || req.DurationMinutes > s.settings.MaxDurationMinutes() {
		return nil, ErrInvalidDuration
	}
	contact, err := NormalizeContact(req.HolderContact, s.settings.PhoneRegion)
	if err != nil {
		return nil, err
	}

	start := req.Start.In(s.settings.Location)
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	now := s.clock.Now()
	if start.Before(now) {
		return nil, ErrStartInPast
	}
	if start.After(now.Add(s.settings.MaxAdvance)) {
		return nil, ErrBeyondAdvanceWindow
	}
	open, closing := s.settings.OperatingWindow(start)
	if start.Before(open) || end.After(closing) {
		return nil, ErrOutsideOperatingHours
	}

	c, err := s.courts.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, court.ErrNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, storeErr("get court", err)
	}

	// 2. Re-check against current state
	overlap, err := s.repo.HasOverlap(ctx, c.ID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrConflict
	}

	// 3. Insert; the store re-checks under a per-court lock
	res := &Reservation{
		CourtID:         c.ID,
		CourtName:       c.Name,
		Sport:           c.Sport,
		StartAt:         start,
		EndAt:           end,
		DurationMinutes: req.DurationMinutes,
		HolderName:      name,
		HolderContact:   contact,
		State:           StateActive,
	}
	if err := s.repo.Insert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// owns reports whether caller is the holder of r.
func owns(caller auth.Identity, r *Reservation) bool {
	if caller.IsAnonymous() || caller.Email == "" || r.HolderContact == "" {
		return false
	}
	return strings.EqualFold(caller.Email, r.HolderContact)
}

func (s *service) Get(ctx context.Context, id int64, caller auth.Identity) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !owns(caller, r) {
		return nil, ErrPermissionDenied
	}
	return r, nil
}

func (s *service) SelfCancel(ctx context.Context, id int64, caller auth.Identity) (*Reservation, error) {
	r, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if !r.IsActive() {
		return nil, ErrAlreadyCancelled
	}
	if !caller.IsAdmin() && !s.policy.CanSelfCancel(r, s.clock.Now()) {
		return nil, ErrCancellationLocked
	}
	return s.repo.Cancel(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id int64) (*Reservation, error) {
	return s.repo.Cancel(ctx, id)
}

func (s *service) ListMine(ctx context.Context, contact string) (Partition, error) {
	normalized, err := NormalizeContact(contact, s.settings.PhoneRegion)
	if err != nil {
		return Partition{}, err
	}
	if normalized == "" {
		return Partition{}, nil
	}

	all, err := s.repo.ListByHolderContact(ctx, normalized)
	if err != nil {
		return Partition{}, err
	}
	return Split(all, s.clock.Now()), nil
}

// Split partitions reservations into upcoming (start >= now) and past.
func Split(all []*Reservation, now time.Time) Partition {
	var p Partition
	for _, r := range all {
		if r.StartAt.Before(now) {
			p.Past = append(p.Past, r)
		} else {
			p.Upcoming = append(p.Upcoming, r)
		}
	}
	slices.SortStableFunc(p.Upcoming, func(a, b *Reservation) int { return a.StartAt.Compare(b.StartAt) })
	slices.SortStableFunc(p.Past, func(a, b *Reservation) int { return b.StartAt.Compare(a.StartAt) })
	return p
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, 0, ErrInvalidTimeRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) CanSelfCancel(r *Reservation) bool {
	return r.IsActive() && s.policy.CanSelfCancel(r, s.clock.Now())
}
