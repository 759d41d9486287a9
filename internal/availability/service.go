package availability

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/clock"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
	"github.com/nekogravitycat/canchas/internal/reservation"
)

// CourtLister is the court catalogue query availability needs.
type CourtLister interface {
	List(ctx context.Context, filter court.Filter) ([]*court.Court, error)
}

// ReservationLister is the store query availability needs.
type ReservationLister interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*reservation.Reservation, error)
}

// Query asks for the slot grid of one sport on one facility-local day.
type Query struct {
	Sport           court.Sport
	Date            time.Time // any instant of the day
	DurationMinutes int
}

type Service interface {
	Slots(ctx context.Context, q Query) ([]Slot, error)
}

type service struct {
	courts       CourtLister
	reservations ReservationLister
	settings     facility.Settings
	clock        clock.Clock
}

// NewService builds the slot query. Slots starting before clk.Now() are omitted.
func NewService(courts CourtLister, reservations ReservationLister, settings facility.Settings, clk clock.Clock) Service {
	return &service{
		courts:       courts,
		reservations: reservations,
		settings:     settings,
		clock:        clk,
	}
}

func (s *service) Slots(ctx context.Context, q Query) ([]Slot, error) {
	if q.DurationMinutes <= 0 || q.DurationMinutes > s.settings.MaxDurationMinutes() {
		return nil, ErrInvalidDuration
	}
	dayStart, dayEnd := s.settings.DayBounds(q.Date)
	open, closing := s.settings.OperatingWindow(dayStart)

	var (
		courts       []*court.Court
		reservations []*reservation.Reservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courts, err = s.courts.List(gctx, court.Filter{Sport: q.Sport})
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = s.reservations.ListByDateRange(gctx, dayStart, dayEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.WrapSentinel(reservation.ErrStoreUnavailable, err)
	}

	return Compute(Input{
		Open:         open,
		Close:        closing,
		Granularity:  s.settings.SlotGranularity(q.Sport),
		Duration:     time.Duration(q.DurationMinutes) * time.Minute,
		Courts:       courts,
		Reservations: reservations,
		NotBefore:    s.clock.Now(),
	})
}
