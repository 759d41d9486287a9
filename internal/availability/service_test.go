package availability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/canchas/internal/availability"
	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/clock"
	"github.com/nekogravitycat/canchas/internal/reservation"
	"github.com/nekogravitycat/canchas/internal/reservation/reservationtest"
)

func mustAt(t *testing.T, s facility.Settings, date, hhmm string) time.Time {
	t.Helper()
	v, err := s.ParseDateTime(date, hhmm)
	require.NoError(t, err)
	return v
}

// beforeTheDay is a clock on the eve of the 2025-06-01 test day.
func beforeTheDay(t *testing.T, s facility.Settings) *clock.Mock {
	t.Helper()
	return clock.NewMock(mustAt(t, s, "2025-05-31", "12:00"))
}

func slotAt(slots []availability.Slot, start time.Time) (availability.Slot, bool) {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return s, true
		}
	}
	return availability.Slot{}, false
}

func isFree(s availability.Slot, courtID int64) bool {
	for _, c := range s.FreeCourts {
		if c.ID == courtID {
			return true
		}
	}
	return false
}

// TestEndToEndScenario walks through availability and booking for one court and day.
func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	settings := facility.Default()
	c1 := court.Court{ID: 1, Name: "C1", Sport: court.SportSoccer}
	store := reservationtest.NewStore(c1, court.Court{ID: 2, Name: "P1", Sport: court.SportPadel})

	avail := availability.NewService(store.Courts(), store, settings, beforeTheDay(t, settings))
	booking := reservation.NewService(store, store.Courts(), settings, clock.NewMock(mustAt(t, settings, "2025-05-31", "12:00")))

	store.Add(reservation.Reservation{
		CourtID:         1,
		StartAt:         mustAt(t, settings, "2025-06-01", "10:00"),
		DurationMinutes: 60,
		HolderName:      "Existing",
	})

	day, err := settings.ParseDate("2025-06-01")
	require.NoError(t, err)
	slots, err := avail.Slots(ctx, availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: 60})
	require.NoError(t, err)

	ten, ok := slotAt(slots, mustAt(t, settings, "2025-06-01", "10:00"))
	require.True(t, ok, "zero-availability slots are still returned by the engine")
	assert.False(t, isFree(ten, 1))
	for _, hhmm := range []string{"09:00", "11:00"} {
		s, ok := slotAt(slots, mustAt(t, settings, "2025-06-01", hhmm))
		require.True(t, ok, hhmm)
		assert.True(t, isFree(s, 1), hhmm)
	}
	for _, s := range slots {
		for _, c := range s.FreeCourts {
			assert.Equal(t, court.SportSoccer, c.Sport, "only courts of the requested sport")
		}
	}

	_, err = booking.Book(ctx, reservation.BookRequest{
		CourtID: 1, Start: mustAt(t, settings, "2025-06-01", "10:30"), DurationMinutes: 30, HolderName: "Ana",
	})
	assert.ErrorIs(t, err, reservation.ErrConflict)

	r, err := booking.Book(ctx, reservation.BookRequest{
		CourtID: 1, Start: mustAt(t, settings, "2025-06-01", "11:00"), DurationMinutes: 60, HolderName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, reservation.StateActive, r.State)

	slots, err = avail.Slots(ctx, availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: 60})
	require.NoError(t, err)
	eleven, _ := slotAt(slots, mustAt(t, settings, "2025-06-01", "11:00"))
	assert.False(t, isFree(eleven, 1), "the new booking is visible to the next query")
}

func TestSlots_Deterministic(t *testing.T) {
	ctx := context.Background()
	settings := facility.Default()
	store := reservationtest.NewStore(
		court.Court{ID: 3, Name: "P3", Sport: court.SportPadel},
		court.Court{ID: 1, Name: "P1", Sport: court.SportPadel},
		court.Court{ID: 2, Name: "P2", Sport: court.SportPadel},
	)
	store.Add(reservation.Reservation{CourtID: 2, StartAt: mustAt(t, settings, "2025-06-01", "18:00"), DurationMinutes: 90, HolderName: "A"})
	store.Add(reservation.Reservation{CourtID: 1, StartAt: mustAt(t, settings, "2025-06-01", "19:00"), DurationMinutes: 60, HolderName: "B"})

	svc := availability.NewService(store.Courts(), store, settings, beforeTheDay(t, settings))
	q := availability.Query{Sport: court.SportPadel, Date: mustAt(t, settings, "2025-06-01", "15:00"), DurationMinutes: 90}

	first, err := svc.Slots(ctx, q)
	require.NoError(t, err)
	second, err := svc.Slots(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	s, ok := slotAt(first, mustAt(t, settings, "2025-06-01", "18:30"))
	require.True(t, ok)
	ids := make([]int64, 0, s.Count())
	for _, c := range s.FreeCourts {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{3}, ids)
}

func TestSlots_OtherDaysIgnored(t *testing.T) {
	ctx := context.Background()
	settings := facility.Default()
	store := reservationtest.NewStore(court.Court{ID: 1, Name: "C1", Sport: court.SportSoccer})
	store.Add(reservation.Reservation{CourtID: 1, StartAt: mustAt(t, settings, "2025-06-02", "10:00"), DurationMinutes: 60, HolderName: "A"})

	slots, err := availability.NewService(store.Courts(), store, settings, beforeTheDay(t, settings)).
		Slots(ctx, availability.Query{Sport: court.SportSoccer, Date: mustAt(t, settings, "2025-06-01", "00:00"), DurationMinutes: 60})
	require.NoError(t, err)
	assert.Len(t, availability.OnlyAvailable(slots), 16)
}

func TestSlots_StoreFailureIsNotEmpty(t *testing.T) {
	settings := facility.Default()
	store := reservationtest.NewStore(court.Court{ID: 1, Name: "C1", Sport: court.SportSoccer})
	store.Err = errors.New("connection refused")

	slots, err := availability.NewService(store.Courts(), store, settings, beforeTheDay(t, settings)).
		Slots(context.Background(), availability.Query{Sport: court.SportSoccer, Date: mustAt(t, settings, "2025-06-01", "00:00"), DurationMinutes: 60})
	assert.ErrorIs(t, err, reservation.ErrStoreUnavailable)
	assert.Nil(t, slots)
}

type failingCourts struct{}

func (failingCourts) List(context.Context, court.Filter) ([]*court.Court, error) {
	return nil, errors.New("courts table missing")
}

func TestSlots_CourtFailureIsStoreUnavailable(t *testing.T) {
	settings := facility.Default()
	store := reservationtest.NewStore()

	_, err := availability.NewService(failingCourts{}, store, settings, beforeTheDay(t, settings)).
		Slots(context.Background(), availability.Query{Sport: court.SportSoccer, Date: mustAt(t, settings, "2025-06-01", "00:00"), DurationMinutes: 60})
	assert.ErrorIs(t, err, reservation.ErrStoreUnavailable)
}

func TestSlots_InvalidDuration(t *testing.T) {
	settings := facility.Default()
	store := reservationtest.NewStore()
	svc := availability.NewService(store.Courts(), store, settings, beforeTheDay(t, settings))
	day := mustAt(t, settings, "2025-06-01", "00:00")

	_, err := svc.Slots(context.Background(), availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: 0})
	assert.ErrorIs(t, err, availability.ErrInvalidDuration)
	for _, minutes := range []int{-60, 16*60 + 1, 17 * 60, 200000000, 1<<53 + 60} {
		slots, err := svc.Slots(context.Background(), availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: minutes})
		assert.ErrorIs(t, err, availability.ErrInvalidDuration, "%d minutes", minutes)
		assert.Nil(t, slots)
	}

	slots, err := svc.Slots(context.Background(), availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: 16 * 60})
	require.NoError(t, err)
	assert.Len(t, slots, 1, "the whole operating day is one slot")
}

func TestSlots_TodayStartsFromNow(t *testing.T) {
	ctx := context.Background()
	settings := facility.Default()
	store := reservationtest.NewStore(court.Court{ID: 1, Name: "C1", Sport: court.SportSoccer})
	clk := clock.NewMock(mustAt(t, settings, "2025-06-01", "15:10"))
	svc := availability.NewService(store.Courts(), store, settings, clk)
	day := mustAt(t, settings, "2025-06-01", "00:00")

	slots, err := svc.Slots(ctx, availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: 60})
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, mustAt(t, settings, "2025-06-01", "16:00"), slots[0].Start)
	assert.Len(t, slots, 8)

	clk.Set(mustAt(t, settings, "2025-06-02", "09:00"))
	slots, err = svc.Slots(ctx, availability.Query{Sport: court.SportSoccer, Date: day, DurationMinutes: 60})
	require.NoError(t, err)
	assert.Empty(t, slots, "a day that is over has no slots")
}
