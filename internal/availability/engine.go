// Package availability computes which courts are free for a sport, day and duration.
package availability

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
	"github.com/nekogravitycat/canchas/internal/reservation"
)

var (
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "duration must be positive and fit within operating hours")
	ErrInvalidDate     = reservation.ErrInvalidDate
)

// Slot is a candidate start time and the courts free for the whole requested duration.
type Slot struct {
	Start      time.Time
	End        time.Time
	FreeCourts []court.Court // ordered by court id
}

func (s Slot) Count() int {
	return len(s.FreeCourts)
}

// Input is everything Compute needs. Reservations may include cancelled ones
// and other courts; both are ignored.
type Input struct {
	Open         time.Time
	Close        time.Time
	Granularity  time.Duration
	Duration     time.Duration
	Courts       []*court.Court
	Reservations []*reservation.Reservation
	// NotBefore drops candidate starts earlier than it. Zero keeps every start.
	NotBefore    time.Time
}

// Compute returns every candidate slot in [Open, Close), stepping by Granularity,
// whose end does not pass Close and whose start is not before NotBefore.
// Slots with no free court are included.
func Compute(in Input) ([]Slot, error) {
	if in.Duration <= 0 || in.Granularity <= 0 || in.Open.Add(in.Duration).After(in.Close) {
		return nil, ErrInvalidDuration
	}

	courts := make([]court.Court, 0, len(in.Courts))
	for _, c := range in.Courts {
		courts = append(courts, *c)
	}
	slices.SortFunc(courts, func(a, b court.Court) int { return cmp.Compare(a.ID, b.ID) })

	byCourt := make(map[int64][]*reservation.Reservation)
	for _, r := range in.Reservations {
		if r.IsActive() {
			byCourt[r.CourtID] = append(byCourt[r.CourtID], r)
		}
	}

	var slots []Slot
	for t := in.Open; !t.Add(in.Duration).After(in.Close); t = t.Add(in.Granularity) {
		if t.Before(in.NotBefore) {
			continue
		}
		end := t.Add(in.Duration)
		slot := Slot{Start: t, End: end, FreeCourts: []court.Court{}}
		for _, c := range courts {
			if isFree(byCourt[c.ID], c.ID, t, end) {
				slot.FreeCourts = append(slot.FreeCourts, c)
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func isFree(rs []*reservation.Reservation, courtID int64, start, end time.Time) bool {
	for _, r := range rs {
		if r.ConflictsWith(courtID, start, end) {
			return false
		}
	}
	return true
}

// OnlyAvailable drops slots with no free court.
func OnlyAvailable(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Count() > 0 {
			out = append(out, s)
		}
	}
	return out
}
