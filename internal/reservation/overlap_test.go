package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// overlapsByMinute is the reference: two intervals overlap iff they share a minute.
func overlapsByMinute(aStart, aEnd, bStart, bEnd int) bool {
	for m := aStart; m < aEnd; m++ {
		if m >= bStart && m < bEnd {
			return true
		}
	}
	return false
}

func TestOverlaps_Exhaustive(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	at := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }

	const n = 8
	for as := 0; as < n; as++ {
		for ae := as + 1; ae <= n; ae++ {
			for bs := 0; bs < n; bs++ {
				for be := bs + 1; be <= n; be++ {
					want := overlapsByMinute(as, ae, bs, be)
					got := Overlaps(at(as), at(ae), at(bs), at(be))
					if got != want {
						t.Fatalf("Overlaps([%d,%d), [%d,%d)) = %v, want %v", as, ae, bs, be, got, want)
					}
					assert.Equal(t, got, Overlaps(at(bs), at(be), at(as), at(ae)), "symmetric")
				}
			}
		}
	}
}

func TestOverlaps_BackToBack(t *testing.T) {
	ten := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	eleven := ten.Add(time.Hour)
	noon := eleven.Add(time.Hour)

	assert.False(t, Overlaps(ten, eleven, eleven, noon))
	assert.False(t, Overlaps(eleven, noon, ten, eleven))
	assert.True(t, Overlaps(ten, eleven.Add(time.Nanosecond), eleven, noon))
}

func TestConflictsWith(t *testing.T) {
	ten := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	r := &Reservation{CourtID: 1, StartAt: ten, EndAt: ten.Add(time.Hour), State: StateActive}

	assert.True(t, r.ConflictsWith(1, ten.Add(30*time.Minute), ten.Add(time.Hour)))
	assert.False(t, r.ConflictsWith(2, ten, ten.Add(time.Hour)), "other court")
	assert.False(t, r.ConflictsWith(1, ten.Add(time.Hour), ten.Add(2*time.Hour)), "touching end")
	assert.False(t, r.ConflictsWith(1, ten.Add(-time.Hour), ten), "touching start")

	r.State = StateCancelled
	assert.False(t, r.ConflictsWith(1, ten, ten.Add(time.Hour)), "cancelled never blocks")
}
