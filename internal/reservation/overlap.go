package reservation

import "time"

// Overlaps is the half-open interval intersection test for [aStart, aEnd) and [bStart, bEnd).
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ConflictsWith reports whether r blocks [start, end) on courtID.
// Cancelled reservations never conflict.
func (r *Reservation) ConflictsWith(courtID int64, start, end time.Time) bool {
	return r.IsActive() && r.CourtID == courtID && Overlaps(start, end, r.StartAt, r.EndAt)
}
