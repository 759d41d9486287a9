package reservation

import "time"

const DefaultSelfCancelWindow = 24 * time.Hour

// CancellationPolicy decides whether a holder may cancel without contacting the facility.
type CancellationPolicy struct {
	Window time.Duration
}

// CanSelfCancel is true iff the reservation starts at least Window after now.
func (p CancellationPolicy) CanSelfCancel(r *Reservation, now time.Time) bool {
	return r.StartAt.Sub(now) >= p.Window
}
