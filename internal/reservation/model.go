package reservation

import (
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "reservation not found")
	ErrCourtNotFound      = court.ErrNotFound
	ErrConflict           = apperror.New(http.StatusConflict, "time slot already booked")
	ErrAlreadyCancelled   = apperror.New(http.StatusConflict, "reservation already cancelled")
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "permission denied")
	ErrCancellationLocked = apperror.New(http.StatusForbidden, "reservation can no longer be cancelled online, please contact the facility")
	ErrStoreUnavailable   = apperror.New(http.StatusServiceUnavailable, "reservation store unavailable")

	ErrHolderNameRequired    = apperror.New(http.StatusBadRequest, "holder name is required")
	ErrInvalidDuration       = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
	ErrInvalidContact        = apperror.New(http.StatusBadRequest, "holder contact must be an email address or a phone number")
	ErrStartInPast           = apperror.New(http.StatusBadRequest, "cannot book a slot in the past")
	ErrBeyondAdvanceWindow   = apperror.New(http.StatusBadRequest, "start time is beyond the advance booking window")
	ErrOutsideOperatingHours = apperror.New(http.StatusBadRequest, "requested time is outside operating hours")
	ErrInvalidDate           = apperror.New(http.StatusBadRequest, "invalid date or time")
	ErrInvalidTimeRange      = apperror.New(http.StatusBadRequest, "from must be before to")
)

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest
}

// State is the lifecycle state of a reservation. CANCELLED is terminal.
type State string

const (
	StateActive    State = "ACTIVE"
	StateCancelled State = "CANCELLED"
)

// Reservation is a time-bounded claim on one court by one holder.
// EndAt is always StartAt plus DurationMinutes.
type Reservation struct {
	ID              int64
	CourtID         int64
	CourtName       string
	Sport           court.Sport
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	HolderName      string
	HolderContact   string // normalised email or E.164 phone, empty when not given
	State           State
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r *Reservation) IsActive() bool {
	return r.State == StateActive
}

// StatusFilter selects reservations by state in admin listings.
type StatusFilter string

const (
	StatusActive    StatusFilter = "active"
	StatusCancelled StatusFilter = "cancelled"
	StatusAll       StatusFilter = "all"
)

// Filter defines parameters for the admin reservation listing.
type Filter struct {
	From     *time.Time // start_at >= From
	To       *time.Time // start_at < To
	CourtID  int64
	Sport    court.Sport
	Status   StatusFilter // empty means active only
	Page     int
	PageSize int
}

// Partition splits a holder's reservations around the current instant.
type Partition struct {
	Upcoming []*Reservation // ascending by start
	Past     []*Reservation // most recent first
}
