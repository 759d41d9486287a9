package http

import (
	"time"

	"github.com/nekogravitycat/canchas/internal/court"
	courtHttp "github.com/nekogravitycat/canchas/internal/court/http"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/request"
	"github.com/nekogravitycat/canchas/internal/reservation"
)

// CreateReservationRequest is the booking body. Date and time are facility-local.
type CreateReservationRequest struct {
	CourtID         int64  `json:"court_id" binding:"required,min=1"`
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string `json:"time" binding:"required"` // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	HolderName      string `json:"holder_name"`
	HolderContact   string `json:"holder_contact"`
}

// ListReservationsRequest defines query parameters for the admin listing.
// From and To are facility-local dates, both inclusive.
type ListReservationsRequest struct {
	request.ListParams
	From    string `form:"from"`
	To      string `form:"to"`
	CourtID int64  `form:"court_id" binding:"omitempty,min=1"`
	Sport   string `form:"sport"`
	Status  string `form:"status" binding:"omitempty,oneof=active cancelled all"`
}

// ToFilter converts the query into a store filter.
func (r *ListReservationsRequest) ToFilter(settings facility.Settings) (reservation.Filter, error) {
	r.Normalize()
	filter := reservation.Filter{
		CourtID:  r.CourtID,
		Status:   reservation.StatusFilter(r.Status),
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.From != "" {
		day, err := settings.ParseDate(r.From)
		if err != nil {
			return filter, reservation.ErrInvalidDate
		}
		from, _ := settings.DayBounds(day)
		filter.From = &from
	}
	if r.To != "" {
		day, err := settings.ParseDate(r.To)
		if err != nil {
			return filter, reservation.ErrInvalidDate
		}
		_, to := settings.DayBounds(day)
		filter.To = &to
	}
	if r.Sport != "" {
		sport, err := court.ParseSport(r.Sport)
		if err != nil {
			return filter, err
		}
		filter.Sport = sport
	}
	return filter, nil
}

type ReservationResponse struct {
	ID              int64              `json:"id"`
	Court           courtHttp.CourtTag `json:"court"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	StartAt         time.Time          `json:"start_at"`
	EndAt           time.Time          `json:"end_at"`
	DurationMinutes int                `json:"duration_minutes"`
	HolderName      string             `json:"holder_name"`
	HolderContact   string             `json:"holder_contact,omitempty"`
	State           string             `json:"state"`
	CanSelfCancel   bool               `json:"can_self_cancel"`
	CreatedAt       time.Time          `json:"created_at"`
}

func NewReservationResponse(r *reservation.Reservation, loc *time.Location, canSelfCancel bool) ReservationResponse {
	start := r.StartAt.In(loc)
	return ReservationResponse{
		ID:              r.ID,
		Court:           courtHttp.NewTag(court.Court{ID: r.CourtID, Name: r.CourtName, Sport: r.Sport}),
		Date:            start.Format(facility.DateLayout),
		Time:            start.Format(facility.ClockLayout),
		StartAt:         start,
		EndAt:           r.EndAt.In(loc),
		DurationMinutes: r.DurationMinutes,
		HolderName:      r.HolderName,
		HolderContact:   r.HolderContact,
		State:           string(r.State),
		CanSelfCancel:   canSelfCancel,
		CreatedAt:       r.CreatedAt,
	}
}

type MyReservationsResponse struct {
	Upcoming []ReservationResponse `json:"upcoming"`
	Past     []ReservationResponse `json:"past"`
}
