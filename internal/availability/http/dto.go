package http

import (
	"time"

	"github.com/nekogravitycat/canchas/internal/availability"
	courtHttp "github.com/nekogravitycat/canchas/internal/court/http"
	"github.com/nekogravitycat/canchas/internal/facility"
)

// AvailabilityRequest defines the query parameters of the slot grid.
type AvailabilityRequest struct {
	Sport       string `form:"sport" binding:"required"`
	Date        string `form:"date" binding:"required"` // YYYY-MM-DD, facility-local
	Duration    int    `form:"duration"`                // minutes, defaults to 60
	IncludeFull bool   `form:"include_full"`
}

type SlotResponse struct {
	Time       string               `json:"time"`
	StartAt    time.Time            `json:"start_at"`
	EndAt      time.Time            `json:"end_at"`
	Count      int                  `json:"count"`
	FreeCourts []courtHttp.CourtTag `json:"free_courts"`
}

type AvailabilityResponse struct {
	Sport           string         `json:"sport"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"duration_minutes"`
	Slots           []SlotResponse `json:"slots"`
}

func NewSlotResponse(s availability.Slot, loc *time.Location) SlotResponse {
	start := s.Start.In(loc)
	free := make([]courtHttp.CourtTag, len(s.FreeCourts))
	for i, c := range s.FreeCourts {
		free[i] = courtHttp.NewTag(c)
	}
	return SlotResponse{
		Time:       start.Format(facility.ClockLayout),
		StartAt:    start,
		EndAt:      s.End.In(loc),
		Count:      s.Count(),
		FreeCourts: free,
	}
}
