package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/canchas/internal/availability"
	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
	"github.com/nekogravitycat/canchas/internal/pkg/response"
)

const defaultDurationMinutes = 60

type Handler struct {
	service  availability.Service
	settings facility.Settings
}

func NewHandler(service availability.Service, settings facility.Settings) *Handler {
	return &Handler{
		service:  service,
		settings: settings,
	}
}

func (h *Handler) Get(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	sport, err := court.ParseSport(req.Sport)
	if err != nil {
		response.Error(c, err)
		return
	}
	day, err := h.settings.ParseDate(req.Date)
	if err != nil {
		response.Error(c, apperror.WrapSentinel(availability.ErrInvalidDate, err))
		return
	}
	if req.Duration == 0 {
		req.Duration = defaultDurationMinutes
	}

	slots, err := h.service.Slots(c.Request.Context(), availability.Query{
		Sport:           sport,
		Date:            day,
		DurationMinutes: req.Duration,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !req.IncludeFull {
		slots = availability.OnlyAvailable(slots)
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s, h.settings.Location)
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Sport:           string(sport),
		Date:            day.Format(facility.DateLayout),
		DurationMinutes: req.Duration,
		Slots:           items,
	})
}
