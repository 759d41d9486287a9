package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/facility"
	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
	"github.com/nekogravitycat/canchas/internal/pkg/request"
	"github.com/nekogravitycat/canchas/internal/pkg/response"
	"github.com/nekogravitycat/canchas/internal/reservation"
)

type Handler struct {
	service  reservation.Service
	settings facility.Settings
}

func NewHandler(service reservation.Service, settings facility.Settings) *Handler {
	return &Handler{
		service:  service,
		settings: settings,
	}
}

func (h *Handler) toResponse(r *reservation.Reservation) ReservationResponse {
	return NewReservationResponse(r, h.settings.Location, h.service.CanSelfCancel(r))
}

func (h *Handler) toResponses(rs []*reservation.Reservation) []ReservationResponse {
	items := make([]ReservationResponse, len(rs))
	for i, r := range rs {
		items[i] = h.toResponse(r)
	}
	return items
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	start, err := h.settings.ParseDateTime(body.Date, body.Time)
	if err != nil {
		response.Error(c, apperror.WrapSentinel(reservation.ErrInvalidDate, err))
		return
	}

	// Signed-in callers book under their account email unless they name another contact.
	caller := auth.GetIdentity(c)
	contact := body.HolderContact
	if contact == "" && !caller.IsAnonymous() {
		contact = caller.Email
	}

	res, err := h.service.Book(c.Request.Context(), reservation.BookRequest{
		CourtID:         body.CourtID,
		Start:           start,
		DurationMinutes: body.DurationMinutes,
		HolderName:      body.HolderName,
		HolderContact:   contact,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(res))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	res, err := h.service.Get(c.Request.Context(), req.ID, auth.GetIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(res))
}

func (h *Handler) ListMine(c *gin.Context) {
	caller := auth.GetIdentity(c)

	p, err := h.service.ListMine(c.Request.Context(), caller.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MyReservationsResponse{
		Upcoming: h.toResponses(p.Upcoming),
		Past:     h.toResponses(p.Past),
	})
}

func (h *Handler) SelfCancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	res, err := h.service.SelfCancel(c.Request.Context(), req.ID, auth.GetIdentity(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(res))
}

func (h *Handler) AdminList(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter, err := req.ToFilter(h.settings)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(h.toResponses(items), req.Page, req.PageSize, total))
}

func (h *Handler) AdminCancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	res, err := h.service.Cancel(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponse(res))
}
