package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/pkg/request"
	"github.com/nekogravitycat/canchas/internal/pkg/response"
)

type Handler struct {
	service court.Service
}

func NewHandler(service court.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListCourtsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	var filter court.Filter
	if req.Sport != "" {
		sport, err := court.ParseSport(req.Sport)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.Sport = sport
	}

	courts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CourtResponse, len(courts))
	for i, ct := range courts {
		items[i] = NewResponse(ct)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	ct, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(ct))
}
