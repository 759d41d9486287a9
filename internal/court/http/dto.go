package http

import (
	"time"

	"github.com/nekogravitycat/canchas/internal/court"
)

// ListCourtsRequest defines query parameters for listing courts.
type ListCourtsRequest struct {
	Sport string `form:"sport"`
}

type CourtResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Sport     string    `json:"sport"`
	CreatedAt time.Time `json:"created_at"`
}

// CourtTag is the compact form embedded in other responses.
type CourtTag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

func NewResponse(c *court.Court) CourtResponse {
	return CourtResponse{
		ID:        c.ID,
		Name:      c.Name,
		Sport:     string(c.Sport),
		CreatedAt: c.CreatedAt,
	}
}

func NewTag(c court.Court) CourtTag {
	return CourtTag{ID: c.ID, Name: c.Name, Sport: string(c.Sport)}
}
