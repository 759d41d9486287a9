package court

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "court not found")
	ErrInvalidSport = apperror.New(http.StatusBadRequest, "invalid sport")
	ErrEmptyName    = apperror.New(http.StatusBadRequest, "name cannot be empty")
)

// Sport is the category a court belongs to.
type Sport string

const (
	SportSoccer Sport = "SOCCER"
	SportPadel  Sport = "PADEL"
)

var ValidSports = []Sport{SportSoccer, SportPadel}

// ParseSport accepts the canonical names in any case and the legacy FUTBOL alias.
func ParseSport(v string) (Sport, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "SOCCER", "FUTBOL", "FÚTBOL":
		return SportSoccer, nil
	case "PADEL", "PÁDEL":
		return SportPadel, nil
	}
	return "", apperror.WrapSentinel(ErrInvalidSport, fmt.Errorf("unknown sport %q", v))
}

// Court is a bookable physical court. Reference data, seeded out of band.
type Court struct {
	ID        int64
	Name      string
	Sport     Sport
	CreatedAt time.Time
}

// Filter defines parameters for listing courts.
type Filter struct {
	Sport Sport
}
