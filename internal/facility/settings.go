// Package facility holds the static settings of the sports facility: operating
// hours, slot sizes per sport, booking windows and the seed court list.
package facility

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/nekogravitycat/canchas/internal/court"
)

const (
	DefaultTimezone    = "America/Argentina/Buenos_Aires"
	DefaultPhoneRegion = "AR"
	DateLayout         = "2006-01-02"
	ClockLayout        = "15:04"
)

var ErrInvalidSettings = errors.New("invalid facility settings")

// Settings is the parsed, validated facility configuration.
type Settings struct {
	Location *time.Location
	// Opening and Closing are wall-clock offsets from local midnight.
	Opening          time.Duration
	Closing          time.Duration
	MaxAdvance       time.Duration
	SelfCancelWindow time.Duration
	PhoneRegion      string
	Granularity      map[court.Sport]time.Duration
	Courts           []court.Court
}

type sportFile struct {
	SlotMinutes int `yaml:"slot_minutes"`
}

type courtFile struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Sport string `yaml:"sport"`
}

type settingsFile struct {
	Timezone         string               `yaml:"timezone"`
	Opening          string               `yaml:"opening"`
	Closing          string               `yaml:"closing"`
	MaxAdvanceDays   int                  `yaml:"max_advance_days"`
	SelfCancelWindow string               `yaml:"self_cancel_window"`
	PhoneRegion      string               `yaml:"phone_region"`
	Sports           map[string]sportFile `yaml:"sports"`
	Courts           []courtFile          `yaml:"courts"`
}

// Default returns the settings used when no facility file is present.
func Default() Settings {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return Settings{
		Location:         loc,
		Opening:          8 * time.Hour,
		Closing:          24 * time.Hour,
		MaxAdvance:       7 * 24 * time.Hour,
		SelfCancelWindow: 24 * time.Hour,
		PhoneRegion:      DefaultPhoneRegion,
		Granularity: map[court.Sport]time.Duration{
			court.SportSoccer: 60 * time.Minute,
			court.SportPadel:  30 * time.Minute,
		},
	}
}

// Load reads settings from a YAML file. A missing file yields Default().
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", path).Msg("facility file not found, using defaults")
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read facility file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML settings on top of Default(); omitted keys keep their defaults.
func Parse(data []byte) (Settings, error) {
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("parse facility file: %w", err)
	}

	s := Default()

	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSettings, f.Timezone, err)
		}
		s.Location = loc
	}
	if f.Opening != "" {
		d, err := ParseClock(f.Opening)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: opening: %v", ErrInvalidSettings, err)
		}
		s.Opening = d
	}
	if f.Closing != "" {
		d, err := ParseClock(f.Closing)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: closing: %v", ErrInvalidSettings, err)
		}
		s.Closing = d
	}
	if f.MaxAdvanceDays != 0 {
		s.MaxAdvance = time.Duration(f.MaxAdvanceDays) * 24 * time.Hour
	}
	if f.SelfCancelWindow != "" {
		d, err := time.ParseDuration(f.SelfCancelWindow)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: self_cancel_window: %v", ErrInvalidSettings, err)
		}
		s.SelfCancelWindow = d
	}
	if f.PhoneRegion != "" {
		s.PhoneRegion = strings.ToUpper(f.PhoneRegion)
	}
	for name, sp := range f.Sports {
		sport, err := court.ParseSport(name)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: sports: %v", ErrInvalidSettings, err)
		}
		s.Granularity[sport] = time.Duration(sp.SlotMinutes) * time.Minute
	}
	for _, c := range f.Courts {
		sport, err := court.ParseSport(c.Sport)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: court %d: %v", ErrInvalidSettings, c.ID, err)
		}
		s.Courts = append(s.Courts, court.Court{ID: c.ID, Name: c.Name, Sport: sport})
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the internal consistency of the settings.
func (s Settings) Validate() error {
	if s.Location == nil {
		return fmt.Errorf("%w: missing location", ErrInvalidSettings)
	}
	if s.Opening < 0 || s.Closing > 24*time.Hour || s.Opening >= s.Closing {
		return fmt.Errorf("%w: opening must be before closing within one day", ErrInvalidSettings)
	}
	if s.MaxAdvance <= 0 {
		return fmt.Errorf("%w: max_advance_days must be positive", ErrInvalidSettings)
	}
	if s.SelfCancelWindow < 0 {
		return fmt.Errorf("%w: self_cancel_window must not be negative", ErrInvalidSettings)
	}
	for sport, g := range s.Granularity {
		if g <= 0 {
			return fmt.Errorf("%w: slot_minutes for %s must be positive", ErrInvalidSettings, sport)
		}
	}
	seen := make(map[int64]bool, len(s.Courts))
	for _, c := range s.Courts {
		if c.ID <= 0 || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: courts need a positive id and a name", ErrInvalidSettings)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate court id %d", ErrInvalidSettings, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// SlotGranularity returns the slot step for a sport, one hour when unset.
func (s Settings) SlotGranularity(sport court.Sport) time.Duration {
	if g, ok := s.Granularity[sport]; ok && g > 0 {
		return g
	}
	return time.Hour
}

// MaxDurationMinutes is the longest booking that fits in one operating day.
func (s Settings) MaxDurationMinutes() int {
	return int((s.Closing - s.Opening) / time.Minute)
}

// DayBounds returns local midnight of the calendar day containing t and the next midnight.
func (s Settings) DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.In(s.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.Location), time.Date(y, m, d+1, 0, 0, 0, 0, s.Location)
}

// OperatingWindow returns the opening and closing instants of the calendar day containing t.
func (s Settings) OperatingWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.In(s.Location).Date()
	open := time.Date(y, m, d, 0, int(s.Opening/time.Minute), 0, 0, s.Location)
	closing := time.Date(y, m, d, 0, int(s.Closing/time.Minute), 0, 0, s.Location)
	return open, closing
}

// ParseDate parses YYYY-MM-DD as local midnight in the facility zone.
func (s Settings) ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(v), s.Location)
}

// ParseDateTime combines a YYYY-MM-DD date and an HH:MM wall-clock time in the facility zone.
func (s Settings) ParseDateTime(date, clock string) (time.Time, error) {
	day, err := s.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, int(offset/time.Minute), 0, 0, s.Location), nil
}

// ParseClock parses "HH:MM" into an offset from midnight. "24:00" is accepted.
func ParseClock(v string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: want HH:MM", v)
	}
	if len(hh) < 1 || len(hh) > 2 || !isDigits(hh) {
		return 0, fmt.Errorf("clock %q: bad hour", v)
	}
	if len(mm) != 2 || !isDigits(mm) {
		return 0, fmt.Errorf("clock %q: bad minute", v)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("clock %q: out of range", v)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func isDigits(v string) bool {
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
