package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Source identifies which side of the aggregation a Place came from.
type Source string

const (
	SourceLocal    Source = "local"    // curated registry, approval-gated
	SourceExternal Source = "external" // nearby-search provider
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is the common shape both sources normalize into. It is ephemeral:
// recomputed per discovery call and never persisted.
type Place struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address,omitempty"`
	Description string     `json:"description,omitempty"`
	Category    int        `json:"category"`
	Coord       Coordinate `json:"coord"`
	Source      Source     `json:"source"`
	// Approximate is true only when the coordinate was synthesized by the
	// resolver's fallback, never when registry-supplied or geocoded.
	Approximate bool     `json:"approximate"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
	OpenNow     *bool    `json:"open_now,omitempty"`

	// Local-only fields.
	ScheduleOpen  *int     `json:"schedule_open,omitempty"`  // minutes since midnight
	ScheduleClose *int     `json:"schedule_close,omitempty"` // minutes since midnight
	Capacity      *int     `json:"capacity,omitempty"`
	GenreTags     []string `json:"genre_tags,omitempty"`
}

// ParseClock converts "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return h*60 + m, nil
}

// WithinHours reports whether t (minutes since midnight) falls inside the
// [open, close] window. close < open means the window spans midnight.
func WithinHours(open, close, t int) bool {
	if close < open {
		return t >= open || t <= close
	}
	return open <= t && t <= close
}
