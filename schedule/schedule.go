// Package schedule decides whether a content item should be shown at a given
// moment. Evaluation is a pure function of the rule and the timestamp; it
// never touches plugins, surfaces or the wall clock.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how a rule is evaluated.
type Mode string

const (
	// ModeAlways shows the item regardless of time.
	ModeAlways Mode = "always"
	// ModeTimeRange shows the item inside a daily wall-clock window.
	ModeTimeRange Mode = "time_range"
	// ModePerDay shows the item inside per-weekday windows.
	ModePerDay Mode = "per_day"
)

// DayRule is one weekday's window in a per_day rule.
type DayRule struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Start   string `json:"start_time" mapstructure:"start_time"`
	End     string `json:"end_time" mapstructure:"end_time"`
}

// Rule restricts when a content item is visible. A nil rule, or one with
// Enabled false, places no restriction at all.
//
// Times are 24-hour "HH:MM" strings evaluated against the local time of the
// supplied timestamp; there is no date or timezone component. Days maps
// lowercase weekday names ("monday".."sunday") to their windows; a weekday
// absent from the map is never shown.
type Rule struct {
	Enabled bool               `json:"enabled" mapstructure:"enabled"`
	Mode    Mode               `json:"mode" mapstructure:"mode"`
	Start   string             `json:"start_time" mapstructure:"start_time"`
	End     string             `json:"end_time" mapstructure:"end_time"`
	Days    map[string]DayRule `json:"days" mapstructure:"days"`
}

// IsVisible reports whether the rule permits showing its item at now.
//
// Unknown modes and unparseable times resolve to visible. Hiding content
// because of a typo in a config file is worse than over-showing it, so the
// evaluator fails open; Validate is the strict counterpart for load time.
func IsVisible(r *Rule, now time.Time) bool {
	if r == nil || !r.Enabled {
		return true
	}

	switch r.Mode {
	case ModeAlways:
		return true

	case ModeTimeRange:
		return inWindow(r.Start, r.End, now)

	case ModePerDay:
		day, ok := r.Days[weekday(now)]
		if !ok || !day.Enabled {
			return false
		}
		return inWindow(day.Start, day.End, now)

	default:
		return true
	}
}

// inWindow reports whether now's time of day falls in [start, end). A window
// with start > end crosses midnight; start == end is a zero-width window and
// never matches.
func inWindow(start, end string, now time.Time) bool {
	s, err := parseMinutes(start)
	if err != nil {
		return true
	}
	e, err := parseMinutes(end)
	if err != nil {
		return true
	}

	t := now.Hour()*60 + now.Minute()
	switch {
	case s == e:
		return false
	case s < e:
		return t >= s && t < e
	default:
		return t >= s || t < e
	}
}

// parseMinutes converts an "HH:MM" string to minutes since midnight.
func parseMinutes(v string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("schedule: invalid time %q: %w", v, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("schedule: time %q out of range", v)
	}
	return h*60 + m, nil
}

func weekday(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// Validate checks the rule for problems the fail-open evaluator would paper
// over: unknown modes, malformed times, unknown weekday names. Callers that
// want strict configuration loading run this once at load time.
func (r *Rule) Validate() error {
	if r == nil || !r.Enabled {
		return nil
	}

	switch r.Mode {
	case ModeAlways:
		return nil

	case ModeTimeRange:
		if _, err := parseMinutes(r.Start); err != nil {
			return err
		}
		_, err := parseMinutes(r.End)
		return err

	case ModePerDay:
		for name, day := range r.Days {
			if !validDay(name) {
				return fmt.Errorf("schedule: unknown weekday %q", name)
			}
			if !day.Enabled {
				continue
			}
			if _, err := parseMinutes(day.Start); err != nil {
				return err
			}
			if _, err := parseMinutes(day.End); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("schedule: unknown mode %q", r.Mode)
	}
}

func validDay(name string) bool {
	switch name {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}
