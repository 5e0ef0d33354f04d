package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at builds a timestamp on the given weekday with the given wall-clock time.
// The week of 2026-03-02 starts on a Monday.
func at(t *testing.T, day time.Weekday, clock string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", clock)
	require.NoError(t, err)
	base := time.Date(2026, 3, 2, parsed.Hour(), parsed.Minute(), 0, 0, time.Local)
	for base.Weekday() != day {
		base = base.AddDate(0, 0, 1)
	}
	return base
}

func TestNilOrDisabledAlwaysVisible(t *testing.T) {
	times := []string{"00:00", "07:59", "12:00", "23:59"}
	for _, clock := range times {
		now := at(t, time.Wednesday, clock)
		assert.True(t, IsVisible(nil, now), "nil rule at %s", clock)
		assert.True(t, IsVisible(&Rule{Enabled: false, Mode: ModeTimeRange, Start: "08:00", End: "09:00"}, now),
			"disabled rule at %s", clock)
	}
}

func TestModeAlways(t *testing.T) {
	r := &Rule{Enabled: true, Mode: ModeAlways}
	assert.True(t, IsVisible(r, at(t, time.Monday, "03:00")))
	assert.True(t, IsVisible(r, at(t, time.Sunday, "23:59")))
}

func TestTimeRange(t *testing.T) {
	r := &Rule{Enabled: true, Mode: ModeTimeRange, Start: "08:00", End: "18:00"}

	tests := []struct {
		clock   string
		visible bool
	}{
		{"07:59", false},
		{"08:00", true},
		{"12:00", true},
		{"17:59", true},
		{"18:00", false},
		{"23:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			assert.Equal(t, tt.visible, IsVisible(r, at(t, time.Friday, tt.clock)))
		})
	}
}

func TestTimeRangeCrossesMidnight(t *testing.T) {
	r := &Rule{Enabled: true, Mode: ModeTimeRange, Start: "22:00", End: "06:00"}

	tests := []struct {
		clock   string
		visible bool
	}{
		{"21:59", false},
		{"22:00", true},
		{"23:30", true},
		{"00:00", true},
		{"02:00", true},
		{"05:59", true},
		{"06:00", false},
		{"12:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			assert.Equal(t, tt.visible, IsVisible(r, at(t, time.Saturday, tt.clock)))
		})
	}
}

func TestTimeRangeZeroWidthNeverVisible(t *testing.T) {
	r := &Rule{Enabled: true, Mode: ModeTimeRange, Start: "09:00", End: "09:00"}
	for _, clock := range []string{"00:00", "08:59", "09:00", "09:01", "23:59"} {
		assert.False(t, IsVisible(r, at(t, time.Monday, clock)), "at %s", clock)
	}
}

func TestPerDay(t *testing.T) {
	r := &Rule{
		Enabled: true,
		Mode:    ModePerDay,
		Days: map[string]DayRule{
			"monday":  {Enabled: false},
			"tuesday": {Enabled: true, Start: "09:00", End: "17:00"},
		},
	}

	// Monday is present but disabled.
	for _, clock := range []string{"00:00", "10:00", "23:59"} {
		assert.False(t, IsVisible(r, at(t, time.Monday, clock)), "monday %s", clock)
	}

	assert.True(t, IsVisible(r, at(t, time.Tuesday, "10:00")))
	assert.False(t, IsVisible(r, at(t, time.Tuesday, "18:00")))
	assert.False(t, IsVisible(r, at(t, time.Tuesday, "08:59")))

	// Wednesday is absent from the map.
	assert.False(t, IsVisible(r, at(t, time.Wednesday, "10:00")))
}

func TestPerDayCrossesMidnight(t *testing.T) {
	r := &Rule{
		Enabled: true,
		Mode:    ModePerDay,
		Days: map[string]DayRule{
			"friday": {Enabled: true, Start: "22:00", End: "02:00"},
		},
	}
	assert.True(t, IsVisible(r, at(t, time.Friday, "23:00")))
	assert.True(t, IsVisible(r, at(t, time.Friday, "01:00")))
	assert.False(t, IsVisible(r, at(t, time.Friday, "12:00")))
	assert.False(t, IsVisible(r, at(t, time.Saturday, "23:00")))
}

func TestUnknownModeFailsOpen(t *testing.T) {
	r := &Rule{Enabled: true, Mode: "sometimes"}
	assert.True(t, IsVisible(r, at(t, time.Monday, "12:00")))
}

func TestMalformedTimesFailOpen(t *testing.T) {
	r := &Rule{Enabled: true, Mode: ModeTimeRange, Start: "late", End: "18:00"}
	assert.True(t, IsVisible(r, at(t, time.Monday, "23:00")))

	r = &Rule{Enabled: true, Mode: ModeTimeRange, Start: "08:00", End: "25:61"}
	assert.True(t, IsVisible(r, at(t, time.Monday, "02:00")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rule *Rule
		ok   bool
	}{
		{"nil", nil, true},
		{"disabled with garbage", &Rule{Enabled: false, Mode: "sometimes"}, true},
		{"always", &Rule{Enabled: true, Mode: ModeAlways}, true},
		{"valid range", &Rule{Enabled: true, Mode: ModeTimeRange, Start: "08:00", End: "18:00"}, true},
		{"bad start", &Rule{Enabled: true, Mode: ModeTimeRange, Start: "late", End: "18:00"}, false},
		{"hour out of range", &Rule{Enabled: true, Mode: ModeTimeRange, Start: "25:00", End: "18:00"}, false},
		{"unknown mode", &Rule{Enabled: true, Mode: "sometimes"}, false},
		{"valid per day", &Rule{Enabled: true, Mode: ModePerDay, Days: map[string]DayRule{
			"tuesday": {Enabled: true, Start: "09:00", End: "17:00"},
		}}, true},
		{"unknown weekday", &Rule{Enabled: true, Mode: ModePerDay, Days: map[string]DayRule{
			"someday": {Enabled: true, Start: "09:00", End: "17:00"},
		}}, false},
		{"disabled day skips times", &Rule{Enabled: true, Mode: ModePerDay, Days: map[string]DayRule{
			"monday": {Enabled: false, Start: "nope"},
		}}, true},
		{"bad day time", &Rule{Enabled: true, Mode: ModePerDay, Days: map[string]DayRule{
			"monday": {Enabled: true, Start: "nope", End: "17:00"},
		}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
