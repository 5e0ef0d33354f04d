package plugin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GridGlow/matrix/schedule"
)

func TestVisibleItems(t *testing.T) {
	office := &schedule.Rule{Enabled: true, Mode: schedule.ModeTimeRange, Start: "08:00", End: "18:00"}
	night := &schedule.Rule{Enabled: true, Mode: schedule.ModeTimeRange, Start: "22:00", End: "06:00"}

	items := []Item{
		{ID: "welcome"}, // no schedule, always visible
		{ID: "office-hours", Schedule: office},
		{ID: "night-owl", Schedule: night},
	}

	noon := time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)
	visible := VisibleItems(items, noon)
	assert.Equal(t, []string{"welcome", "office-hours"}, ids(visible))

	twoAM := time.Date(2026, 3, 2, 2, 0, 0, 0, time.Local)
	visible = VisibleItems(items, twoAM)
	assert.Equal(t, []string{"welcome", "night-owl"}, ids(visible))
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register("clock", func(env Env, cfg Config) (Plugin, error) {
		return &fakePlugin{}, nil
	}))
	assert.Error(t, r.Register("clock", nil))
	assert.Equal(t, []string{"clock"}, r.Names())

	p, err := r.New("clock", Env{}, nil)
	assert.NoError(t, err)
	assert.NotNil(t, p)

	_, err = r.New("ghost", Env{}, nil)
	assert.Error(t, err)
	assert.True(t, IsConfigError(err))
}
