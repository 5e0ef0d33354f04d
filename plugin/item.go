package plugin

import (
	"time"

	"github.com/GridGlow/matrix/schedule"
)

// Item is one schedulable unit of a plugin's output, such as a single image
// in a slideshow. Items are produced by an external configuration layer and
// read-only at render time.
type Item struct {
	// ID is stable and unique within the owning plugin's item list.
	ID string `json:"id" mapstructure:"id"`
	// Payload is plugin-owned and opaque to the engine.
	Payload any `json:"payload" mapstructure:"payload"`
	// Schedule restricts when the item is shown. Nil means always.
	Schedule *schedule.Rule `json:"schedule" mapstructure:"schedule"`
}

// Visible reports whether the item's schedule permits showing it at now.
func (it Item) Visible(now time.Time) bool {
	return schedule.IsVisible(it.Schedule, now)
}

// VisibleItems filters items to those whose schedules permit showing at now,
// preserving order.
func VisibleItems(items []Item, now time.Time) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Visible(now) {
			out = append(out, it)
		}
	}
	return out
}
