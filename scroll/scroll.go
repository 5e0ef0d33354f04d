// Package scroll animates content wider than the display across a fixed
// viewport, one offset step per frame.
package scroll

import "time"

const (
	defaultStep = 1
	defaultGap  = 16
)

// Ticker tracks the horizontal scroll position of one piece of content. The
// content enters from the right edge, travels across the viewport and loops
// after it has fully left on the left, with a gap before the next pass.
// Content that fits the viewport never moves.
type Ticker struct {
	viewport int
	content  int
	step     int
	gap      int
	offset   int
}

// NewTicker returns a ticker for content of the given pixel width scrolling
// through a viewport of the given pixel width.
func NewTicker(viewport, content int) *Ticker {
	return &Ticker{
		viewport: viewport,
		content:  content,
		step:     defaultStep,
		gap:      defaultGap,
	}
}

// SetStep changes how many pixels each Advance moves. Values below 1 are
// clamped to 1.
func (t *Ticker) SetStep(step int) {
	if step < 1 {
		step = 1
	}
	t.step = step
}

// SetGap changes the blank run between loops.
func (t *Ticker) SetGap(gap int) {
	if gap < 0 {
		gap = 0
	}
	t.gap = gap
}

// Static reports whether the content fits the viewport and never scrolls.
func (t *Ticker) Static() bool {
	return t.content <= t.viewport
}

// X returns the x coordinate to draw the content at for the current frame.
func (t *Ticker) X() int {
	if t.Static() {
		return 0
	}
	return t.viewport - t.offset
}

// Advance moves the scroll position by one frame, wrapping at the end of the
// cycle.
func (t *Ticker) Advance() {
	if t.Static() {
		return
	}
	t.offset += t.step
	if t.offset >= t.cycle() {
		t.offset = 0
	}
}

// Reset rewinds to the start of the cycle.
func (t *Ticker) Reset() {
	t.offset = 0
}

// cycle is the offset distance of one full pass: the content crosses the
// viewport, leaves it entirely, then waits out the gap.
func (t *Ticker) cycle() int {
	return t.viewport + t.content + t.gap
}

// Frames returns how many Advance calls one full pass takes. Static content
// takes a single frame.
func (t *Ticker) Frames() int {
	if t.Static() {
		return 1
	}
	return (t.cycle() + t.step - 1) / t.step
}

// Duration returns how long one full pass takes at the given frame interval,
// clamped to [min, max]. Display rotation uses this so long content gets one
// complete read before the next plugin takes over.
func (t *Ticker) Duration(frameInterval, min, max time.Duration) time.Duration {
	d := time.Duration(t.Frames()) * frameInterval
	if min > 0 && d < min {
		return min
	}
	if max > 0 && d > max {
		return max
	}
	return d
}
