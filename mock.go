package matrix

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
)

// Call is one recorded draw operation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Mock is the call-tracking backend. It records every operation for
// assertions and never allocates pixel storage, so it only answers "was X
// called with Y", not what the frame looks like.
type Mock struct {
	mu     sync.Mutex
	width  int
	height int
	calls  []Call
}

// NewMock returns a mock surface with the given dimensions.
func NewMock(width, height int) *Mock {
	return &Mock{width: width, height: height}
}

func (m *Mock) record(op string, args ...any) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Op: op, Args: args})
	m.mu.Unlock()
}

func (m *Mock) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

func (m *Mock) DrawPixel(x, y int, c color.Color) {
	m.record("DrawPixel", x, y, c)
}

func (m *Mock) DrawText(x, y int, text string, c color.Color, face font.Face) {
	m.record("DrawText", x, y, text, c)
}

func (m *Mock) DrawImage(x, y int, src image.Image) {
	m.record("DrawImage", x, y, src)
}

func (m *Mock) Clear() {
	m.record("Clear")
}

func (m *Mock) Render(forceClear bool) error {
	m.record("Render", forceClear)
	return nil
}

func (m *Mock) Close() error {
	m.record("Close")
	return nil
}

// Calls returns a copy of all recorded calls in order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallsTo returns the recorded calls for one operation.
func (m *Mock) CallsTo(op string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []Call
	for _, c := range m.calls {
		if c.Op == op {
			calls = append(calls, c)
		}
	}
	return calls
}

// Reset discards all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

// Interface check.
var _ Surface = (*Mock)(nil)
