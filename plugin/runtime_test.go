package plugin

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GridGlow/matrix"
)

// fakePlugin is a scriptable plugin for lifecycle tests.
type fakePlugin struct {
	updates   int
	renders   int
	updateErr error
	updateFn  func(ctx context.Context) error
	renderErr error
	panicIn   string // "update" or "render"
	draw      func(s matrix.Surface)
}

func (f *fakePlugin) Update(ctx context.Context) error {
	f.updates++
	if f.panicIn == "update" {
		panic("boom")
	}
	if f.updateFn != nil {
		return f.updateFn(ctx)
	}
	return f.updateErr
}

func (f *fakePlugin) Render(s matrix.Surface, forceClear bool) error {
	f.renders++
	if f.panicIn == "render" {
		panic("boom")
	}
	if f.draw != nil {
		f.draw(s)
	}
	return f.renderErr
}

func TestRuntimeRenderSkippedUntilFirstUpdate(t *testing.T) {
	p := &fakePlugin{}
	rt := NewRuntime("clock", p, nil)
	s := matrix.NewMock(128, 32)

	require.NoError(t, rt.Render(s, true))
	assert.Equal(t, 0, p.renders)
	assert.Empty(t, s.Calls())
	assert.False(t, rt.Ready())

	require.NoError(t, rt.Update(context.Background()))
	assert.True(t, rt.Ready())

	require.NoError(t, rt.Render(s, true))
	assert.Equal(t, 1, p.renders)
	assert.Len(t, s.CallsTo("Render"), 1)
}

func TestRuntimeUpdatePanicIsAbsorbed(t *testing.T) {
	p := &fakePlugin{panicIn: "update"}
	rt := NewRuntime("clock", p, nil)

	err := rt.Update(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.False(t, rt.Ready())
}

func TestRuntimeRenderPanicIsAbsorbed(t *testing.T) {
	p := &fakePlugin{panicIn: "render"}
	rt := NewRuntime("clock", p, nil)
	require.NoError(t, rt.Update(context.Background()))

	s := matrix.NewMock(128, 32)
	err := rt.Render(s, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	// the surface was never flushed
	assert.Empty(t, s.CallsTo("Render"))
}

func TestRuntimeFailedUpdateRetainsPreviousFrame(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	p := &fakePlugin{
		draw: func(s matrix.Surface) {
			s.DrawPixel(3, 5, red)
		},
	}
	rt := NewRuntime("clock", p, nil)
	v := matrix.NewVisual(16, 8)

	require.NoError(t, rt.Update(context.Background()))
	require.NoError(t, rt.Render(v, true))
	before := append([]uint8(nil), v.Image().Pix...)

	p.updateErr = errors.New("upstream down")
	require.Error(t, rt.Update(context.Background()))

	// a later render reproduces the same pixels from the last good state
	require.NoError(t, rt.Render(v, true))
	assert.Equal(t, before, v.Image().Pix)
	assert.Equal(t, red, v.Image().RGBAAt(3, 5))
}

// Update and Render must never overlap for one instance: a render issued
// while an update is in flight runs only after that update has returned.
func TestRuntimeSerializesUpdateAndRender(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(e string) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	p := &fakePlugin{}
	p.updateFn = func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return nil
		}
		close(started)
		record("update begin")
		<-release
		record("update end")
		return nil
	}
	p.draw = func(s matrix.Surface) {
		record("render")
	}

	rt := NewRuntime("ticker", p, nil)
	require.NoError(t, rt.Update(context.Background()))

	updated := make(chan error, 1)
	go func() { updated <- rt.Update(context.Background()) }()
	<-started

	rendered := make(chan error, 1)
	go func() { rendered <- rt.Render(matrix.NewMock(8, 8), false) }()

	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, <-updated)
	require.NoError(t, <-rendered)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"update begin", "update end", "render"}, events)
}

func TestRuntimeInvalidateDiscardsInFlightUpdate(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	p := &fakePlugin{
		updateFn: func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		},
	}
	rt := NewRuntime("scores", p, nil)

	done := make(chan error, 1)
	go func() { done <- rt.Update(context.Background()) }()

	<-started
	rt.Invalidate()
	close(release)

	err := <-done
	assert.ErrorIs(t, err, ErrDiscarded)
	assert.False(t, rt.Ready())
}
