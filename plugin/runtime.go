package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/logs"
)

// Runtime wraps exactly one plugin instance and isolates its failures. A
// panic or error inside Update or Render is caught here, logged with the
// plugin identifier, and turned into a skipped cycle; the previously
// rendered frame stays on screen. A plugin can never take down the loop that
// drives it.
type Runtime struct {
	id  string
	p   Plugin
	log *slog.Logger

	// serial guarantees Update and Render never run concurrently for this
	// instance, whichever path triggered them.
	serial sync.Mutex

	mu    sync.Mutex
	ready bool
	gen   uint64
}

// NewRuntime wraps p under the given identifier.
func NewRuntime(id string, p Plugin, log *slog.Logger) *Runtime {
	if log == nil {
		log = logs.Discard()
	}
	return &Runtime{
		id:  id,
		p:   p,
		log: log.With("plugin", id),
	}
}

// ID returns the plugin identifier.
func (r *Runtime) ID() string {
	return r.id
}

// Ready reports whether at least one update has completed successfully, i.e.
// whether Render has anything trustworthy to draw.
func (r *Runtime) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Invalidate discards the result of any in-flight Update: when it completes
// it is thrown away instead of being applied. Already-applied state is kept.
func (r *Runtime) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
}

// Update runs the plugin's update. The result is applied only if the runtime
// was not invalidated while it ran; a discarded update returns ErrDiscarded.
func (r *Runtime) Update(ctx context.Context) error {
	r.serial.Lock()
	defer r.serial.Unlock()

	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	err := r.safeUpdate(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		r.log.Debug("update result discarded")
		return ErrDiscarded
	}
	if err != nil {
		r.log.Error("update failed", "error", err)
		return err
	}
	r.ready = true
	return nil
}

func (r *Runtime) safeUpdate(ctx context.Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("update panic: %v", v)
		}
	}()
	return r.p.Update(ctx)
}

// Render draws the plugin's current state onto s and flushes it. Before the
// first successful update there is nothing trustworthy to draw, so the call
// is a no-op and whatever frame is on screen stays there. The surface is
// flushed only after the plugin drew without failing, so a mid-draw error
// also leaves the previous physical frame intact.
func (r *Runtime) Render(s matrix.Surface, forceClear bool) error {
	r.serial.Lock()
	defer r.serial.Unlock()

	if !r.Ready() {
		return nil
	}

	if forceClear {
		s.Clear()
	}
	if err := r.safeRender(s, forceClear); err != nil {
		r.log.Error("render failed", "error", err)
		return err
	}
	return s.Render(forceClear)
}

func (r *Runtime) safeRender(s matrix.Surface, forceClear bool) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("render panic: %v", v)
		}
	}()
	return r.p.Render(s, forceClear)
}
