package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/logs"
)

// Mode selects how the orchestrator drives plugin lifecycles.
type Mode int

const (
	// ModeAuto updates and rotates plugins on their configured cadence.
	ModeAuto Mode = iota
	// ModeManual drives lifecycles only through explicit trigger calls.
	// Used for slow plugins during interactive development.
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const (
	defaultUpdateEvery   = 30 * time.Second
	defaultShowFor       = 10 * time.Second
	defaultFrameInterval = 100 * time.Millisecond
)

// SlotConfig describes one plugin's place in the rotation.
type SlotConfig struct {
	// ID identifies the slot; unique across the orchestrator.
	ID string
	// UpdateEvery is the cadence of background updates in auto mode.
	UpdateEvery time.Duration
	// ShowFor is how long the slot stays active before rotation moves on.
	ShowFor time.Duration
}

type slot struct {
	cfg        SlotConfig
	rt         *Runtime
	updating   bool
	lastUpdate time.Time
}

// Options configure an orchestrator.
type Options struct {
	Surface matrix.Surface
	Log     *slog.Logger
	// Now is the clock for cadence decisions; nil means the wall clock.
	Now func() time.Time
	// FrameInterval is the frame loop period. Zero means 100ms.
	FrameInterval time.Duration
}

// Orchestrator owns a set of plugin runtimes and drives their lifecycle.
//
// Updates that perform I/O run on worker goroutines and stage their results
// in the cache or plugin state; the frame loop is the only goroutine that
// touches the surface, so a slow fetch never stalls a frame and the buffer
// needs no locking of its own. A render always sees the state of the most
// recently completed update, never a half-written one.
type Orchestrator struct {
	surface    matrix.Surface
	log        *slog.Logger
	now        func() time.Time
	frameEvery time.Duration

	mu         sync.Mutex
	mode       Mode
	slots      []*slot
	active     int
	shownSince time.Time
	forceClear bool

	// renderMu serializes surface access between the frame loop and manual
	// render triggers.
	renderMu sync.Mutex
	wg       sync.WaitGroup
}

// NewOrchestrator returns an orchestrator in auto mode with no slots.
func NewOrchestrator(opts Options) *Orchestrator {
	if opts.Log == nil {
		opts.Log = logs.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	return &Orchestrator{
		surface:    opts.Surface,
		log:        opts.Log,
		now:        opts.Now,
		frameEvery: opts.FrameInterval,
	}
}

// Add appends a runtime to the rotation.
func (o *Orchestrator) Add(rt *Runtime, cfg SlotConfig) error {
	if cfg.ID == "" {
		cfg.ID = rt.ID()
	}
	if cfg.UpdateEvery <= 0 {
		cfg.UpdateEvery = defaultUpdateEvery
	}
	if cfg.ShowFor <= 0 {
		cfg.ShowFor = defaultShowFor
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range o.slots {
		if s.cfg.ID == cfg.ID {
			return fmt.Errorf("plugin: slot %q already present", cfg.ID)
		}
	}
	o.slots = append(o.slots, &slot{cfg: cfg, rt: rt})
	return nil
}

// Mode returns the current operating mode.
func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// SetMode switches between auto and manual operation. In-flight updates are
// abandoned: whatever they produce when they finish is discarded instead of
// applied, so the switch never publishes half-relevant state.
func (o *Orchestrator) SetMode(m Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mode == m {
		return
	}
	o.log.Info("mode change", "from", o.mode.String(), "to", m.String())
	o.mode = m
	o.shownSince = time.Time{}
	for _, s := range o.slots {
		s.rt.Invalidate()
	}
}

// Run drives the frame loop until ctx is cancelled. In auto mode each tick
// rotates the active slot when its display time is up, dispatches due
// updates to workers, and renders the active slot; in manual mode ticks are
// idle and trigger calls do the work. Returns ctx.Err after all workers have
// drained.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.frameEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

// tick advances rotation, dispatches due updates and renders one frame.
func (o *Orchestrator) tick(ctx context.Context) {
	o.mu.Lock()
	if o.mode != ModeAuto || len(o.slots) == 0 {
		o.mu.Unlock()
		return
	}

	now := o.now()
	if o.shownSince.IsZero() {
		o.shownSince = now
		o.forceClear = true
	}
	active := o.slots[o.active]
	if now.Sub(o.shownSince) >= active.cfg.ShowFor && len(o.slots) > 1 {
		o.active = (o.active + 1) % len(o.slots)
		active = o.slots[o.active]
		o.shownSince = now
		o.forceClear = true
		o.log.Debug("rotated", "slot", active.cfg.ID)
	}

	for _, s := range o.slots {
		if s.updating {
			continue
		}
		if !s.lastUpdate.IsZero() && now.Sub(s.lastUpdate) < s.cfg.UpdateEvery {
			continue
		}
		s.updating = true
		o.wg.Add(1)
		go o.runUpdate(ctx, s)
	}

	// Renders and updates are serialized per instance: a slot whose update
	// is still running keeps its previous frame on screen.
	if active.updating {
		o.mu.Unlock()
		return
	}
	rt := active.rt
	force := o.forceClear
	if rt.Ready() {
		o.forceClear = false
	}
	o.mu.Unlock()

	o.renderMu.Lock()
	defer o.renderMu.Unlock()
	_ = rt.Render(o.surface, force)
}

func (o *Orchestrator) runUpdate(ctx context.Context, s *slot) {
	defer o.wg.Done()
	err := s.rt.Update(ctx)
	o.mu.Lock()
	s.updating = false
	s.lastUpdate = o.now()
	o.mu.Unlock()
	// failures and discards were already logged by the runtime
	_ = err
}

// TriggerUpdate runs one update for the named slot on the caller's
// goroutine. A soft deadline on ctx bounds the wait for slow plugins.
func (o *Orchestrator) TriggerUpdate(ctx context.Context, id string) error {
	o.mu.Lock()
	s := o.find(id)
	if s == nil {
		o.mu.Unlock()
		return fmt.Errorf("plugin: no slot %q", id)
	}
	if s.updating {
		o.mu.Unlock()
		return fmt.Errorf("plugin: slot %q update already in progress", id)
	}
	s.updating = true
	o.mu.Unlock()

	err := s.rt.Update(ctx)

	o.mu.Lock()
	s.updating = false
	s.lastUpdate = o.now()
	o.mu.Unlock()
	return err
}

// TriggerRender renders the named slot immediately. A slot whose update is
// in flight is rejected rather than raced or waited on; renders and updates
// stay serialized per instance.
func (o *Orchestrator) TriggerRender(id string, forceClear bool) error {
	o.mu.Lock()
	s := o.find(id)
	if s == nil {
		o.mu.Unlock()
		return fmt.Errorf("plugin: no slot %q", id)
	}
	if s.updating {
		o.mu.Unlock()
		return fmt.Errorf("plugin: slot %q update in progress", id)
	}
	o.mu.Unlock()

	o.renderMu.Lock()
	defer o.renderMu.Unlock()
	return s.rt.Render(o.surface, forceClear)
}

// RunOnce performs one update followed by one full repaint of the named
// slot. One-shot render tooling uses this.
func (o *Orchestrator) RunOnce(ctx context.Context, id string) error {
	if err := o.TriggerUpdate(ctx, id); err != nil {
		return err
	}
	return o.TriggerRender(id, true)
}

// find returns the slot with the given id. Caller holds o.mu.
func (o *Orchestrator) find(id string) *slot {
	for _, s := range o.slots {
		if s.cfg.ID == id {
			return s
		}
	}
	return nil
}
