// Package plugin runs content producers against a matrix surface.
//
// A plugin is anything with an Update/Render lifecycle: Update may be slow
// (network calls, deriving content, filtering items through their schedules)
// and stages its results in the cache or plugin-local state; Render must be
// fast and draw only. The Runtime wraps one plugin instance and absorbs its
// failures; the Orchestrator owns a set of runtimes and drives them on a
// cadence or on demand.
package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/image/font"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/cache"
	"github.com/GridGlow/matrix/fonts"
	"github.com/GridGlow/matrix/logs"
)

// Plugin produces content for the display.
//
// Update and Render are never called concurrently for the same instance;
// distinct instances are independent. Render must not perform network I/O
// and draws onto the surface it is handed without flushing it.
type Plugin interface {
	Update(ctx context.Context) error
	Render(s matrix.Surface, forceClear bool) error
}

// Env is everything a plugin may depend on, handed to its factory at
// construction time.
type Env struct {
	Cache *cache.Store
	Fonts *fonts.Library
	Log   *slog.Logger
	// Now is the clock used for schedule evaluation and timestamps. Nil
	// means the wall clock; one-shot render tooling injects simulated times
	// here.
	Now func() time.Time
}

// Clock returns the current time per the environment's clock.
func (e Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Logger returns the environment's logger, never nil.
func (e Env) Logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logs.Discard()
}

// Face resolves a font through the environment's library, degrading to the
// builtin fallback face when no library is attached.
func (e Env) Face(name string, size float64) font.Face {
	if e.Fonts == nil {
		return fonts.Fallback()
	}
	return e.Fonts.Face(name, size)
}

// Factory builds a plugin instance from its configuration. Configuration
// problems are reported as *ConfigError and prevent instantiation.
type Factory func(env Env, cfg Config) (Plugin, error)

// Registry maps plugin type names to factories. It is built once at startup
// and passed to whoever instantiates plugins; there is no process-global
// registry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("plugin: %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New instantiates the named plugin type.
func (r *Registry) New(name string, env Env, cfg Config) (Plugin, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigError{Plugin: name, Reason: "unknown plugin type"}
	}
	return f(env, cfg)
}

// Names returns the registered plugin type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
