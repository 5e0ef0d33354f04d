// Command render-plugin renders a single plugin frame to a PNG without any
// hardware: it seeds the cache from a JSON file, runs one update/render pass
// against the visual backend at an optionally simulated wall-clock time and
// exports the buffer.
//
// Typical use while developing a plugin:
//
//	render-plugin --plugin scoreboard --config cfg.json \
//	    --mock-data scores.json --at 12:00 --scale 8 --grid -o frame.png
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/cache"
	"github.com/GridGlow/matrix/fonts"
	"github.com/GridGlow/matrix/logs"
	"github.com/GridGlow/matrix/plugin"
	"github.com/GridGlow/matrix/plugins/clock"
	"github.com/GridGlow/matrix/plugins/marquee"
	"github.com/GridGlow/matrix/plugins/scoreboard"
	"github.com/GridGlow/matrix/plugins/slideshow"
)

type options struct {
	plugin     string
	configFile string
	mockFile   string
	at         string
	width      int
	height     int
	fontsDir   string
	out        string
	scale      int
	grid       bool
	skipUpdate bool
	timeout    time.Duration
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "render-plugin",
		Short:         "Render one plugin frame to a PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.plugin, "plugin", "", "plugin type to render (required)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "JSON file with the plugin configuration")
	cmd.Flags().StringVar(&opts.mockFile, "mock-data", "", "JSON file with key/value pairs seeded into the cache")
	cmd.Flags().StringVar(&opts.at, "at", "", "simulated wall-clock time HH:MM (default: now)")
	cmd.Flags().IntVar(&opts.width, "width", 128, "surface width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 32, "surface height in pixels")
	cmd.Flags().StringVar(&opts.fontsDir, "fonts", "fonts", "font directory")
	cmd.Flags().StringVarP(&opts.out, "output", "o", "frame.png", "output PNG path")
	cmd.Flags().IntVar(&opts.scale, "scale", 1, "scale-up factor for the exported image")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw a pixel grid between scaled-up pixels")
	cmd.Flags().BoolVar(&opts.skipUpdate, "skip-update", false, "render from seeded cache only, do not run update")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "soft deadline for the update call")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "debug logging")
	_ = cmd.MarkFlagRequired("plugin")

	return cmd
}

func render(ctx context.Context, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := logs.New(logs.Options{Level: level})

	cfg := plugin.Config{}
	if opts.configFile != "" {
		if err := readJSON(opts.configFile, &cfg); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	store := cache.New()
	if opts.mockFile != "" {
		var seed map[string]any
		if err := readJSON(opts.mockFile, &seed); err != nil {
			return fmt.Errorf("mock data: %w", err)
		}
		store.Seed(seed)
	}

	now := time.Now
	if opts.at != "" {
		parsed, err := time.Parse("15:04", opts.at)
		if err != nil {
			return fmt.Errorf("invalid --at value %q, want HH:MM", opts.at)
		}
		t := time.Now()
		fixed := time.Date(t.Year(), t.Month(), t.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.Local)
		now = func() time.Time { return fixed }
	}

	env := plugin.Env{
		Cache: store,
		Fonts: fonts.NewLibrary(opts.fontsDir),
		Log:   log,
		Now:   now,
	}

	registry := builtins()
	p, err := registry.New(opts.plugin, env, cfg)
	if err != nil {
		return err
	}

	surface := matrix.NewVisual(opts.width, opts.height)
	rt := plugin.NewRuntime(opts.plugin, p, log)

	if opts.skipUpdate {
		// mark the runtime renderable without running the plugin's update
		rt = plugin.NewRuntime(opts.plugin, seededOnly{p}, log)
	}

	updateCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	if err := rt.Update(updateCtx); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := rt.Render(surface, true); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := surface.SnapshotFile(opts.out, opts.scale, opts.grid); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	color.Green("wrote %s (%dx%d, scale %d)", opts.out, opts.width, opts.height, opts.scale)
	return nil
}

// seededOnly wraps a plugin so its update is a no-op; rendering then relies
// entirely on seeded cache contents.
type seededOnly struct {
	plugin.Plugin
}

func (seededOnly) Update(ctx context.Context) error {
	return nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// builtins mirrors the daemon's registry.
func builtins() *plugin.Registry {
	r := plugin.NewRegistry()
	_ = r.Register("clock", clock.New)
	_ = r.Register("marquee", marquee.New)
	_ = r.Register("slideshow", slideshow.New)
	_ = r.Register("scoreboard", scoreboard.New)
	return r
}
