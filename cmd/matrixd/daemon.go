package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/cache"
	"github.com/GridGlow/matrix/fonts"
	"github.com/GridGlow/matrix/framebuffer"
	"github.com/GridGlow/matrix/plugin"
	"github.com/GridGlow/matrix/plugins/clock"
	"github.com/GridGlow/matrix/plugins/marquee"
	"github.com/GridGlow/matrix/plugins/scoreboard"
	"github.com/GridGlow/matrix/plugins/slideshow"
)

type daemonConfig struct {
	Verbose bool `mapstructure:"verbose"`
	Journal bool `mapstructure:"journal"`

	Display struct {
		Backend  string `mapstructure:"backend"`
		Width    int    `mapstructure:"width"`
		Height   int    `mapstructure:"height"`
		FBDevice string `mapstructure:"fb_device"`
		SPI      struct {
			Bus      int    `mapstructure:"bus"`
			Device   int    `mapstructure:"device"`
			SpeedHz  uint32 `mapstructure:"speed_hz"`
			ResetPin string `mapstructure:"reset_pin"`
			DCPin    string `mapstructure:"dc_pin"`
			CEPin    string `mapstructure:"ce_pin"`
		} `mapstructure:"spi"`
	} `mapstructure:"display"`

	Fonts struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"fonts"`

	FrameInterval time.Duration `mapstructure:"frame_interval"`
	Mode          string        `mapstructure:"mode"`

	Plugins []pluginConfig `mapstructure:"plugins"`
}

type pluginConfig struct {
	ID          string        `mapstructure:"id"`
	Type        string        `mapstructure:"type"`
	UpdateEvery time.Duration `mapstructure:"update_every"`
	ShowFor     time.Duration `mapstructure:"show_for"`
	Config      plugin.Config `mapstructure:"config"`
}

// builtins returns the registry of plugin types shipped with the daemon.
func builtins() *plugin.Registry {
	r := plugin.NewRegistry()
	_ = r.Register("clock", clock.New)
	_ = r.Register("marquee", marquee.New)
	_ = r.Register("slideshow", slideshow.New)
	_ = r.Register("scoreboard", scoreboard.New)
	return r
}

func run(ctx context.Context, cfg *daemonConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	surface, err := openSurface(cfg)
	if err != nil {
		return err
	}
	defer surface.Close()
	log.Info("surface ready", "backend", cfg.Display.Backend,
		"width", surface.Bounds().Dx(), "height", surface.Bounds().Dy())

	env := plugin.Env{
		Cache: cache.New(),
		Fonts: fonts.NewLibrary(cfg.Fonts.Dir),
		Log:   log,
	}
	registry := builtins()

	orch := plugin.NewOrchestrator(plugin.Options{
		Surface:       surface,
		Log:           log,
		FrameInterval: cfg.FrameInterval,
	})
	if cfg.Mode == "manual" {
		orch.SetMode(plugin.ModeManual)
	}

	if len(cfg.Plugins) == 0 {
		return fmt.Errorf("no plugins configured")
	}
	for _, pc := range cfg.Plugins {
		id := pc.ID
		if id == "" {
			id = pc.Type
		}
		p, err := registry.New(pc.Type, env, pc.Config)
		if err != nil {
			return fmt.Errorf("plugin %s: %w", id, err)
		}
		rt := plugin.NewRuntime(id, p, log)
		if err := orch.Add(rt, plugin.SlotConfig{
			ID:          id,
			UpdateEvery: pc.UpdateEvery,
			ShowFor:     pc.ShowFor,
		}); err != nil {
			return err
		}
		log.Info("plugin loaded", "id", id, "type", pc.Type)
	}

	err = orch.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}

// openSurface builds the configured display backend.
func openSurface(cfg *daemonConfig) (matrix.Surface, error) {
	switch cfg.Display.Backend {
	case "visual":
		return matrix.NewVisual(cfg.Display.Width, cfg.Display.Height), nil

	case "fb":
		return framebuffer.Open(cfg.Display.FBDevice)

	case "spi":
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host init: %w", err)
		}
		spi := cfg.Display.SPI
		sc := matrix.SPIConfig{
			Bus:     spi.Bus,
			Device:  spi.Device,
			SpeedHz: spi.SpeedHz,
			Reset:   gpioreg.ByName(spi.ResetPin),
			DC:      gpioreg.ByName(spi.DCPin),
		}
		if spi.CEPin != "" {
			sc.CE = gpioreg.ByName(spi.CEPin)
		}
		c, err := matrix.OpenSPI(&sc)
		if err != nil {
			return nil, err
		}
		return matrix.NewPanel(c, &matrix.Config{
			Width:  cfg.Display.Width,
			Height: cfg.Display.Height,
		})

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Display.Backend)
	}
}
