// Package clock renders the local time.
package clock

import (
	"context"
	"image/color"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/plugin"
)

type config struct {
	Format string  `mapstructure:"format"` // "24h" or "12h"
	Font   string  `mapstructure:"font"`
	Size   float64 `mapstructure:"size"`
	Color  []int   `mapstructure:"color"` // [r, g, b]
}

// Clock shows the current wall-clock time, refreshed on every update cycle.
type Clock struct {
	env    plugin.Env
	layout string
	font   string
	size   float64
	color  color.RGBA

	text string
}

// New is the factory registered under "clock".
func New(env plugin.Env, cfg plugin.Config) (plugin.Plugin, error) {
	var c config
	if err := cfg.Decode(&c); err != nil {
		return nil, &plugin.ConfigError{Plugin: "clock", Err: err}
	}

	layout := "15:04"
	switch c.Format {
	case "", "24h":
	case "12h":
		layout = "3:04 PM"
	default:
		return nil, plugin.Configf("clock", "format", "must be 12h or 24h, got %q", c.Format)
	}

	col := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if len(c.Color) == 3 {
		col = color.RGBA{R: uint8(c.Color[0]), G: uint8(c.Color[1]), B: uint8(c.Color[2]), A: 0xff}
	}
	if c.Size <= 0 {
		c.Size = 13
	}

	return &Clock{
		env:    env,
		layout: layout,
		font:   c.Font,
		size:   c.Size,
		color:  col,
	}, nil
}

func (c *Clock) Update(ctx context.Context) error {
	c.text = c.env.Clock().Format(c.layout)
	return nil
}

func (c *Clock) Render(s matrix.Surface, forceClear bool) error {
	if !forceClear {
		// the time string changes in place, repaint the whole frame
		s.Clear()
	}
	c.env.Logger().Debug("clock render", "text", c.text)
	s.DrawText(2, 2, c.text, c.color, c.env.Face(c.font, c.size))
	return nil
}

var _ plugin.Plugin = (*Clock)(nil)
