// Package marquee scrolls a line of text across the display.
package marquee

import (
	"context"
	"image/color"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/fonts"
	"github.com/GridGlow/matrix/plugin"
	"github.com/GridGlow/matrix/scroll"
)

// cacheKey is where an external feed may stage replacement text; the
// configured text is the fallback.
const cacheKey = "marquee.text"

type config struct {
	Text  string  `mapstructure:"text"`
	Font  string  `mapstructure:"font"`
	Size  float64 `mapstructure:"size"`
	Speed int     `mapstructure:"speed"`
	Color []int   `mapstructure:"color"`
}

// Marquee renders one scrolling text line. Update measures the text and
// rebuilds the ticker when it changed; Render draws at the ticker's current
// offset and advances one frame.
type Marquee struct {
	env   plugin.Env
	cfg   config
	color color.RGBA

	text   string
	ticker *scroll.Ticker
	width  int
}

// New is the factory registered under "marquee".
func New(env plugin.Env, cfg plugin.Config) (plugin.Plugin, error) {
	var c config
	if err := cfg.Decode(&c); err != nil {
		return nil, &plugin.ConfigError{Plugin: "marquee", Err: err}
	}
	if c.Text == "" {
		return nil, plugin.Configf("marquee", "text", "required")
	}
	if c.Size <= 0 {
		c.Size = 13
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}

	col := color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	if len(c.Color) == 3 {
		col = color.RGBA{R: uint8(c.Color[0]), G: uint8(c.Color[1]), B: uint8(c.Color[2]), A: 0xff}
	}

	return &Marquee{env: env, cfg: c, color: col}, nil
}

func (m *Marquee) Update(ctx context.Context) error {
	text := m.cfg.Text
	if m.env.Cache != nil {
		if v, ok := m.env.Cache.Get(cacheKey); ok {
			if s, ok := v.(string); ok && s != "" {
				text = s
			}
		}
	}
	if text != m.text {
		m.text = text
		m.ticker = nil // remeasure on the next frame
	}
	return nil
}

func (m *Marquee) Render(s matrix.Surface, forceClear bool) error {
	bounds := s.Bounds()
	face := m.env.Face(m.cfg.Font, m.cfg.Size)

	if m.ticker == nil || m.width != bounds.Dx() {
		m.width = bounds.Dx()
		m.ticker = scroll.NewTicker(m.width, fonts.Measure(face, m.text))
		m.ticker.SetStep(m.cfg.Speed)
	}

	if !forceClear {
		s.Clear()
	}
	y := (bounds.Dy() - fonts.Height(face)) / 2
	if y < 0 {
		y = 0
	}
	s.DrawText(m.ticker.X(), y, m.text, m.color, face)
	m.ticker.Advance()
	return nil
}

var _ plugin.Plugin = (*Marquee)(nil)
