// Package slideshow cycles through scheduled content items. Each item
// carries an image payload and an optional visibility window; update filters
// the list through the schedules and stages decoded images in the cache,
// render draws the active visible item.
package slideshow

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/plugin"
)

type config struct {
	Items []plugin.Item `mapstructure:"items"`
}

// Slideshow renders one visible item per pass, advancing on every update.
type Slideshow struct {
	env   plugin.Env
	items []plugin.Item

	visible []plugin.Item
	pos     int
}

// New is the factory registered under "slideshow".
func New(env plugin.Env, cfg plugin.Config) (plugin.Plugin, error) {
	var c config
	if err := cfg.Decode(&c); err != nil {
		return nil, &plugin.ConfigError{Plugin: "slideshow", Err: err}
	}
	if len(c.Items) == 0 {
		return nil, plugin.Configf("slideshow", "items", "at least one item required")
	}
	seen := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.ID == "" {
			return nil, plugin.Configf("slideshow", "items", "item without id")
		}
		if seen[it.ID] {
			return nil, plugin.Configf("slideshow", "items", "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return &Slideshow{env: env, items: c.Items}, nil
}

// cacheKey holds the decoded image for one item.
func cacheKey(id string) string {
	return "slideshow." + id
}

// Update filters items through their schedules and decodes any visible
// image not yet staged in the cache. Decoding happens here so Render never
// touches the filesystem.
func (s *Slideshow) Update(ctx context.Context) error {
	now := s.env.Clock()
	s.visible = plugin.VisibleItems(s.items, now)
	if len(s.visible) == 0 {
		s.pos = 0
		return nil
	}
	s.pos = (s.pos + 1) % len(s.visible)

	for _, it := range s.visible {
		if s.env.Cache.Has(cacheKey(it.ID)) {
			continue
		}
		img, err := load(it.Payload)
		if err != nil {
			return fmt.Errorf("slideshow: item %s: %w", it.ID, err)
		}
		s.env.Cache.Set(cacheKey(it.ID), img)
	}
	return nil
}

// load resolves an item payload into an image. Payloads are either a file
// path or a pre-decoded image (the test/dev seeding path).
func load(payload any) (image.Image, error) {
	switch v := payload.(type) {
	case image.Image:
		return v, nil
	case string:
		f, err := os.Open(v)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return png.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported payload %T", payload)
	}
}

// Render draws the active visible item, or leaves the frame blank when
// nothing is scheduled right now.
func (s *Slideshow) Render(surf matrix.Surface, forceClear bool) error {
	if !forceClear {
		surf.Clear()
	}
	if len(s.visible) == 0 {
		return nil
	}

	it := s.visible[s.pos%len(s.visible)]
	v, ok := s.env.Cache.Get(cacheKey(it.ID))
	if !ok {
		return fmt.Errorf("slideshow: item %s not staged", it.ID)
	}
	img, ok := v.(image.Image)
	if !ok {
		return fmt.Errorf("slideshow: item %s: unexpected cache entry %T", it.ID, v)
	}

	// center the image on the surface
	b := surf.Bounds()
	ib := img.Bounds()
	x := (b.Dx() - ib.Dx()) / 2
	y := (b.Dy() - ib.Dy()) / 2
	surf.DrawImage(x, y, img)
	return nil
}

var _ plugin.Plugin = (*Slideshow)(nil)
