package matrix

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func TestDrawPixelClipsOutOfBounds(t *testing.T) {
	v := NewVisual(8, 4)

	// fully out of range in every direction
	for _, p := range []image.Point{
		{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 8, Y: 0}, {X: 0, Y: 4},
		{X: -100, Y: -100}, {X: 1000, Y: 1000},
	} {
		v.DrawPixel(p.X, p.Y, red)
	}

	b := v.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := v.Image().RGBAAt(x, y)
			assert.Zero(t, c.R|c.G|c.B, "pixel (%d,%d) written by out-of-bounds draw", x, y)
		}
	}

	// corner writes land exactly where asked, neighbors untouched
	v.DrawPixel(0, 0, red)
	v.DrawPixel(7, 3, red)
	assert.Equal(t, red, v.Image().RGBAAt(0, 0))
	assert.Equal(t, red, v.Image().RGBAAt(7, 3))
	assert.Zero(t, v.Image().RGBAAt(1, 0).R)
	assert.Zero(t, v.Image().RGBAAt(6, 3).R)
}

func TestDrawImageClips(t *testing.T) {
	v := NewVisual(8, 4)

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	// hangs off the bottom-right corner; only the overlap is written
	v.DrawImage(6, 2, src)
	assert.Equal(t, red, v.Image().RGBAAt(6, 2))
	assert.Equal(t, red, v.Image().RGBAAt(7, 3))
	assert.Zero(t, v.Image().RGBAAt(5, 2).R)

	// entirely outside is a no-op
	v2 := NewVisual(8, 4)
	v2.DrawImage(100, 100, src)
	v2.DrawImage(-100, -100, src)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			assert.Zero(t, v2.Image().RGBAAt(x, y).R)
		}
	}
}

func TestClearResetsBuffer(t *testing.T) {
	v := NewVisual(8, 4)
	v.DrawPixel(3, 2, red)
	require.Equal(t, red, v.Image().RGBAAt(3, 2))

	v.Clear()
	c := v.Image().RGBAAt(3, 2)
	assert.Zero(t, c.R|c.G|c.B)
}

func TestDrawTextRasterizes(t *testing.T) {
	v := NewVisual(64, 16)
	// nil face selects the fallback
	v.DrawText(0, 0, "HI", white, nil)

	lit := 0
	b := v.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := v.Image().RGBAAt(x, y)
			if c.R|c.G|c.B != 0 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 5, "text should produce glyph pixels")
}

func TestRotationString(t *testing.T) {
	assert.Equal(t, "0°", NoRotation.String())
	assert.Equal(t, "90°", Rotate90.String())
	assert.Equal(t, "180°", Rotate180.String())
	assert.Equal(t, "270°", Rotate270.String())
}
