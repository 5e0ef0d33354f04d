package matrix

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas implements the drawing half of Surface on top of any draw.Image
// whose Set clips out-of-bounds writes. Backends embed it and add Render
// and Close.
type Canvas struct {
	buf draw.Image
}

// NewCanvas wraps buf in a Canvas.
func NewCanvas(buf draw.Image) Canvas {
	return Canvas{buf: buf}
}

func (c *Canvas) Bounds() image.Rectangle {
	return c.buf.Bounds()
}

func (c *Canvas) DrawPixel(x, y int, col color.Color) {
	if !(image.Point{X: x, Y: y}).In(c.buf.Bounds()) {
		return
	}
	c.buf.Set(x, y, col)
}

func (c *Canvas) DrawText(x, y int, text string, col color.Color, face font.Face) {
	if face == nil {
		face = basicfont.Face7x13
	}
	d := font.Drawer{
		Dst:  c.buf,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func (c *Canvas) DrawImage(x, y int, src image.Image) {
	if src == nil {
		return
	}
	sb := src.Bounds()
	r := image.Rect(x, y, x+sb.Dx(), y+sb.Dy())
	draw.Draw(c.buf, r, src, sb.Min, draw.Over)
}

func (c *Canvas) Clear() {
	draw.Draw(c.buf, c.buf.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
}
