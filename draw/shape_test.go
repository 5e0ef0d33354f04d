package draw

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ink = color.RGBA{R: 0xff, A: 0xff}

func isInk(img *image.RGBA, x, y int) bool {
	return img.RGBAAt(x, y) == ink
}

func TestLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	Line(img, image.Pt(0, 0), image.Pt(7, 7), ink)
	for i := 0; i < 8; i++ {
		assert.True(t, isInk(img, i, i), "diagonal pixel (%d,%d)", i, i)
	}
}

func TestHorizontalAndVerticalLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	HorizontalLine(img, 1, 2, 5, ink)
	VerticalLine(img, 6, 3, 4, ink)

	for x := 1; x < 6; x++ {
		assert.True(t, isInk(img, x, 2), "horizontal pixel (%d,2)", x)
	}
	assert.False(t, isInk(img, 6, 2))
	for y := 3; y < 7; y++ {
		assert.True(t, isInk(img, 6, y), "vertical pixel (6,%d)", y)
	}
}

func TestRectangleOutline(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	Rectangle(img, image.Rect(1, 1, 6, 5), ink)

	// edges
	for x := 1; x < 6; x++ {
		assert.True(t, isInk(img, x, 1), "top (%d,1)", x)
		assert.True(t, isInk(img, x, 4), "bottom (%d,4)", x)
	}
	for y := 1; y < 5; y++ {
		assert.True(t, isInk(img, 1, y), "left (1,%d)", y)
		assert.True(t, isInk(img, 5, y), "right (5,%d)", y)
	}
	// interior stays empty
	assert.False(t, isInk(img, 3, 2))
	assert.False(t, isInk(img, 3, 3))
}

func TestBoxFills(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	Box(img, image.Rect(2, 2, 6, 6), ink)

	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			assert.True(t, isInk(img, x, y), "fill (%d,%d)", x, y)
		}
	}
	assert.False(t, isInk(img, 1, 2))
	assert.False(t, isInk(img, 6, 5))
}
