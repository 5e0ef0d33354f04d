// Package matrix drives small pixel matrix displays through hot-swappable
// content plugins. The root package contains the display surface abstraction
// and its backends; plugin lifecycle lives in the plugin package.
package matrix

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// Errors
var (
	ErrClosed = errors.New("matrix: surface is closed")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Surface is an addressable pixel buffer with drawing primitives. All draw
// calls mutate an in-memory buffer; Render is the only operation that may
// flush to the backend sink. Coordinates outside the bounds are silently
// discarded, a draw call never faults.
type Surface interface {
	// Bounds is the surface bounding box (dimensions).
	Bounds() image.Rectangle

	// DrawPixel sets the pixel color at (x, y).
	DrawPixel(x, y int, c color.Color)

	// DrawText draws text with its top-left corner at (x, y). A nil face
	// selects the fallback face.
	DrawText(x, y int, text string, c color.Color, face font.Face)

	// DrawImage draws src with its top-left corner at (x, y).
	DrawImage(x, y int, src image.Image)

	// Clear resets the buffer to black.
	Clear()

	// Render flushes the buffer to the backend sink. With forceClear the
	// whole frame is pushed from scratch, otherwise the backend may diff
	// against the previously flushed frame.
	Render(forceClear bool) error

	// Close the surface and its backend.
	Close() error
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation
}
