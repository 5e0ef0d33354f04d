package matrix

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/GridGlow/matrix/draw"
)

// Visual is the rasterizing backend used for headless preview and visual
// regression tests. Drawing happens on a real RGBA image, including font
// rendering; there is no hardware sink, Render only marks the frame as
// presented. Snapshot exports the buffer to PNG, optionally scaled up with a
// pixel grid overlay. The scale and grid apply at export time only and never
// affect the logical buffer.
type Visual struct {
	Canvas
	img    *image.RGBA
	frames int
}

// NewVisual returns a rasterizing surface with the given dimensions.
func NewVisual(width, height int) *Visual {
	v := &Visual{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	v.Canvas = NewCanvas(v.img)
	return v
}

func (v *Visual) String() string {
	b := v.img.Bounds()
	return fmt.Sprintf("visual %dx%d", b.Dx(), b.Dy())
}

func (v *Visual) Render(forceClear bool) error {
	v.frames++
	return nil
}

func (v *Visual) Close() error {
	return nil
}

// Frames returns the number of Render calls.
func (v *Visual) Frames() int {
	return v.frames
}

// Image returns the backing buffer. The caller must not retain it across
// draw calls.
func (v *Visual) Image() *image.RGBA {
	return v.img
}

// gridColor separates logical pixels in scaled-up snapshots.
var gridColor = color.RGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff}

// Snapshot writes the buffer as PNG. A scale greater than 1 enlarges each
// logical pixel to a scale×scale block; with grid, 1px separator lines are
// drawn between blocks for human inspection.
func (v *Visual) Snapshot(w io.Writer, scale int, grid bool) error {
	if scale < 1 {
		scale = 1
	}

	out := v.img
	if scale > 1 || grid {
		b := v.img.Bounds()
		out = image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := v.img.RGBAAt(b.Min.X+x, b.Min.Y+y)
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						out.SetRGBA(x*scale+dx, y*scale+dy, c)
					}
				}
			}
		}
		if grid && scale > 1 {
			ob := out.Bounds()
			for x := 0; x < ob.Dx(); x += scale {
				draw.VerticalLine(out, x, 0, ob.Dy(), gridColor)
			}
			for y := 0; y < ob.Dy(); y += scale {
				draw.HorizontalLine(out, 0, y, ob.Dx(), gridColor)
			}
		}
	}

	return png.Encode(w, out)
}

// SnapshotFile writes the buffer as PNG to the named file.
func (v *Visual) SnapshotFile(name string, scale int, grid bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = v.Snapshot(f, scale, grid); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Interface check.
var _ Surface = (*Visual)(nil)
