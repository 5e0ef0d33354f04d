package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"os"
	"syscall"
	"unsafe"

	"github.com/GridGlow/matrix"
	"github.com/GridGlow/matrix/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type pixelFormat int

const (
	formatRGB565 pixelFormat = iota
	formatBGR565
	formatRGBA32
)

// Device is a matrix surface backed by a Linux framebuffer (fbdev). Drawing
// goes to an off-screen RGBA buffer; Render converts and copies the buffer
// into the mapped screen memory in the device's pixel format.
type Device struct {
	matrix.Canvas
	buf    *image.RGBA
	f      *os.File
	fd     uintptr
	mem    []byte
	stride int
	format pixelFormat
	closed bool
}

// Open a Linux framebuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (matrix.Surface, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	d := &Device{
		f:  f,
		fd: f.Fd(),
	}

	var info fixScreenInfo
	if err = d.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&info)); err != nil {
		_ = f.Close()
		return nil, err
	}

	var screen varScreenInfo
	if err = d.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&screen)); err != nil {
		_ = f.Close()
		return nil, err
	}
	if d.format, err = parsePixelFormat(&screen); err != nil {
		_ = f.Close()
		return nil, err
	}

	if d.mem, err = syscall.Mmap(int(d.fd), 0, int(info.SmemLen), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}

	d.stride = int(info.LineLength)
	d.buf = image.NewRGBA(image.Rect(0, 0, int(screen.Xres), int(screen.Yres)))
	d.Canvas = matrix.NewCanvas(d.buf)
	return d, nil
}

// Render copies the off-screen buffer into the mapped screen memory.
func (d *Device) Render(forceClear bool) error {
	if d.closed {
		return matrix.ErrClosed
	}

	b := d.buf.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := d.mem[y*d.stride:]
		for x := 0; x < b.Dx(); x++ {
			c := d.buf.RGBAAt(x, y)
			switch d.format {
			case formatRGB565:
				v := pixel.CRGB16Model.Convert(c).(pixel.CRGB16).V
				row[x*2] = byte(v)
				row[x*2+1] = byte(v >> 8)
			case formatBGR565:
				v := uint16(c.B&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.R)>>3
				row[x*2] = byte(v)
				row[x*2+1] = byte(v >> 8)
			case formatRGBA32:
				row[x*4] = c.R
				row[x*4+1] = c.G
				row[x*4+2] = c.B
				row[x*4+3] = c.A
			}
		}
	}
	return nil
}

// Close unmaps the screen memory and closes the device.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := syscall.Munmap(d.mem); err != nil {
		_ = d.f.Close()
		return err
	}
	return d.f.Close()
}

func (d *Device) String() string {
	b := d.buf.Bounds()
	return fmt.Sprintf("framebuffer %s %dx%d", d.f.Name(), b.Dx(), b.Dy())
}

func (d *Device) ioctl(cmd uintptr, arg unsafe.Pointer) (err error) {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, d.fd, cmd, uintptr(arg)); errno != 0 {
		return &os.SyscallError{
			Syscall: "SYS_IOCTL",
			Err:     errno,
		}
	}
	return nil
}

type fixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Reserved   [3]uint16 // Reserved for future compatibility
}

// bitField for one color component.
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// varScreenInfo contains device independent changeable information about a
// frame buffer device and a specific video mode.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func parsePixelFormat(info *varScreenInfo) (pixelFormat, error) {
	if info == nil {
		return 0, errors.New("framebuffer: invalid screen info")
	}

	switch info.BitsPerPixel {
	case 16:
		switch {
		case info.Blue.Offset == 0 &&
			info.Blue.Length == 5 &&
			info.Green.Offset == 5 &&
			info.Green.Length == 6 &&
			info.Red.Offset == 11 &&
			info.Red.Length == 5 &&
			info.Alpha.Length == 0:
			return formatRGB565, nil

		case info.Red.Offset == 0 &&
			info.Red.Length == 5 &&
			info.Green.Offset == 5 &&
			info.Green.Length == 6 &&
			info.Blue.Offset == 11 &&
			info.Blue.Length == 5 &&
			info.Alpha.Length == 0:
			return formatBGR565, nil
		}

	case 32:
		if info.Red.Offset == 0 &&
			info.Red.Length == 8 &&
			info.Green.Offset == 8 &&
			info.Green.Length == 8 &&
			info.Blue.Offset == 16 &&
			info.Blue.Length == 8 {
			return formatRGBA32, nil
		}
	}

	return 0, errors.New("framebuffer: unsupported color model")
}

// Interface check.
var _ matrix.Surface = (*Device)(nil)
