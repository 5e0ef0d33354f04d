package matrix

import (
	"bytes"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/GridGlow/matrix/conn"
	"github.com/GridGlow/matrix/pixel"
)

const (
	panelDefaultWidth  = 128
	panelDefaultHeight = 32
)

// Registers for Sitronix-style RGB panel controllers.
const (
	panelSWRESET  = 0x01
	panelSLPOUT   = 0x11 // Sleep Out
	panelINVON    = 0x21 // Display Inversion On
	panelDISPOFF  = 0x28 // Display Off
	panelDISPON   = 0x29 // Display On
	panelCASET    = 0x2A // Column Address Set
	panelRASET    = 0x2B // Row Address Set
	panelRAMWR    = 0x2C // Memory Write
	panelMADCTL   = 0x36 // Memory Data Access Control
	panelCOLMOD   = 0x3A // Interface Pixel Format
	panelPORCTRL  = 0xB2 // Porch Setting
	panelGCTRL    = 0xB7 // Gate Control
	panelVCOMS    = 0xBB // VCOM Setting
	panelLCMCTRL  = 0xC0 // LCM Control
	panelVDVVRHEN = 0xC2 // VDV and VRH Command Enable
	panelVRHS     = 0xC3 // VRH Set
	panelVDVSET   = 0xC4 // VDV Set
	panelVCMOFSET = 0xC5 // VCOM Offset Set
	panelFRCTR2   = 0xC6 // Frame Rate Control in Normal Mode
	panelPWCTRL1  = 0xD0 // Power Control 1
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                          byte = 1 << iota // D0: reserved
	_                                           // D1: reserved
	panelDisplayDataLatchOrder                  // D2: MH
	panelRGBOrder                               // D3: RGB
	panelLineAddressOrder                       // D4: ML
	panelPageColumnOrder                        // D5: MV
	panelColumnAddressOrder                     // D6: MX
	panelPageAddressOrder                       // D7: MY
)

// Panel is the hardware backend. Drawing mutates a buffered RGB565 frame;
// Render streams the frame to the panel controller over the connection,
// skipping the flush when nothing changed since the previous one.
type Panel struct {
	Canvas
	c         Conn
	fb        *pixel.CRGB16Image
	shadow    []byte // pixel data of the last flushed frame
	width     int
	height    int
	colOffset int
	rowOffset int
	rotation  Rotation
	closed    bool
}

// NewPanel initializes an RGB panel on the given connection.
func NewPanel(c Conn, config *Config) (*Panel, error) {
	if spi, ok := c.(SPI); ok {
		spi.SetDataLow(false)
		if err := spi.SetMode(conn.SPIMode3); err != nil {
			return nil, err
		}
		if err := spi.SetMaxSpeed(40000000); err != nil {
			return nil, err
		}
	}

	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = panelDefaultWidth
	}
	if config.Height == 0 {
		config.Height = panelDefaultHeight
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("matrix: invalid panel size %dx%d", config.Width, config.Height)
	}

	d := &Panel{
		c:      c,
		fb:     pixel.NewCRGB16Image(config.Width, config.Height),
		width:  config.Width,
		height: config.Height,
	}
	d.Canvas = NewCanvas(d.fb)

	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Panel) String() string {
	return fmt.Sprintf("panel %dx%d", d.width, d.height)
}

func (d *Panel) command(command byte, data ...byte) (err error) {
	if err = d.c.Command(command); err != nil {
		return
	}
	for _, data := range data {
		if err = d.c.Data(data); err != nil {
			return
		}
	}
	return
}

func (d *Panel) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *Panel) init(config *Config) (err error) {
	// reset the device.
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}

	// init display
	time.Sleep(10 * time.Millisecond)
	if err = d.command(panelSLPOUT); err != nil { // Sleep Out
		return
	}
	time.Sleep(150 * time.Millisecond)

	if err = d.commands([][]byte{
		{panelMADCTL, 0x00},        // Memory Data Access Control
		{panelCOLMOD, 0x05},        // Interface Pixel Format: 16-bit/pixel (RGB 5-6-5-bit input)
		{panelPORCTRL, 0x0C, 0x0C}, // Porch Setting: default
		{panelGCTRL, 0x35},         // Gate Control: default
		{panelVCOMS, 0x1A},         // VCOM Setting: 0.75V
		{panelLCMCTRL, 0x2C},       // LCM Control: default
		{panelVDVVRHEN, 0x01},      // VDV and VRH Command Enable: default
		{panelVRHS, 0x0B},          // VRH Set: default
		{panelVDVSET, 0x20},        // VDV Set: default (0V)
		{panelVCMOFSET, 0x20},      // VCOM Offset Set: default (0V)
		{panelFRCTR2, 0x0F},        // Frame Rate Control in Normal Mode: 60Hz
		{panelPWCTRL1, 0xA4, 0xA1}, // Power Control 1: default
		{panelINVON},               // Display Inversion On
		{panelDISPON},              // Display On
	}); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)

	return d.SetRotation(config.Rotation)
}

// Show toggles the display on or off.
func (d *Panel) Show(show bool) error {
	var command = byte(panelDISPOFF)
	if show {
		command = byte(panelDISPON)
	}
	return d.command(command)
}

// SetRotation adjusts the pixel rotation.
func (d *Panel) SetRotation(rotation Rotation) error {
	rotation &= 3

	var madctl byte
	switch rotation {
	case NoRotation:
		madctl = 0
	case Rotate90:
		madctl = panelColumnAddressOrder | panelPageColumnOrder
	case Rotate180:
		madctl = panelColumnAddressOrder | panelPageAddressOrder
	case Rotate270:
		madctl = panelPageAddressOrder | panelPageColumnOrder
	}

	d.rotation = rotation
	return d.command(panelMADCTL, madctl)
}

func (d *Panel) setWindow(x0, y0, x1, y1 int) error {
	if x1 == 0 {
		x1 = d.width - 1
	}
	if y1 == 0 {
		y1 = d.height - 1
	}
	if d.rotation == Rotate90 || d.rotation == Rotate270 {
		x0 += d.rowOffset
		y0 += d.colOffset
		x1 += d.rowOffset
		y1 += d.colOffset
	} else {
		x0 += d.colOffset
		y0 += d.rowOffset
		x1 += d.colOffset
		y1 += d.rowOffset
	}
	return d.commands([][]byte{
		{panelCASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{panelRASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{panelRAMWR}, // Write to RAM
	})
}

// Render flushes the frame buffer to the panel. Without forceClear an
// unchanged frame is not flushed again, which avoids flicker on slow buses.
func (d *Panel) Render(forceClear bool) error {
	if d.closed {
		return ErrClosed
	}
	if !forceClear && d.shadow != nil && bytes.Equal(d.shadow, d.fb.Pix) {
		return nil
	}

	if err := d.setWindow(0, 0, 0, 0); err != nil {
		return err
	}
	const batchSize = 4096

	pix := d.fb.Pix
	for i, l := 0, len(pix); i < l; i += batchSize {
		j := i + batchSize
		if j > l {
			j = l
		}
		if err := d.c.Data(pix[i:j]...); err != nil {
			return err
		}
	}

	if d.shadow == nil {
		d.shadow = make([]byte, len(pix))
	}
	copy(d.shadow, pix)
	return nil
}

// Close turns the panel off and closes the connection.
func (d *Panel) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// Interface check.
var _ Surface = (*Panel)(nil)
