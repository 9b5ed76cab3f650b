package display

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const lineHeight = 13

// OLED draws text on an SSD1306 panel using a 7x13 font. Blank lines are
// skipped and lines that do not fit are clipped.
// periph.io/x/host must be initialised before OpenOLED.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// OpenOLED opens the named I2C bus and initialises a 128x64 panel.
func OpenOLED(bus string) (*OLED, error) {
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", bus, err)
	}
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}
	return &OLED{bus: b, dev: dev}, nil
}

// Show draws text.
func (o *OLED) Show(text string) error {
	img := Rasterize(o.dev.Bounds(), text)
	if err := o.dev.Draw(img.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	o.dev.Halt()
	return o.bus.Close()
}

// Rasterize draws the non-empty lines of text into a 1-bit image.
func Rasterize(bounds image.Rectangle, text string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
	}
	y := lineHeight - 2
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if y > bounds.Dy() {
			break
		}
		d.Dot = fixed.P(0, y)
		d.DrawString(line)
		y += lineHeight
	}
	return img
}
