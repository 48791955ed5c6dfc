package display

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	pdisplay "periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// OLED prints the effect name on a monochrome SSD1306 panel.
type OLED struct {
	mu  sync.Mutex
	dev pdisplay.Drawer
	bus i2c.BusCloser
}

// OpenOLED opens the I2C bus (empty name picks the first one) and the panel
// on it. host.Init must have run.
func OpenOLED(busName string) (*OLED, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("i2c open %q: %w", busName, err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return &OLED{dev: dev, bus: bus}, nil
}

func (o *OLED) ShowEffectName(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	img := Text(o.dev.Bounds(), name)
	return o.dev.Draw(img.Bounds(), img, image.Point{})
}

func (o *OLED) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	err := o.dev.Halt()
	if o.bus != nil {
		if cerr := o.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Text renders s on a cleared 1-bit image the size of bounds.
func Text(bounds image.Rectangle, s string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: face,
		Dot:  fixed.P(4, face.Ascent+4),
	}
	d.DrawString(s)
	return img
}
