package led

import (
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

// Console prints the strip as a row of colored cells on an ANSI terminal.
// Brightness is not applied so dim settings stay readable.
type Console struct {
	mu   sync.Mutex
	dev  display.Drawer
	img  *image.NRGBA
	opts Options
}

func NewConsole(o Options) (*Console, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return newConsole(screen.New(o.Pixels), o), nil
}

func newConsole(d display.Drawer, o Options) *Console {
	return &Console{dev: d, img: image.NewNRGBA(image.Rect(0, 0, o.Pixels, 1)), opts: o}
}

func (c *Console) Write(f render.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(f) != c.opts.Pixels {
		return ErrFrameSize
	}
	for i, px := range f {
		c.img.SetNRGBA(i, 0, color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255})
	}
	return c.dev.Draw(c.img.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dev.Halt()
}
