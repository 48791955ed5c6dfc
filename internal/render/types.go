package render

import (
	"time"
)

// Color is a single 8-bit RGB pixel.
type Color struct{ R, G, B uint8 }

// Named colors, matching the values used by common LED libraries.
var (
	Black      = Color{0x00, 0x00, 0x00}
	Red        = Color{0xFF, 0x00, 0x00}
	Green      = Color{0x00, 0x80, 0x00}
	Blue       = Color{0x00, 0x00, 0xFF}
	Orange     = Color{0xFF, 0xA5, 0x00}
	BlueViolet = Color{0x8A, 0x2B, 0xE2}
)

// FadeToBlackBy darkens c by amount/256. 0 keeps full brightness.
func (c Color) FadeToBlackBy(amount uint8) Color {
	return c.Scale(255 - amount)
}

// Scale multiplies every channel by (s+1)/256, so 255 is identity and 0 is black.
func (c Color) Scale(s uint8) Color {
	k := uint16(s) + 1
	return Color{
		R: uint8(uint16(c.R) * k >> 8),
		G: uint8(uint16(c.G) * k >> 8),
		B: uint8(uint16(c.B) * k >> 8),
	}
}

// Frame is the strip's pixel buffer. The engine allocates it once; effects
// write into it but never resize it.
type Frame []Color

func NewFrame(n int) Frame { return make(Frame, n) }

// Fill paints every pixel with c.
func (f Frame) Fill(c Color) {
	for i := range f {
		f[i] = c
	}
}

// Clone returns an independent copy of f.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Effect is one animation. Advance moves its private state forward according
// to the wall-clock time now; Render paints the current state and must not
// change it.
type Effect interface {
	Name() string
	Advance(now time.Time)
	Render(dst Frame)
}

// Sink abstracts the LED output (SPI strip, serial, preview, etc.).
type Sink interface {
	Write(Frame) error
}

// Clock supplies the time used by every timing gate.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the monotonic wall clock.
var SystemClock Clock = systemClock{}
