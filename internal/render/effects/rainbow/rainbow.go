package rainbow

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

const (
	Interval = 20 * time.Millisecond
	// Step is the hue distance between neighbouring pixels, out of 256.
	Step uint8 = 7

	saturation = 240.0 / 255.0
	value      = 1.0
)

// Rainbow spreads a color wheel across the strip and rotates it one hue
// step per Interval.
type Rainbow struct {
	Hue  uint8
	gate render.Gate
}

func New() *Rainbow { return &Rainbow{gate: render.NewGate(Interval)} }

func (r *Rainbow) Name() string { return "rainbow" }

func (r *Rainbow) Advance(now time.Time) {
	if r.gate.Ready(now) {
		r.Hue++
	}
}

func (r *Rainbow) Render(dst render.Frame) {
	h := r.Hue
	for i := range dst {
		dst[i] = Wheel(h)
		h += Step
	}
}

// Wheel converts a hue byte (256 steps per turn) to RGB at the rainbow's
// fixed saturation and value.
func Wheel(h uint8) render.Color {
	c := colorful.Hsv(float64(h)*360.0/256.0, saturation, value)
	r, g, b := c.Clamped().RGB255()
	return render.Color{R: r, G: g, B: b}
}
