package wave

import (
	"time"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

const (
	Interval     = 50 * time.Millisecond
	DefaultWidth = 10
)

// Wave bounces a lit segment between the two ends of the strip, one pixel
// per Interval.
type Wave struct {
	Base   render.Color
	Width  int
	Offset int
	// Up is true while the segment moves toward the far end.
	Up bool

	pixels int
	gate   render.Gate
}

// New returns a wave for a strip of n pixels. A non-positive width uses
// DefaultWidth.
func New(base render.Color, n, width int) *Wave {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Wave{Base: base, Width: width, Up: true, pixels: n, gate: render.NewGate(Interval)}
}

func (w *Wave) Name() string { return "wave" }

// Advance turns at the ends before moving, so each end is reached for
// exactly one step.
func (w *Wave) Advance(now time.Time) {
	if !w.gate.Ready(now) {
		return
	}
	if w.Offset+w.Width >= w.pixels {
		w.Up = false
	} else if w.Offset <= 0 {
		w.Up = true
	}
	if w.Up {
		w.Offset++
	} else {
		w.Offset--
	}
	w.Offset = max(0, min(w.Offset, max(0, w.pixels-w.Width)))
}

// Render lights [Offset, Offset+Width] inclusive, clipped to the strip.
func (w *Wave) Render(dst render.Frame) {
	for i := range dst {
		if i < w.Offset || i > w.Offset+w.Width {
			dst[i] = render.Black
		} else {
			dst[i] = w.Base
		}
	}
}
