package cycle

import (
	"time"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

const Interval = time.Second

// Palette is the fixed sequence of solid colors.
var Palette = [3]render.Color{render.Red, render.Green, render.Blue}

// Cycle fills the strip with one palette color and steps to the next each
// Interval.
type Cycle struct {
	Index int
	gate  render.Gate
}

func New() *Cycle { return &Cycle{gate: render.NewGate(Interval)} }

func (c *Cycle) Name() string { return "cycle" }

func (c *Cycle) Advance(now time.Time) {
	if c.gate.Ready(now) {
		c.Index = (c.Index + 1) % len(Palette)
	}
}

func (c *Cycle) Render(dst render.Frame) {
	dst.Fill(Palette[c.Index])
}
