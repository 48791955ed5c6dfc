package breathing

import (
	"time"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

const (
	Interval = 10 * time.Millisecond
	// MaxFade stops short of 255 so the darkest point never reads as off.
	MaxFade = 240
)

// Breathing fades a base color down toward black and back up in a
// triangle wave, one fade step per Interval.
type Breathing struct {
	Base render.Color
	// Fade is how far the base color is darkened, 0 (full) to MaxFade.
	Fade int
	// Up is true while the strip is getting darker.
	Up   bool
	gate render.Gate
}

func New(base render.Color) *Breathing {
	return &Breathing{Base: base, Up: true, gate: render.NewGate(Interval)}
}

func (b *Breathing) Name() string { return "breathing" }

func (b *Breathing) Advance(now time.Time) {
	if !b.gate.Ready(now) {
		return
	}
	if b.Up {
		b.Fade++
		if b.Fade >= MaxFade {
			b.Fade = MaxFade
			b.Up = false
		}
		return
	}
	b.Fade--
	if b.Fade <= 0 {
		b.Fade = 0
		b.Up = true
	}
}

func (b *Breathing) Render(dst render.Frame) {
	dst.Fill(b.Base.FadeToBlackBy(uint8(b.Fade)))
}
