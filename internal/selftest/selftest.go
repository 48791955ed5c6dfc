// Package selftest drives wiring checks straight onto the strip before any
// effect runs.
package selftest

import (
	"context"
	"fmt"
	"time"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, IndexSweep, RGBTest:
		return k, nil
	}
	return None, fmt.Errorf("unknown selftest %q", s)
}

type Runner struct {
	kind Kind
	step int
}

func NewRunner(k Kind) *Runner { return &Runner{kind: k} }
func (r *Runner) Kind() Kind   { return r.kind }

// Step fills f with the next pattern; returns false when complete.
func (r *Runner) Step(f render.Frame) bool {
	f.Fill(render.Black)

	switch r.kind {
	case IndexSweep:
		if r.step >= len(f) {
			return false
		}
		f[r.step] = render.Color{R: 255, G: 255, B: 255}
	case RGBTest:
		if r.step >= 3 {
			return false
		}
		f.Fill([...]render.Color{{R: 255}, {G: 255}, {B: 255}}[r.step])
	default:
		return false
	}
	r.step++
	return true
}

// Play writes every step to s, holding each for hold. The strip is left
// blank whether the run completes or ctx ends it early; in the latter case
// ctx.Err() is returned.
func Play(ctx context.Context, r *Runner, f render.Frame, s render.Sink, hold time.Duration) error {
	t := time.NewTimer(hold)
	defer t.Stop()
	for r.Step(f) {
		if err := s.Write(f); err != nil {
			return err
		}
		t.Reset(hold)
		select {
		case <-ctx.Done():
			f.Fill(render.Black)
			_ = s.Write(f)
			return ctx.Err()
		case <-t.C:
		}
	}
	f.Fill(render.Black)
	return s.Write(f)
}
