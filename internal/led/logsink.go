package led

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

// LogSink logs a compact summary (first pixel and average) of every Nth
// frame. Useful for headless runs without a strip.
type LogSink struct {
	Every uint64
	count atomic.Uint64
}

func (s *LogSink) Write(f render.Frame) error {
	n := s.count.Add(1)
	every := s.Every
	if every == 0 {
		every = 1000
	}
	if every > 1 && n%every != 1 {
		return nil
	}
	if len(f) == 0 {
		return nil
	}
	var r, g, b int
	for _, c := range f {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	l := len(f)
	log.Debug().
		Uint64("frame", n).
		Ints("avg", []int{r / l, g / l, b / l}).
		Ints("first", []int{int(f[0].R), int(f[0].G), int(f[0].B)}).
		Msg("strip")
	return nil
}

func (s *LogSink) Close() error { return nil }

// Frames returns how many frames were written.
func (s *LogSink) Frames() uint64 { return s.count.Load() }

// Fanout writes each frame to every sink. A failure in one sink does not
// stop the others.
type Fanout []render.Sink

func (fo Fanout) Write(f render.Frame) error {
	var errs []error
	for _, s := range fo {
		if err := s.Write(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that is a Driver.
func (fo Fanout) Close() error {
	var errs []error
	for _, s := range fo {
		if d, ok := s.(Driver); ok {
			if err := d.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
