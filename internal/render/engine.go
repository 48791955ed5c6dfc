package render

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-striplight/internal/selector"
)

// DefaultYield is the pause between frames that lets other goroutines run.
const DefaultYield = time.Millisecond

// Source reports which effect should be drawn next.
type Source interface {
	Read() selector.Tag
}

// Engine is the render loop. It owns the frame and every effect's state;
// only the selector is shared with other goroutines.
type Engine struct {
	Frame   Frame
	Effects [selector.Count]Effect
	Sel     Source
	Sink    Sink
	Clock   Clock
	Yield   time.Duration

	frames  atomic.Uint64
	dropped atomic.Uint64
	lastTag atomic.Int64

	// durations of the most recent frame, in nanoseconds
	lastRender atomic.Int64
	lastTotal  atomic.Int64

	warn zerolog.Logger
}

// NewEngine allocates a frame of n pixels. effects must hold one Effect per
// selector.Tag, in tag order.
func NewEngine(n int, sel Source, sink Sink, clock Clock, effects ...Effect) (*Engine, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid pixel count: %d", n)
	}
	if sel == nil {
		return nil, errors.New("selector is nil")
	}
	if len(effects) != selector.Count {
		return nil, fmt.Errorf("need %d effects, got %d", selector.Count, len(effects))
	}
	if clock == nil {
		clock = SystemClock
	}
	e := &Engine{
		Frame: NewFrame(n),
		Sel:   sel,
		Sink:  sink,
		Clock: clock,
		Yield: DefaultYield,
		warn:  log.Sample(&zerolog.BasicSampler{N: 500}),
	}
	for i, fx := range effects {
		if fx == nil {
			return nil, fmt.Errorf("effect %s is nil", selector.Tag(i))
		}
		e.Effects[i] = fx
	}
	e.lastTag.Store(-1)
	return e, nil
}

// RenderOnce draws one frame of the selected effect and flushes it. A failed
// write is dropped; the next frame replaces it.
func (e *Engine) RenderOnce() {
	start := time.Now()

	tag := e.Sel.Read()
	if !tag.Valid() {
		tag = selector.Rainbow
	}
	if prev := e.lastTag.Swap(int64(tag)); prev != int64(tag) {
		log.Debug().Str("effect", tag.String()).Msg("render loop switched effect")
	}

	fx := e.Effects[tag]
	fx.Advance(e.Clock.Now())
	fx.Render(e.Frame)
	e.lastRender.Store(int64(time.Since(start)))

	if e.Sink != nil {
		if err := e.Sink.Write(e.Frame); err != nil {
			e.dropped.Add(1)
			e.warn.Debug().Err(err).Msg("sink write dropped")
		}
	}
	e.frames.Add(1)
	e.lastTotal.Store(int64(time.Since(start)))
}

// Run renders until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	yield := e.Yield
	if yield <= 0 {
		yield = DefaultYield
	}
	t := time.NewTimer(yield)
	defer t.Stop()
	for {
		e.RenderOnce()
		t.Reset(yield)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Frames returns how many frames have been rendered.
func (e *Engine) Frames() uint64 { return e.frames.Load() }

// Dropped returns how many sink writes failed.
func (e *Engine) Dropped() uint64 { return e.dropped.Load() }

// LastFrame reports how long the most recent frame took to render, and to
// render and write. Safe to call from any goroutine.
func (e *Engine) LastFrame() (render, total time.Duration) {
	return time.Duration(e.lastRender.Load()), time.Duration(e.lastTotal.Load())
}
