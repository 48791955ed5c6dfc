package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-striplight/internal/config"
	"github.com/coreman2200/funtimes-striplight/internal/input"
	"github.com/coreman2200/funtimes-striplight/internal/render"
	"github.com/coreman2200/funtimes-striplight/internal/render/effects/breathing"
	"github.com/coreman2200/funtimes-striplight/internal/render/effects/cycle"
	"github.com/coreman2200/funtimes-striplight/internal/render/effects/rainbow"
	"github.com/coreman2200/funtimes-striplight/internal/render/effects/wave"
	"github.com/coreman2200/funtimes-striplight/internal/selector"
	"github.com/coreman2200/funtimes-striplight/internal/selftest"
)

// SelfTestHold is how long each self-test pattern stays on the strip.
const SelfTestHold = 150 * time.Millisecond

// Controller owns the selector, the render loop and the input handler.
type Controller struct {
	Parts
	Sel   *selector.Selector
	Eng   *render.Engine
	Input *input.Handler

	SelfTest selftest.Kind
	addr     string
}

// New restores the selected effect from p.Slot and builds the effects and
// loops around p. clock may be nil.
func New(cfg *config.Config, p Parts, clock render.Clock) (*Controller, error) {
	o, err := cfg.LEDOptions()
	if err != nil {
		return nil, err
	}
	start, err := selector.ParseTag(cfg.Effects.Start)
	if err != nil {
		return nil, err
	}
	bc, err := config.ParseColor(cfg.Effects.BreathingColor)
	if err != nil {
		return nil, fmt.Errorf("breathing color: %w", err)
	}
	wc, err := config.ParseColor(cfg.Effects.WaveColor)
	if err != nil {
		return nil, fmt.Errorf("wave color: %w", err)
	}

	sel := selector.Restore(p.Slot, start)

	var sink render.Sink
	if p.Sink != nil {
		sink = p.Sink
	}
	eng, err := render.NewEngine(o.Pixels, sel, sink, clock,
		rainbow.New(),
		cycle.New(),
		breathing.New(bc),
		wave.New(wc, o.Pixels, cfg.Effects.WaveWidth),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Timing.YieldMs > 0 {
		eng.Yield = time.Duration(cfg.Timing.YieldMs) * time.Millisecond
	}

	c := &Controller{Parts: p, Sel: sel, Eng: eng, addr: cfg.Preview}
	if p.Button != nil {
		c.Input = input.NewHandler(p.Button, sel, p.Display, p.Slot)
		if cfg.Timing.PollMs > 0 {
			c.Input.Poll = time.Duration(cfg.Timing.PollMs) * time.Millisecond
		}
		if cfg.Timing.DebounceMs > 0 {
			c.Input.Debounce = time.Duration(cfg.Timing.DebounceMs) * time.Millisecond
		}
	}
	if p.Preview != nil {
		p.Preview.Frames = eng.Frames
		p.Preview.FrameTime = eng.LastFrame
	}
	return c, nil
}

// Run shows the current effect, plays the self-test if one was requested,
// then renders and polls the button until ctx is done. The strip is blanked
// before Run returns; the caller still owns Close.
func (c *Controller) Run(ctx context.Context) error {
	if c.Display != nil {
		if err := c.Display.ShowEffectName(c.Sel.Read().String()); err != nil {
			log.Warn().Err(err).Msg("display update failed")
		}
	}

	if c.SelfTest != selftest.None && c.Eng.Sink != nil {
		log.Info().Str("kind", string(c.SelfTest)).Msg("self-test")
		err := selftest.Play(ctx, selftest.NewRunner(c.SelfTest), render.NewFrame(len(c.Eng.Frame)), c.Eng.Sink, SelfTestHold)
		switch {
		case ctx.Err() != nil:
			log.Info().Msg("self-test interrupted")
			return nil
		case err != nil:
			log.Warn().Err(err).Msg("self-test write failed")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var srv *http.Server
	if c.Preview != nil && c.addr != "" {
		srv = &http.Server{
			Addr:         c.addr,
			Handler:      c.Preview.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)
	spawn := func(f func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
	}

	spawn(c.Eng.Run)
	for _, pump := range c.Pumps {
		spawn(pump)
	}
	if srv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("addr", c.addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("preview server: %w", err)
				cancel()
			}
		}()
	}

	log.Info().Str("effect", c.Sel.Read().String()).Int("pixels", len(c.Eng.Frame)).Msg("running")
	if c.Input != nil {
		c.Input.Run(ctx)
	} else {
		<-ctx.Done()
	}

	cancel()
	if srv != nil {
		_ = srv.Close()
	}
	wg.Wait()

	c.blank()
	log.Info().Uint64("frames", c.Eng.Frames()).Uint64("dropped", c.Eng.Dropped()).Msg("stopped")

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

func (c *Controller) blank() {
	if c.Eng.Sink == nil {
		return
	}
	f := render.NewFrame(len(c.Eng.Frame))
	if err := c.Eng.Sink.Write(f); err != nil {
		log.Warn().Err(err).Msg("blanking strip")
	}
}
