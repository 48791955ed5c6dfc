package input

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-striplight/internal/selector"
)

const (
	DefaultPoll     = 50 * time.Millisecond
	DefaultDebounce = 500 * time.Millisecond
)

// Button is a momentary switch.
type Button interface {
	IsPressed() bool
}

// Display shows the name of the selected effect.
type Display interface {
	ShowEffectName(name string) error
}

// Handler polls the button and advances the selector on each press. After a
// press it waits Debounce before polling again, which is the only debounce.
type Handler struct {
	Button   Button
	Sel      *selector.Selector
	Display  Display
	Slot     selector.Slot
	Poll     time.Duration
	Debounce time.Duration

	// sleep is swapped out by tests.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewHandler(b Button, sel *selector.Selector, d Display, slot selector.Slot) *Handler {
	return &Handler{
		Button:   b,
		Sel:      sel,
		Display:  d,
		Slot:     slot,
		Poll:     DefaultPoll,
		Debounce: DefaultDebounce,
		sleep:    sleepCtx,
	}
}

// Step checks the button once. On a press it switches effect, updates the
// display and slot, and returns the new tag with pressed=true. It does not
// sleep.
func (h *Handler) Step() (selector.Tag, bool) {
	if !h.Button.IsPressed() {
		return 0, false
	}
	tag := h.Sel.Next()
	log.Info().Str("effect", tag.String()).Msg("button: next effect")

	if h.Display != nil {
		if err := h.Display.ShowEffectName(tag.String()); err != nil {
			log.Warn().Err(err).Msg("display update failed")
		}
	}
	if h.Slot != nil {
		if err := h.Slot.Store(tag); err != nil {
			log.Warn().Err(err).Msg("effect slot store failed")
		}
	}
	return tag, true
}

// Run polls until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) {
	sleep := h.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	for {
		if _, pressed := h.Step(); pressed {
			if !sleep(ctx, h.Debounce) {
				return
			}
		}
		if !sleep(ctx, h.Poll) {
			return
		}
	}
}

// sleepCtx waits d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
