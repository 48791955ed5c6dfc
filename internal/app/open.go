package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-striplight/internal/config"
	"github.com/coreman2200/funtimes-striplight/internal/display"
	"github.com/coreman2200/funtimes-striplight/internal/input"
	"github.com/coreman2200/funtimes-striplight/internal/led"
	"github.com/coreman2200/funtimes-striplight/internal/selector"
	"github.com/coreman2200/funtimes-striplight/internal/term"
	"github.com/coreman2200/funtimes-striplight/internal/ws"
)

// Parts are the collaborators a Controller drives. Open builds them from the
// config; tests fill them in directly.
type Parts struct {
	Sink    led.Driver
	Display display.Display
	Button  input.Button // nil disables input
	Slot    selector.Slot

	// Pumps run alongside the render loop until shutdown (terminal events).
	Pumps []func(ctx context.Context)
	// Preview, when set, is served on cfg.Preview.
	Preview *ws.Hub

	closers []io.Closer
}

// Close releases every opened device, sink last.
func (p *Parts) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
	if p.Sink != nil {
		if err := p.Sink.Close(); err != nil {
			log.Warn().Err(err).Msg("sink close")
		}
	}
}

func needsHost(cfg *config.Config) bool {
	return cfg.Driver == "nrzled" || cfg.Button.Pin != "" || cfg.Display.Kind == "ssd1306"
}

// Open initialises the hardware named by cfg. quit is called when the
// terminal simulator asks to exit.
func Open(cfg *config.Config, quit func()) (*Parts, error) {
	o, err := cfg.LEDOptions()
	if err != nil {
		return nil, err
	}
	if needsHost(cfg) {
		st, err := host.Init()
		if err != nil {
			return nil, fmt.Errorf("periph host init: %w", err)
		}
		log.Debug().Int("loaded", len(st.Loaded)).Int("failed", len(st.Failed)).Msg("periph drivers")
	}

	p := &Parts{}
	var displays display.Multi

	switch cfg.Driver {
	case "nrzled":
		freq := physic.Frequency(cfg.SPI.FreqKHz) * physic.KiloHertz
		n, err := led.OpenNRZ(cfg.SPI.Port, freq, o)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dev", n.String()).Object("strip", o).Msg("nrzled ready")
		p.Sink = n
	case "serial":
		a, err := led.OpenAdalight(cfg.Serial.Port, cfg.Serial.Baud, o)
		if err != nil {
			return nil, err
		}
		log.Info().Str("port", cfg.Serial.Port).Int("baud", cfg.Serial.Baud).Object("strip", o).Msg("adalight ready")
		p.Sink = a
	case "console":
		c, err := led.NewConsole(o)
		if err != nil {
			return nil, err
		}
		p.Sink = c
	case "log":
		p.Sink = &led.LogSink{}
	case "sim":
		sim, err := term.New(quit)
		if err != nil {
			return nil, fmt.Errorf("terminal: %w", err)
		}
		p.Sink = sim
		p.Button = sim
		displays = append(displays, sim)
		p.Pumps = append(p.Pumps, sim.Run)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}

	if cfg.Preview != "" {
		p.Preview = ws.NewHub(o.Pixels)
		p.Sink = led.Fanout{p.Sink, p.Preview}
		displays = append(displays, p.Preview)
	}

	switch cfg.Display.Kind {
	case "ssd1306":
		oled, err := display.OpenOLED(cfg.Display.I2CBus)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.closers = append(p.closers, oled)
		displays = append(displays, oled)
	case "log":
		displays = append(displays, display.Log{})
	}
	if len(displays) > 0 {
		p.Display = displays
	}

	if cfg.Button.Pin != "" {
		b, err := input.NewGPIOButton(cfg.Button.Pin)
		if err != nil {
			p.Close()
			return nil, err
		}
		log.Info().Str("pin", b.String()).Msg("button ready")
		p.Button = b
	}

	if path := cfg.SlotFile(); path != "" {
		log.Debug().Str("path", path).Msg("effect slot")
		p.Slot = selector.FileSlot{Path: path}
	} else {
		p.Slot = &selector.MemorySlot{}
	}
	return p, nil
}
