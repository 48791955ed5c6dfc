package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-striplight/internal/app"
	"github.com/coreman2200/funtimes-striplight/internal/config"
	"github.com/coreman2200/funtimes-striplight/internal/selftest"
)

func main() {
	// ---- Flags (explicitly set flags override config.yaml) ----
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		driver     = flag.String("driver", "", "output: nrzled | serial | console | log | sim")
		pixels     = flag.Int("pixels", 0, "number of LEDs on the strip")
		brightness = flag.Int("brightness", 0, "global brightness limit 0..255")
		preview    = flag.String("preview", "", "serve the websocket preview on this address (e.g. :8080)")
		selfTest   = flag.String("selftest", "", "run a wiring check first: index_sweep | rgb_channels")
		logLevel   = flag.String("log-level", "", "debug | info | warn | error")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Str("path", *configPath).Msg("no config file; using defaults")
	case err != nil:
		log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driver
		case "pixels":
			cfg.Strip.Pixels = *pixels
		case "brightness":
			cfg.Strip.Brightness = *brightness
		case "preview":
			cfg.Preview = *preview
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("log level")
	}
	zerolog.SetGlobalLevel(lvl)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	kind, err := selftest.ParseKind(*selfTest)
	if err != nil {
		log.Fatal().Err(err).Msg("selftest")
	}

	if cfg.Driver == "sim" {
		// the terminal owns stderr; keep logs out of the picture
		f, err := os.OpenFile(filepath.Join(os.TempDir(), "striplight.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.Kitchen})
		}
	}

	// ---- Shutdown on SIGINT/SIGTERM or terminal quit ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	parts, err := app.Open(cfg, stop)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("hardware init failed")
	}
	defer parts.Close()

	c, err := app.New(cfg, *parts, nil)
	if err != nil {
		parts.Close()
		log.Fatal().Err(err).Msg("controller")
	}
	c.SelfTest = kind

	if err := c.Run(ctx); err != nil {
		log.Error().Err(err).Msg("stopped with error")
		parts.Close()
		os.Exit(1)
	}
	log.Info().Msg("bye")
}
