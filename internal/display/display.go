package display

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// Display is the status screen.
type Display interface {
	ShowEffectName(name string) error
}

// Log writes the effect name to the log. Used when no screen is attached.
type Log struct{}

func (Log) ShowEffectName(name string) error {
	log.Info().Str("effect", name).Msg("display")
	return nil
}

// Multi shows the name on every display; all are tried even if one fails.
type Multi []Display

func (m Multi) ShowEffectName(name string) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.ShowEffectName(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
