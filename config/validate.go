package config

import (
	"github.com/pkg/errors"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	c, err := cfg.Core()
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "core")
	}

	if cfg.Link.Baud <= 0 {
		return errors.Errorf("link: baud must be > 0, got %d", cfg.Link.Baud)
	}
	if cfg.Link.RateHz <= 0 || cfg.Link.RateHz > 1000 {
		return errors.Errorf("link: rate_hz must be in 1..1000, got %d", cfg.Link.RateHz)
	}

	for i, e := range cfg.Scenario.Frames {
		if e.Link != LinkSteer && e.Link != LinkInterUnit {
			return errors.Errorf("scenario frame %d: unknown link %q", i, e.Link)
		}
		if _, err := e.Frame(); err != nil {
			return errors.Wrapf(err, "scenario frame %d", i)
		}
		if e.AtMs > cfg.Scenario.DurationMs {
			return errors.Errorf("scenario frame %d: at_ms %d is past duration_ms %d",
				i, e.AtMs, cfg.Scenario.DurationMs)
		}
	}
	return nil
}
