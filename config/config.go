// Package config loads the host-side configuration used by the simulator
// and the bench tools. Firmware never imports it; boards are built from
// core.DefaultConfig.
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"hugs/core"
)

type Config struct {
	Variant string `yaml:"variant" env:"HUGS_VARIANT"`

	TimeoutMs         uint32 `yaml:"timeout_ms" env:"HUGS_TIMEOUT_MS"`
	LoopDelayMs       uint32 `yaml:"loop_delay_ms" env:"HUGS_LOOP_DELAY_MS"`
	InactivityMinutes uint32 `yaml:"inactivity_minutes" env:"HUGS_INACTIVITY_MINUTES"`
	WatchdogTimeoutMs uint32 `yaml:"watchdog_timeout_ms" env:"HUGS_WATCHDOG_TIMEOUT_MS"`
	AuxCeilingMs      uint32 `yaml:"aux_ceiling_ms" env:"HUGS_AUX_CEILING_MS"`

	Speed   SpeedConfig   `yaml:"speed"`
	Battery BatteryConfig `yaml:"battery"`
	Link    LinkConfig    `yaml:"link"`

	Scenario Scenario `yaml:"scenario"`
}

// ---- SPEED ----

type SpeedConfig struct {
	Coefficient float32 `yaml:"coefficient" env:"HUGS_SPEED_COEFFICIENT"`
	Min         int32   `yaml:"min" env:"HUGS_SPEED_MIN"`
	Max         int32   `yaml:"max" env:"HUGS_SPEED_MAX"`
	DeadBand    int32   `yaml:"dead_band" env:"HUGS_DEAD_BAND"`
}

// ---- BATTERY ----

type BatteryConfig struct {
	Level1 float32 `yaml:"level1" env:"HUGS_BAT_LOW_LVL1"`
	Level2 float32 `yaml:"level2" env:"HUGS_BAT_LOW_LVL2"`
	Dead   float32 `yaml:"dead" env:"HUGS_BAT_LOW_DEAD"`
}

// ---- SERIAL LINK (bench tool) ----

type LinkConfig struct {
	Port   string `yaml:"port" env:"HUGS_PORT"`
	Baud   int    `yaml:"baud" env:"HUGS_BAUD"`
	RateHz int    `yaml:"rate_hz" env:"HUGS_RATE_HZ"`
}

// Default returns the stock master configuration.
func Default() *Config {
	d := core.DefaultConfig(core.Master)
	return &Config{
		Variant:           core.Master.String(),
		TimeoutMs:         d.TimeoutMs,
		LoopDelayMs:       d.LoopDelayMs,
		InactivityMinutes: d.InactivityMinutes,
		WatchdogTimeoutMs: d.WatchdogTimeoutMs,
		AuxCeilingMs:      d.AuxCeilingMs,
		Speed: SpeedConfig{
			Coefficient: d.SpeedCoefficient,
			Min:         d.SpeedMin,
			Max:         d.SpeedMax,
			DeadBand:    d.DeadBand,
		},
		Battery: BatteryConfig{
			Level1: d.BatLowLvl1,
			Level2: d.BatLowLvl2,
			Dead:   d.BatLowDead,
		},
		Link: LinkConfig{
			Port:   "/dev/ttyUSB0",
			Baud:   115200,
			RateHz: 50,
		},
		Scenario: Scenario{
			DurationMs:   1000,
			BatteryVolts: 36.0,
		},
	}
}

// Load reads a YAML file over the defaults, then applies HUGS_* environment
// overrides and validates the result. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the HUGS_* environment variables that are set.
// Unset variables leave the field unchanged.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return errors.Wrap(err, "environment overrides")
	}
	return nil
}

// ParseVariant maps "master" or "slave" to its core.Variant.
func ParseVariant(s string) (core.Variant, error) {
	switch s {
	case "master":
		return core.Master, nil
	case "slave":
		return core.Slave, nil
	default:
		return 0, errors.Errorf("unknown variant %q", s)
	}
}

// Core returns the real-time core configuration.
func (c *Config) Core() (core.Config, error) {
	v, err := ParseVariant(c.Variant)
	if err != nil {
		return core.Config{}, err
	}
	return core.Config{
		Variant:           v,
		TimeoutMs:         c.TimeoutMs,
		LoopDelayMs:       c.LoopDelayMs,
		InactivityMinutes: c.InactivityMinutes,
		WatchdogTimeoutMs: c.WatchdogTimeoutMs,
		AuxCeilingMs:      c.AuxCeilingMs,
		SpeedCoefficient:  c.Speed.Coefficient,
		SpeedMin:          c.Speed.Min,
		SpeedMax:          c.Speed.Max,
		DeadBand:          c.Speed.DeadBand,
		BatLowLvl1:        c.Battery.Level1,
		BatLowLvl2:        c.Battery.Level2,
		BatLowDead:        c.Battery.Dead,
	}, nil
}
