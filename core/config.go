package core

import (
	"errors"
	"math"
)

// Variant selects which hardware role the board plays.
type Variant uint8

const (
	// Master owns the steering link, battery supervision and power latch.
	Master Variant = iota
	// Slave drives its own PWM directly and owns the horn and LED outputs.
	Slave
)

func (v Variant) String() string {
	switch v {
	case Master:
		return "master"
	case Slave:
		return "slave"
	default:
		return "unknown"
	}
}

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid real-time config")

// Config holds the build-time constants of the real-time core.
// All durations are in milliseconds (ticks).
type Config struct {
	Variant Variant

	TimeoutMs         uint32 // TIMEOUT_MS: link silence before speed is forced to zero
	LoopDelayMs       uint32 // Delay between supervisory loop iterations
	InactivityMinutes uint32 // Power off after this many idle minutes
	WatchdogTimeoutMs uint32 // Hardware watchdog fault window
	AuxCeilingMs      uint32 // Maximum time the aux (horn) output may stay on

	SpeedCoefficient float32
	SpeedMin         int32
	SpeedMax         int32
	DeadBand         int32 // Commands strictly inside (-DeadBand, DeadBand) map to 0

	// Battery thresholds in volts, BatLowLvl1 > BatLowLvl2 > BatLowDead
	BatLowLvl1 float32
	BatLowLvl2 float32
	BatLowDead float32
}

// DefaultConfig returns the stock configuration for a 10S hoverboard pack.
func DefaultConfig(v Variant) Config {
	return Config{
		Variant:           v,
		TimeoutMs:         100,
		LoopDelayMs:       5,
		InactivityMinutes: 10,
		WatchdogTimeoutMs: 1600,
		AuxCeilingMs:      2000,
		SpeedCoefficient:  1.0,
		SpeedMin:          -1000,
		SpeedMax:          1000,
		DeadBand:          50,
		BatLowLvl1:        35.0,
		BatLowLvl2:        33.0,
		BatLowDead:        31.0,
	}
}

// Validate checks the config for values the core cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Variant != Master && c.Variant != Slave:
		return errors.Join(ErrInvalidConfig, errors.New("unknown variant"))
	case c.TimeoutMs == 0:
		return errors.Join(ErrInvalidConfig, errors.New("timeout must be > 0"))
	case c.TimeoutMs == math.MaxUint32:
		// The counter must be able to pass the limit.
		return errors.Join(ErrInvalidConfig, errors.New("timeout must be < 2^32-1"))
	case c.LoopDelayMs == 0:
		return errors.Join(ErrInvalidConfig, errors.New("loop delay must be > 0"))
	case c.WatchdogTimeoutMs <= c.LoopDelayMs:
		return errors.Join(ErrInvalidConfig, errors.New("watchdog window must exceed loop delay"))
	case c.SpeedMin >= c.SpeedMax:
		return errors.Join(ErrInvalidConfig, errors.New("speed clamp is inverted"))
	case !(c.SpeedCoefficient > 0):
		return errors.Join(ErrInvalidConfig, errors.New("speed coefficient must be > 0"))
	case scaledOverflows(c.SpeedMin, c.SpeedCoefficient) || scaledOverflows(c.SpeedMax, c.SpeedCoefficient):
		return errors.Join(ErrInvalidConfig, errors.New("scaled speed clamp does not fit int16"))
	case c.DeadBand < 0:
		return errors.Join(ErrInvalidConfig, errors.New("dead band must be >= 0"))
	case !(c.BatLowLvl1 > c.BatLowLvl2 && c.BatLowLvl2 > c.BatLowDead):
		return errors.Join(ErrInvalidConfig, errors.New("battery thresholds must be strictly descending"))
	}
	return nil
}

// scaledOverflows reports whether v*coef falls outside ±MaxInt16.
func scaledOverflows(v int32, coef float32) bool {
	scaled := math.Abs(float64(v) * float64(coef))
	return !(scaled <= math.MaxInt16)
}

// InactivityLimit returns the inactivity threshold in loop iterations.
func (c Config) InactivityLimit() uint32 {
	return (c.InactivityMinutes * 60 * 1000) / (c.LoopDelayMs + 1)
}
