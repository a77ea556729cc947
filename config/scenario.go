package config

import (
	"github.com/pkg/errors"

	"hugs/protocol"
)

// Scenario scripts a simulated run: how long, on what pack, and which frames
// arrive when.
type Scenario struct {
	DurationMs   uint32       `yaml:"duration_ms" env:"HUGS_SIM_DURATION_MS"`
	BatteryVolts float32      `yaml:"battery_volts" env:"HUGS_SIM_BATTERY_VOLTS"`
	ConversionNs uint64       `yaml:"conversion_ns"` // 0 keeps the harness default
	Frames       []FrameEvent `yaml:"frames"`
}

// FrameEvent is one frame delivered on a link at a given time.
type FrameEvent struct {
	AtMs    uint32 `yaml:"at_ms"`
	Link    string `yaml:"link"` // "steer" or "interunit"
	Cmd     string `yaml:"cmd"`  // "speed", "horn", "led" or "ping"
	Value   int16  `yaml:"value"`
	Horn    bool   `yaml:"horn"`
	Corrupt bool   `yaml:"corrupt"` // Flip a payload bit after encoding
}

// Link names
const (
	LinkSteer     = "steer"
	LinkInterUnit = "interunit"
)

// Frame returns the protocol frame the event describes.
func (e FrameEvent) Frame() (protocol.Frame, error) {
	f := protocol.Frame{Value: e.Value}
	switch e.Cmd {
	case "speed":
		f.Cmd = protocol.CmdSpeed
	case "horn":
		f.Cmd = protocol.CmdHorn
		if e.Horn {
			f.Flags |= protocol.FlagHorn
		}
	case "led":
		f.Cmd = protocol.CmdLED
	case "ping":
		f.Cmd = protocol.CmdPing
	default:
		return protocol.Frame{}, errors.Errorf("unknown frame command %q", e.Cmd)
	}
	return f, nil
}

// Encode returns the wire bytes of the event, corrupted if asked to.
func (e FrameEvent) Encode() ([]byte, error) {
	f, err := e.Frame()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, protocol.FrameSize)
	out, err := f.Encode(buf)
	if err != nil {
		return nil, errors.Wrap(err, "encode frame")
	}
	if e.Corrupt {
		out[3] ^= 0x01 // low byte of the value
	}
	return out, nil
}
