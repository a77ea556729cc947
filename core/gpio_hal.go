package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down resistor
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// ReadPin reads the current pin state
	ReadPin(pin GPIOPin) bool
}

// Pins is the board pin map used by the supervisory loop.
type Pins struct {
	SelfHold    GPIOPin // Latches the power stage on
	Button      GPIOPin // Power button, high while pressed
	ChargeState GPIOPin // Low while a charger is connected
	LEDGreen    GPIOPin
	LEDOrange   GPIOPin
	LEDRed      GPIOPin
	Aux         GPIOPin // Horn / upper LED on the slave
}

// configurePins sets up directions for every pin in the map.
func configurePins(g GPIODriver, p Pins) error {
	for _, pin := range []GPIOPin{p.SelfHold, p.LEDGreen, p.LEDOrange, p.LEDRed, p.Aux} {
		if err := g.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	// The button reads high while pressed, the charge input low while a
	// charger is connected; each rests at the other level.
	if err := g.ConfigureInputPullDown(p.Button); err != nil {
		return err
	}
	return g.ConfigureInputPullUp(p.ChargeState)
}

// writePin sets pin and records a failed write in the timing ring.
// Callers include interrupt handlers, so the error is not returned.
func writePin(g GPIODriver, pin GPIOPin, value bool, source uint8, clock Ticks) {
	if err := g.SetPin(pin, value); err != nil {
		var level uint32
		if value {
			level = 1
		}
		RecordTiming(EvtGPIOError, source, uint32(clock), uint32(pin), level)
	}
}
