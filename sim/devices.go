package sim

import (
	"errors"

	"hugs/core"
)

// ErrWatchdog is returned by a Watchdog configured to fail.
var ErrWatchdog = errors.New("sim: watchdog unavailable")

// ADC implements core.Analog on top of the harness.
type ADC struct {
	h       *Harness
	Voltage float32
	Starts  uint32
}

// NewADC returns a simulated ADC reporting voltage volts.
func (h *Harness) NewADC(voltage float32) *ADC {
	return &ADC{h: h, Voltage: voltage}
}

func (a *ADC) StartConversion() {
	a.Starts++
	a.h.startConversion()
}

func (a *ADC) BatteryVoltage() float32 {
	return a.Voltage
}

// Motor implements core.MotorDriver and records what it was told.
type Motor struct {
	Commutations uint32
	LastSpeed    int32
	PWM          int32
	PWMWrites    uint32
	Enabled      bool
}

func (m *Motor) Commutate(speed int32) {
	m.Commutations++
	m.LastSpeed = speed
}

func (m *Motor) SetPWM(duty int32) {
	m.PWM = duty
	m.PWMWrites++
}

func (m *Motor) SetEnable(on bool) {
	m.Enabled = on
}

// Pull is the resistor an input pin was configured with.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIO implements core.GPIODriver with a pin map. An input nobody drives
// reads the level of its pull resistor.
type GPIO struct {
	pins       map[core.GPIOPin]bool
	outputs    map[core.GPIOPin]bool
	pulls      map[core.GPIOPin]Pull
	driven     map[core.GPIOPin]bool
	OnRead     func(pin core.GPIOPin) // Called before every read
	ReadCounts map[core.GPIOPin]uint32
}

// NewGPIO returns a GPIO bank with every pin low.
func NewGPIO() *GPIO {
	return &GPIO{
		pins:       make(map[core.GPIOPin]bool),
		outputs:    make(map[core.GPIOPin]bool),
		pulls:      make(map[core.GPIOPin]Pull),
		driven:     make(map[core.GPIOPin]bool),
		ReadCounts: make(map[core.GPIOPin]uint32),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.outputs[pin] = true
	delete(g.pulls, pin)
	g.pins[pin] = false
	return nil
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.outputs[pin] = false
	g.pulls[pin] = PullUp
	return nil
}

func (g *GPIO) ConfigureInputPullDown(pin core.GPIOPin) error {
	g.outputs[pin] = false
	g.pulls[pin] = PullDown
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.pins[pin] = value
	return nil
}

func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	g.ReadCounts[pin]++
	if g.OnRead != nil {
		g.OnRead(pin)
	}
	return g.Level(pin)
}

// Drive sets an input pin level from outside the board.
func (g *GPIO) Drive(pin core.GPIOPin, value bool) {
	g.pins[pin] = value
	g.driven[pin] = true
}

// Release stops driving pin; it falls back to its pull resistor.
func (g *GPIO) Release(pin core.GPIOPin) {
	delete(g.driven, pin)
}

// Level returns the current pin level.
func (g *GPIO) Level(pin core.GPIOPin) bool {
	if p, ok := g.pulls[pin]; ok && !g.driven[pin] {
		return p == PullUp
	}
	return g.pins[pin]
}

// Pull returns the resistor pin was configured with.
func (g *GPIO) Pull(pin core.GPIOPin) Pull {
	return g.pulls[pin]
}

// IsOutput reports whether pin was configured as an output.
func (g *GPIO) IsOutput(pin core.GPIOPin) bool {
	return g.outputs[pin]
}

// Watchdog implements core.Watchdog.
type Watchdog struct {
	Fail      bool
	Started   bool
	TimeoutMs uint32
	Reloads   uint32
	OnReload  func()
}

func (w *Watchdog) Start(timeoutMs uint32) error {
	if w.Fail {
		return ErrWatchdog
	}
	w.Started = true
	w.TimeoutMs = timeoutMs
	return nil
}

func (w *Watchdog) Reload() {
	w.Reloads++
	if w.OnReload != nil {
		w.OnReload()
	}
}

// LEDs implements core.LEDEngine by counting calls.
type LEDs struct {
	Programs uint32
	PWMs     uint32
}

func (l *LEDs) CalculateProgram() { l.Programs++ }
func (l *LEDs) CalculatePWM()     { l.PWMs++ }

// DefaultPins is the pin map used by the simulated boards.
var DefaultPins = core.Pins{
	SelfHold:    1,
	Button:      2,
	ChargeState: 3,
	LEDGreen:    4,
	LEDOrange:   5,
	LEDRed:      6,
	Aux:         7,
}
