package core

import "errors"

// Mock drivers for testing

type mockFlag struct {
	set    bool
	clears int
}

func (f *mockFlag) Pending() bool { return f.set }
func (f *mockFlag) Clear()        { f.set = false; f.clears++ }

type mockMotor struct {
	commutations int
	lastSpeed    int32
	pwm          int32
	pwmWrites    int
	enabled      bool
}

func (m *mockMotor) Commutate(speed int32) { m.commutations++; m.lastSpeed = speed }
func (m *mockMotor) SetPWM(duty int32)     { m.pwm = duty; m.pwmWrites++ }
func (m *mockMotor) SetEnable(on bool)     { m.enabled = on }

type mockAnalog struct {
	starts  int
	voltage float32
}

func (a *mockAnalog) StartConversion()        { a.starts++ }
func (a *mockAnalog) BatteryVoltage() float32 { return a.voltage }

type mockGPIO struct {
	pins    map[GPIOPin]bool
	outputs map[GPIOPin]bool
	pulls   map[GPIOPin]string // "up" or "down"
	fail    map[GPIOPin]bool   // SetPin returns an error
	onRead  func(pin GPIOPin)
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		pins:    make(map[GPIOPin]bool),
		outputs: make(map[GPIOPin]bool),
		pulls:   make(map[GPIOPin]string),
		fail:    make(map[GPIOPin]bool),
	}
}

var errPinWrite = errors.New("pin write failed")

func (g *mockGPIO) ConfigureOutput(pin GPIOPin) error        { g.outputs[pin] = true; return nil }
func (g *mockGPIO) ConfigureInputPullUp(pin GPIOPin) error   { g.pulls[pin] = "up"; return nil }
func (g *mockGPIO) ConfigureInputPullDown(pin GPIOPin) error { g.pulls[pin] = "down"; return nil }
func (g *mockGPIO) SetPin(pin GPIOPin, value bool) error {
	if g.fail[pin] {
		return errPinWrite
	}
	g.pins[pin] = value
	return nil
}
func (g *mockGPIO) ReadPin(pin GPIOPin) bool {
	if g.onRead != nil {
		g.onRead(pin)
	}
	return g.pins[pin]
}

type mockWatchdog struct {
	err       error
	started   bool
	timeoutMs uint32
	reloads   int
}

func (w *mockWatchdog) Start(timeoutMs uint32) error {
	if w.err != nil {
		return w.err
	}
	w.started = true
	w.timeoutMs = timeoutMs
	return nil
}

func (w *mockWatchdog) Reload() { w.reloads++ }

type mockLED struct {
	programs int
	pwms     int
}

func (l *mockLED) CalculateProgram() { l.programs++ }
func (l *mockLED) CalculatePWM()     { l.pwms++ }

type mockUpdater struct {
	calls int
	fn    func()
}

func (u *mockUpdater) UpdateInput() {
	u.calls++
	if u.fn != nil {
		u.fn()
	}
}

var testPins = Pins{SelfHold: 1, Button: 2, ChargeState: 3, LEDGreen: 4, LEDOrange: 5, LEDRed: 6, Aux: 7}

// testRig is a board with every collaborator mocked
type testRig struct {
	state  *State
	rt     RealTime
	hw     Hardware
	motor  *mockMotor
	analog *mockAnalog
	gpio   *mockGPIO
	led    *mockLED
	flags  [NumVectors]*mockFlag
}

func newTestRig(t interface{ Fatalf(string, ...any) }, cfg Config) *testRig {
	r := &testRig{
		state:  NewState(),
		motor:  &mockMotor{},
		analog: &mockAnalog{voltage: 36.0},
		gpio:   newMockGPIO(),
		led:    &mockLED{},
	}
	for i := range r.flags {
		r.flags[i] = &mockFlag{}
	}
	r.hw = Hardware{
		Motor:            r.motor,
		Analog:           r.analog,
		GPIO:             r.gpio,
		Pins:             testPins,
		PWMTimerFlag:     r.flags[VectorSampleTrigger],
		TimeoutTimerFlag: r.flags[VectorTimeout],
		SampleDMAFlag:    r.flags[VectorSampleReady],
		SteerDMAFlag:     r.flags[VectorSteerLink],
		InterUnitDMAFlag: r.flags[VectorInterUnitLink],
		LED:              r.led,
	}
	rt, err := New(cfg, r.state, r.hw)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r.rt = rt
	return r
}

// tick advances one ms the way the 1 kHz vectors do
func (r *testRig) tick() {
	r.rt.SysTick()
	r.rt.TimeoutTick()
}
