package core

// RealTime is the set of interrupt entry points of a board. Both variants
// implement it; the harness (hardware vector table or the simulator)
// registers each method against its Vector.
type RealTime interface {
	Variant() Variant
	Config() Config
	State() *State
	Clock() *Clock

	// SysTick advances the ms clock (VectorSysTick)
	SysTick()
	// TimeoutTick runs the 1 kHz supervisor (VectorTimeout)
	TimeoutTick()
	// SampleTrigger starts an ADC scan (VectorSampleTrigger)
	SampleTrigger()
	// SampleReady runs the commutation on fresh samples (VectorSampleReady)
	SampleReady()
	// SteerLinkComplete handles the steer/bluetooth RX DMA (VectorSteerLink)
	SteerLinkComplete()
	// InterUnitLinkComplete handles the master/slave RX DMA (VectorInterUnitLink)
	InterUnitLinkComplete()
}

// Hardware bundles the collaborators the interrupt handlers drive.
type Hardware struct {
	Motor  MotorDriver
	Analog Analog
	GPIO   GPIODriver
	Pins   Pins

	// Latched flags, one per vector that must acknowledge its source
	PWMTimerFlag     IRQFlag
	TimeoutTimerFlag IRQFlag
	SampleDMAFlag    IRQFlag
	SteerDMAFlag     IRQFlag
	InterUnitDMAFlag IRQFlag

	SteerLink     FrameUpdater // Steer on the master, bluetooth on the slave
	InterUnitLink FrameUpdater

	LED LEDEngine // Slave only
}

// New builds the real-time core for cfg.Variant over a shared state.
func New(cfg Config, s *State, hw Hardware) (RealTime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := base{cfg: cfg, state: s, clock: NewClock(s), hw: hw}
	if cfg.Variant == Slave {
		return &SlaveCore{base: b}, nil
	}
	return &MasterCore{base: b}, nil
}

type base struct {
	cfg   Config
	state *State
	clock *Clock
	hw    Hardware
}

func (b *base) Config() Config { return b.cfg }
func (b *base) State() *State  { return b.state }
func (b *base) Clock() *Clock  { return b.clock }

func (b *base) SysTick() {
	b.clock.SysTick()
}

// supervise runs the timeout state machine and the one-shot recovery.
func (b *base) supervise(onTimeout func()) {
	entered, cleared := b.state.advanceTimeout(b.cfg.TimeoutMs)
	switch {
	case entered:
		onTimeout()
		RecordTiming(EvtTimeoutEnter, uint8(VectorTimeout), uint32(b.clock.Now()), b.cfg.TimeoutMs, 0)
	case cleared:
		RecordTiming(EvtTimeoutClear, uint8(VectorTimeout), uint32(b.clock.Now()), 0, 0)
	}
}

func clearFlag(f IRQFlag) {
	if f != nil {
		f.Clear()
	}
}

// MasterCore is the master board: it receives steering commands and owns
// battery supervision and the power latch.
type MasterCore struct {
	base
}

func (m *MasterCore) Variant() Variant { return Master }

// TimeoutTick forces the commanded speed to zero on the tick the link is
// lost.
func (m *MasterCore) TimeoutTick() {
	m.supervise(func() {
		m.state.SetSpeed(0)
	})
	clearFlag(m.hw.TimeoutTimerFlag)
}

func (m *MasterCore) SampleReady() {
	m.hw.Motor.Commutate(m.state.Speed())
	ackDMA(m.hw.SampleDMAFlag)
}

// SlaveCore is the slave board: it follows the master over the inter-unit
// link, owns its PWM directly and drives the horn and RGB LEDs.
type SlaveCore struct {
	base
}

func (s *SlaveCore) Variant() Variant { return Slave }

// TimeoutTick forces speed and PWM to zero on the tick the link is lost,
// enforces the aux ceiling and advances the LED program.
func (s *SlaveCore) TimeoutTick() {
	s.supervise(func() {
		s.state.SetSpeed(0)
		s.hw.Motor.SetPWM(0)
	})

	if s.state.advanceAux(s.cfg.AuxCeilingMs) {
		if s.state.auxOn.Swap(false) {
			RecordTiming(EvtAuxCeiling, uint8(VectorTimeout), uint32(s.clock.Now()), s.cfg.AuxCeilingMs, 0)
		}
		writePin(s.hw.GPIO, s.hw.Pins.Aux, false, uint8(VectorTimeout), s.clock.Now())
	}

	if s.hw.LED != nil {
		s.hw.LED.CalculateProgram()
	}
	clearFlag(s.hw.TimeoutTimerFlag)
}

func (s *SlaveCore) SampleReady() {
	s.hw.Motor.Commutate(s.state.Speed())
	if s.hw.LED != nil {
		s.hw.LED.CalculatePWM()
	}
	ackDMA(s.hw.SampleDMAFlag)
}

// SetAux switches the aux (horn) output. Switching it on restarts the
// ceiling count.
func (s *SlaveCore) SetAux(on bool) {
	if on {
		s.state.auxCounter.Store(0)
	}
	s.state.auxOn.Store(on)
	writePin(s.hw.GPIO, s.hw.Pins.Aux, on, uint8(VectorSteerLink), s.clock.Now())
}
