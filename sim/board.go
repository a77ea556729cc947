package sim

import (
	"io"

	"hugs/comms"
	"hugs/core"
	"hugs/protocol"
)

// Board is one simulated controller: the real-time core, its supervisory
// loop and every simulated peripheral, wired to a harness.
type Board struct {
	H     *Harness
	State *core.State
	RT    core.RealTime
	FG    *core.Foreground

	Motor    *Motor
	GPIO     *GPIO
	ADC      *ADC
	Watchdog *Watchdog
	LEDs     *LEDs
	Sender   *comms.Sender // Master only

	Steer     *comms.SteerInput     // Master only
	Bluetooth *comms.BluetoothInput // Slave only
	InterUnit *comms.InterUnitInput

	steerBuf []byte
	unitBuf  []byte
}

// Wire carries the master's inter-unit frames to a slave board.
type Wire struct {
	Peer   *Board
	Frames uint32
}

func (w *Wire) Write(p []byte) (int, error) {
	w.Frames++
	if w.Peer != nil {
		w.Peer.DeliverInterUnit(p)
	}
	return len(p), nil
}

// NewBoard assembles a board for cfg with the pack at voltage volts.
// wire receives the master's forwarded commands and may be nil.
func NewBoard(cfg core.Config, voltage float32, wire *Wire) (*Board, error) {
	h := New()
	st := core.NewState()
	clock := core.NewClock(st)

	b := &Board{
		H:        h,
		State:    st,
		Motor:    &Motor{},
		GPIO:     NewGPIO(),
		ADC:      h.NewADC(voltage),
		Watchdog: &Watchdog{},
		LEDs:     &LEDs{},
	}

	hw := core.Hardware{
		Motor:            b.Motor,
		Analog:           b.ADC,
		GPIO:             b.GPIO,
		Pins:             DefaultPins,
		PWMTimerFlag:     h.Flag(core.VectorSampleTrigger),
		TimeoutTimerFlag: h.Flag(core.VectorTimeout),
		SampleDMAFlag:    h.Flag(core.VectorSampleReady),
		SteerDMAFlag:     h.Flag(core.VectorSteerLink),
		InterUnitDMAFlag: h.Flag(core.VectorInterUnitLink),
	}

	b.InterUnit = comms.NewInterUnitInput(cfg.Variant, st, clock)
	hw.InterUnitLink = b.InterUnit
	b.unitBuf = b.InterUnit.Buffer()

	if cfg.Variant == core.Slave {
		b.Bluetooth = comms.NewBluetoothInput(nil, st, clock)
		hw.SteerLink = b.Bluetooth
		hw.LED = b.LEDs
		b.steerBuf = b.Bluetooth.Buffer()
	} else {
		b.Steer = comms.NewSteerInput(st, clock)
		hw.SteerLink = b.Steer
		b.steerBuf = b.Steer.Buffer()
	}

	rt, err := core.New(cfg, st, hw)
	if err != nil {
		return nil, err
	}
	b.RT = rt
	if slave, ok := rt.(*core.SlaveCore); ok {
		b.Bluetooth.SetAux(slave)
	}

	opts := core.ForegroundOptions{Watchdog: b.Watchdog}
	if cfg.Variant == core.Master {
		var w io.Writer = io.Discard
		if wire != nil {
			w = wire
		}
		b.Sender = comms.NewSender(w, nil)
		opts.Comms = b.Sender
		opts.Sink = b.Sender
	}
	b.FG = core.NewForeground(rt, hw, opts)
	// The simulated supply never dies; returning ends Run.
	b.FG.SetPowerOffHook(func() {})

	// Charger disconnected: the low-active charge pin idles high.
	b.GPIO.Drive(DefaultPins.ChargeState, true)
	b.GPIO.Release(DefaultPins.ChargeState)

	h.Attach(rt)
	return b, nil
}

// DeliverSteer puts frame on the steer (master) or bluetooth (slave) link.
func (b *Board) DeliverSteer(frame []byte) {
	b.H.DeliverFrame(core.VectorSteerLink, b.steerBuf, frame)
}

// DeliverInterUnit puts frame on the inter-unit link.
func (b *Board) DeliverInterUnit(frame []byte) {
	b.H.DeliverFrame(core.VectorInterUnitLink, b.unitBuf, frame)
}

// SendSpeed encodes a speed frame and delivers it on the steer link.
func (b *Board) SendSpeed(speed int16) {
	var buf [protocol.FrameSize]byte
	frame, _ := protocol.Frame{Cmd: protocol.CmdSpeed, Value: speed}.Encode(buf[:])
	b.DeliverSteer(frame)
}
