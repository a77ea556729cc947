//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/buzzer"

	"hugs/comms"
	"hugs/core"
)

// variant is set at link time: -ldflags "-X main.variant=slave"
var variant = "master"

// Board pin map
const (
	pinSelfHold    = machine.GPIO2
	pinButton      = machine.GPIO3
	pinChargeState = machine.GPIO4
	pinLEDGreen    = machine.GPIO5
	pinLEDOrange   = machine.GPIO6
	pinLEDRed      = machine.GPIO7
	pinAux         = machine.GPIO8
	pinBuzzer      = machine.GPIO9

	pinPhaseA = machine.GPIO10
	pinPhaseB = machine.GPIO12
	pinPhaseC = machine.GPIO14
	pinEnable = machine.GPIO15
	pinHallA  = machine.GPIO16
	pinHallB  = machine.GPIO17
	pinHallC  = machine.GPIO18
	pinPacer  = machine.GPIO22
	pinStrip  = machine.GPIO19 // PWM slice 1, clear of the bridge slices 5-7

	pinSteerTX     = machine.UART0_TX_PIN
	pinSteerRX     = machine.UART0_RX_PIN
	pinInterUnitTX = machine.GPIO20
	pinInterUnitRX = machine.GPIO21

	linkBaud = 115200

	dmaSteerChannel     = 0
	dmaInterUnitChannel = 1
)

// board holds what the interrupt handlers reach
var board struct {
	rt        core.RealTime
	analog    *RpAnalog
	steer     *dmaLink
	interUnit *dmaLink
}

func main() {
	cfg := core.DefaultConfig(core.Master)
	if variant == "slave" {
		cfg.Variant = core.Slave
	}

	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)

	if err := run(cfg); err != nil {
		core.DebugPrintln("[BOOT] " + err.Error())
		core.Halt()
	}
}

func run(cfg core.Config) error {
	state := core.NewState()
	clock := core.NewClock(state)

	gpio := NewRPGPIODriver()
	pins := core.Pins{
		SelfHold:    core.GPIOPin(pinSelfHold),
		Button:      core.GPIOPin(pinButton),
		ChargeState: core.GPIOPin(pinChargeState),
		LEDGreen:    core.GPIOPin(pinLEDGreen),
		LEDOrange:   core.GPIOPin(pinLEDOrange),
		LEDRed:      core.GPIOPin(pinLEDRed),
		Aux:         core.GPIOPin(pinAux),
	}

	motor, err := NewRpMotor(
		[3]machine.Pin{pinPhaseA, pinPhaseB, pinPhaseC},
		[3]machine.Pin{pinHallA, pinHallB, pinHallC},
		pinEnable,
	)
	if err != nil {
		return err
	}

	analog := NewRpAnalog()
	board.analog = analog

	hw := core.Hardware{
		Motor:            motor,
		Analog:           analog,
		GPIO:             gpio,
		Pins:             pins,
		PWMTimerFlag:     &pacerFlag,
		TimeoutTimerFlag: alarmFlag(alarmTimeout),
		SampleDMAFlag:    &analog.ready,
	}

	// Frame updaters decode straight out of the DMA destination buffers
	var bluetooth *comms.BluetoothInput
	var steerBuf []byte
	interUnit := comms.NewInterUnitInput(cfg.Variant, state, clock)
	hw.InterUnitLink = interUnit
	if cfg.Variant == core.Slave {
		bluetooth = comms.NewBluetoothInput(nil, state, clock)
		hw.SteerLink = bluetooth
		steerBuf = bluetooth.Buffer()

		strip, err := newRGBProgram(state, pinStrip)
		if err != nil {
			return err
		}
		hw.LED = strip
	} else {
		steer := comms.NewSteerInput(state, clock)
		hw.SteerLink = steer
		steerBuf = steer.Buffer()
	}

	board.steer = newDMALink(machine.UART0, uart0Base, dmaSteerChannel, dreqUART0RX, 0, steerBuf)
	board.interUnit = newDMALink(machine.UART1, uart1Base, dmaInterUnitChannel, dreqUART1RX, 1, interUnit.Buffer())
	hw.SteerDMAFlag = board.steer.flag
	hw.InterUnitDMAFlag = board.interUnit.flag

	rt, err := core.New(cfg, state, hw)
	if err != nil {
		return err
	}
	board.rt = rt
	if slave, ok := rt.(*core.SlaveCore); ok {
		bluetooth.SetAux(slave)
	}

	pinBuzzer.Configure(machine.PinConfig{Mode: machine.PinOutput})
	indicator := NewBuzzerIndicator(core.LEDIndicator{GPIO: gpio, Pins: pins}, buzzer.New(pinBuzzer))

	sender := comms.NewSender(machine.UART1, board.interUnit.Disable)
	opts := core.ForegroundOptions{
		Watchdog:  RpWatchdog{},
		Comms:     sender,
		Indicator: indicator,
	}
	if cfg.Variant == core.Master {
		opts.Sink = sender
	}
	fg := core.NewForeground(rt, hw, opts)

	// Watchdog, pins and power latch first, then the interrupt sources
	if err := fg.Boot(); err != nil {
		return err
	}

	if err := board.steer.Init(linkBaud, pinSteerTX, pinSteerRX); err != nil {
		return err
	}
	if err := board.interUnit.Init(linkBaud, pinInterUnitTX, pinInterUnitRX); err != nil {
		return err
	}
	analog.Init()
	startLinks()
	startTimers()
	if err := startPacer(); err != nil {
		return err
	}

	fg.Run()
	return nil
}
