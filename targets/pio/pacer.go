//go:build rp2040

package pio

// PIO sample pacer using tinygo-org/pio package
// A square wave on the pacer pin marks every PWM period; its rising edge is
// the sample-trigger vector.

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Pacer clock: 125 MHz / (122 + 18/256) = 1.024 MHz, 64 cycles per period
const (
	pacerClkDivInt  = 122
	pacerClkDivFrac = 18
	pacerOrigin     = -1 // Any free offset, the program has no jumps
)

// ErrNoStateMachine is returned when both PIO blocks are fully claimed
var ErrNoStateMachine = errors.New("no free PIO state machine")

// buildPacerProgram creates the pacer program using AssemblerV0
func buildPacerProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Set(rp2pio.SetDestPins, 1).Delay(31).Encode(), // 0: set pins, 1 [31]
		asm.Set(rp2pio.SetDestPins, 0).Delay(31).Encode(), // 1: set pins, 0 [31]
		// .wrap
	}
}

// Pacer drives a 16 kHz square wave phase-locked to the motor PWM
type Pacer struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewPacer claims a state machine for the pacer
func NewPacer(pin machine.Pin) (*Pacer, error) {
	pioNum, smNum, ok := allocatePIO()
	if !ok {
		return nil, ErrNoStateMachine
	}

	pioHW := rp2pio.PIO0
	if pioNum == 1 {
		pioHW = rp2pio.PIO1
	}

	return &Pacer{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
		pin: pin,
	}, nil
}

// Init loads the program and leaves the state machine stopped
func (p *Pacer) Init() error {
	// Claim the state machine before touching it
	p.sm.TryClaim()

	program := buildPacerProgram()
	offset, err := p.pio.AddProgram(program, pacerOrigin)
	if err != nil {
		return err
	}
	p.offset = offset

	p.pin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p.pin, 1)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(pacerClkDivInt, pacerClkDivFrac)

	// Initialize state machine FIRST
	p.sm.Init(offset, cfg)

	// THEN set pin direction (must be after Init!)
	p.sm.SetPindirsConsecutive(p.pin, 1, true)
	p.sm.SetPinsConsecutive(p.pin, 1, false)
	return nil
}

// Start begins pacing. onEdge runs in interrupt context on every rising edge.
func (p *Pacer) Start(onEdge func(machine.Pin)) error {
	if err := p.pin.SetInterrupt(machine.PinRising, onEdge); err != nil {
		return err
	}
	p.sm.SetEnabled(true)
	return nil
}

// Stop halts the pacer with the pin low
func (p *Pacer) Stop() {
	p.sm.SetEnabled(false)
	p.sm.Restart()
	p.sm.SetPinsConsecutive(p.pin, 1, false)
}
