//go:build rp2040

package main

import (
	"machine"
)

// PWM_MAX is the commanded speed that maps to full duty
const PWM_MAX = 1000

// Motor PWM carrier, matched to the 16 kHz sample pacer
const motorPWMPeriodNs = 1e9 / 16000

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// phase is one half bridge
type phase struct {
	pwm     pwmPeripheral
	channel uint8
}

// hallSteps maps the hall state (C<<2 | B<<1 | A) to the phase sourcing and
// the phase sinking current for forward rotation. 0 and 7 are invalid.
var hallSteps = [8][2]int8{
	{-1, -1},
	{0, 1},
	{1, 2},
	{0, 2},
	{2, 0},
	{2, 1},
	{1, 0},
	{-1, -1},
}

// RpMotor implements core.MotorDriver with six-step block commutation on
// three PWM channels.
type RpMotor struct {
	phases [3]phase
	halls  [3]machine.Pin
	enable machine.Pin
}

// NewRpMotor creates the driver for the given bridge, hall and enable pins
func NewRpMotor(bridge, halls [3]machine.Pin, enable machine.Pin) (*RpMotor, error) {
	m := &RpMotor{halls: halls, enable: enable}
	for i, pin := range bridge {
		pwm := getPWMPeripheral(pin)
		if err := pwm.Configure(machine.PWMConfig{Period: motorPWMPeriodNs}); err != nil {
			return nil, err
		}
		ch, err := pwm.Channel(pin)
		if err != nil {
			return nil, err
		}
		m.phases[i] = phase{pwm: pwm, channel: ch}
	}
	for _, h := range halls {
		h.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	enable.Configure(machine.PinConfig{Mode: machine.PinOutput})
	enable.Low()
	return m, nil
}

// Commutate drives the phases for the current rotor sector. Runs at 16 kHz.
func (m *RpMotor) Commutate(speed int32) {
	state := 0
	for i, h := range m.halls {
		if h.Get() {
			state |= 1 << i
		}
	}
	step := hallSteps[state]
	if step[0] < 0 || speed == 0 {
		m.SetPWM(0)
		return
	}

	// Reverse swaps which phase sources the current; the low side follows
	// the complementary output of the bridge
	hi := step[0]
	duty := speed
	if duty < 0 {
		hi = step[1]
		duty = -duty
	}
	for i := range m.phases {
		if int8(i) == hi {
			m.setDuty(i, duty)
		} else {
			m.setDuty(i, 0)
		}
	}
}

// SetPWM writes the same duty to all three phases
func (m *RpMotor) SetPWM(duty int32) {
	for i := range m.phases {
		m.setDuty(i, duty)
	}
}

// SetEnable switches the gate driver
func (m *RpMotor) SetEnable(on bool) {
	m.enable.Set(on)
}

func (m *RpMotor) setDuty(i int, duty int32) {
	if duty < 0 {
		duty = 0
	} else if duty > PWM_MAX {
		duty = PWM_MAX
	}
	p := m.phases[i]
	p.pwm.Set(p.channel, uint32(duty)*p.pwm.Top()/PWM_MAX)
}

// getPWMPeripheral returns the PWM slice of a pin
// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7
func getPWMPeripheral(pin machine.Pin) pwmPeripheral {
	switch (uint8(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
