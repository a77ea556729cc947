//go:build rp2040

package main

import (
	"machine"

	"hugs/core"
)

// LED programs selected over the bluetooth link
const (
	ledOff = iota
	ledSolid
	ledBreathe
	ledBlink
)

// rgbProgram implements core.LEDEngine for the slave's LED strip
type rgbProgram struct {
	state   *core.State
	pwm     pwmPeripheral
	channel uint8
	ms      uint32
	level   uint32 // 0..255
}

func newRGBProgram(state *core.State, pin machine.Pin) (*rgbProgram, error) {
	pwm := getPWMPeripheral(pin)
	if err := pwm.Configure(machine.PWMConfig{Period: motorPWMPeriodNs}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &rgbProgram{state: state, pwm: pwm, channel: ch}, nil
}

// CalculateProgram advances the selected program by one ms
func (l *rgbProgram) CalculateProgram() {
	l.ms++
	switch l.state.LEDProgram() {
	case ledSolid:
		l.level = 255
	case ledBreathe:
		t := (l.ms >> 2) & 0x1FF // ~2 s period
		if t > 255 {
			t = 511 - t
		}
		l.level = t
	case ledBlink:
		if l.ms%500 < 250 {
			l.level = 255
		} else {
			l.level = 0
		}
	default:
		l.level = 0
	}
}

// CalculatePWM writes the current level to the strip
func (l *rgbProgram) CalculatePWM() {
	l.pwm.Set(l.channel, l.level*l.pwm.Top()/255)
}
