//go:build rp2040

package main

import (
	"tinygo.org/x/drivers/buzzer"

	"hugs/core"
)

// BuzzerIndicator shows the battery band on the LEDs and beeps once each
// time the band drops.
type BuzzerIndicator struct {
	leds core.LEDIndicator
	bz   buzzer.Device
	last core.BatteryBand
}

// NewBuzzerIndicator wraps leds with a buzzer
func NewBuzzerIndicator(leds core.LEDIndicator, bz buzzer.Device) *BuzzerIndicator {
	bz.BPM = 480
	return &BuzzerIndicator{leds: leds, bz: bz, last: core.BatteryGreen}
}

func (b *BuzzerIndicator) ShowBattery(band core.BatteryBand) {
	b.leds.ShowBattery(band)
	if band <= b.last {
		b.last = band
		return
	}
	b.last = band

	// One eighth at 480 BPM is ~62 ms, well inside the watchdog window
	switch band {
	case core.BatteryOrange:
		b.bz.Tone(buzzer.A5, buzzer.Eighth)
	case core.BatteryRed:
		b.bz.Tone(buzzer.A5, buzzer.Eighth)
		b.bz.Tone(buzzer.E5, buzzer.Eighth)
	}
}
