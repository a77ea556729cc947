//go:build rp2040

package main

import (
	"device/rp"
	"machine"

	"hugs/core"
	pacer "hugs/targets/pio"
)

// pacerFlag latches a pacer edge until the sample trigger acknowledges it
var pacerFlag softFlag

// startPacer starts the 16 kHz PIO square wave; its rising edge is the
// sample-trigger vector.
func startPacer() error {
	p, err := pacer.NewPacer(pinPacer)
	if err != nil {
		return err
	}
	if err := p.Init(); err != nil {
		return err
	}
	setIRQPriority(rp.IRQ_IO_IRQ_BANK0, core.VectorSampleTrigger)
	return p.Start(sampleTriggerISR)
}

func sampleTriggerISR(machine.Pin) {
	pacerFlag.raise()
	board.rt.SampleTrigger()
}
