//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
	"runtime/volatile"

	"hugs/core"
)

// Round-robin channels: phase current on ADC0, pack voltage on ADC1
const (
	adcPhaseChannel   = 0
	adcBatteryChannel = 1

	// 3.3 V reference, 12 bit, 200k/10k divider on the pack input
	batteryVoltsPerCount = 3.3 / 4095 * 21
)

// RpAnalog implements core.Analog on the RP2040 ADC.
// Each sample trigger converts the next channel of the round robin; the
// FIFO interrupt is the sample-ready vector.
type RpAnalog struct {
	phase   volatile.Register16
	battery volatile.Register16
	next    uint8 // Channel of the conversion in flight

	ready softFlag
}

// softFlag latches a completion the hardware acknowledges on read
type softFlag struct {
	set volatile.Register8
}

func (f *softFlag) Pending() bool { return f.set.Get() != 0 }
func (f *softFlag) Clear()        { f.set.Set(0) }
func (f *softFlag) raise()        { f.set.Set(1) }

// NewRpAnalog constructs the driver but does not Init() it yet.
func NewRpAnalog() *RpAnalog {
	return &RpAnalog{}
}

// Init configures both inputs, the round robin and the FIFO interrupt
func (a *RpAnalog) Init() {
	machine.InitADC()
	phaseIn := machine.ADC{Pin: machine.ADC0}
	phaseIn.Configure(machine.ADCConfig{})
	batteryIn := machine.ADC{Pin: machine.ADC1}
	batteryIn.Configure(machine.ADCConfig{})

	rp.ADC.CS.ReplaceBits(
		uint32(adcPhaseChannel)<<rp.ADC_CS_AINSEL_Pos,
		rp.ADC_CS_AINSEL_Msk,
		0,
	)
	rp.ADC.CS.ReplaceBits(
		uint32(1<<adcPhaseChannel|1<<adcBatteryChannel)<<rp.ADC_CS_RROBIN_Pos,
		rp.ADC_CS_RROBIN_Msk,
		0,
	)
	a.next = adcPhaseChannel

	// FIFO on, one sample per interrupt
	rp.ADC.FCS.Set(rp.ADC_FCS_EN | 1<<rp.ADC_FCS_THRESH_Pos)
	rp.ADC.INTE.Set(rp.ADC_INTE_FIFO)

	irq := interrupt.New(rp.IRQ_ADC_IRQ_FIFO, sampleReadyISR)
	irq.SetPriority(nvicPriority(core.VectorSampleReady))
	irq.Enable()
}

// StartConversion starts one conversion. Called from the sample trigger.
func (a *RpAnalog) StartConversion() {
	rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
}

// BatteryVoltage returns the last pack voltage sample in volts
func (a *RpAnalog) BatteryVoltage() float32 {
	return float32(a.battery.Get()) * batteryVoltsPerCount
}

// PhaseCurrent returns the last raw phase current sample
func (a *RpAnalog) PhaseCurrent() uint16 {
	return a.phase.Get()
}

// collect drains the FIFO into the per-channel samples
func (a *RpAnalog) collect() {
	for rp.ADC.FCS.Get()&rp.ADC_FCS_LEVEL_Msk != 0 {
		v := uint16(rp.ADC.FIFO.Get() & 0xFFF)
		if a.next == adcBatteryChannel {
			a.battery.Set(v)
			a.next = adcPhaseChannel
		} else {
			a.phase.Set(v)
			a.next = adcBatteryChannel
		}
	}
	a.ready.raise()
}

func sampleReadyISR(interrupt.Interrupt) {
	board.analog.collect()
	board.rt.SampleReady()
}
