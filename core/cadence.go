package core

// SampleTrigger starts the ADC scan that keeps sampling phase-locked to the
// PWM period, then acknowledges the timer update.
func (b *base) SampleTrigger() {
	b.hw.Analog.StartConversion()
	clearFlag(b.hw.PWMTimerFlag)
}

// ackDMA clears a DMA full-transfer flag if it is latched.
func ackDMA(f IRQFlag) {
	if f != nil && f.Pending() {
		f.Clear()
	}
}
