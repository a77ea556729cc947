//go:build rp2040

package main

import (
	"device/arm"
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"hugs/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerALARM2   = timerBase + 0x18
	timerALARM3   = timerBase + 0x1C
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
	timerINTR     = timerBase + 0x34 // Raw interrupts, write 1 to clear
	timerINTE     = timerBase + 0x38
	timerINTS     = timerBase + 0x40

	alarmTick    = 1 << 2
	alarmTimeout = 1 << 3

	// The timer counts microseconds
	tickPeriodUs    = core.SysTickPeriodNs / 1000
	timeoutPeriodUs = core.TimeoutPeriodNs / 1000
)

var (
	timerAlarm2 = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM2)))
	timerAlarm3 = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM3)))
	timerRAWL   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerIntr   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))
	timerInts   = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTS)))

	// Next deadlines, advanced by a fixed period so the alarms never drift
	nextTick    uint32
	nextTimeout uint32
)

// alarmFlag is the latched interrupt of one timer alarm
type alarmFlag uint32

func (f alarmFlag) Pending() bool { return timerInts.HasBits(uint32(f)) }
func (f alarmFlag) Clear()        { timerIntr.Set(uint32(f)) }

// startTimers arms alarm 2 (tick) and alarm 3 (timeout) at 1 kHz.
// Alarm 0 belongs to the runtime's sleep.
func startTimers() {
	now := timerRAWL.Get()
	nextTick = now + tickPeriodUs
	nextTimeout = now + timeoutPeriodUs

	tick := interrupt.New(rp.IRQ_TIMER_IRQ_2, tickISR)
	timeout := interrupt.New(rp.IRQ_TIMER_IRQ_3, timeoutISR)
	tick.SetPriority(nvicPriority(core.VectorSysTick))
	timeout.SetPriority(nvicPriority(core.VectorTimeout))

	timerInte.SetBits(alarmTick | alarmTimeout)
	timerAlarm2.Set(nextTick)
	timerAlarm3.Set(nextTimeout)
	tick.Enable()
	timeout.Enable()
}

func tickISR(interrupt.Interrupt) {
	alarmFlag(alarmTick).Clear()
	nextTick += tickPeriodUs
	timerAlarm2.Set(nextTick)
	board.rt.SysTick()
}

func timeoutISR(interrupt.Interrupt) {
	nextTimeout += timeoutPeriodUs
	timerAlarm3.Set(nextTimeout)
	// TimeoutTick acknowledges the alarm through the hardware flag
	board.rt.TimeoutTick()
}

// nvicPriority maps the core's priority order onto the four Cortex-M0+
// levels. Vectors sharing a level are ordered by IRQ number.
func nvicPriority(v core.Vector) uint8 {
	level := core.Priority(v) / 2
	if level > 3 {
		level = 3
	}
	return uint8(level << 6)
}

// setIRQPriority sets the priority of an IRQ owned by the machine package
func setIRQPriority(irq uint32, v core.Vector) {
	arm.SetPriority(irq, uint32(nvicPriority(v)))
}
