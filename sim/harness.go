// Package sim is a simulated timer-and-DMA harness for the real-time core.
// It stands in for the vector table: handlers are registered by name, fire
// at fixed priorities, and run to completion in simulated time.
package sim

import "hugs/core"

// Flag is a latched interrupt flag. It implements core.IRQFlag.
type Flag struct {
	set    bool
	clears uint32
	raises uint32
}

func (f *Flag) Pending() bool { return f.set }

func (f *Flag) Clear() {
	f.set = false
	f.clears++
}

func (f *Flag) raise() {
	f.set = true
	f.raises++
}

// Clears returns how many times the handler acknowledged the flag.
func (f *Flag) Clears() uint32 { return f.clears }

// Raises returns how many times the source latched the flag.
func (f *Flag) Raises() uint32 { return f.raises }

// Harness simulates the timers, the ADC and the DMA channels of a board.
type Harness struct {
	now         uint64 // ns
	events      *event
	handlers    [core.NumVectors]func()
	pending     [core.NumVectors]bool
	flags       [core.NumVectors]Flag
	fired       [core.NumVectors]uint32
	dispatching bool

	conversionNs uint64
	converting   bool
	overruns     uint32
	clock        core.TickSource
}

// DefaultConversionNs is the simulated ADC scan plus DMA transfer time.
const DefaultConversionNs = 4000

// New returns an idle harness at t=0 with no timers running.
func New() *Harness {
	return &Harness{conversionNs: DefaultConversionNs}
}

// Register installs fn as the handler of vector v.
func (h *Harness) Register(v core.Vector, fn func()) {
	h.handlers[v] = fn
}

// Attach registers every vector of rt, wires the foreground delay to the
// harness and starts the periodic timers.
func (h *Harness) Attach(rt core.RealTime) {
	h.Register(core.VectorSysTick, rt.SysTick)
	h.Register(core.VectorTimeout, rt.TimeoutTick)
	h.Register(core.VectorSampleTrigger, rt.SampleTrigger)
	h.Register(core.VectorSampleReady, rt.SampleReady)
	h.Register(core.VectorSteerLink, rt.SteerLinkComplete)
	h.Register(core.VectorInterUnitLink, rt.InterUnitLinkComplete)

	h.clock = rt.Clock()
	rt.Clock().SetIdle(h.Step)
	h.StartTimers()
}

// StartTimers schedules the tick, timeout and PWM timers.
func (h *Harness) StartTimers() {
	h.Periodic(core.VectorSysTick, core.SysTickPeriodNs)
	h.Periodic(core.VectorTimeout, core.TimeoutPeriodNs)
	h.Periodic(core.VectorSampleTrigger, core.SampleTriggerPeriodNs)
}

// Periodic fires v every periodNs, first at now+periodNs.
func (h *Harness) Periodic(v core.Vector, periodNs uint64) {
	h.insert(&event{at: h.now + periodNs, vector: v, period: periodNs})
}

// After fires v once, delayNs from now.
func (h *Harness) After(v core.Vector, delayNs uint64) {
	h.insert(&event{at: h.now + delayNs, vector: v})
}

// SetConversionTime sets the simulated ADC scan duration.
func (h *Harness) SetConversionTime(ns uint64) {
	h.conversionNs = ns
}

// Flag returns the hardware flag latched by v's source.
func (h *Harness) Flag(v core.Vector) *Flag {
	return &h.flags[v]
}

// Now returns simulated ns since power-on.
func (h *Harness) Now() uint64 {
	return h.now
}

// Fired returns how many times v's handler ran.
func (h *Harness) Fired(v core.Vector) uint32 {
	return h.fired[v]
}

// Overruns returns how many sample triggers arrived while the previous scan
// had not been consumed yet.
func (h *Harness) Overruns() uint32 {
	return h.overruns
}

// Raise latches v's flag and marks it pending, then dispatches.
func (h *Harness) Raise(v core.Vector) {
	h.latch(v)
	h.dispatch()
}

func (h *Harness) latch(v core.Vector) {
	h.flags[v].raise()
	h.pending[v] = true
}

// dispatch runs pending handlers, most urgent first, each to completion.
func (h *Harness) dispatch() {
	if h.dispatching {
		return
	}
	h.dispatching = true
	defer func() { h.dispatching = false }()

	for {
		v, ok := h.nextPending()
		if !ok {
			return
		}
		h.pending[v] = false
		if v == core.VectorSampleReady {
			h.converting = false
		}
		if fn := h.handlers[v]; fn != nil {
			h.fired[v]++
			fn()
		}
	}
}

func (h *Harness) nextPending() (core.Vector, bool) {
	for _, v := range core.Priorities {
		if h.pending[v] {
			return v, true
		}
	}
	return 0, false
}

// Step advances time to the next scheduled event and services everything
// due at that instant. It is the foreground's idle hook.
func (h *Harness) Step() {
	if h.events == nil {
		return
	}
	h.runUntil(h.events.at)
}

// Advance runs the simulation forward by ns.
func (h *Harness) Advance(ns uint64) {
	h.runUntil(h.now + ns)
}

// AdvanceMs runs the simulation forward by ms milliseconds.
func (h *Harness) AdvanceMs(ms uint32) {
	h.Advance(uint64(ms) * 1000000)
}

func (h *Harness) runUntil(t uint64) {
	for {
		e := h.popDue(t)
		if e == nil {
			break
		}
		h.now = e.at
		h.latch(e.vector)
		if e.period != 0 {
			e.at += e.period
			h.insert(e)
		}
		// Everything due at the same instant latches before dispatch so the
		// priority order decides who runs first.
		if h.events == nil || h.events.at != h.now {
			h.dispatch()
		}
	}
	if t > h.now {
		h.now = t
	}
	h.dispatch()
}

// startConversion schedules the sample-ready vector one scan time ahead.
func (h *Harness) startConversion() {
	if h.converting {
		h.overruns++
		var tick uint32
		if h.clock != nil {
			tick = uint32(h.clock.Now())
		}
		core.RecordTiming(core.EvtSampleOverrun, uint8(core.VectorSampleTrigger), tick, h.overruns, 0)
		return
	}
	h.converting = true
	h.After(core.VectorSampleReady, h.conversionNs)
}

// DeliverFrame copies frame into a link's DMA buffer and raises the link's
// transfer-complete vector, as the DMA engine would after the last byte.
func (h *Harness) DeliverFrame(v core.Vector, dst []byte, frame []byte) {
	copy(dst, frame)
	h.Raise(v)
}
