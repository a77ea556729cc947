package core

// Ticks is a millisecond timestamp. It wraps on overflow, so two Ticks are
// only ever compared through Since.
type Ticks uint32

// Since returns the ms elapsed from start to t, correct across one wrap.
func (t Ticks) Since(start Ticks) uint32 {
	return uint32(t - start)
}

// TickSource is anything that reports the current tick count.
type TickSource interface {
	Now() Ticks
}

// Clock is the free-running ms counter advanced by the SysTick vector.
type Clock struct {
	state *State
	idle  func()
}

// NewClock returns a clock over the given state.
func NewClock(s *State) *Clock {
	return &Clock{state: s}
}

// SysTick advances the clock by one ms. Registered on the tick vector.
func (c *Clock) SysTick() {
	c.state.ticks.Add(1)
}

// Now returns ms since boot.
func (c *Clock) Now() Ticks {
	return Ticks(c.state.ticks.Load())
}

// SetTime forces the counter (for testing/hardware integration)
func (c *Clock) SetTime(t Ticks) {
	c.state.ticks.Store(uint32(t))
}

// SetIdle installs a hook run on every spin of DelayMs. On hardware this is
// nil; the simulated harness uses it to let pending interrupts preempt the
// waiting context.
func (c *Clock) SetIdle(fn func()) {
	c.idle = fn
}

// DelayMs busy-waits until at least n ms have elapsed. It never sleeps.
// If the tick vector stops firing this never returns.
func (c *Clock) DelayMs(n uint32) {
	Delay(c, n, c.idle)
}

// Delay busy-waits on src until src.Now()-start >= n.
func Delay(src TickSource, n uint32, idle func()) {
	start := src.Now()
	for src.Now().Since(start) < n {
		if idle != nil {
			idle()
		}
	}
}
