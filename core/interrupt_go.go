//go:build !tinygo

package core

// irqState is a placeholder for interrupt state on regular Go
type irqState uintptr

// disableInterrupts is a no-op on regular Go; the simulated harness runs
// every vector on one goroutine so nothing can preempt a critical section.
func disableInterrupts() irqState {
	return 0
}

// restoreInterrupts is a no-op on regular Go
func restoreInterrupts(state irqState) {
	_ = state
}
