package core

import "sync/atomic"

// State is the shared real-time state written from interrupt context and
// read by the supervisory loop. Every word is accessed atomically; composite
// reads go through Snapshot, which runs inside a critical section.
type State struct {
	ticks          atomic.Uint32 // ms since boot, wraps
	timeoutCounter atomic.Uint32 // ms since the last validated frame
	timedOut       atomic.Bool
	speed          atomic.Int32 // commanded speed, [-1000, 1000]
	auxCounter     atomic.Uint32
	auxOn          atomic.Bool
	ledProgram     atomic.Uint32
}

// NewState returns the boot state: counters at zero, link timed out.
func NewState() *State {
	s := &State{}
	s.timedOut.Store(true)
	return s
}

// Speed returns the commanded speed.
func (s *State) Speed() int32 {
	return s.speed.Load()
}

// SetSpeed stores a commanded speed. Called by the link updaters.
func (s *State) SetSpeed(v int32) {
	s.speed.Store(v)
}

// ResetTimeout marks link activity: the timeout counter restarts at zero.
// Safe from any context.
func (s *State) ResetTimeout() {
	s.timeoutCounter.Store(0)
}

// TimeoutCounter returns ms since the last validated frame.
func (s *State) TimeoutCounter() uint32 {
	return s.timeoutCounter.Load()
}

// TimedOut reports whether the link is currently considered lost.
func (s *State) TimedOut() bool {
	return s.timedOut.Load()
}

// AuxCounter returns how long the aux output has been active, in ms.
func (s *State) AuxCounter() uint32 {
	return s.auxCounter.Load()
}

// AuxOn reports the last commanded aux output level.
func (s *State) AuxOn() bool {
	return s.auxOn.Load()
}

// LEDProgram returns the LED program selected over the bluetooth link.
func (s *State) LEDProgram() uint8 {
	return uint8(s.ledProgram.Load())
}

// SetLEDProgram selects the LED program.
func (s *State) SetLEDProgram(p uint8) {
	s.ledProgram.Store(uint32(p))
}

// Snapshot is a consistent copy of State.
type Snapshot struct {
	Ticks          Ticks
	TimeoutCounter uint32
	TimedOut       bool
	Speed          int32
	AuxCounter     uint32
	AuxOn          bool
}

// Snapshot copies the state with interrupts masked so the fields agree with
// each other.
func (s *State) Snapshot() Snapshot {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return Snapshot{
		Ticks:          Ticks(s.ticks.Load()),
		TimeoutCounter: s.timeoutCounter.Load(),
		TimedOut:       s.timedOut.Load(),
		Speed:          s.speed.Load(),
		AuxCounter:     s.auxCounter.Load(),
		AuxOn:          s.auxOn.Load(),
	}
}
