package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a real-time event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Source    uint8  // Vector or link that raised the event
	Clock     uint32 // Tick count at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtTimeoutEnter  = 1 // Link lost, speed forced to zero
	EvtTimeoutClear  = 2 // Link back under threshold
	EvtAuxCeiling    = 3 // Aux output forced off after its ceiling
	EvtFrameAccepted = 4 // Valid frame decoded
	EvtFrameDropped  = 5 // Malformed frame absorbed
	EvtSampleOverrun = 6 // Sample trigger fired before the previous computation finished
	EvtShutdown      = 7 // Shutdown sequence started, Value1 = ShutdownReason
	EvtGPIOError     = 8 // Pin write failed, Value1 = pin, Value2 = level
)

// SourceForeground marks events raised by the supervisory loop
const SourceForeground = 0xFE

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, safe from interrupt context)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  bool = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Never call it from an interrupt handler; use RecordTiming there.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures an event in the ring buffer.
// Handlers at different priorities may call it, so the slot claim is done
// with interrupts masked.
func RecordTiming(eventType, source uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	state := disableInterrupts()
	idx := timingRingHead
	timingRingHead = (idx + 1) % TimingRingSize
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Source:    source,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	restoreInterrupts(state)
}

// TimingEvents returns the ring contents from oldest to newest, skipping
// empty slots.
func TimingEvents() []TimingEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		events = append(events, evt)
	}
	return events
}

// EventName returns the printable name of an event type.
func EventName(eventType uint8) string {
	switch eventType {
	case EvtTimeoutEnter:
		return "TIMEOUT"
	case EvtTimeoutClear:
		return "TIMEOUT_CLEAR"
	case EvtAuxCeiling:
		return "AUX_CEILING"
	case EvtFrameAccepted:
		return "FRAME_OK"
	case EvtFrameDropped:
		return "FRAME_DROP"
	case EvtSampleOverrun:
		return "OVERRUN!"
	case EvtShutdown:
		return "SHUTDOWN"
	case EvtGPIOError:
		return "GPIO_ERR"
	default:
		return "UNKNOWN"
	}
}

// DumpTimingRing outputs the timing ring buffer (call on shutdown/error)
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" src=" + utoa(uint32(evt.Source)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
