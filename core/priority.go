package core

// Vector names one of the fixed interrupt entry points of the core.
type Vector uint8

const (
	VectorSampleTrigger Vector = iota // PWM timer update, 16 kHz
	VectorSampleReady                 // ADC DMA full transfer finished
	VectorSysTick                     // 1 kHz tick clock
	VectorTimeout                     // 1 kHz timeout timer
	VectorSteerLink                   // Steer/bluetooth USART RX DMA
	VectorInterUnitLink               // Master/slave USART RX DMA
	NumVectors
)

// Priorities lists the vectors from most to least urgent. The sample-ready
// computation sits directly under its own trigger so that nothing but the
// trigger can delay it by more than one PWM period; link reception is the
// least urgent because its DMA buffers hold a whole frame.
var Priorities = [NumVectors]Vector{
	VectorSampleTrigger,
	VectorSampleReady,
	VectorSysTick,
	VectorTimeout,
	VectorSteerLink,
	VectorInterUnitLink,
}

// Priority returns the rank of v, 0 being the most urgent.
func Priority(v Vector) int {
	for i, p := range Priorities {
		if p == v {
			return i
		}
	}
	return int(NumVectors)
}

func (v Vector) String() string {
	switch v {
	case VectorSampleTrigger:
		return "sample_trigger"
	case VectorSampleReady:
		return "sample_ready"
	case VectorSysTick:
		return "systick"
	case VectorTimeout:
		return "timeout"
	case VectorSteerLink:
		return "steer_link"
	case VectorInterUnitLink:
		return "interunit_link"
	default:
		return "unknown"
	}
}

// Periods of the periodic vectors in nanoseconds.
const (
	SysTickPeriodNs       = 1000000
	TimeoutPeriodNs       = 1000000
	SampleTriggerPeriodNs = 31250 // center-aligned 16 kHz PWM updates twice per period
)
