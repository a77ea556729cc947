package core

// MotorDriver is the three-phase output stage. Commutate is the BLDC
// computation run from the sample-ready vector: it reads the freshly
// converted samples, derives rotor position and writes the per-phase duties
// before returning. It must not block.
type MotorDriver interface {
	Commutate(speed int32)

	// SetPWM sets the drive duty directly (slave variant only)
	SetPWM(duty int32)

	// SetEnable gates the output stage
	SetEnable(on bool)
}

// Analog is the ADC side of the board.
type Analog interface {
	// StartConversion fires a regular-channel scan. Fire and forget: the
	// sample-ready vector signals completion.
	StartConversion()

	// BatteryVoltage returns the filtered pack voltage in volts
	BatteryVoltage() float32
}

// Watchdog is the independent hardware watchdog.
type Watchdog interface {
	// Start arms the watchdog with the given fault window
	Start(timeoutMs uint32) error

	// Reload feeds the watchdog
	Reload()
}

// IRQFlag is a latched hardware interrupt flag (timer update, DMA full
// transfer finished).
type IRQFlag interface {
	Pending() bool
	Clear()
}

// FrameUpdater decodes the frame a link's DMA just finished filling. It
// absorbs malformed frames silently and calls ResetTimeout on a valid one.
type FrameUpdater interface {
	UpdateInput()
}

// LEDEngine computes the slave's RGB LED output.
type LEDEngine interface {
	// CalculateProgram advances the slowly varying LED pattern (1 kHz)
	CalculateProgram()

	// CalculatePWM recomputes the RGB duty from the current program (16 kHz)
	CalculatePWM()
}

// CommsPort is the inter-unit serial peripheral.
type CommsPort interface {
	Disable()
}

// CommandSink receives the scaled command the master forwards every loop.
type CommandSink interface {
	SendSpeed(scaled int16)
}
