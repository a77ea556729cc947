package core

import "errors"

// ErrNoWatchdog is returned by Boot when the watchdog cannot be armed.
var ErrNoWatchdog = errors.New("watchdog init failed")

// Boot brings the supervisory side up: arm the watchdog, configure the pins,
// latch the power stage, then wait for the power button to be released.
// The caller must Halt on error; the board may not run without a watchdog.
func (f *Foreground) Boot() error {
	if err := f.watchdog.Start(f.cfg.WatchdogTimeoutMs); err != nil {
		return errors.Join(ErrNoWatchdog, err)
	}

	if err := configurePins(f.gpio, f.pins); err != nil {
		return err
	}

	// Latch self-hold straight after GPIO init so releasing the button
	// doesn't cut the supply
	if err := f.gpio.SetPin(f.pins.SelfHold, true); err != nil {
		return err
	}

	f.watchdog.Reload()

	// The button is still held from power-on
	f.waitButtonRelease()

	DebugPrintln("[SUPERVISOR] boot complete, variant=" + f.cfg.Variant.String() +
		" timeout_ms=" + utoa(f.cfg.TimeoutMs))
	return nil
}

// Halt stops the board for good without feeding the watchdog. On a fault
// vector the watchdog reset is the only way out.
func Halt() {
	for {
	}
}

// Fault is the handler for hard, memory, bus and usage faults.
func Fault() {
	RecordTiming(EvtShutdown, 0xFF, 0, 0, 0)
	Halt()
}
