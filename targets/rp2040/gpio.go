//go:build rp2040

package main

import (
	"machine"

	"hugs/core"
)

// RPGPIODriver implements core.GPIODriver using TinyGo's machine.Pin
type RPGPIODriver struct{}

// NewRPGPIODriver creates a new GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{}
}

func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (d *RPGPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	return nil
}

func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}

func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}

// RpWatchdog implements core.Watchdog on the RP2040 watchdog
type RpWatchdog struct{}

func (RpWatchdog) Start(timeoutMs uint32) error {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: timeoutMs}); err != nil {
		return err
	}
	return machine.Watchdog.Start()
}

func (RpWatchdog) Reload() {
	machine.Watchdog.Update()
}
