package core

import "testing"

func TestAuxCeiling(t *testing.T) {
	r := newTestRig(t, DefaultConfig(Slave))
	slave := r.rt.(*SlaveCore)
	slave.SetAux(true)

	for tick := 1; tick < 2000; tick++ {
		r.tick()
		if !r.gpio.pins[testPins.Aux] {
			t.Fatalf("Aux forced off early at tick %d", tick)
		}
	}

	r.tick() // tick 2000
	if r.gpio.pins[testPins.Aux] {
		t.Error("Expected aux forced off at tick 2000")
	}
	if r.state.AuxOn() {
		t.Error("Expected aux state off at tick 2000")
	}

	for i := 0; i < 3000; i++ {
		r.tick()
		if r.state.AuxCounter() > 2000 {
			t.Fatalf("Aux counter exceeded ceiling: %d", r.state.AuxCounter())
		}
	}
}

func TestAuxReactivationRestartsCeiling(t *testing.T) {
	r := newTestRig(t, DefaultConfig(Slave))
	slave := r.rt.(*SlaveCore)

	for i := 0; i < 2500; i++ {
		r.tick()
	}
	slave.SetAux(true)
	if r.state.AuxCounter() != 0 {
		t.Fatalf("Expected counter restart, got %d", r.state.AuxCounter())
	}

	for i := 0; i < 1999; i++ {
		r.tick()
	}
	if !r.gpio.pins[testPins.Aux] {
		t.Error("Aux forced off before a fresh ceiling elapsed")
	}
	r.tick()
	if r.gpio.pins[testPins.Aux] {
		t.Error("Expected aux off after a fresh ceiling")
	}
}

func TestAuxIndependentOfTimeout(t *testing.T) {
	r := newTestRig(t, DefaultConfig(Slave))
	slave := r.rt.(*SlaveCore)
	slave.SetAux(true)

	// Keep the link alive the whole time
	for i := 0; i < 2000; i++ {
		r.state.ResetTimeout()
		r.tick()
	}
	if r.state.TimedOut() {
		t.Error("Link should be alive")
	}
	if r.gpio.pins[testPins.Aux] {
		t.Error("Aux ceiling must fire regardless of link state")
	}
}

func TestSlaveTickAdvancesLEDProgram(t *testing.T) {
	r := newTestRig(t, DefaultConfig(Slave))
	for i := 0; i < 10; i++ {
		r.tick()
	}
	if r.led.programs != 10 {
		t.Errorf("Expected 10 LED program updates, got %d", r.led.programs)
	}
}

func TestAuxWriteFailureRecorded(t *testing.T) {
	ClearTimingRing()
	defer ClearTimingRing()

	r := newTestRig(t, DefaultConfig(Slave))
	r.gpio.fail[testPins.Aux] = true
	r.rt.(*SlaveCore).SetAux(true)

	if !r.state.AuxOn() {
		t.Error("Aux state must follow the command even if the pin write failed")
	}
	var found bool
	for _, evt := range TimingEvents() {
		if evt.EventType == EvtGPIOError && evt.Value1 == uint32(testPins.Aux) && evt.Value2 == 1 {
			found = true
		}
	}
	if !found {
		t.Error("Failed aux write was not recorded")
	}
}
