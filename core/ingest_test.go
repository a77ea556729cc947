package core

import "testing"

func newLinkRig(t *testing.T) (*testRig, *mockUpdater, *mockUpdater) {
	steer := &mockUpdater{}
	unit := &mockUpdater{}
	r := newTestRig(t, DefaultConfig(Master))
	r.hw.SteerLink = steer
	r.hw.InterUnitLink = unit
	rt, err := New(DefaultConfig(Master), r.state, r.hw)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r.rt = rt
	return r, steer, unit
}

func TestLinkDispatchClearsOnce(t *testing.T) {
	r, steer, unit := newLinkRig(t)
	flag := r.flags[VectorSteerLink]
	flag.set = true

	r.rt.SteerLinkComplete()

	if steer.calls != 1 {
		t.Errorf("Expected one steer update, got %d", steer.calls)
	}
	if unit.calls != 0 {
		t.Error("Inter-unit updater ran on a steer event")
	}
	if flag.clears != 1 || flag.set {
		t.Errorf("Expected flag cleared exactly once, got %d clears", flag.clears)
	}
}

func TestLinkDispatchIgnoresSiblingChannel(t *testing.T) {
	r, steer, _ := newLinkRig(t)

	r.rt.SteerLinkComplete()

	if steer.calls != 0 {
		t.Error("Updater ran without a completed transfer")
	}
	if r.flags[VectorSteerLink].clears != 0 {
		t.Error("Flag cleared without a completed transfer")
	}
}

func TestLinkUpdaterResetsTimeout(t *testing.T) {
	r, _, unit := newLinkRig(t)
	unit.fn = func() {
		r.state.SetSpeed(700)
		r.state.ResetTimeout()
	}

	for i := 0; i < 80; i++ {
		r.tick()
	}
	r.flags[VectorInterUnitLink].set = true
	r.rt.InterUnitLinkComplete()

	if r.state.TimeoutCounter() != 0 {
		t.Errorf("Expected counter reset, got %d", r.state.TimeoutCounter())
	}
	if r.state.Speed() != 700 {
		t.Errorf("Expected speed 700, got %d", r.state.Speed())
	}
}
