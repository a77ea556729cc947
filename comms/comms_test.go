package comms

import (
	"bytes"
	"errors"
	"testing"

	"hugs/core"
	"hugs/protocol"
)

type fakeLink struct {
	speed  int32
	sets   int
	resets int
}

func (l *fakeLink) SetSpeed(v int32) { l.speed = v; l.sets++ }
func (l *fakeLink) ResetTimeout()    { l.resets++ }

type fakeAux struct {
	on    bool
	calls int
}

func (a *fakeAux) SetAux(on bool) { a.on = on; a.calls++ }

type fakeLED struct{ program uint8 }

func (l *fakeLED) SetLEDProgram(p uint8) { l.program = p }

type fixedClock core.Ticks

func (c fixedClock) Now() core.Ticks { return core.Ticks(c) }

func load(t *testing.T, dst []byte, f protocol.Frame) {
	t.Helper()
	if _, err := f.Encode(dst); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
}

func TestSteerSpeedFrame(t *testing.T) {
	link := &fakeLink{}
	s := NewSteerInput(link, fixedClock(7))

	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: -300})
	s.UpdateInput()

	if link.speed != -300 || link.resets != 1 {
		t.Errorf("Expected speed -300 with one reset, got %d/%d", link.speed, link.resets)
	}
	if st := s.Stats(); st.Accepted != 1 || st.Dropped != 0 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestSteerSpeedClamped(t *testing.T) {
	link := &fakeLink{}
	s := NewSteerInput(link, nil)

	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: 5000})
	s.UpdateInput()
	if link.speed != 1000 {
		t.Errorf("Expected 1000, got %d", link.speed)
	}

	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: -5000})
	s.UpdateInput()
	if link.speed != -1000 {
		t.Errorf("Expected -1000, got %d", link.speed)
	}
}

func TestSteerPingKeepsSpeed(t *testing.T) {
	link := &fakeLink{speed: 250}
	s := NewSteerInput(link, nil)

	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdPing})
	s.UpdateInput()

	if link.sets != 0 || link.speed != 250 {
		t.Error("Ping changed the speed")
	}
	if link.resets != 1 {
		t.Error("Ping did not reset the timeout")
	}
}

func TestSteerDropsGarbage(t *testing.T) {
	link := &fakeLink{}
	s := NewSteerInput(link, nil)

	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: 100})
	s.Buffer()[3] ^= 0xFF // corrupt the value under the CRC
	s.UpdateInput()

	copy(s.Buffer(), "garbage!")
	s.UpdateInput()

	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdHorn, Flags: protocol.FlagHorn})
	s.UpdateInput()

	if link.sets != 0 || link.resets != 0 {
		t.Error("Malformed frames reached the state")
	}
	if st := s.Stats(); st.Dropped != 3 || st.Accepted != 0 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestBluetoothHornAndLED(t *testing.T) {
	aux := &fakeAux{}
	led := &fakeLED{}
	b := NewBluetoothInput(aux, led, nil)

	load(t, b.Buffer(), protocol.Frame{Cmd: protocol.CmdHorn, Flags: protocol.FlagHorn})
	b.UpdateInput()
	if !aux.on {
		t.Error("Horn not switched on")
	}

	load(t, b.Buffer(), protocol.Frame{Cmd: protocol.CmdHorn})
	b.UpdateInput()
	if aux.on {
		t.Error("Horn not switched off")
	}

	load(t, b.Buffer(), protocol.Frame{Cmd: protocol.CmdLED, Value: 3})
	b.UpdateInput()
	if led.program != 3 {
		t.Errorf("Expected LED program 3, got %d", led.program)
	}

	if st := b.Stats(); st.Accepted != 3 {
		t.Errorf("Expected 3 accepted frames, got %+v", st)
	}
}

func TestBluetoothWithoutAux(t *testing.T) {
	b := NewBluetoothInput(nil, &fakeLED{}, nil)
	load(t, b.Buffer(), protocol.Frame{Cmd: protocol.CmdHorn, Flags: protocol.FlagHorn})
	b.UpdateInput()
	if st := b.Stats(); st.Dropped != 1 {
		t.Errorf("Expected horn frame dropped, got %+v", st)
	}

	aux := &fakeAux{}
	b.SetAux(aux)
	b.UpdateInput()
	if !aux.on {
		t.Error("Horn not switched on after SetAux")
	}
}

func TestBluetoothRejectsSpeed(t *testing.T) {
	aux := &fakeAux{}
	b := NewBluetoothInput(aux, &fakeLED{}, nil)
	load(t, b.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: 400})
	b.UpdateInput()
	if aux.calls != 0 {
		t.Error("Speed frame drove the horn")
	}
	if st := b.Stats(); st.Dropped != 1 {
		t.Errorf("Expected speed frame dropped, got %+v", st)
	}
}

func TestInterUnitSlaveFollows(t *testing.T) {
	link := &fakeLink{}
	u := NewInterUnitInput(core.Slave, link, nil)

	load(t, u.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: 640})
	u.UpdateInput()
	load(t, u.Buffer(), protocol.Frame{Cmd: protocol.CmdPing})
	u.UpdateInput()

	if link.speed != 640 || link.sets != 1 || link.resets != 2 {
		t.Errorf("Unexpected link state %+v", link)
	}
}

func TestInterUnitMasterIgnoresSpeed(t *testing.T) {
	link := &fakeLink{}
	u := NewInterUnitInput(core.Master, link, nil)

	load(t, u.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: 640})
	u.UpdateInput()
	load(t, u.Buffer(), protocol.Frame{Cmd: protocol.CmdPing})
	u.UpdateInput()

	if link.sets != 0 || link.resets != 0 {
		t.Error("Master state written from the inter-unit link")
	}
	if st := u.Stats(); st.Accepted != 1 || st.Dropped != 1 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestUpdaterDrivesRealState(t *testing.T) {
	st := core.NewState()
	s := NewSteerInput(st, nil)
	load(t, s.Buffer(), protocol.Frame{Cmd: protocol.CmdSpeed, Value: 120})
	s.UpdateInput()
	if st.Speed() != 120 {
		t.Errorf("Expected state speed 120, got %d", st.Speed())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("line down") }

func TestSenderWritesFrames(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, nil)
	s.SendSpeed(-250)
	s.SendSpeed(0)

	if s.Sent() != 2 || buf.Len() != 2*protocol.FrameSize {
		t.Fatalf("Expected two frames, got %d (%d bytes)", s.Sent(), buf.Len())
	}
	f, err := protocol.Decode(buf.Bytes()[:protocol.FrameSize])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Cmd != protocol.CmdSpeed || f.Value != -250 {
		t.Errorf("Unexpected frame %+v", f)
	}
}

func TestSenderDisable(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	s := NewSender(&buf, func() { calls++ })

	s.Disable()
	s.Disable()
	s.SendSpeed(100)

	if calls != 1 {
		t.Errorf("Expected one disable hook call, got %d", calls)
	}
	if buf.Len() != 0 || s.Sent() != 0 {
		t.Error("Sender wrote after Disable")
	}
}

func TestSenderCountsErrors(t *testing.T) {
	s := NewSender(failWriter{}, nil)
	s.SendSpeed(10)
	if s.Errors() != 1 || s.Sent() != 0 {
		t.Errorf("Expected one error, got sent=%d errors=%d", s.Sent(), s.Errors())
	}
}
