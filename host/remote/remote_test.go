package remote

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"hugs/protocol"
)

// mockPort records writes and replays canned reads
type mockPort struct {
	bytes.Buffer
	in     *bytes.Reader
	closed bool
}

func (p *mockPort) Read(b []byte) (int, error) { return p.in.Read(b) }
func (p *mockPort) Close() error               { p.closed = true; return nil }
func (p *mockPort) Flush() error               { return nil }

func newMockPort(in []byte) *mockPort {
	return &mockPort{in: bytes.NewReader(in)}
}

func encode(t *testing.T, f protocol.Frame) []byte {
	t.Helper()
	buf := make([]byte, protocol.FrameSize)
	out, err := f.Encode(buf)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return out
}

func decodeAll(t *testing.T, raw []byte) []protocol.Frame {
	t.Helper()
	if len(raw)%protocol.FrameSize != 0 {
		t.Fatalf("Partial frame written: %d bytes", len(raw))
	}
	var frames []protocol.Frame
	for i := 0; i < len(raw); i += protocol.FrameSize {
		f, err := protocol.Decode(raw[i : i+protocol.FrameSize])
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		frames = append(frames, f)
	}
	return frames
}

func TestTickSendsSpeed(t *testing.T) {
	port := newMockPort(nil)
	r := NewRemote()
	r.Attach(port)
	r.SetSpeed(-420)

	if err := r.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	frames := decodeAll(t, port.Bytes())
	if len(frames) != 1 || frames[0].Cmd != protocol.CmdSpeed || frames[0].Value != -420 {
		t.Errorf("Unexpected frames %+v", frames)
	}
}

func TestQueuedFramesGoFirst(t *testing.T) {
	port := newMockPort(nil)
	r := NewRemote()
	r.Attach(port)

	r.Horn(true)
	r.LED(2)
	r.Tick()
	r.Tick()

	frames := decodeAll(t, port.Bytes())
	if len(frames) != 4 {
		t.Fatalf("Expected 4 frames, got %d", len(frames))
	}
	if frames[0].Cmd != protocol.CmdHorn || frames[0].Flags&protocol.FlagHorn == 0 {
		t.Errorf("Expected horn on first, got %+v", frames[0])
	}
	if frames[1].Cmd != protocol.CmdLED || frames[1].Value != 2 {
		t.Errorf("Expected LED 2 second, got %+v", frames[1])
	}
	if frames[2].Cmd != protocol.CmdSpeed || frames[3].Cmd != protocol.CmdSpeed {
		t.Error("Queue not flushed after one tick")
	}
	if r.Stats().Sent != 4 {
		t.Errorf("Expected 4 sent, got %d", r.Stats().Sent)
	}
	if !r.HornOn() || r.LEDProgram() != 2 {
		t.Errorf("Expected horn on and LED 2, got horn=%t led=%d", r.HornOn(), r.LEDProgram())
	}
}

func TestTickNotConnected(t *testing.T) {
	if err := NewRemote().Tick(); err == nil {
		t.Fatal("Expected error without a port")
	}
}

func TestStreamStopsOnCancel(t *testing.T) {
	port := newMockPort(nil)
	r := NewRemote()
	r.Attach(port)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := r.Stream(ctx, 200)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline, got %v", err)
	}
	if r.Stats().Sent == 0 {
		t.Error("Nothing streamed")
	}
}

func TestStreamRejectsRate(t *testing.T) {
	r := NewRemote()
	r.Attach(newMockPort(nil))
	if err := r.Stream(context.Background(), 0); err == nil {
		t.Fatal("Expected error for zero rate")
	}
}

func TestListenResyncs(t *testing.T) {
	var in []byte
	in = append(in, 0x00, 0xAA, '/')
	in = append(in, encode(t, protocol.Frame{Cmd: protocol.CmdPing})...)
	in = append(in, encode(t, protocol.Frame{Cmd: protocol.CmdSpeed, Value: 77})...)

	r := NewRemote()
	r.Attach(newMockPort(in))

	var got []protocol.Frame
	if err := r.Listen(func(f protocol.Frame) { got = append(got, f) }); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	if len(got) != 2 || got[0].Cmd != protocol.CmdPing || got[1].Value != 77 {
		t.Errorf("Unexpected frames %+v", got)
	}
	st := r.Stats()
	if st.Received != 2 || st.Dropped != 3 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestClose(t *testing.T) {
	port := newMockPort(nil)
	r := NewRemote()
	r.Attach(port)
	if err := r.Close(); err != nil || !port.closed || r.IsConnected() {
		t.Error("Close did not release the port")
	}
	if err := r.Close(); err != nil {
		t.Error("Second Close failed")
	}
}
