package comms

import (
	"io"
	"sync/atomic"

	"hugs/protocol"
)

// Sender forwards the master's scaled command to the slave. It implements
// core.CommandSink and core.CommsPort.
type Sender struct {
	w         io.Writer
	buf       [protocol.FrameSize]byte
	disabled  atomic.Bool
	onDisable func()
	sent      uint32
	errors    uint32
}

// NewSender writes frames to w. onDisable, if set, shuts the peripheral down.
func NewSender(w io.Writer, onDisable func()) *Sender {
	return &Sender{w: w, onDisable: onDisable}
}

// SendSpeed writes one speed frame. Write errors are counted, not returned:
// the slave's own timeout covers a dead link.
func (s *Sender) SendSpeed(scaled int16) {
	if s.disabled.Load() {
		return
	}
	frame, err := protocol.Frame{Cmd: protocol.CmdSpeed, Value: scaled}.Encode(s.buf[:])
	if err != nil {
		s.errors++
		return
	}
	if _, err := s.w.Write(frame); err != nil {
		s.errors++
		return
	}
	s.sent++
}

// Disable stops all further output.
func (s *Sender) Disable() {
	if s.disabled.Swap(true) {
		return
	}
	if s.onDisable != nil {
		s.onDisable()
	}
}

// Sent returns the number of frames written.
func (s *Sender) Sent() uint32 {
	return s.sent
}

// Errors returns the number of failed writes.
func (s *Sender) Errors() uint32 {
	return s.errors
}
