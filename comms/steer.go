package comms

import (
	"hugs/core"
	"hugs/protocol"
)

// SteerInput decodes frames from the steering remote on the master.
type SteerInput struct {
	receiver
	link Link
}

// NewSteerInput returns the master's steer link updater.
func NewSteerInput(link Link, clock core.TickSource) *SteerInput {
	s := &SteerInput{link: link}
	s.source = uint8(core.VectorSteerLink)
	s.clock = clock
	return s
}

// UpdateInput applies a speed or keep-alive frame and resets the timeout.
func (s *SteerInput) UpdateInput() {
	f, ok := s.decode()
	if !ok {
		return
	}

	switch f.Cmd {
	case protocol.CmdSpeed:
		s.link.SetSpeed(clampSpeed(f.Value))
	case protocol.CmdPing:
	default:
		s.drop(f.Cmd)
		return
	}

	s.link.ResetTimeout()
	s.accept(f)
}
