package comms

import (
	"hugs/core"
	"hugs/protocol"
)

// InterUnitInput decodes frames on the master/slave link. The slave follows
// the master: speed frames set its commanded speed and every valid frame
// resets its timeout. The master only counts the slave's keep-alives.
type InterUnitInput struct {
	receiver
	link   Link
	follow bool
}

// NewInterUnitInput returns the inter-unit updater for variant v.
func NewInterUnitInput(v core.Variant, link Link, clock core.TickSource) *InterUnitInput {
	u := &InterUnitInput{link: link, follow: v == core.Slave}
	u.source = uint8(core.VectorInterUnitLink)
	u.clock = clock
	return u
}

func (u *InterUnitInput) UpdateInput() {
	f, ok := u.decode()
	if !ok {
		return
	}

	if !u.follow {
		if f.Cmd != protocol.CmdPing {
			u.drop(f.Cmd)
			return
		}
		u.accept(f)
		return
	}

	switch f.Cmd {
	case protocol.CmdSpeed:
		u.link.SetSpeed(clampSpeed(f.Value))
	case protocol.CmdPing:
	default:
		u.drop(f.Cmd)
		return
	}

	u.link.ResetTimeout()
	u.accept(f)
}
