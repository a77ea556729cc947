package comms

import (
	"hugs/core"
	"hugs/protocol"
)

// AuxSwitch drives the slave's horn output. *core.SlaveCore implements it.
type AuxSwitch interface {
	SetAux(on bool)
}

// LEDSelector stores the selected LED program. *core.State implements it.
type LEDSelector interface {
	SetLEDProgram(p uint8)
}

// BluetoothInput decodes horn and LED frames on the slave. These frames
// carry no motion command, so they never reset the link timeout.
type BluetoothInput struct {
	receiver
	aux AuxSwitch
	led LEDSelector
}

// NewBluetoothInput returns the slave's bluetooth link updater.
func NewBluetoothInput(aux AuxSwitch, led LEDSelector, clock core.TickSource) *BluetoothInput {
	b := &BluetoothInput{aux: aux, led: led}
	b.source = uint8(core.VectorSteerLink)
	b.clock = clock
	return b
}

// SetAux attaches the horn switch once the slave core exists.
func (b *BluetoothInput) SetAux(aux AuxSwitch) {
	b.aux = aux
}

func (b *BluetoothInput) UpdateInput() {
	f, ok := b.decode()
	if !ok {
		return
	}

	switch f.Cmd {
	case protocol.CmdHorn:
		if b.aux == nil {
			b.drop(f.Cmd)
			return
		}
		b.aux.SetAux(f.Flags&protocol.FlagHorn != 0)
	case protocol.CmdLED:
		b.led.SetLEDProgram(uint8(f.Value))
	case protocol.CmdPing:
	default:
		b.drop(f.Cmd)
		return
	}

	b.accept(f)
}
