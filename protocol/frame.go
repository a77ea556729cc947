package protocol

import "errors"

var (
	ErrShortFrame     = errors.New("frame too short")
	ErrBadStart       = errors.New("bad frame start byte")
	ErrBadEnd         = errors.New("bad frame end byte")
	ErrBadCRC         = errors.New("frame crc mismatch")
	ErrUnknownCommand = errors.New("unknown frame command")
)

// Frame is one decoded link frame.
type Frame struct {
	Cmd   Command
	Value int16
	Flags uint8
}

// Encode writes f into buf, which must hold FrameSize bytes, and returns the
// frame slice.
func (f Frame) Encode(buf []byte) ([]byte, error) {
	if len(buf) < FrameSize {
		return nil, ErrShortFrame
	}
	buf = buf[:FrameSize]
	buf[0] = FrameStart
	buf[framePosCmd] = byte(f.Cmd)
	buf[framePosValue] = byte(uint16(f.Value) >> 8)
	buf[framePosValue+1] = byte(uint16(f.Value))
	buf[framePosFlags] = f.Flags
	crc := CRC16(buf[:framePosCRC])
	buf[framePosCRC] = byte(crc >> 8)
	buf[framePosCRC+1] = byte(crc)
	buf[FrameSize-1] = FrameEnd
	return buf, nil
}

// Decode validates and decodes one frame. It does not allocate, so it is
// safe to call from a DMA completion handler.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < FrameSize {
		return Frame{}, ErrShortFrame
	}
	if buf[0] != FrameStart {
		return Frame{}, ErrBadStart
	}
	if buf[FrameSize-1] != FrameEnd {
		return Frame{}, ErrBadEnd
	}
	crc := uint16(buf[framePosCRC])<<8 | uint16(buf[framePosCRC+1])
	if crc != CRC16(buf[:framePosCRC]) {
		return Frame{}, ErrBadCRC
	}

	f := Frame{
		Cmd:   Command(buf[framePosCmd]),
		Value: int16(uint16(buf[framePosValue])<<8 | uint16(buf[framePosValue+1])),
		Flags: buf[framePosFlags],
	}
	switch f.Cmd {
	case CmdSpeed, CmdHorn, CmdLED, CmdPing:
		return f, nil
	}
	return Frame{}, ErrUnknownCommand
}
