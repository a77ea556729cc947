// Package protocol implements the fixed-size link frames exchanged on the
// steer, bluetooth and inter-unit serial links.
package protocol

// Version of the link frame layout
const Version = "1"

// Frame layout constants
const (
	FrameSize  = 8    // Every frame on every link is exactly this long
	FrameStart = '/'  // First byte
	FrameEnd   = '\n' // Last byte

	framePosCmd   = 1
	framePosValue = 2 // int16, big endian
	framePosFlags = 4
	framePosCRC   = 5 // crc16 over bytes [0, framePosCRC), big endian
)

// Command identifies what a frame carries.
type Command uint8

const (
	CmdSpeed Command = 'S' // Value = commanded speed
	CmdHorn  Command = 'H' // Flags bit 0 = horn on
	CmdLED   Command = 'L' // Value = LED program
	CmdPing  Command = 'P' // Keep-alive, no payload
)

// Flag bits
const (
	FlagHorn = 1 << 0
)
