// Package comms holds the link-specific frame updaters invoked from the RX
// DMA completion vectors, and the master's outbound command sender.
package comms

import (
	"sync/atomic"

	"hugs/core"
	"hugs/protocol"
)

// Link is the part of the real-time state an updater writes.
// *core.State implements it.
type Link interface {
	SetSpeed(v int32)
	ResetTimeout()
}

// Stats counts frames seen by one updater.
type Stats struct {
	Accepted uint32
	Dropped  uint32
}

// receiver owns the DMA destination buffer of one link.
type receiver struct {
	buf      [protocol.FrameSize]byte
	source   uint8
	clock    core.TickSource
	accepted atomic.Uint32
	dropped  atomic.Uint32
}

// Buffer returns the DMA destination. The DMA engine fills it in place; the
// updater decodes it on transfer complete.
func (r *receiver) Buffer() []byte {
	return r.buf[:]
}

// Stats returns the frame counters.
func (r *receiver) Stats() Stats {
	return Stats{Accepted: r.accepted.Load(), Dropped: r.dropped.Load()}
}

// decode validates the buffer. Malformed frames are counted and dropped.
func (r *receiver) decode() (protocol.Frame, bool) {
	f, err := protocol.Decode(r.buf[:])
	if err != nil {
		r.drop(0)
		return protocol.Frame{}, false
	}
	return f, true
}

func (r *receiver) accept(f protocol.Frame) {
	r.accepted.Add(1)
	core.RecordTiming(core.EvtFrameAccepted, r.source, r.now(), uint32(f.Cmd), uint32(uint16(f.Value)))
}

func (r *receiver) drop(cmd protocol.Command) {
	r.dropped.Add(1)
	core.RecordTiming(core.EvtFrameDropped, r.source, r.now(), uint32(cmd), 0)
}

func (r *receiver) now() uint32 {
	if r.clock == nil {
		return 0
	}
	return uint32(r.clock.Now())
}

// clampSpeed bounds a received speed to the commanded range.
func clampSpeed(v int16) int32 {
	s := int32(v)
	if s > 1000 {
		return 1000
	}
	if s < -1000 {
		return -1000
	}
	return s
}
