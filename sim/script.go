package sim

import (
	"sort"

	"hugs/core"
)

// Timed is a frame delivered on a link at a given simulated ms.
type Timed struct {
	AtMs   uint32
	Vector core.Vector // VectorSteerLink or VectorInterUnitLink
	Frame  []byte
}

// Result summarises a scripted run.
type Result struct {
	ElapsedMs  uint32
	Iterations uint32
	Delivered  uint32
	Shutdown   core.ShutdownReason
}

// Run drives the supervisory loop for durationMs of simulated time while
// delivering script frames on schedule. A non-nil peer advances in lockstep.
// The run ends early if the loop asks for a shutdown.
func (b *Board) Run(script []Timed, durationMs uint32, peer *Board) Result {
	pending := make([]Timed, len(script))
	copy(pending, script)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].AtMs < pending[j].AtMs })

	var res Result
	deliver := func() {
		now := b.nowMs()
		for len(pending) > 0 && pending[0].AtMs <= now {
			b.deliver(pending[0])
			pending = pending[1:]
			res.Delivered++
		}
		if peer != nil && b.H.Now() > peer.H.Now() {
			peer.H.Advance(b.H.Now() - peer.H.Now())
		}
	}

	b.RT.Clock().SetIdle(func() {
		b.H.Step()
		deliver()
	})
	defer b.RT.Clock().SetIdle(b.H.Step)

	deliver()
	for b.nowMs() < durationMs {
		res.Iterations++
		if reason := b.FG.Iterate(); reason != core.ShutdownNone {
			b.FG.ShutOff(reason)
			res.Shutdown = reason
			break
		}
	}
	res.ElapsedMs = b.nowMs()
	return res
}

func (b *Board) nowMs() uint32 {
	return uint32(b.H.Now() / 1000000)
}

func (b *Board) deliver(t Timed) {
	if t.Vector == core.VectorInterUnitLink {
		b.DeliverInterUnit(t.Frame)
		return
	}
	b.DeliverSteer(t.Frame)
}
