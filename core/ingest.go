package core

// SteerLinkComplete runs when the steer (master) or bluetooth (slave) RX DMA
// has filled its frame buffer.
func (b *base) SteerLinkComplete() {
	dispatchLink(b.hw.SteerDMAFlag, b.hw.SteerLink)
}

// InterUnitLinkComplete runs when the master/slave RX DMA has filled its
// frame buffer.
func (b *base) InterUnitLinkComplete() {
	dispatchLink(b.hw.InterUnitDMAFlag, b.hw.InterUnitLink)
}

// dispatchLink hands a completed frame to its updater and acknowledges the
// flag exactly once. A shared vector fires for sibling channels too, so a
// clear flag means the event was not ours.
func dispatchLink(flag IRQFlag, u FrameUpdater) {
	if flag == nil || !flag.Pending() {
		return
	}
	if u != nil {
		u.UpdateInput()
	}
	flag.Clear()
}
