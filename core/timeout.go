package core

// advanceTimeout runs one ms of the link-timeout state machine.
//
// While the counter is at or under limit it is incremented; once it passes
// limit it stays there until ResetTimeout. entered is true only on the tick
// the link goes from normal to timed out, cleared only on the tick it comes
// back.
func (s *State) advanceTimeout(limit uint32) (entered, cleared bool) {
	var c uint32
	for {
		c = s.timeoutCounter.Load()
		if c > limit {
			break
		}
		// CAS so a ResetTimeout from a higher priority vector is never
		// overwritten by the increment.
		if s.timeoutCounter.CompareAndSwap(c, c+1) {
			c++
			break
		}
	}

	if c > limit {
		entered = !s.timedOut.Swap(true)
	} else {
		cleared = s.timedOut.Swap(false)
	}
	return entered, cleared
}

// advanceAux counts one ms of aux activity, saturating at ceiling. It
// reports whether the ceiling has been reached.
func (s *State) advanceAux(ceiling uint32) bool {
	for {
		c := s.auxCounter.Load()
		if c >= ceiling {
			return true
		}
		if s.auxCounter.CompareAndSwap(c, c+1) {
			return c+1 >= ceiling
		}
	}
}
