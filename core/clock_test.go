package core

import "testing"

// stepSource advances by one tick on every read
type stepSource struct {
	now   Ticks
	reads int
}

func (s *stepSource) Now() Ticks {
	s.reads++
	t := s.now
	s.now++
	return t
}

func TestTicksSinceAcrossWrap(t *testing.T) {
	start := Ticks(0xFFFFFFF0)
	now := Ticks(0x00000010)

	if got := now.Since(start); got != 0x20 {
		t.Errorf("Expected 32 ticks elapsed across wrap, got %d", got)
	}
}

func TestDelayWaitsAtLeastN(t *testing.T) {
	src := &stepSource{now: 1000}
	Delay(src, 25, nil)

	// First read is the start snapshot, the last read is the one that
	// observed the full delay
	elapsed := uint32(src.now - 1 - 1000)
	if elapsed < 25 {
		t.Errorf("Delay returned after %d ticks, expected at least 25", elapsed)
	}
}

func TestDelayAcrossOverflow(t *testing.T) {
	for _, n := range []uint32{1, 5, 16, 64, 1000} {
		start := Ticks(0xFFFFFFFF - 3)
		src := &stepSource{now: start}
		Delay(src, n, nil)

		last := src.now - 1
		if last.Since(start) < n {
			t.Errorf("n=%d: returned after %d ticks", n, last.Since(start))
		}
		if last.Since(start) != n {
			t.Errorf("n=%d: expected to return exactly at %d ticks, got %d", n, n, last.Since(start))
		}
	}
}

func TestDelayZeroReturnsImmediately(t *testing.T) {
	src := &stepSource{}
	Delay(src, 0, nil)
	if src.reads != 2 {
		t.Errorf("Expected start read plus one check, got %d reads", src.reads)
	}
}

func TestClockDelayDrivenBySysTick(t *testing.T) {
	s := NewState()
	c := NewClock(s)
	c.SetTime(0xFFFFFFFE)

	// The idle hook plays the tick interrupt preempting the wait
	spins := 0
	c.SetIdle(func() {
		spins++
		c.SysTick()
	})

	start := c.Now()
	c.DelayMs(10)

	if c.Now().Since(start) < 10 {
		t.Errorf("DelayMs returned after %d ms", c.Now().Since(start))
	}
	if spins != 10 {
		t.Errorf("Expected 10 ticks during the wait, got %d", spins)
	}
	if c.Now() != 8 {
		t.Errorf("Expected the clock to wrap to 8, got %d", c.Now())
	}
}
