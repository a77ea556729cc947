package sim

import "hugs/core"

// event is a scheduled hardware source: a timer period elapsing or an ADC
// scan finishing.
type event struct {
	at     uint64 // ns since power-on
	vector core.Vector
	period uint64 // 0 for one-shot events
	next   *event
}

// before orders events by time, then by vector priority.
func (e *event) before(o *event) bool {
	if e.at != o.at {
		return e.at < o.at
	}
	return core.Priority(e.vector) < core.Priority(o.vector)
}

// insert adds e to the list kept sorted by before.
func (h *Harness) insert(e *event) {
	if h.events == nil || e.before(h.events) {
		e.next = h.events
		h.events = e
		return
	}

	current := h.events
	for current.next != nil && current.next.before(e) {
		current = current.next
	}

	e.next = current.next
	current.next = e
}

// popDue removes and returns the head event if it is due at or before t.
func (h *Harness) popDue(t uint64) *event {
	e := h.events
	if e == nil || e.at > t {
		return nil
	}
	h.events = e.next
	e.next = nil
	return e
}
