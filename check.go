package mwdg

// Health is the aggregate result of a [*Engine.Check] pass.
// It deliberately carries no count; callers needing detail drain
// [*Engine.NextExpired].
type Health int

const (
	Healthy Health = iota
	Unhealthy
)

func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Check scans every registered node, flags the ones whose elapsed time
// since their last feed has reached their timeout, and reports whether any
// node is currently flagged.
//
// Elapsed time is computed by modular uint32 subtraction, so a clock wrap
// between a feed and the check still yields the correct duration.
// Check may be called arbitrarily often and from any context; concurrent
// checks and feeds serialize through the critical section, so their
// individual results may interleave but never corrupt the registry.
func (e *Engine) Check() (Health, error) {
	if !e.initialized() {
		return Unhealthy, ErrNotInitialized
	}

	now := e.clock.NowMS()

	e.crit.Enter()
	defer e.crit.Exit()

	h := Healthy
	for n := e.head; n != nil; n = n.next {
		if now-n.lastFedMS >= n.timeoutMS {
			n.expired = true
		}

		if n.expired {
			h = Unhealthy
		}
	}

	return h, nil
}

// Cursor tracks a caller's position in an expired-node drain.
// The zero value is the before-first position. A Cursor is single-use:
// once [*Engine.NextExpired] reports exhaustion, further calls with the
// same cursor keep reporting exhaustion; start a new drain with a fresh
// Cursor.
type Cursor struct {
	pos *Node
}

// NextExpired advances c to the next node whose expired flag is set and
// reports its identifier. It returns ok=false once no flagged node remains
// past the cursor. Call it after [*Engine.Check] has flagged the lapsed
// nodes; draining before any check trivially finds nothing.
//
// Each call enters the critical section independently, and the flag is
// read live rather than from a snapshot: if a stalled context recovers and
// feeds mid-drain, its node may or may not appear in the remainder of the
// drain. That race is an accepted property of the protocol. Iteration
// follows list order (most recently registered first) and visits each
// flagged node exactly once per drain. Unregistering the node the cursor
// is positioned at ends the drain early.
func (e *Engine) NextExpired(c *Cursor) (id uint32, ok bool) {
	if !e.initialized() || c == nil {
		return 0, false
	}

	e.crit.Enter()
	defer e.crit.Exit()

	next := e.head
	if c.pos != nil {
		next = c.pos.next
	}

	for n := next; n != nil; n = n.next {
		if !n.expired {
			continue
		}

		c.pos = n
		return n.id, true
	}

	// Park the cursor at the tail so the drain stays exhausted even if
	// later registrations change the head.
	if next != nil {
		for n := next; ; n = n.next {
			if n.next == nil {
				c.pos = n
				break
			}
		}
	}

	return 0, false
}
