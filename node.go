package mwdg

// Node is the caller-owned record for one liveness contract.
//
// The zero value is ready to be registered. The engine only ever links a
// Node into its registry and mutates its fields under the critical section;
// it never copies or retains ownership. The storage must therefore remain
// valid and unmoved for as long as the node is registered.
//
// A Node belongs to at most one [Engine] at a time.
type Node struct {
	// Caller-assigned identifier, reported by [*Engine.NextExpired].
	id uint32

	// Timeout in the clock's millisecond domain.
	// Fixed at registration time.
	timeoutMS uint32

	// Timestamp of the most recent registration or feed.
	// Only ever advances, modulo clock wrap.
	lastFedMS uint32

	// Set by [*Engine.Check] once the timeout lapses,
	// cleared by the next [*Engine.Feed].
	expired bool

	// Guards against double registration without scanning the list.
	registered bool

	// Intrusive link to the next registered node, nil at the tail.
	next *Node
}

// ID returns the identifier most recently assigned via [*Engine.AssignID],
// or zero if none was ever assigned. The identifier survives unregistration.
func (n *Node) ID() uint32 {
	return n.id
}
