package mwdg

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config carries the two capabilities an [Engine] consumes.
type Config struct {
	// Clock supplies the monotonic millisecond counter.
	Clock Clock

	// Critical supplies mutual exclusion around the registry.
	Critical CriticalSection
}

func (c Config) validate() error {
	var err error
	if c.Clock == nil {
		err = errors.Join(err, errors.New("Config.Clock must not be nil"))
	}

	if c.Critical == nil {
		err = errors.Join(err, errors.New("Config.Critical must not be nil"))
	}

	return err
}

// Engine tracks a set of registered watchdog nodes.
//
// An Engine must be constructed with [New]; the zero value reports
// [ErrNotInitialized] from every operation. Constructing a replacement
// Engine while nodes registered with the old one are still being fed is a
// caller error: the old registrations are simply forgotten.
//
// All methods are safe for concurrent use from any number of execution
// contexts; registry access serializes through the injected
// [CriticalSection], and no method blocks beyond that.
type Engine struct {
	clock Clock
	crit  CriticalSection

	// Head of the intrusive list of registered nodes.
	// Only touched while holding crit.
	head *Node
}

// New validates cfg and returns an Engine with an empty registry.
// This is the single explicit initialization point required before any
// other operation.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		clock: cfg.Clock,
		crit:  cfg.Critical,
	}, nil
}

func (e *Engine) initialized() bool {
	return e != nil && e.clock != nil && e.crit != nil
}

// Register links the caller-owned node n into the registry with the given
// timeout, stamping it as freshly fed. The node's storage must outlive its
// registration.
//
// Register reports [ErrInvalidTimeout] for timeouts that are not positive
// or do not fit the clock's uint32 millisecond domain, and
// [ErrAlreadyRegistered] if n is currently linked; in both cases no state
// is mutated.
func (e *Engine) Register(n *Node, timeout time.Duration) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	if n == nil {
		return ErrNilNode
	}

	ms := timeout / time.Millisecond
	if ms <= 0 || ms > math.MaxUint32 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, timeout)
	}

	now := e.clock.NowMS()

	e.crit.Enter()
	defer e.crit.Exit()

	if n.registered {
		return ErrAlreadyRegistered
	}

	n.timeoutMS = uint32(ms)
	n.lastFedMS = now
	n.expired = false
	n.registered = true
	n.next = e.head
	e.head = n

	return nil
}

// Unregister unlinks a previously registered node, after which its storage
// may be released or reused. The node's identifier is preserved.
//
// Unregistering a node that a concurrent [*Engine.NextExpired] drain is
// positioned at ends that drain early; see NextExpired.
func (e *Engine) Unregister(n *Node) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	if n == nil {
		return ErrNilNode
	}

	e.crit.Enter()
	defer e.crit.Exit()

	if !n.registered {
		return ErrNotRegistered
	}

	for link := &e.head; *link != nil; link = &(*link).next {
		if *link != n {
			continue
		}

		*link = n.next
		n.next = nil
		n.registered = false
		n.expired = false
		return nil
	}

	// The registered flag said the node was linked, but it was not found.
	// That means the node belongs to a different engine; leave it alone.
	return ErrNotRegistered
}

// AssignID stores a caller-chosen identifier on a currently registered
// node. The engine never interprets the identifier; it only reports it
// through [*Engine.NextExpired].
func (e *Engine) AssignID(n *Node, id uint32) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	if n == nil {
		return ErrNilNode
	}

	e.crit.Enter()
	defer e.crit.Exit()

	if !n.registered {
		return ErrNotRegistered
	}

	n.id = id
	return nil
}

// Feed asserts that the context owning n is still alive: it advances the
// node's last-fed timestamp and clears a previously set expired flag.
//
// Clearing the flag is the engine's recovery semantic. A watchdog that
// lapsed self-heals by resuming feeds, so a stalled-then-recovered context
// stops appearing in expired drains without any explicit acknowledgment.
func (e *Engine) Feed(n *Node) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	if n == nil {
		return ErrNilNode
	}

	now := e.clock.NowMS()

	e.crit.Enter()
	defer e.crit.Exit()

	if !n.registered {
		return ErrNotRegistered
	}

	n.lastFedMS = now
	n.expired = false
	return nil
}
