// Package mwdg provides a multi-watchdog engine for tracking the liveness
// of independent execution contexts.
// Each context registers a caller-owned [Node] with a timeout and
// periodically calls [*Engine.Feed] to prove it is still alive.
// A supervisory context calls [*Engine.Check] to learn whether every
// registered watchdog has been fed within its timeout,
// and on an unhealthy result drains [*Engine.NextExpired]
// to identify the watchdogs that lapsed.
//
// The engine never allocates: nodes are intrusive list entries whose storage
// belongs to the registering caller for the full registration lifetime.
// The monotonic clock and the mutual-exclusion primitive are injected
// through the [Clock] and [CriticalSection] capabilities,
// so the same engine runs against an OS mutex and wall clock
// (see the mhost package) or whatever a more constrained host supplies.
package mwdg
