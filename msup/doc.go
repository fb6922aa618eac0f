// Package msup provides a Supervisor that periodically drives an
// [mwdg.Engine] check pass from its own goroutine.
// Each pass runs every interval + [-jitter, +jitter) duration;
// when a pass finds expired watchdogs, the supervisor reports their
// identifiers and, if configured to, terminates the system by
// canceling the supervisor context with a [StallError] cause.
// The engine itself only detects and reports; any escalation policy
// lives here, with the integrator.
package msup
