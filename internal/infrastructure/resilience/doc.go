// Package resilience provides a small circuit breaker used to guard the
// repeated OS process-table queries.
//
// The polling loop can issue several ps invocations per second per
// terminal. When ps itself is broken (binary missing, fork failures) every
// invocation pays full command-spawn cost just to fail; the breaker stops
// issuing queries after a run of consecutive failures and retries once a
// cooldown has elapsed.
//
// A rejected query is indistinguishable from a failed one to callers: both
// degrade to an empty result, which the resolver reports as "no active
// process".
//
// States:
//
//	Closed --[consecutive failures]--> Open --[cooldown elapsed]--> Closed
package resilience
