// Package scheduler runs the daily reminder loop.
//
// # Algorithm
//
// Every poll interval the loop reads the minute-truncated local time and
// dispatches each plan entry whose time of day equals the current minute,
// unless that (date, time, title) slot was already attempted today.
//
// # Forward-only
//
// A slot gets exactly one attempt per day. The slot is marked as consumed
// whether the send succeeds, fails or panics, and it is never retried. A slot
// whose minute is not observed (downtime, a poll interval longer than one
// minute, a clock jump) is skipped for that day; there is no catch-up.
//
// # Phases
//
// Before the configured start date the loop only waits. Reaching the start
// date activates it permanently.
//
// # Concurrency
//
// One goroutine owns a Scheduler and its State. Dispatch is synchronous, so
// at most one send is in flight and due entries go out in plan order.
package scheduler
