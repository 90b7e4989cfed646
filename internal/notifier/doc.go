// Package notifier is the observability boundary of the reminder loop.
//
// The loop reports lifecycle milestones (loop start, day rollover, attempt
// start/success/failure) as Events. The Service fans each event out to:
//
//   - the structured log
//   - Prometheus counters (optionally flushed to a textfile)
//   - the attempt journal in storage (best-effort)
//   - in-process subscribers (e.g. the systemd status line)
//
// Emit never fails and never blocks on slow subscribers, so a broken sink
// cannot stall or crash the loop.
package notifier
