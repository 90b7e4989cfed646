package notifier

import (
	"context"
	"time"
)

type EventType string

const (
	EventLoopStarted      EventType = "loop_started"
	EventWaitingForStart  EventType = "waiting_for_start"
	EventActivated        EventType = "activated"
	EventDayRolled        EventType = "day_rolled"
	EventAttemptStarted   EventType = "attempt_started"
	EventAttemptSucceeded EventType = "attempt_succeeded"
	EventAttemptFailed    EventType = "attempt_failed"

	// EventHeartbeat marks the start of every poll. It is not logged.
	EventHeartbeat EventType = "heartbeat"
)

// Event is one lifecycle milestone. Fields that don't apply are left zero.
type Event struct {
	Type      EventType
	At        time.Time // local time the loop observed
	AttemptID string
	Key       string
	Date      string
	Slot      string
	Title     string
	Took      time.Duration
	Err       error
}

// Sink receives events from the loop.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Emit(ctx context.Context, e Event) { f(ctx, e) }

// Config controls the notifier service.
type Config struct {
	Channel      string // dispatcher driver name, recorded in the journal
	Destination  string
	AuditTimeout time.Duration
	Textfile     string // optional Prometheus textfile path
}
