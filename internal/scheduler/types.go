package scheduler

import (
	"time"

	"remindbot/internal/ledger"
)

type Phase int

const (
	WaitingForStart Phase = iota
	Active
)

func (p Phase) String() string {
	switch p {
	case WaitingForStart:
		return "waiting_for_start"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Config is the read-only loop configuration.
type Config struct {
	// StartDate (YYYY-MM-DD) is the first day reminders may go out.
	// Empty means active immediately.
	StartDate    string
	PollInterval time.Duration
	From         string
	To           string
}

// State is mutated only by the loop goroutine.
type State struct {
	Phase    Phase
	LastSeen string // date of the previous active iteration; "" before the first
	Ledger   *ledger.Ledger

	waitingNoted string
}

func newState() State {
	return State{Phase: WaitingForStart, Ledger: ledger.New()}
}
