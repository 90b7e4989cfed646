package storage

import (
	"context"
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Attempt records one dispatch attempt.
// Keep it compact and schema-stable.
type Attempt struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Key         string    `json:"key"`
	Slot        string    `json:"slot"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	TookMS      int64     `json:"took_ms"`
}

// Store is the persistence API used by the notifier.
type Store interface {
	AppendAttempt(ctx context.Context, a Attempt) error
	// Recent returns up to limit records, newest last.
	Recent(ctx context.Context, limit int) ([]Attempt, error)
	Close() error
}
