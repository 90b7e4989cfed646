// Package transport defines the outbound dispatch boundary used by the
// reminder loop. Drivers live in sub-packages; the loop only sees Dispatcher.
package transport

import (
	"context"
	"errors"
)

var ErrEmptyDestination = errors.New("transport: empty destination")

// Message is one rendered reminder ready to send.
type Message struct {
	From string // sender identity (provider number, bot name); drivers may ignore it
	To   string // destination identifier in the driver's own format
	Body string
}

// Dispatcher performs a single send. A non-nil error means the attempt
// failed; callers do not inspect it further.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, msg Message) error

func (f DispatcherFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }
