package transport

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Throttled wraps a Dispatcher with a token bucket so a burst of due entries
// (several reminders sharing a minute) stays under provider rate limits.
type Throttled struct {
	next    Dispatcher
	limiter *rate.Limiter
}

// NewThrottled allows ratePerSec sends per second with an equal burst.
// ratePerSec <= 0 disables throttling.
func NewThrottled(next Dispatcher, ratePerSec int) Dispatcher {
	if ratePerSec <= 0 {
		return next
	}
	return &Throttled{next: next, limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)}
}

func (t *Throttled) Send(ctx context.Context, msg Message) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Send(ctx, msg)
}
