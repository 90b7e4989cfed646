// Package clock supplies the zoned, minute-truncated "now" that the reminder
// loop evaluates, plus an injectable sleep.
package clock

import (
	"context"
	"time"
)

// Clock returns the current local time truncated to the minute.
type Clock interface {
	Now() time.Time
}

// Sleeper pauses the caller. Sleep returns ctx.Err() if ctx ends first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct {
	loc *time.Location
	now func() time.Time
}

// System returns a Clock backed by the wall clock in loc.
// A nil loc means time.Local.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc, now: time.Now}
}

func (c systemClock) Now() time.Time {
	return Truncate(c.now().In(c.loc))
}

// Truncate zeroes seconds and sub-seconds while keeping t's location.
//
// time.Time.Truncate works on absolute time, which is wrong for zones with
// non-whole-minute offsets; rebuild from the civil fields instead.
func Truncate(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

// Func adapts a plain function to Clock. The result is truncated.
type Func func() time.Time

func (f Func) Now() time.Time { return Truncate(f()) }

// Date formats the calendar date of t as YYYY-MM-DD.
func Date(t time.Time) string { return t.Format(time.DateOnly) }

// RealSleeper sleeps on a timer.
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
