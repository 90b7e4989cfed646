// Package ledger tracks which reminder slots were already attempted today.
package ledger

import "remindbot/internal/plan"

// Key identifies one plan entry on one calendar date.
type Key struct {
	Date  string // YYYY-MM-DD in the scheduler's location
	At    plan.TimeOfDay
	Title string
}

// NewKey derives the dispatch key for entry on date.
func NewKey(date string, e plan.Entry) Key {
	return Key{Date: date, At: e.At, Title: e.Title}
}

func (k Key) String() string { return k.Date + "-" + k.At.String() + "-" + k.Title }

// Ledger is the set of keys attempted on the current date.
//
// It is owned by a single scheduler loop and is not safe for concurrent use.
type Ledger struct {
	keys map[Key]struct{}
}

func New() *Ledger {
	return &Ledger{keys: map[Key]struct{}{}}
}

// IsPending reports whether k has not been recorded since the last Reset.
func (l *Ledger) IsPending(k Key) bool {
	_, done := l.keys[k]
	return !done
}

// Record marks k as attempted. Recording the same key again is a no-op.
func (l *Ledger) Record(k Key) {
	if l.keys == nil {
		l.keys = map[Key]struct{}{}
	}
	l.keys[k] = struct{}{}
}

// Reset forgets every recorded key.
func (l *Ledger) Reset() {
	clear(l.keys)
}

func (l *Ledger) Len() int { return len(l.keys) }
