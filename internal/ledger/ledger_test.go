package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remindbot/internal/plan"
)

func entry(at, title string) plan.Entry {
	return plan.Entry{At: plan.MustTimeOfDay(at), Title: title}
}

func TestRecordIsIdempotent(t *testing.T) {
	t.Parallel()
	l := New()
	k := NewKey("2026-03-01", entry("08:30", "Milk"))

	assert.True(t, l.IsPending(k))
	l.Record(k)
	l.Record(k)
	assert.Equal(t, 1, l.Len())
	for i := 0; i < 3; i++ {
		assert.False(t, l.IsPending(k))
	}
}

func TestResetRestoresPending(t *testing.T) {
	t.Parallel()
	l := New()
	keys := []Key{
		NewKey("2026-03-01", entry("08:30", "Milk")),
		NewKey("2026-03-01", entry("09:30", "Breakfast")),
	}
	for _, k := range keys {
		l.Record(k)
	}
	l.Reset()
	assert.Zero(t, l.Len())
	for _, k := range keys {
		assert.True(t, l.IsPending(k))
	}
}

func TestKeyDistinguishesDateTimeAndTitle(t *testing.T) {
	t.Parallel()
	l := New()
	l.Record(NewKey("2026-03-01", entry("08:30", "Milk")))

	assert.True(t, l.IsPending(NewKey("2026-03-02", entry("08:30", "Milk"))))
	assert.True(t, l.IsPending(NewKey("2026-03-01", entry("08:31", "Milk"))))
	assert.True(t, l.IsPending(NewKey("2026-03-01", entry("08:30", "Tea"))))
}

func TestKeyString(t *testing.T) {
	t.Parallel()
	k := NewKey("2026-03-01", entry("08:30", "Breakfast"))
	assert.Equal(t, "2026-03-01-08:30-Breakfast", k.String())
}

func TestZeroLedgerUsable(t *testing.T) {
	t.Parallel()
	var l Ledger
	k := NewKey("2026-03-01", entry("08:30", "Milk"))
	assert.True(t, l.IsPending(k))
	l.Record(k)
	assert.False(t, l.IsPending(k))
}
