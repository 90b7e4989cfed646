package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "08:30", want: "08:30", ok: true},
		{raw: "8:30", want: "08:30", ok: true},
		{raw: "00:00", want: "00:00", ok: true},
		{raw: "23:59", want: "23:59", ok: true},
		{raw: "24:00"},
		{raw: "12:60"},
		{raw: "12:5"},
		{raw: "1230"},
		{raw: "ab:cd"},
		{raw: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.raw)
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDueExactMinuteOnly(t *testing.T) {
	t.Parallel()
	p, err := New(
		Entry{At: MustTimeOfDay("08:30"), Title: "A"},
		Entry{At: MustTimeOfDay("09:00"), Title: "B"},
		Entry{At: MustTimeOfDay("08:30"), Title: "C"},
	)
	require.NoError(t, err)

	due := p.Due(MustTimeOfDay("08:30"))
	require.Len(t, due, 2)
	assert.Equal(t, "A", due[0].Title)
	assert.Equal(t, "C", due[1].Title)

	assert.Empty(t, p.Due(MustTimeOfDay("08:29")))
	assert.Empty(t, p.Due(MustTimeOfDay("08:31")))
}

func TestNewRejectsBadEntries(t *testing.T) {
	t.Parallel()
	_, err := New(Entry{At: MustTimeOfDay("08:30"), Title: "  "})
	require.Error(t, err)

	_, err = New(
		Entry{At: MustTimeOfDay("08:30"), Title: "Milk"},
		Entry{At: MustTimeOfDay("08:30"), Title: "Milk"},
	)
	require.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestNextWrapsToTomorrow(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	p := Default()

	now := time.Date(2026, 3, 1, 8, 30, 0, 0, loc)
	e, at, ok := p.Next(now)
	require.True(t, ok)
	assert.Equal(t, "Breakfast", e.Title)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, loc), at)

	now = time.Date(2026, 3, 1, 23, 0, 0, 0, loc)
	e, at, ok = p.Next(now)
	require.True(t, ok)
	assert.Equal(t, "Morning dry fruits and seeds", e.Title)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, loc), at)
}

func TestNextEmptyPlan(t *testing.T) {
	t.Parallel()
	p, err := New()
	require.NoError(t, err)
	_, _, ok := p.Next(time.Now())
	assert.False(t, ok)
}

func TestDefaultPlanOrdered(t *testing.T) {
	t.Parallel()
	entries := Default().Entries()
	require.Len(t, entries, 11)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].At, entries[i].At
		assert.Less(t, prev.Hour()*60+prev.Minute(), cur.Hour()*60+cur.Minute())
	}
}

func TestWeeklySchedule(t *testing.T) {
	t.Parallel()
	s, err := WeeklySchedule(time.Saturday, MustTimeOfDay("09:00"))
	require.NoError(t, err)
	// 2026-03-02 is a Monday.
	next := s.Next(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC), next)

	_, err = WeeklySchedule(time.Weekday(7), MustTimeOfDay("09:00"))
	require.Error(t, err)
}
