package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrDuplicateEntry = errors.New("duplicate plan entry")

// Plan is the fixed, ordered daily schedule. It is immutable after New.
type Plan struct {
	entries []Entry
	specs   []cron.Schedule
}

// New validates entries and builds a Plan preserving their order.
func New(entries ...Entry) (*Plan, error) {
	p := &Plan{
		entries: make([]Entry, 0, len(entries)),
		specs:   make([]cron.Schedule, 0, len(entries)),
	}
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		e.Title = strings.TrimSpace(e.Title)
		if e.Title == "" {
			return nil, fmt.Errorf("plan[%d] (%s): title is required", i, e.At)
		}
		id := e.At.String() + "|" + e.Title
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s %q", ErrDuplicateEntry, e.At, e.Title)
		}
		seen[id] = struct{}{}

		sched, err := DailySchedule(e.At)
		if err != nil {
			return nil, fmt.Errorf("plan[%d]: %w", i, err)
		}
		p.entries = append(p.entries, e)
		p.specs = append(p.specs, sched)
	}
	return p, nil
}

// Entries returns a copy of the plan in order.
func (p *Plan) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *Plan) Len() int { return len(p.entries) }

// Due returns every entry scheduled exactly at hm, in plan order.
func (p *Plan) Due(hm TimeOfDay) []Entry {
	var out []Entry
	for _, e := range p.entries {
		if e.At == hm {
			out = append(out, e)
		}
	}
	return out
}

// Next reports the first slot strictly after now, in now's location.
// Ties go to the entry that comes first in the plan.
func (p *Plan) Next(now time.Time) (Entry, time.Time, bool) {
	var (
		best   Entry
		bestAt time.Time
		found  bool
	)
	for i, s := range p.specs {
		at := s.Next(now)
		if !found || at.Before(bestAt) {
			best, bestAt, found = p.entries[i], at, true
		}
	}
	return best, bestAt, found
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// DailySchedule returns a cron schedule firing every day at t.
func DailySchedule(t TimeOfDay) (cron.Schedule, error) {
	return cronParser.Parse(fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()))
}

// WeeklySchedule returns a cron schedule firing at t on weekday.
func WeeklySchedule(weekday time.Weekday, t TimeOfDay) (cron.Schedule, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, fmt.Errorf("weekday %d out of range 0-6", weekday)
	}
	return cronParser.Parse(fmt.Sprintf("%d %d * * %d", t.Minute(), t.Hour(), int(weekday)))
}
