package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/internal/clock"
	"remindbot/internal/notifier"
	"remindbot/internal/plan"
	"remindbot/internal/transport"
)

var ist = mustLoc("Asia/Kolkata")

func mustLoc(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(date, hm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hm, ist)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return clock.Truncate(c.now) }
func (c *fakeClock) Set(t time.Time) { c.now = t }

// recorder captures sends and events.
type recorder struct {
	sends  []transport.Message
	events []notifier.Event
	fail   func(msg transport.Message) error
}

func (r *recorder) Send(ctx context.Context, msg transport.Message) error {
	r.sends = append(r.sends, msg)
	if r.fail != nil {
		return r.fail(msg)
	}
	return nil
}

func (r *recorder) Emit(ctx context.Context, e notifier.Event) { r.events = append(r.events, e) }

func (r *recorder) count(t notifier.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func onePlan(t *testing.T) *plan.Plan {
	t.Helper()
	p, err := plan.New(plan.Entry{At: plan.MustTimeOfDay("08:30"), Title: "Morning dry fruits and seeds", Body: "Take almonds."})
	require.NoError(t, err)
	return p
}

func newTest(t *testing.T, cfg Config, p *plan.Plan, start time.Time) (*Scheduler, *fakeClock, *recorder) {
	t.Helper()
	c := &fakeClock{now: start}
	r := &recorder{}
	n := 0
	s := New(cfg, p, c, r, r, WithIDFunc(func() string {
		n++
		return fmt.Sprintf("attempt-%d", n)
	}))
	return s, c, r
}

func TestScenarioA_SecondPollSameMinuteSendsNothing(t *testing.T) {
	t.Parallel()
	s, _, r := newTest(t, Config{To: "whatsapp:+91"}, onePlan(t), at("2026-03-01", "08:30"))

	assert.Equal(t, 1, s.Tick(context.Background()))
	assert.Equal(t, 0, s.Tick(context.Background()))
	require.Len(t, r.sends, 1)
	assert.Equal(t, "whatsapp:+91", r.sends[0].To)
}

func TestScenarioB_FailedSlotNeverRetried(t *testing.T) {
	t.Parallel()
	s, c, r := newTest(t, Config{}, onePlan(t), at("2026-03-01", "08:30"))
	r.fail = func(transport.Message) error { return errors.New("provider down") }

	assert.Equal(t, 1, s.Tick(context.Background()))
	r.fail = nil

	// Re-poll the same minute, then every later minute of the day.
	s.Tick(context.Background())
	for m := at("2026-03-01", "08:31"); clock.Date(m) == "2026-03-01"; m = m.Add(time.Minute) {
		c.Set(m)
		s.Tick(context.Background())
	}
	assert.Len(t, r.sends, 1)
	assert.Equal(t, 1, r.count(notifier.EventAttemptFailed))
	assert.Zero(t, r.count(notifier.EventAttemptSucceeded))
}

func TestScenarioC_NewDayEligibleAgain(t *testing.T) {
	t.Parallel()
	s, c, r := newTest(t, Config{}, onePlan(t), at("2026-03-01", "08:30"))

	s.Tick(context.Background())
	c.Set(at("2026-03-01", "23:59"))
	s.Tick(context.Background())
	c.Set(at("2026-03-02", "00:00"))
	s.Tick(context.Background())
	c.Set(at("2026-03-02", "08:30"))
	assert.Equal(t, 1, s.Tick(context.Background()))
	assert.Equal(t, 0, s.Tick(context.Background()))

	assert.Len(t, r.sends, 2)
	assert.Equal(t, 2, r.count(notifier.EventDayRolled))
}

func TestScenarioD_NothingBeforeStartDate(t *testing.T) {
	t.Parallel()
	s, c, r := newTest(t, Config{StartDate: "2026-03-05"}, onePlan(t), at("2026-03-04", "08:30"))

	assert.Equal(t, 0, s.Tick(context.Background()))
	assert.Equal(t, 0, s.Tick(context.Background()))
	assert.Empty(t, r.sends)
	assert.Equal(t, WaitingForStart, s.Phase())
	assert.Equal(t, 1, r.count(notifier.EventWaitingForStart))

	c.Set(at("2026-03-05", "08:30"))
	assert.Equal(t, 1, s.Tick(context.Background()))
	assert.Equal(t, Active, s.Phase())
	assert.Equal(t, 1, r.count(notifier.EventActivated))
}

func TestActivationIsIrreversible(t *testing.T) {
	t.Parallel()
	s, c, r := newTest(t, Config{StartDate: "2026-03-05"}, onePlan(t), at("2026-03-05", "07:00"))
	s.Tick(context.Background())
	require.Equal(t, Active, s.Phase())

	// Clock jumps backwards before the start date.
	c.Set(at("2026-03-04", "08:30"))
	assert.Equal(t, 1, s.Tick(context.Background()))
	assert.Equal(t, Active, s.Phase())
	assert.Len(t, r.sends, 1)
}

func TestAtMostOnePerEntryPerDay(t *testing.T) {
	t.Parallel()
	p := plan.Default()
	s, c, r := newTest(t, Config{}, p, at("2026-03-01", "00:00"))

	// Poll every 20s for two full days.
	for ts := at("2026-03-01", "00:00"); ts.Before(at("2026-03-03", "00:00")); ts = ts.Add(20 * time.Second) {
		c.Set(ts)
		s.Tick(context.Background())
	}

	seen := map[string]int{}
	for _, e := range r.events {
		if e.Type == notifier.EventAttemptStarted {
			seen[e.Key]++
		}
	}
	assert.Len(t, seen, 2*p.Len())
	for k, n := range seen {
		assert.Equal(t, 1, n, k)
	}
	assert.Len(t, r.sends, 2*p.Len())
}

func TestDueEntriesSentInPlanOrder(t *testing.T) {
	t.Parallel()
	p, err := plan.New(
		plan.Entry{At: plan.MustTimeOfDay("20:30"), Title: "Dinner"},
		plan.Entry{At: plan.MustTimeOfDay("20:15"), Title: "Magnesium"},
		plan.Entry{At: plan.MustTimeOfDay("20:30"), Title: "Eggs"},
	)
	require.NoError(t, err)
	s, _, r := newTest(t, Config{}, p, at("2026-03-01", "20:30"))

	assert.Equal(t, 2, s.Tick(context.Background()))
	require.Len(t, r.sends, 2)
	assert.Contains(t, r.sends[0].Body, "Dinner")
	assert.Contains(t, r.sends[1].Body, "Eggs")
}

func TestDispatcherPanicConsumesSlot(t *testing.T) {
	t.Parallel()
	s, _, r := newTest(t, Config{}, onePlan(t), at("2026-03-01", "08:30"))
	r.fail = func(transport.Message) error { panic("nil client") }

	assert.NotPanics(t, func() { s.Tick(context.Background()) })
	require.Equal(t, 1, r.count(notifier.EventAttemptFailed))
	var failed notifier.Event
	for _, e := range r.events {
		if e.Type == notifier.EventAttemptFailed {
			failed = e
		}
	}
	assert.ErrorContains(t, failed.Err, "nil client")

	r.fail = nil
	assert.Equal(t, 0, s.Tick(context.Background()))
}

func TestAttemptEventsCarryKey(t *testing.T) {
	t.Parallel()
	s, _, r := newTest(t, Config{}, onePlan(t), at("2026-03-01", "08:30"))
	s.Tick(context.Background())

	var started, done notifier.Event
	for _, e := range r.events {
		switch e.Type {
		case notifier.EventAttemptStarted:
			started = e
		case notifier.EventAttemptSucceeded:
			done = e
		}
	}
	assert.Equal(t, "2026-03-01-08:30-Morning dry fruits and seeds", started.Key)
	assert.Equal(t, "attempt-1", started.AttemptID)
	assert.Equal(t, started.AttemptID, done.AttemptID)
	assert.Equal(t, "08:30", done.Slot)
}

func TestRenderMessage(t *testing.T) {
	t.Parallel()
	e := plan.Entry{At: plan.MustTimeOfDay("13:30"), Title: "Lunch", Body: "Please have lunch."}
	got := Render(e, at("2026-03-01", "13:30"))
	assert.Equal(t, "Reminder (01:30 PM): Lunch\nPlease have lunch.\nPlease take care.", got)
}

// stepSleeper advances the fake clock on every sleep and cancels after max sleeps.
type stepSleeper struct {
	clock  *fakeClock
	step   time.Duration
	max    int
	cancel context.CancelFunc
	calls  int
}

func (s *stepSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.calls++
	if s.calls >= s.max {
		s.cancel()
		return ctx.Err()
	}
	s.clock.Set(s.clock.now.Add(s.step))
	return nil
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	c := &fakeClock{now: at("2026-03-01", "08:29")}
	r := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	sl := &stepSleeper{clock: c, step: 20 * time.Second, max: 10, cancel: cancel}

	s := New(Config{PollInterval: 20 * time.Second}, onePlan(t), c, r, r, WithSleeper(sl))
	require.NoError(t, s.Run(ctx))

	assert.Equal(t, 10, sl.calls)
	assert.Len(t, r.sends, 1)
	assert.Equal(t, 1, r.count(notifier.EventLoopStarted))
}

func TestRunReturnsImmediatelyWhenCancelled(t *testing.T) {
	t.Parallel()
	c := &fakeClock{now: at("2026-03-01", "08:30")}
	r := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(Config{}, onePlan(t), c, r, r)
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, r.sends)
}

func TestCoarsePollIntervalSkipsSlot(t *testing.T) {
	t.Parallel()
	c := &fakeClock{now: at("2026-03-01", "08:29")}
	r := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	// Two-minute polls observe 08:29 and 08:31 but never 08:30.
	sl := &stepSleeper{clock: c, step: 2 * time.Minute, max: 3, cancel: cancel}

	s := New(Config{PollInterval: 2 * time.Minute}, onePlan(t), c, r, r, WithSleeper(sl))
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, r.sends)
}

func TestHeartbeatEveryTick(t *testing.T) {
	t.Parallel()
	s, c, r := newTest(t, Config{StartDate: "2026-03-02"}, onePlan(t), at("2026-03-01", "08:30"))

	s.Tick(context.Background())
	s.Tick(context.Background())
	c.Set(at("2026-03-02", "08:30"))
	s.Tick(context.Background())

	assert.Equal(t, 3, r.count(notifier.EventHeartbeat))
	require.NotEmpty(t, r.events)
	assert.Equal(t, notifier.EventHeartbeat, r.events[0].Type)
}
