package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"remindbot/internal/clock"
	"remindbot/internal/ledger"
	"remindbot/internal/notifier"
	"remindbot/internal/plan"
	"remindbot/internal/transport"
	logx "remindbot/pkg/logx"
)

const defaultPollInterval = 20 * time.Second

type Scheduler struct {
	cfg        Config
	plan       *plan.Plan
	clock      clock.Clock
	sleeper    clock.Sleeper
	dispatcher transport.Dispatcher
	sink       notifier.Sink
	log        logx.Logger
	newID      func() string

	state State
}

type Option func(*Scheduler)

func WithSleeper(sl clock.Sleeper) Option { return func(s *Scheduler) { s.sleeper = sl } }
func WithLogger(log logx.Logger) Option   { return func(s *Scheduler) { s.log = log } }

// WithIDFunc overrides attempt id generation (uuid by default).
func WithIDFunc(fn func() string) Option { return func(s *Scheduler) { s.newID = fn } }

func New(cfg Config, p *plan.Plan, c clock.Clock, d transport.Dispatcher, sink notifier.Sink, opts ...Option) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if sink == nil {
		sink = notifier.SinkFunc(func(context.Context, notifier.Event) {})
	}
	s := &Scheduler{
		cfg:        cfg,
		plan:       p,
		clock:      c,
		sleeper:    clock.RealSleeper{},
		dispatcher: d,
		sink:       sink,
		log:        logx.Nop(),
		newID:      uuid.NewString,
		state:      newState(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Phase reports the current phase. Call it from the loop goroutine only.
func (s *Scheduler) Phase() Phase { return s.state.Phase }

// Run polls until ctx is cancelled. It returns nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.sink.Emit(ctx, notifier.Event{Type: notifier.EventLoopStarted, At: s.clock.Now()})
	s.log.Info("polling",
		logx.Duration("interval", s.cfg.PollInterval),
		logx.String("start_date", s.cfg.StartDate),
		logx.Int("entries", s.plan.Len()),
	)

	for {
		if ctx.Err() != nil {
			return nil
		}
		s.Tick(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err := s.sleeper.Sleep(ctx, s.cfg.PollInterval); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("sleep: %w", err)
		}
	}
}

// Tick runs one poll iteration and returns the number of attempts made.
func (s *Scheduler) Tick(ctx context.Context) int {
	now := s.clock.Now()
	today := clock.Date(now)
	s.sink.Emit(ctx, notifier.Event{Type: notifier.EventHeartbeat, At: now})

	if s.state.Phase == WaitingForStart {
		if today < s.cfg.StartDate {
			if s.state.waitingNoted != today {
				s.state.waitingNoted = today
				s.sink.Emit(ctx, notifier.Event{Type: notifier.EventWaitingForStart, At: now, Date: today})
			}
			return 0
		}
		s.state.Phase = Active
		s.sink.Emit(ctx, notifier.Event{Type: notifier.EventActivated, At: now, Date: today})
	}

	if today != s.state.LastSeen {
		s.state.Ledger.Reset()
		s.state.LastSeen = today
		s.sink.Emit(ctx, notifier.Event{Type: notifier.EventDayRolled, At: now, Date: today})
	}

	attempts := 0
	for _, e := range s.plan.Due(plan.Of(now)) {
		key := ledger.NewKey(today, e)
		if !s.state.Ledger.IsPending(key) {
			continue
		}
		s.attempt(ctx, now, key, e)
		attempts++
	}
	return attempts
}

func (s *Scheduler) attempt(ctx context.Context, now time.Time, key ledger.Key, e plan.Entry) {
	// One attempt per slot per day, whatever happens below.
	defer s.state.Ledger.Record(key)

	ev := notifier.Event{
		At:        now,
		AttemptID: s.newID(),
		Key:       key.String(),
		Date:      key.Date,
		Slot:      e.At.String(),
		Title:     e.Title,
	}
	ev.Type = notifier.EventAttemptStarted
	s.sink.Emit(ctx, ev)

	started := time.Now()
	err := s.send(ctx, transport.Message{From: s.cfg.From, To: s.cfg.To, Body: Render(e, now)})
	ev.Took = time.Since(started)

	if err != nil {
		ev.Type = notifier.EventAttemptFailed
		ev.Err = err
	} else {
		ev.Type = notifier.EventAttemptSucceeded
	}
	s.sink.Emit(ctx, ev)
}

func (s *Scheduler) send(ctx context.Context, msg transport.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatcher panic: %v", r)
		}
	}()
	return s.dispatcher.Send(ctx, msg)
}
