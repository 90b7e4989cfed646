package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"remindbot/internal/clock"
	"remindbot/internal/config"
	"remindbot/internal/metrics"
	"remindbot/internal/notifier"
	"remindbot/internal/runtime/supervisor"
	"remindbot/internal/scheduler"
	"remindbot/internal/storage"
	"remindbot/internal/transport"
	logx "remindbot/pkg/logx"
)

type App struct {
	cfg  *config.AppConfig
	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log   logx.Logger
	logs  *logx.Service
	store storage.Store
	notif *notifier.Service
	sched *scheduler.Scheduler
	sd    notifyFunc

	watchdog   func() (time.Duration, error)
	watchdogOn bool
	pollEvery  time.Duration
}

type Option func(*options)

type options struct {
	clock      clock.Clock
	sleeper    clock.Sleeper
	dispatcher transport.Dispatcher
	sd         notifyFunc
	watchdog   func() (time.Duration, error)
}

// WithClock replaces the zoned wall clock.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

func WithSleeper(s clock.Sleeper) Option { return func(o *options) { o.sleeper = s } }

// WithDispatcher bypasses the configured transport driver.
func WithDispatcher(d transport.Dispatcher) Option { return func(o *options) { o.dispatcher = d } }

// NewApp loads and validates the config at cfgPath (env-only when empty)
// and wires every component. Any config error is returned before anything
// starts.
func NewApp(cfgPath string, opts ...Option) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	raw, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := config.Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.cfgm = cfgm
	cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	return a, nil
}

// New wires an App from an already resolved config.
func New(cfg *config.AppConfig, opts ...Option) (*App, error) {
	o := options{sd: sdNotify, watchdog: sdWatchdog}
	for _, fn := range opts {
		fn(&o)
	}

	logs, root := logx.New(cfg.Logging)
	log := root.With(logx.String("comp", "app"))

	store, err := storage.Open(cfg.Storage, root.With(logx.String("comp", "storage")))
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	if store != nil {
		log.Info("attempt journal enabled", logx.String("driver", cfg.Storage.Driver), logx.String("path", cfg.Storage.Path))
	}

	d := o.dispatcher
	if d == nil {
		if d, err = buildDispatcher(cfg.Transport, root.With(logx.String("comp", "transport"))); err != nil {
			closeStore(store, log)
			_ = logs.Close()
			return nil, err
		}
	}

	notif := notifier.New(notifier.Config{
		Channel:     cfg.Transport.Driver,
		Destination: cfg.Transport.Destination,
		Textfile:    cfg.MetricsTextfile,
	}, root.With(logx.String("comp", "notifier")), store, metrics.New())

	c := o.clock
	if c == nil {
		c = clock.System(cfg.Location)
	}
	schedOpts := []scheduler.Option{scheduler.WithLogger(root.With(logx.String("comp", "scheduler")))}
	if o.sleeper != nil {
		schedOpts = append(schedOpts, scheduler.WithSleeper(o.sleeper))
	}
	sched := scheduler.New(scheduler.Config{
		StartDate:    cfg.StartDate,
		PollInterval: cfg.PollInterval,
		From:         cfg.Transport.Sender,
		To:           cfg.Transport.Destination,
	}, cfg.Plan, c, d, notif, schedOpts...)

	return &App{
		cfg:   cfg,
		log:   log,
		logs:  logs,
		store: store,
		notif: notif,
		sched: sched,
		sd:    o.sd,

		watchdog:  o.watchdog,
		pollEvery: cfg.PollInterval,
	}, nil
}

// Notifier exposes the event stream, mainly for tests and status reporting.
func (a *App) Notifier() *notifier.Service { return a.notif }

// Done is closed when the app supervisor context is cancelled (fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	fields := []logx.Field{
		logx.String("timezone", a.cfg.Timezone),
		logx.String("start_date", a.cfg.StartDate),
		logx.String("driver", a.cfg.Transport.Driver),
		logx.String("plan", a.cfg.PlanSource),
		logx.Int("entries", a.cfg.Plan.Len()),
	}
	if e, at, ok := a.cfg.Plan.Next(time.Now().In(a.cfg.Location)); ok {
		fields = append(fields, logx.String("next", e.Title), logx.Time("next_at", at))
	}
	a.log.Info("starting reminder bot", fields...)
	a.log.Debug("weekly slot configured (inactive)",
		logx.String("weekday", a.cfg.Weekly.Weekday.String()),
		logx.String("time", a.cfg.Weekly.At.String()),
	)

	a.configureWatchdog()

	// Subscribe before the loop so activation is never missed.
	events, unsub := a.notif.Subscribe(32)
	a.sup.Go0("status", func(c context.Context) {
		defer unsub()
		a.publishStatus(c, events)
	})

	a.sup.Go("scheduler", a.sched.Run)

	if a.cfgm != nil {
		a.sup.GoRestart("config.watch", a.cfgm.Watch, time.Second, 30*time.Second)
	}

	a.notify(daemon.SdNotifyReady)
	a.log.Info("app started")
	return nil
}

func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))
	a.notifyStopping()

	err := a.sup.Stop(ctx)
	if err != nil && ctx.Err() != nil {
		a.log.Warn("goroutines still running at stop deadline", logx.Err(err))
	}

	closeStore(a.store, a.log)
	a.log.Info("stopped")
	_ = a.logs.Close()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func closeStore(store storage.Store, log logx.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Warn("attempt journal close failed", logx.Err(err))
	}
}
