package notifier

import (
	"context"
	"time"

	"remindbot/internal/metrics"
	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

// Service implements Sink. It is safe for concurrent use.
type Service struct {
	cfg     Config
	log     logx.Logger
	store   storage.Store
	metrics *metrics.Metrics
	bus     *bus
}

// New wires the sinks. store and m may be nil.
func New(cfg Config, log logx.Logger, store storage.Store, m *metrics.Metrics) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.AuditTimeout <= 0 {
		cfg.AuditTimeout = 5 * time.Second
	}
	return &Service{cfg: cfg, log: log, store: store, metrics: m, bus: newBus()}
}

// Subscribe returns a buffered event channel and its cancel func.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	return s.bus.subscribe(buffer)
}

func (s *Service) Emit(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.logEvent(e)
	s.record(e)
	if e.Type == EventAttemptSucceeded || e.Type == EventAttemptFailed {
		s.audit(ctx, e)
	}
	s.bus.publish(e)
}

func (s *Service) logEvent(e Event) {
	if e.Type == EventHeartbeat {
		return
	}
	fields := []logx.Field{logx.String("event", string(e.Type))}
	if e.Key != "" {
		fields = append(fields, logx.String("key", e.Key))
	}
	if e.AttemptID != "" {
		fields = append(fields, logx.String("attempt", e.AttemptID))
	}

	switch e.Type {
	case EventLoopStarted:
		s.log.Info("reminder loop started", fields...)
	case EventWaitingForStart:
		s.log.Debug("waiting for start date", append(fields, logx.String("date", e.Date))...)
	case EventActivated:
		s.log.Info("start date reached; reminders active", append(fields, logx.String("date", e.Date))...)
	case EventDayRolled:
		s.log.Info("new day; ledger reset", append(fields, logx.String("date", e.Date))...)
	case EventAttemptStarted:
		s.log.Info("attempting reminder", fields...)
	case EventAttemptSucceeded:
		s.log.Info("reminder success", append(fields, logx.Duration("took", e.Took))...)
	case EventAttemptFailed:
		s.log.Error("reminder failed", append(fields, logx.Duration("took", e.Took), logx.Err(e.Err))...)
	default:
		s.log.Debug("event", fields...)
	}
}

func (s *Service) record(e Event) {
	m := s.metrics
	if m == nil {
		return
	}
	switch e.Type {
	case EventActivated:
		m.Active.Set(1)
	case EventWaitingForStart:
		m.Active.Set(0)
	case EventDayRolled:
		m.DayRollover.Inc()
	case EventAttemptSucceeded:
		m.Attempts.WithLabelValues("success").Inc()
		m.LastAttempt.WithLabelValues("success").Set(float64(e.At.Unix()))
	case EventAttemptFailed:
		m.Attempts.WithLabelValues("failure").Inc()
		m.LastAttempt.WithLabelValues("failure").Set(float64(e.At.Unix()))
	default:
		return
	}
	if s.cfg.Textfile != "" {
		if err := m.WriteTextfile(s.cfg.Textfile); err != nil {
			s.log.Warn("metrics textfile write failed", logx.String("path", s.cfg.Textfile), logx.Err(err))
		}
	}
}

func (s *Service) audit(ctx context.Context, e Event) {
	if s.store == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.AuditTimeout)
	defer cancel()

	a := storage.Attempt{
		ID:          e.AttemptID,
		At:          e.At,
		Key:         e.Key,
		Slot:        e.Slot,
		Title:       e.Title,
		Channel:     s.cfg.Channel,
		Destination: s.cfg.Destination,
		OK:          e.Type == EventAttemptSucceeded,
		TookMS:      e.Took.Milliseconds(),
	}
	if e.Err != nil {
		a.Error = e.Err.Error()
	}
	if err := s.store.AppendAttempt(actx, a); err != nil {
		s.log.Warn("attempt journal write failed", logx.String("key", e.Key), logx.Err(err))
	}
}
