package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"remindbot/internal/plan"
	"remindbot/internal/storage"
	"remindbot/internal/transport/twilio"
	logx "remindbot/pkg/logx"
)

const (
	DefaultTimezone     = "Asia/Kolkata"
	DefaultStartDate    = "2026-02-21"
	DefaultPollInterval = 20 * time.Second
	DefaultWeeklyDay    = 5 // Saturday, Monday=0
	DefaultWeeklyTime   = "09:00"
	DefaultLogPath      = "./logs/remindbot.log"

	DriverTwilio   = "twilio"
	DriverTelegram = "telegram"
	DriverLog      = "log"
)

// AppConfig is the validated, immutable runtime configuration.
type AppConfig struct {
	Location     *time.Location
	Timezone     string
	StartDate    string // YYYY-MM-DD
	PollInterval time.Duration

	Transport Transport
	Weekly    Weekly

	Plan       *plan.Plan
	PlanSource string // "default" or "config"

	Logging         logx.Config
	Storage         storage.Config
	MetricsTextfile string
}

type Transport struct {
	Driver      string
	Sender      string
	Destination string
	RatePerSec  int

	TwilioAccountSID string
	TwilioAuthToken  string
	TelegramToken    string
}

// Weekly is the secondary reminder slot. It is carried for completeness;
// nothing fires on it.
type Weekly struct {
	Weekday time.Weekday
	At      plan.TimeOfDay
}

func driverName(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if d == "" {
		return DriverTwilio
	}
	return d
}

// Resolve validates cfg and fills defaults. Every error names the offending
// setting, and any error must stop startup.
func Resolve(cfg *Config) (*AppConfig, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	out := &AppConfig{}

	out.Timezone = strings.TrimSpace(cfg.Timezone)
	if out.Timezone == "" {
		out.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(out.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: unknown zone %q: %w", out.Timezone, err)
	}
	out.Location = loc

	start := strings.TrimSpace(cfg.StartDate)
	if start == "" {
		start = DefaultStartDate
	}
	d, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return nil, fmt.Errorf("start_date: %q is not a YYYY-MM-DD date", cfg.StartDate)
	}
	out.StartDate = d.Format(time.DateOnly)

	out.PollInterval, err = ParseDurationOrDefault("poll_interval", cfg.PollInterval, DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	if out.PollInterval < time.Second {
		return nil, fmt.Errorf("poll_interval: must be at least 1s, got %s", out.PollInterval)
	}

	t := cfg.Transport
	if err := fillFromKeyring(&t); err != nil {
		return nil, err
	}
	if out.Transport, err = resolveTransport(t); err != nil {
		return nil, err
	}

	if out.Weekly, err = resolveWeekly(cfg.Weekly); err != nil {
		return nil, err
	}

	if len(cfg.Plan) > 0 {
		entries := make([]plan.Entry, 0, len(cfg.Plan))
		for i, pe := range cfg.Plan {
			at, err := plan.ParseTimeOfDay(pe.Time)
			if err != nil {
				return nil, fmt.Errorf("plan[%d].time: %w", i, err)
			}
			entries = append(entries, plan.Entry{At: at, Title: strings.TrimSpace(pe.Title), Body: pe.Body})
		}
		p, err := plan.New(entries...)
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
		out.Plan, out.PlanSource = p, "config"
	} else {
		out.Plan, out.PlanSource = plan.Default(), "default"
	}

	if lc := cfg.Logging; lc != nil {
		out.Logging = logx.Config{
			Level:   lc.Level,
			Console: lc.Console,
			File:    logx.FileConfig{Enabled: lc.File.Enabled, Path: lc.File.Path},
		}
	} else {
		out.Logging = logx.Config{
			Level:   "info",
			Console: true,
			File:    logx.FileConfig{Enabled: true, Path: DefaultLogPath},
		}
	}

	if sc := cfg.Storage; sc != nil {
		bt, err := ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, 0)
		if err != nil {
			return nil, err
		}
		out.Storage = storage.Config{Driver: strings.TrimSpace(sc.Driver), Path: strings.TrimSpace(sc.Path), BusyTimeout: bt}
	}
	out.MetricsTextfile = strings.TrimSpace(cfg.Metrics.Textfile)
	return out, nil
}

func resolveTransport(t TransportConfig) (Transport, error) {
	out := Transport{
		Driver:           driverName(t.Driver),
		RatePerSec:       t.RatePerSec,
		TwilioAccountSID: strings.TrimSpace(t.Twilio.AccountSID),
		TwilioAuthToken:  strings.TrimSpace(t.Twilio.AuthToken),
		TelegramToken:    strings.TrimSpace(t.Telegram.Token),
	}
	if out.RatePerSec < 0 {
		return Transport{}, errors.New("transport.rate_per_sec: must be >= 0")
	}
	from := strings.TrimSpace(t.From)
	to := strings.TrimSpace(t.To)

	var err error
	switch out.Driver {
	case DriverTwilio:
		if out.TwilioAccountSID == "" {
			return Transport{}, errors.New("transport.twilio.account_sid (TWILIO_ACCOUNT_SID) is required")
		}
		if out.TwilioAuthToken == "" {
			return Transport{}, errors.New("transport.twilio.auth_token (TWILIO_AUTH_TOKEN) is required")
		}
		if from == "" {
			return Transport{}, errors.New("transport.from (TWILIO_WHATSAPP_NUMBER) is required")
		}
		if to == "" {
			return Transport{}, errors.New("transport.to (SISTER_WHATSAPP_NUMBER) is required")
		}
		if out.Sender, err = twilio.NormalizeWhatsApp(from, "transport.from"); err != nil {
			return Transport{}, err
		}
		if out.Destination, err = twilio.NormalizeWhatsApp(to, "transport.to"); err != nil {
			return Transport{}, err
		}
	case DriverTelegram:
		if out.TelegramToken == "" {
			return Transport{}, errors.New("transport.telegram.token (TELEGRAM_TOKEN) is required")
		}
		if _, err := strconv.ParseInt(to, 10, 64); err != nil {
			return Transport{}, fmt.Errorf("transport.to: telegram chat id must be an integer, got %q", to)
		}
		out.Sender, out.Destination = from, to
	case DriverLog:
		if to == "" {
			to = "stdout"
		}
		out.Sender, out.Destination = from, to
	default:
		return Transport{}, fmt.Errorf("transport.driver: unknown driver %q", t.Driver)
	}
	return out, nil
}

func resolveWeekly(w WeeklyConfig) (Weekly, error) {
	idx := DefaultWeeklyDay
	if w.Weekday != nil {
		idx = *w.Weekday
	}
	if idx < 0 || idx > 6 {
		return Weekly{}, fmt.Errorf("weekly.weekday (CALCIUM_REMINDER_WEEKDAY): %d is outside 0..6 (Monday=0)", idx)
	}
	raw := strings.TrimSpace(w.Time)
	if raw == "" {
		raw = DefaultWeeklyTime
	}
	at, err := plan.ParseTimeOfDay(raw)
	if err != nil {
		return Weekly{}, fmt.Errorf("weekly.time (CALCIUM_REMINDER_TIME): %w", err)
	}
	// Monday=0 in config; time.Weekday is Sunday=0.
	out := Weekly{Weekday: time.Weekday((idx + 1) % 7), At: at}
	if _, err := plan.WeeklySchedule(out.Weekday, out.At); err != nil {
		return Weekly{}, fmt.Errorf("weekly: %w", err)
	}
	return out, nil
}
