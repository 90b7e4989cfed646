package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup layers a .env file under the process environment: a variable set
// in the real environment wins, matching godotenv.Load semantics, but the
// process environment itself is never mutated. A missing file is not an error.
func EnvLookup(dotenvPath string) (LookupFunc, error) {
	vars := map[string]string{}
	if strings.TrimSpace(dotenvPath) != "" {
		m, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			vars = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// applyEnv overrides file settings with environment variables. Empty values
// are ignored so an unset-but-exported variable can't blank a setting.
func applyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("REMINDBOT_DRIVER", &cfg.Transport.Driver)
	str("TWILIO_ACCOUNT_SID", &cfg.Transport.Twilio.AccountSID)
	str("TWILIO_AUTH_TOKEN", &cfg.Transport.Twilio.AuthToken)
	str("TWILIO_WHATSAPP_NUMBER", &cfg.Transport.From)
	str("TELEGRAM_TOKEN", &cfg.Transport.Telegram.Token)
	// Both destinations may sit in one .env; only the active driver's applies.
	switch driverName(cfg.Transport.Driver) {
	case DriverTwilio:
		str("SISTER_WHATSAPP_NUMBER", &cfg.Transport.To)
	case DriverTelegram:
		str("TELEGRAM_CHAT_ID", &cfg.Transport.To)
	}
	str("TIMEZONE", &cfg.Timezone)
	str("START_DATE", &cfg.StartDate)
	str("CALCIUM_REMINDER_TIME", &cfg.Weekly.Time)

	if v, ok := lookup("POLL_INTERVAL_SECONDS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("POLL_INTERVAL_SECONDS: %q is not an integer", v)
		}
		cfg.PollInterval = strconv.Itoa(n) + "s"
	}
	if v, ok := lookup("CALCIUM_REMINDER_WEEKDAY"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("CALCIUM_REMINDER_WEEKDAY: %q is not an integer", v)
		}
		cfg.Weekly.Weekday = &n
	}
	return nil
}
