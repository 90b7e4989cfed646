package config

// Config is the on-disk schema (JSON or YAML). Every field is optional;
// environment variables override it, and Resolve fills defaults.
type Config struct {
	Timezone string `json:"timezone,omitempty"`
	// StartDate is an ISO 8601 calendar date (YYYY-MM-DD).
	StartDate string `json:"start_date,omitempty"`
	// PollInterval is a Go duration string (e.g. "20s").
	PollInterval string `json:"poll_interval,omitempty"`

	Transport TransportConfig `json:"transport"`

	// Weekly is a secondary reminder slot. It is validated and carried but
	// nothing triggers on it yet.
	Weekly WeeklyConfig `json:"weekly,omitempty"`

	// Plan replaces the built-in daily plan when non-empty.
	Plan []PlanEntry `json:"plan,omitempty"`

	// Logging defaults to console plus ./logs/remindbot.log when absent.
	Logging *LoggingConfig `json:"logging,omitempty"`
	Storage *StorageConfig `json:"storage,omitempty"`
	Metrics MetricsConfig  `json:"metrics,omitempty"`
}

// TransportConfig selects and configures the outbound driver.
//
// Driver values: "twilio" (WhatsApp, default), "telegram", "log" (dry run).
type TransportConfig struct {
	Driver string `json:"driver,omitempty"`
	// From is the sender identity (Twilio WhatsApp number).
	From string `json:"from,omitempty"`
	// To is the destination (WhatsApp number or Telegram chat id).
	To         string         `json:"to,omitempty"`
	RatePerSec int            `json:"rate_per_sec,omitempty"`
	Twilio     TwilioConfig   `json:"twilio,omitempty"`
	Telegram   TelegramConfig `json:"telegram,omitempty"`
	Keyring    KeyringConfig  `json:"keyring,omitempty"`
}

// TwilioConfig holds provider credentials. Prefer env vars or the OS keyring
// over committing the token to the config file.
type TwilioConfig struct {
	AccountSID string `json:"account_sid,omitempty"`
	AuthToken  string `json:"auth_token,omitempty"` // do not log
}

type TelegramConfig struct {
	Token string `json:"token,omitempty"` // do not log
}

// KeyringConfig enables looking up a missing provider secret in the OS
// keyring under Service, with the account SID (or "telegram") as the user.
type KeyringConfig struct {
	Enabled bool   `json:"enabled"`
	Service string `json:"service,omitempty"` // default: "remindbot"
}

// WeeklyConfig uses Monday=0 ... Sunday=6 for Weekday.
type WeeklyConfig struct {
	Weekday *int   `json:"weekday,omitempty"`
	Time    string `json:"time,omitempty"`
}

type PlanEntry struct {
	Time  string `json:"time"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the attempt journal.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./data/remindbot.db" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// MetricsConfig enables writing counters to a Prometheus textfile.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty"`
}
