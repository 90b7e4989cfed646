package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const defaultKeyringService = "remindbot"

var keyringGet = keyring.Get

// fillFromKeyring looks up provider secrets that are still empty after file
// and env resolution. A missing keyring entry is not an error here; the
// driver's own validation reports the missing credential.
func fillFromKeyring(t *TransportConfig) error {
	if !t.Keyring.Enabled {
		return nil
	}
	service := strings.TrimSpace(t.Keyring.Service)
	if service == "" {
		service = defaultKeyringService
	}

	lookup := func(user string, dst *string) error {
		if *dst != "" || user == "" {
			return nil
		}
		v, err := keyringGet(service, user)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("keyring %s/%s: %w", service, user, err)
		}
		*dst = strings.TrimSpace(v)
		return nil
	}

	switch driverName(t.Driver) {
	case DriverTwilio:
		return lookup(t.Twilio.AccountSID, &t.Twilio.AuthToken)
	case DriverTelegram:
		return lookup("telegram", &t.Telegram.Token)
	}
	return nil
}
