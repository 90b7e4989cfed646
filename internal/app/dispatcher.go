package app

import (
	"fmt"

	"remindbot/internal/config"
	"remindbot/internal/transport"
	"remindbot/internal/transport/telegram"
	"remindbot/internal/transport/twilio"
	logx "remindbot/pkg/logx"
)

func buildDispatcher(t config.Transport, log logx.Logger) (transport.Dispatcher, error) {
	var d transport.Dispatcher
	switch t.Driver {
	case config.DriverTwilio:
		tw, err := twilio.New(twilio.Config{AccountSID: t.TwilioAccountSID, AuthToken: t.TwilioAuthToken}, log)
		if err != nil {
			return nil, err
		}
		d = tw
	case config.DriverTelegram:
		tg, err := telegram.New(telegram.Config{Token: t.TelegramToken}, log)
		if err != nil {
			return nil, err
		}
		d = tg
	case config.DriverLog:
		d = transport.LogDispatcher{Log: log}
	default:
		return nil, fmt.Errorf("transport.driver: unknown driver %q", t.Driver)
	}

	if t.RatePerSec > 0 {
		d = transport.NewThrottled(d, t.RatePerSec)
	}
	return d, nil
}
