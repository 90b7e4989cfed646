package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"remindbot/internal/notifier"
	logx "remindbot/pkg/logx"
)

// notifyFunc sends one sd_notify state. It reports false when not running
// under systemd.
type notifyFunc func(state string) (bool, error)

func sdNotify(state string) (bool, error) { return daemon.SdNotify(false, state) }

func sdWatchdog() (time.Duration, error) { return daemon.SdWatchdogEnabled(false) }

func (a *App) notify(state string) {
	if a.sd == nil {
		return
	}
	if _, err := a.sd(state); err != nil {
		a.log.Debug("sd_notify failed", logx.String("state", state), logx.Err(err))
	}
}

// configureWatchdog arms WATCHDOG=1 pings. They are sent only when the
// scheduler reports a heartbeat, so a wedged loop lets systemd restart us.
func (a *App) configureWatchdog() {
	if a.watchdog == nil {
		return
	}
	interval, err := a.watchdog()
	if err != nil {
		a.log.Warn("systemd watchdog config invalid", logx.Err(err))
		return
	}
	if interval <= 0 {
		return
	}
	a.watchdogOn = true
	a.log.Info("systemd watchdog enabled", logx.Duration("interval", interval))
	if a.pollEvery > 0 && interval < 2*a.pollEvery {
		a.log.Warn("watchdog interval shorter than two polls; expect restarts",
			logx.Duration("interval", interval),
			logx.Duration("poll_interval", a.pollEvery),
		)
	}
}

func (a *App) notifyStopping() { a.notify(daemon.SdNotifyStopping) }

// publishStatus mirrors scheduler progress into the unit's STATUS line and
// turns heartbeats into watchdog pings.
func (a *App) publishStatus(ctx context.Context, events <-chan notifier.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Type == notifier.EventHeartbeat {
				if a.watchdogOn {
					a.notify(daemon.SdNotifyWatchdog)
				}
				continue
			}
			if line := statusLine(e); line != "" {
				a.notify("STATUS=" + line)
			}
		}
	}
}

func statusLine(e notifier.Event) string {
	switch e.Type {
	case notifier.EventWaitingForStart:
		return "waiting for start date (today " + e.Date + ")"
	case notifier.EventActivated:
		return "active since " + e.Date
	case notifier.EventAttemptSucceeded:
		return fmt.Sprintf("last: %s at %s ok", e.Title, e.Slot)
	case notifier.EventAttemptFailed:
		return fmt.Sprintf("last: %s at %s failed", e.Title, e.Slot)
	default:
		return ""
	}
}
