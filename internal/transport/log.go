package transport

import (
	"context"

	logx "remindbot/pkg/logx"
)

// LogDispatcher is a dry-run driver: it logs the message and reports success.
type LogDispatcher struct {
	Log logx.Logger
}

func (d LogDispatcher) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return ErrEmptyDestination
	}
	d.Log.Info("dry-run send", logx.String("from", msg.From), logx.String("to", msg.To), logx.String("body", msg.Body))
	return nil
}
