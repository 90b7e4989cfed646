// Package telegram sends reminders to a Telegram chat with a send-only bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"remindbot/internal/transport"
	logx "remindbot/pkg/logx"
)

type Config struct {
	Token string
}

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Dispatcher struct {
	bot sender
	log logx.Logger
}

// New builds an offline bot: no getMe call and no update polling,
// since reminders only ever go out.
func New(cfg Config, log logx.Logger) (*Dispatcher, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	b, err := tele.NewBot(tele.Settings{Token: cfg.Token, Offline: true})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Dispatcher{bot: b, log: log}, nil
}

// Send delivers msg.Body to the chat id in msg.To. Long bodies are split;
// the first failing chunk fails the whole attempt.
func (d *Dispatcher) Send(ctx context.Context, msg transport.Message) error {
	if msg.To == "" {
		return transport.ErrEmptyDestination
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(msg.To), 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat id %q: %w", msg.To, err)
	}
	chat := &tele.Chat{ID: chatID}
	for _, chunk := range splitText(msg.Body, textLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := d.bot.Send(chat, chunk, &tele.SendOptions{DisableWebPagePreview: true}); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	d.log.Debug("telegram message sent", logx.Int64("chat_id", chatID))
	return nil
}

const textLimit = 4000

// splitText splits s into chunks of at most limit runes, preferring
// newline boundaries near the end of each window.
func splitText(s string, limit int) []string {
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}
	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := min(start+limit, len(rs))
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				// Avoid extremely small chunks.
				if rs[i] == '\n' && i-start >= limit/3 {
					end = i + 1
					break
				}
			}
		}
		out = append(out, strings.TrimRight(string(rs[start:end]), "\n"))
		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}
