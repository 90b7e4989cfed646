// Package twilio sends reminders as WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tw "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"remindbot/internal/transport"
	logx "remindbot/pkg/logx"
)

const whatsappPrefix = "whatsapp:"

type Config struct {
	AccountSID string
	AuthToken  string
}

// messageCreator is the slice of the Twilio API client this driver uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type Dispatcher struct {
	api messageCreator
	log logx.Logger
}

func New(cfg Config, log logx.Logger) (*Dispatcher, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio: account sid and auth token are required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	client := tw.NewRestClientWithParams(tw.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Dispatcher{api: client.Api, log: log}, nil
}

// Send creates one WhatsApp message. The Twilio client has no context support,
// so ctx is only checked before the call.
func (d *Dispatcher) Send(ctx context.Context, msg transport.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return transport.ErrEmptyDestination
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	resp, err := d.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		d.log.Debug("twilio message created", logx.String("sid", *resp.Sid))
	}
	return nil
}

// NormalizeWhatsApp accepts "+E164" or "whatsapp:+E164" and returns the
// "whatsapp:" form Twilio expects. field names the setting in errors.
func NormalizeWhatsApp(raw, field string) (string, error) {
	v := strings.TrimSpace(raw)
	if strings.HasPrefix(v, whatsappPrefix) {
		return v, nil
	}
	if !strings.HasPrefix(v, "+") {
		return "", fmt.Errorf("%s must be in E.164 format like +91XXXXXXXXXX or whatsapp:+91XXXXXXXXXX", field)
	}
	return whatsappPrefix + v, nil
}
