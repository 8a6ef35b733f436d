package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/kovon-io/go-insights/components/crm"
	"github.com/kovon-io/go-insights/pkg/messaging"
)

// SendMessageInput dispatches one template message to a candidate.
type SendMessageInput struct {
	Channel      crm.Channel         `json:"channel"`
	TemplateName string              `json:"templateName"`
	Record       crm.CandidateRecord `json:"record"`
	Overrides    map[string]string   `json:"overrides,omitempty"`
}

type messageSender interface {
	Send(ctx context.Context, req crm.SendRequest) (messaging.Ack, error)
}

// SendMessageCommand resolves template variables and dispatches through the
// messaging gateway.
type SendMessageCommand struct {
	composer  messageSender
	telemetry Telemetry
}

// NewSendMessageCommand creates the command.
func NewSendMessageCommand(composer messageSender, telemetry Telemetry) *SendMessageCommand {
	return &SendMessageCommand{composer: composer, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SendMessageInput] = (*SendMessageCommand)(nil)

// Execute sends the message and records the gateway status.
func (c *SendMessageCommand) Execute(ctx context.Context, msg SendMessageInput) error {
	if c.composer == nil {
		return errors.New("message command requires composer")
	}
	if msg.TemplateName == "" {
		return errors.New("message command requires template name")
	}
	ack, err := c.composer.Send(ctx, crm.SendRequest{
		Channel:      msg.Channel,
		TemplateName: msg.TemplateName,
		Record:       msg.Record,
		Overrides:    msg.Overrides,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "crm.message.send", map[string]any{
		"channel":  string(msg.Channel),
		"template": msg.TemplateName,
		"status":   ack.StatusCode,
	})
	return nil
}
