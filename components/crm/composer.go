package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kovon-io/go-insights/pkg/messaging"
)

// AppLink is the fixed install link substituted for the applink field.
const AppLink = "https://vil.ltd/kovon/c/kjobs"

// ErrSendInProgress rejects a dispatch while another is still running.
var ErrSendInProgress = errors.New("crm: send already in progress")

// Channel selects the outbound messaging channel.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// VariableValue resolves a semantic field from a candidate record. Unknown
// fields resolve to the empty string; salary falls back to the literal
// "competitive" when the job snapshot carries no minimum.
func VariableValue(field string, rec CandidateRecord) string {
	switch field {
	case FieldName:
		return rec.FullName
	case FieldCountry:
		return rec.TargetCountry
	case FieldJobRole:
		return rec.TargetJobRole
	case FieldSalary:
		if rec.JobSnapshot.Salary.Min > 0 {
			return strings.TrimSpace(fmt.Sprintf("%v %s", rec.JobSnapshot.Salary.Min, rec.JobSnapshot.Salary.Currency))
		}
		return "competitive"
	case FieldAppLink:
		return AppLink
	default:
		return ""
	}
}

// NormalizePhone strips everything but digits, then drops a leading "91"
// country prefix when the remainder is still longer than a local number.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	mobile := b.String()
	if strings.HasPrefix(mobile, "91") && len(mobile) > 10 {
		mobile = mobile[2:]
	}
	return mobile
}

// ResolveSMSVariables maps a template's declared fields to values from the
// record, with manual overrides taking precedence.
func ResolveSMSVariables(t SMSTemplate, rec CandidateRecord, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(t.Variables))
	for _, field := range t.Variables {
		if v, ok := overrides[field]; ok {
			out[field] = v
			continue
		}
		out[field] = VariableValue(field, rec)
	}
	return out
}

// ResolveWhatsAppVariables maps a template's numeric token positions to
// values, with overrides keyed by position.
func ResolveWhatsAppVariables(t WhatsAppTemplate, rec CandidateRecord, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(t.Variables))
	for _, v := range t.Variables {
		if ov, ok := overrides[v.Key]; ok {
			out[v.Key] = ov
			continue
		}
		out[v.Key] = VariableValue(v.Field, rec)
	}
	return out
}

// PreviewSMS substitutes `{#field#}` tokens literally. Tokens whose value
// is empty stay in place so the operator can see what is unresolved.
func PreviewSMS(t SMSTemplate, vars map[string]string) string {
	message := t.Content
	for field, value := range vars {
		if value == "" {
			continue
		}
		message = strings.ReplaceAll(message, "{#"+field+"#}", value)
	}
	return message
}

// PreviewWhatsApp substitutes `{{n}}` tokens literally, leaving empty ones
// in place.
func PreviewWhatsApp(t WhatsAppTemplate, vars map[string]string) string {
	message := t.Content
	for key, value := range vars {
		if value == "" {
			continue
		}
		message = strings.ReplaceAll(message, "{{"+key+"}}", value)
	}
	return message
}

// Dispatcher is the outbound gateway the composer sends through.
type Dispatcher interface {
	SendSMS(ctx context.Context, req messaging.SMSRequest) (messaging.Ack, error)
	SendWhatsApp(ctx context.Context, req messaging.WhatsAppRequest) (messaging.Ack, error)
}

// Composer builds and dispatches templated messages to a candidate. Only
// one dispatch runs at a time; the sending flag resets when the dispatch
// settles, success or failure.
type Composer struct {
	dispatcher Dispatcher
	logger     *slog.Logger

	mu      sync.Mutex
	sending bool
}

// NewComposer wires a dispatcher. A nil logger uses slog.Default.
func NewComposer(dispatcher Dispatcher, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{dispatcher: dispatcher, logger: logger}
}

// SendRequest is one outbound message.
type SendRequest struct {
	Channel      Channel
	TemplateName string
	Record       CandidateRecord
	// Overrides replaces resolved variable values; keyed by field name for
	// SMS and by token position for WhatsApp.
	Overrides map[string]string
}

// Sending reports whether a dispatch is currently in flight.
func (c *Composer) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

func (c *Composer) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sending {
		return ErrSendInProgress
	}
	c.sending = true
	return nil
}

func (c *Composer) finish() {
	c.mu.Lock()
	c.sending = false
	c.mu.Unlock()
}

// Send resolves the template and dispatches it. Provider errors are
// returned with their detail intact.
func (c *Composer) Send(ctx context.Context, req SendRequest) (messaging.Ack, error) {
	if err := c.begin(); err != nil {
		return messaging.Ack{}, err
	}
	defer c.finish()

	mobile := NormalizePhone(req.Record.PhoneNumber)
	if mobile == "" {
		return messaging.Ack{}, fmt.Errorf("crm: record %s has no usable phone number", req.Record.ID)
	}

	switch req.Channel {
	case ChannelSMS:
		t, ok := SMSTemplateByName(req.TemplateName)
		if !ok {
			return messaging.Ack{}, fmt.Errorf("crm: unknown sms template %q", req.TemplateName)
		}
		vars := ResolveSMSVariables(t, req.Record, req.Overrides)
		ack, err := c.dispatcher.SendSMS(ctx, messaging.SMSRequest{
			Mobile:    mobile,
			SID:       t.SID,
			Variables: vars,
		})
		if err != nil {
			return ack, fmt.Errorf("crm: sms dispatch: %w", err)
		}
		c.logger.Info("sms sent", "record_id", req.Record.ID, "template", t.Name)
		return ack, nil

	case ChannelWhatsApp:
		t, ok := WhatsAppTemplateByName(req.TemplateName)
		if !ok {
			return messaging.Ack{}, fmt.Errorf("crm: unknown whatsapp template %q", req.TemplateName)
		}
		vars := ResolveWhatsAppVariables(t, req.Record, req.Overrides)
		ack, err := c.dispatcher.SendWhatsApp(ctx, messaging.WhatsAppRequest{
			Mobile:     mobile,
			TemplateID: t.WID,
			BodyValues: vars,
		})
		if err != nil {
			return ack, fmt.Errorf("crm: whatsapp dispatch: %w", err)
		}
		c.logger.Info("whatsapp sent", "record_id", req.Record.ID, "template", t.Name)
		return ack, nil

	default:
		return messaging.Ack{}, fmt.Errorf("crm: unknown channel %q", req.Channel)
	}
}
