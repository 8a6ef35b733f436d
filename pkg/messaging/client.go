// Package messaging is the client for the outbound SMS/WhatsApp gateway.
// SMS dispatches are GET-style POSTs carrying everything in query
// parameters; WhatsApp dispatches are JSON POSTs under Basic auth. Both
// return the provider's acknowledgement payload verbatim.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 20 * time.Second

// HTTPDoer is the subset of http.Client the gateway client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the gateway credentials and endpoints.
type Config struct {
	SMSEndpoint      string
	WhatsAppEndpoint string
	AuthKey          string
	// BasicUser/BasicPassword authenticate WhatsApp dispatches.
	BasicUser     string
	BasicPassword string
	CountryCode   string
}

// Client dispatches messages through the provider gateway.
type Client struct {
	cfg    Config
	http   HTTPDoer
	logger *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a gateway client.
func NewClient(cfg Config, options ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: slog.Default(),
	}
	if c.cfg.CountryCode == "" {
		c.cfg.CountryCode = "91"
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Ack is the provider's raw acknowledgement. Detail is the undecoded body;
// callers surface it verbatim.
type Ack struct {
	StatusCode int
	Detail     string
}

// SMSRequest is one SMS dispatch. Variables are appended as query
// parameters alongside the template sid.
type SMSRequest struct {
	Mobile    string
	SID       string
	Variables map[string]string
}

// SendSMS dispatches an SMS through the gateway.
func (c *Client) SendSMS(ctx context.Context, req SMSRequest) (Ack, error) {
	if req.Mobile == "" {
		return Ack{}, fmt.Errorf("messaging: sms requires a mobile number")
	}
	if req.SID == "" {
		return Ack{}, fmt.Errorf("messaging: sms requires a template sid")
	}

	params := url.Values{}
	params.Set("authkey", c.cfg.AuthKey)
	params.Set("mobile", req.Mobile)
	params.Set("country_code", c.cfg.CountryCode)
	params.Set("sid", req.SID)
	for name, value := range req.Variables {
		params.Set(name, value)
	}

	endpoint := c.cfg.SMSEndpoint + "?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return Ack{}, fmt.Errorf("messaging: build sms request: %w", err)
	}
	return c.dispatch(httpReq, "sms", req.Mobile)
}

// WhatsAppRequest is one WhatsApp dispatch. BodyValues maps the template's
// numeric token positions to their resolved values.
type WhatsAppRequest struct {
	Mobile     string
	TemplateID string
	BodyValues map[string]string
}

type whatsAppPayload struct {
	To         string            `json:"to"`
	TemplateID string            `json:"templateId"`
	BodyValues map[string]string `json:"bodyValues"`
}

// SendWhatsApp dispatches a WhatsApp template message through the gateway.
func (c *Client) SendWhatsApp(ctx context.Context, req WhatsAppRequest) (Ack, error) {
	if req.Mobile == "" {
		return Ack{}, fmt.Errorf("messaging: whatsapp requires a mobile number")
	}
	if req.TemplateID == "" {
		return Ack{}, fmt.Errorf("messaging: whatsapp requires a template id")
	}

	body, err := json.Marshal(whatsAppPayload{
		To:         c.cfg.CountryCode + req.Mobile,
		TemplateID: req.TemplateID,
		BodyValues: req.BodyValues,
	})
	if err != nil {
		return Ack{}, fmt.Errorf("messaging: marshal whatsapp payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.WhatsAppEndpoint, bytes.NewReader(body))
	if err != nil {
		return Ack{}, fmt.Errorf("messaging: build whatsapp request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.BasicUser, c.cfg.BasicPassword)
	return c.dispatch(httpReq, "whatsapp", req.Mobile)
}

func (c *Client) dispatch(req *http.Request, channel, mobile string) (Ack, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return Ack{}, fmt.Errorf("messaging: %s dispatch: %w", channel, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	ack := Ack{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(body))}

	if resp.StatusCode >= 400 {
		c.logger.Warn("message dispatch rejected",
			"channel", channel, "mobile", mobile, "status", resp.StatusCode)
		return ack, fmt.Errorf("messaging: %s dispatch failed: status %d: %s", channel, resp.StatusCode, ack.Detail)
	}
	c.logger.Info("message dispatched", "channel", channel, "mobile", mobile)
	return ack, nil
}
