package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// GenerateResumeInput produces and stores a resume PDF for one user.
type GenerateResumeInput struct {
	UserID string `json:"userId"`
}

type resumeGenerator interface {
	GenerateAndStore(ctx context.Context, userID string) (string, error)
}

// GenerateResumeCommand runs the generate/upload/record pipeline.
type GenerateResumeCommand struct {
	service   resumeGenerator
	telemetry Telemetry
}

// NewGenerateResumeCommand creates the command.
func NewGenerateResumeCommand(service resumeGenerator, telemetry Telemetry) *GenerateResumeCommand {
	return &GenerateResumeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[GenerateResumeInput] = (*GenerateResumeCommand)(nil)

// Execute generates the PDF and records where it landed.
func (c *GenerateResumeCommand) Execute(ctx context.Context, msg GenerateResumeInput) error {
	if c.service == nil {
		return errors.New("resume command requires service")
	}
	if msg.UserID == "" {
		return errors.New("resume command requires user id")
	}
	url, err := c.service.GenerateAndStore(ctx, msg.UserID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.resume.generate", map[string]any{
		"user_id": msg.UserID,
		"url":     url,
	})
	return nil
}
