package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

// ToggleCardInput flips one card in the viewer's selection.
type ToggleCardInput struct {
	Viewer dashboard.ViewerContext `json:"viewer"`
	Code   string                  `json:"code"`
}

type cardToggler interface {
	ToggleCard(ctx context.Context, viewer dashboard.ViewerContext, code string) (dashboard.Preferences, error)
}

// ToggleCardCommand adds or removes a single card from the saved selection.
type ToggleCardCommand struct {
	service   cardToggler
	telemetry Telemetry
}

// NewToggleCardCommand creates the command.
func NewToggleCardCommand(service cardToggler, telemetry Telemetry) *ToggleCardCommand {
	return &ToggleCardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleCardInput] = (*ToggleCardCommand)(nil)

// Execute toggles the card and persists the resulting selection.
func (c *ToggleCardCommand) Execute(ctx context.Context, msg ToggleCardInput) error {
	if c.service == nil {
		return errors.New("toggle command requires service")
	}
	if msg.Code == "" {
		return errors.New("toggle command requires card code")
	}
	prefs, err := c.service.ToggleCard(ctx, msg.Viewer, msg.Code)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.card.toggle", map[string]any{
		"user_id":  msg.Viewer.UserID,
		"code":     msg.Code,
		"selected": len(prefs.SelectedCards),
	})
	return nil
}
