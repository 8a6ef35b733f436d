package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

// SavePreferencesInput captures a viewer's card selection.
type SavePreferencesInput struct {
	Viewer        dashboard.ViewerContext `json:"viewer"`
	SelectedCards []string                `json:"selectedCards"`
}

type preferenceService interface {
	Save(ctx context.Context, userID string, prefs dashboard.Preferences) error
}

// SavePreferencesCommand persists the per-user card selection.
type SavePreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(service preferenceService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute stores the provided selection for the viewer.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Viewer.UserID == "" {
		return errors.New("preferences command requires viewer user id")
	}
	prefs := dashboard.Preferences{SelectedCards: msg.SelectedCards}
	if err := c.service.Save(ctx, msg.Viewer.UserID, prefs); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.preferences.save", map[string]any{
		"user_id":  msg.Viewer.UserID,
		"selected": len(msg.SelectedCards),
	})
	return nil
}
