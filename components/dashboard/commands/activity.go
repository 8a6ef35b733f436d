package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/kovon-io/go-insights/components/crm"
)

// RecordActivityInput appends one disposition to a candidate's timeline.
type RecordActivityInput struct {
	RecordID     string          `json:"recordId"`
	Disposition  crm.Disposition `json:"disposition"`
	Notes        string          `json:"notes,omitempty"`
	NextCallDate string          `json:"nextCallDate,omitempty"`
}

type activityRecorder interface {
	RecordActivity(ctx context.Context, recordID string, input crm.ActivityInput) (crm.Activity, error)
}

// RecordActivityCommand validates and stores a call outcome.
type RecordActivityCommand struct {
	service   activityRecorder
	telemetry Telemetry
}

// NewRecordActivityCommand creates the command.
func NewRecordActivityCommand(service activityRecorder, telemetry Telemetry) *RecordActivityCommand {
	return &RecordActivityCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RecordActivityInput] = (*RecordActivityCommand)(nil)

// Execute records the activity.
func (c *RecordActivityCommand) Execute(ctx context.Context, msg RecordActivityInput) error {
	if c.service == nil {
		return errors.New("activity command requires service")
	}
	if msg.RecordID == "" {
		return errors.New("activity command requires record id")
	}
	activity, err := c.service.RecordActivity(ctx, msg.RecordID, crm.ActivityInput{
		Disposition:  msg.Disposition,
		Notes:        msg.Notes,
		NextCallDate: msg.NextCallDate,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "crm.activity.record", map[string]any{
		"record_id":   msg.RecordID,
		"activity_id": activity.ID,
		"disposition": string(msg.Disposition),
	})
	return nil
}
