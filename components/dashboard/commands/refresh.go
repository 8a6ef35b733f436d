package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

// RefreshSnapshotInput reruns the aggregation batch, optionally after moving
// the active date range.
type RefreshSnapshotInput struct {
	Range dashboard.DateRange `json:"range"`
}

type snapshotSession interface {
	SetDateRange(r dashboard.DateRange) bool
	Refresh(ctx context.Context)
	Err() string
}

type pollRestarter interface {
	Restart(ctx context.Context)
}

// RefreshSnapshotCommand refreshes the session snapshot and, when the range
// actually moved, restarts the poll timer so the next automatic tick counts
// from now.
type RefreshSnapshotCommand struct {
	session   snapshotSession
	poller    pollRestarter
	telemetry Telemetry
}

// NewRefreshSnapshotCommand creates the command. A nil poller disables the
// timer restart.
func NewRefreshSnapshotCommand(session snapshotSession, poller pollRestarter, telemetry Telemetry) *RefreshSnapshotCommand {
	return &RefreshSnapshotCommand{session: session, poller: poller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshSnapshotInput] = (*RefreshSnapshotCommand)(nil)

// Execute applies the range and runs one batch.
func (c *RefreshSnapshotCommand) Execute(ctx context.Context, msg RefreshSnapshotInput) error {
	if c.session == nil {
		return errors.New("refresh command requires session")
	}
	changed := c.session.SetDateRange(msg.Range)
	c.session.Refresh(ctx)
	if changed && c.poller != nil {
		c.poller.Restart(ctx)
	}
	payload := map[string]any{
		"start":         msg.Range.Start,
		"end":           msg.Range.End,
		"range_changed": changed,
	}
	event := dashboard.EventSnapshotRefreshed
	if errMsg := c.session.Err(); errMsg != "" {
		event = dashboard.EventSnapshotFailed
		payload["error"] = errMsg
	}
	c.telemetry.Record(ctx, event, payload)
	return nil
}
