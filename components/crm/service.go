package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownDisposition rejects activity input carrying a disposition
// outside the known set.
var ErrUnknownDisposition = errors.New("crm: unknown disposition")

// Activity is one recorded call outcome on a candidate record.
type Activity struct {
	ID           string      `json:"id"`
	RecordID     string      `json:"recordId"`
	Disposition  Disposition `json:"disposition"`
	Notes        string      `json:"notes,omitempty"`
	NextCallDate string      `json:"nextCallDate,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// ActivityInput is the operator-entered portion of an activity.
type ActivityInput struct {
	Disposition  Disposition
	Notes        string
	NextCallDate string
}

// HistoryStore persists activity timelines.
type HistoryStore interface {
	Append(ctx context.Context, activity Activity) error
	History(ctx context.Context, recordID string) ([]Activity, error)
}

// ReferenceEntry is one entry of a reference list used by profile editing.
type ReferenceEntry struct {
	ID   string
	Name string
}

// ReferenceSource provides the dropdown reference lists.
type ReferenceSource interface {
	Countries(ctx context.Context) ([]ReferenceEntry, error)
	JobRoles(ctx context.Context) ([]ReferenceEntry, error)
}

// Service is the candidate record workflow.
type Service struct {
	history HistoryStore
	refs    ReferenceSource
	logger  *slog.Logger
}

// NewService wires the history store and reference source. Either may be
// nil; the corresponding operations then fail with a configuration error.
func NewService(history HistoryStore, refs ReferenceSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{history: history, refs: refs, logger: logger}
}

// RecordActivity validates and stores one call outcome, returning the
// stored activity with its generated id.
func (s *Service) RecordActivity(ctx context.Context, recordID string, input ActivityInput) (Activity, error) {
	if s.history == nil {
		return Activity{}, fmt.Errorf("crm: history store not configured")
	}
	if recordID == "" {
		return Activity{}, fmt.Errorf("crm: record id is required")
	}
	if !ValidDisposition(input.Disposition) {
		return Activity{}, fmt.Errorf("%w %q", ErrUnknownDisposition, input.Disposition)
	}

	activity := Activity{
		ID:           uuid.NewString(),
		RecordID:     recordID,
		Disposition:  input.Disposition,
		Notes:        input.Notes,
		NextCallDate: input.NextCallDate,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.history.Append(ctx, activity); err != nil {
		return Activity{}, fmt.Errorf("crm: record activity: %w", err)
	}
	s.logger.Info("activity recorded",
		"record_id", recordID, "disposition", string(input.Disposition))
	return activity, nil
}

// History returns a record's activity timeline, newest first.
func (s *Service) History(ctx context.Context, recordID string) ([]Activity, error) {
	if s.history == nil {
		return nil, fmt.Errorf("crm: history store not configured")
	}
	return s.history.History(ctx, recordID)
}

// Countries returns the target-country reference list.
func (s *Service) Countries(ctx context.Context) ([]ReferenceEntry, error) {
	if s.refs == nil {
		return nil, fmt.Errorf("crm: reference source not configured")
	}
	return s.refs.Countries(ctx)
}

// JobRoles returns the job-role reference list.
func (s *Service) JobRoles(ctx context.Context) ([]ReferenceEntry, error) {
	if s.refs == nil {
		return nil, fmt.Errorf("crm: reference source not configured")
	}
	return s.refs.JobRoles(ctx)
}
