package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/kovon-io/go-insights/components/crm"
)

// HistoryInput identifies one candidate timeline.
type HistoryInput struct {
	RecordID string `json:"recordId"`
}

type historyService interface {
	History(ctx context.Context, recordID string) ([]crm.Activity, error)
}

// HistoryQuery fetches the activity timeline for a candidate, newest first.
type HistoryQuery struct {
	service historyService
}

// NewHistoryQuery builds the query.
func NewHistoryQuery(service historyService) *HistoryQuery {
	return &HistoryQuery{service: service}
}

var _ gocommand.Querier[HistoryInput, []crm.Activity] = (*HistoryQuery)(nil)

// Query returns the recorded activities for the candidate.
func (q *HistoryQuery) Query(ctx context.Context, input HistoryInput) ([]crm.Activity, error) {
	return q.service.History(ctx, input.RecordID)
}
