package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

type preferenceLoader interface {
	Load(ctx context.Context, userID string) dashboard.Preferences
}

// PreferencesQuery reads the viewer's saved card selection.
type PreferencesQuery struct {
	service preferenceLoader
}

// NewPreferencesQuery builds the query.
func NewPreferencesQuery(service preferenceLoader) *PreferencesQuery {
	return &PreferencesQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Preferences] = (*PreferencesQuery)(nil)

// Query loads preferences for the viewer. A missing or unreachable store
// yields the empty selection rather than an error.
func (q *PreferencesQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Preferences, error) {
	return q.service.Load(ctx, viewer.UserID), nil
}
