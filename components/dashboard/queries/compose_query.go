package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

type composeService interface {
	Compose(ctx context.Context, req dashboard.ComposeRequest) ([]dashboard.ComposedCard, error)
}

// ComposeQuery resolves the card grid for a viewer's selection.
type ComposeQuery struct {
	service composeService
}

// NewComposeQuery builds the query.
func NewComposeQuery(service composeService) *ComposeQuery {
	return &ComposeQuery{service: service}
}

var _ gocommand.Querier[dashboard.ComposeRequest, []dashboard.ComposedCard] = (*ComposeQuery)(nil)

// Query composes the requested cards.
func (q *ComposeQuery) Query(ctx context.Context, req dashboard.ComposeRequest) ([]dashboard.ComposedCard, error) {
	return q.service.Compose(ctx, req)
}
