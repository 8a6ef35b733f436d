package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

// SnapshotInput selects the current session snapshot; it carries no fields
// because the session owns the active range.
type SnapshotInput struct{}

// SnapshotView is the stat-header state as presented to clients.
type SnapshotView struct {
	Snapshot    dashboard.AggregateSnapshot `json:"snapshot"`
	HasSnapshot bool                        `json:"hasSnapshot"`
	Error       string                      `json:"error,omitempty"`
	Loading     bool                        `json:"loading"`
}

type snapshotSession interface {
	Snapshot() (dashboard.AggregateSnapshot, bool)
	Err() string
	StatsLoading() bool
}

// SnapshotQuery reads the last committed aggregate snapshot.
type SnapshotQuery struct {
	session snapshotSession
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(session snapshotSession) *SnapshotQuery {
	return &SnapshotQuery{session: session}
}

var _ gocommand.Querier[SnapshotInput, SnapshotView] = (*SnapshotQuery)(nil)

// Query returns the committed snapshot alongside the error and loading flags.
func (q *SnapshotQuery) Query(ctx context.Context, _ SnapshotInput) (SnapshotView, error) {
	snapshot, ok := q.session.Snapshot()
	return SnapshotView{
		Snapshot:    snapshot,
		HasSnapshot: ok,
		Error:       q.session.Err(),
		Loading:     q.session.StatsLoading(),
	}, nil
}
