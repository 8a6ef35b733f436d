package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// appliedCohort narrows the application-status count to users who applied.
const appliedCohort = "applied"

var errMissingStatsRepository = errors.New("dashboard: stats repository not configured")

// Aggregator batches the four headline metric fetches. The batch is
// all-or-nothing: every sub-fetch must settle before a snapshot is built,
// and any failure discards the whole batch.
type Aggregator struct {
	repo StatsRepository
}

// NewAggregator wires a stats repository into an aggregator.
func NewAggregator(repo StatsRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Refresh issues the four metric requests concurrently, joins them, and
// derives the composite values. On any sub-fetch error no snapshot is
// returned.
func (a *Aggregator) Refresh(ctx context.Context, dr APIDateRange) (AggregateSnapshot, error) {
	if a == nil || a.repo == nil {
		return AggregateSnapshot{}, errMissingStatsRepository
	}

	var (
		users      TotalUsersStat
		applied    CountResult
		summaries  []ApplicantSummary
		incomplete CountResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = a.repo.FetchTotalUsers(gctx, dr)
		return err
	})
	g.Go(func() error {
		var err error
		applied, err = a.repo.FetchUserApplicationStatus(gctx, AllRows(), appliedCohort, dr)
		return err
	})
	g.Go(func() error {
		var err error
		summaries, err = a.repo.FetchApplicantSummaries(gctx, AllRows(), dr)
		return err
	})
	g.Go(func() error {
		var err error
		incomplete, err = a.repo.FetchIncompleteProfiles(gctx, AllRows(), dr)
		return err
	})
	if err := g.Wait(); err != nil {
		return AggregateSnapshot{}, err
	}

	return AggregateSnapshot{
		TotalUsers:        users,
		UsersApplied:      applied.Total,
		TotalApplications: sumApplications(summaries),
		CompletedProfiles: users.Value - incomplete.Total,
	}, nil
}

// sumApplications totals the per-applicant counts; absent fields decode to
// zero upstream so missing data never skews the sum.
func sumApplications(summaries []ApplicantSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.TotalApplications
	}
	return total
}
