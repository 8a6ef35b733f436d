package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStatsRepo struct {
	users      TotalUsersStat
	usersErr   error
	applied    CountResult
	appliedErr error
	summaries  []ApplicantSummary
	sumErr     error
	incomplete CountResult
	incErr     error

	delay time.Duration
}

func (f *fakeStatsRepo) wait(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeStatsRepo) FetchTotalUsers(ctx context.Context, _ APIDateRange) (TotalUsersStat, error) {
	if err := f.wait(ctx); err != nil {
		return TotalUsersStat{}, err
	}
	return f.users, f.usersErr
}

func (f *fakeStatsRepo) FetchUserApplicationStatus(ctx context.Context, _ ListQuery, filter string, _ APIDateRange) (CountResult, error) {
	if filter != appliedCohort {
		return CountResult{}, errors.New("unexpected filter " + filter)
	}
	if err := f.wait(ctx); err != nil {
		return CountResult{}, err
	}
	return f.applied, f.appliedErr
}

func (f *fakeStatsRepo) FetchApplicantSummaries(ctx context.Context, _ ListQuery, _ APIDateRange) ([]ApplicantSummary, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.summaries, f.sumErr
}

func (f *fakeStatsRepo) FetchIncompleteProfiles(ctx context.Context, _ ListQuery, _ APIDateRange) (CountResult, error) {
	if err := f.wait(ctx); err != nil {
		return CountResult{}, err
	}
	return f.incomplete, f.incErr
}

func TestRefreshDerivesCompositeValues(t *testing.T) {
	repo := &fakeStatsRepo{
		users:   TotalUsersStat{Value: 100},
		applied: CountResult{Total: 40},
		summaries: []ApplicantSummary{
			{UserID: "u1", TotalApplications: 3},
			{UserID: "u2"},
			{UserID: "u3", TotalApplications: 5},
		},
		incomplete: CountResult{Total: 30},
	}
	snapshot, err := NewAggregator(repo).Refresh(context.Background(), APIDateRange{})
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if snapshot.TotalUsers.Value != 100 {
		t.Fatalf("total users = %d", snapshot.TotalUsers.Value)
	}
	if snapshot.UsersApplied != 40 {
		t.Fatalf("users applied = %d", snapshot.UsersApplied)
	}
	if snapshot.TotalApplications != 8 {
		t.Fatalf("expected missing counts to sum as zero, got %d", snapshot.TotalApplications)
	}
	if snapshot.CompletedProfiles != 70 {
		t.Fatalf("completed profiles = %d, want 70", snapshot.CompletedProfiles)
	}
}

func TestRefreshIsAllOrNothing(t *testing.T) {
	repo := &fakeStatsRepo{
		users:     TotalUsersStat{Value: 100},
		applied:   CountResult{Total: 40},
		summaries: []ApplicantSummary{{TotalApplications: 2}},
		incErr:    errors.New("gateway timeout"),
	}
	snapshot, err := NewAggregator(repo).Refresh(context.Background(), APIDateRange{})
	if err == nil {
		t.Fatal("expected batch error")
	}
	if snapshot != (AggregateSnapshot{}) {
		t.Fatalf("expected empty snapshot on failure, got %#v", snapshot)
	}
}

func TestRefreshRequiresRepository(t *testing.T) {
	if _, err := NewAggregator(nil).Refresh(context.Background(), APIDateRange{}); !errors.Is(err, errMissingStatsRepository) {
		t.Fatalf("expected errMissingStatsRepository, got %v", err)
	}
}
