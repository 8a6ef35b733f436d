package queries

import (
	"context"
	"testing"

	"github.com/kovon-io/go-insights/components/crm"
	dashboard "github.com/kovon-io/go-insights/components/dashboard"
)

type stubSession struct {
	snapshot dashboard.AggregateSnapshot
	has      bool
	errMsg   string
	loading  bool
}

func (s *stubSession) Snapshot() (dashboard.AggregateSnapshot, bool) { return s.snapshot, s.has }
func (s *stubSession) Err() string                                   { return s.errMsg }
func (s *stubSession) StatsLoading() bool                            { return s.loading }

type stubComposeService struct {
	calls int
}

func (s *stubComposeService) Compose(context.Context, dashboard.ComposeRequest) ([]dashboard.ComposedCard, error) {
	s.calls++
	return []dashboard.ComposedCard{{Code: "insights.card.active_users"}}, nil
}

type stubPreferenceLoader struct {
	calls int
}

func (s *stubPreferenceLoader) Load(context.Context, string) dashboard.Preferences {
	s.calls++
	return dashboard.Preferences{SelectedCards: []string{"insights.card.active_users"}}
}

type stubHistoryService struct {
	calls int
}

func (s *stubHistoryService) History(_ context.Context, recordID string) ([]crm.Activity, error) {
	s.calls++
	return []crm.Activity{{ID: "act-1", RecordID: recordID}}, nil
}

type stubResumeLookup struct {
	url   string
	found bool
}

func (s *stubResumeLookup) Lookup(context.Context, string) (string, bool, error) {
	return s.url, s.found, nil
}

func TestSnapshotQuery(t *testing.T) {
	session := &stubSession{
		snapshot: dashboard.AggregateSnapshot{TotalUsers: dashboard.TotalUsersStat{Value: 70}, CompletedProfiles: 62},
		has:      true,
	}
	query := NewSnapshotQuery(session)
	view, err := query.Query(context.Background(), SnapshotInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !view.HasSnapshot {
		t.Fatalf("expected snapshot to be present")
	}
	if view.Snapshot.TotalUsers.Value != 70 {
		t.Fatalf("expected total users 70, got %d", view.Snapshot.TotalUsers.Value)
	}
}

func TestSnapshotQueryReportsError(t *testing.T) {
	session := &stubSession{errMsg: "Failed to load insights", loading: false}
	query := NewSnapshotQuery(session)
	view, err := query.Query(context.Background(), SnapshotInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if view.HasSnapshot {
		t.Fatalf("expected no snapshot")
	}
	if view.Error != "Failed to load insights" {
		t.Fatalf("unexpected error message %q", view.Error)
	}
}

func TestComposeQuery(t *testing.T) {
	service := &stubComposeService{}
	query := NewComposeQuery(service)
	cards, err := query.Query(context.Background(), dashboard.ComposeRequest{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 {
		t.Fatalf("expected 1 call, got %d", service.calls)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
}

func TestPreferencesQuery(t *testing.T) {
	service := &stubPreferenceLoader{}
	query := NewPreferencesQuery(service)
	prefs, err := query.Query(context.Background(), dashboard.ViewerContext{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 {
		t.Fatalf("expected 1 call, got %d", service.calls)
	}
	if len(prefs.SelectedCards) != 1 {
		t.Fatalf("expected 1 selected card, got %d", len(prefs.SelectedCards))
	}
}

func TestHistoryQuery(t *testing.T) {
	service := &stubHistoryService{}
	query := NewHistoryQuery(service)
	activities, err := query.Query(context.Background(), HistoryInput{RecordID: "rec-1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(activities) != 1 || activities[0].RecordID != "rec-1" {
		t.Fatalf("unexpected activities %v", activities)
	}
}

func TestResumeQuery(t *testing.T) {
	query := NewResumeQuery(&stubResumeLookup{url: "https://files.example.com/r.pdf", found: true})
	link, err := query.Query(context.Background(), ResumeInput{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !link.Found || link.URL == "" {
		t.Fatalf("expected stored link, got %+v", link)
	}

	query = NewResumeQuery(&stubResumeLookup{})
	link, err = query.Query(context.Background(), ResumeInput{UserID: "user-2"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if link.Found {
		t.Fatalf("expected no link, got %+v", link)
	}
}
