package insights

import (
	"context"
	"sync"

	"github.com/kovon-io/go-insights/components/dashboard"
)

// MockRepository is an in-memory stand-in for the gateway used in tests
// and local development. Every field can be primed; errors injected via
// Err fail all calls.
type MockRepository struct {
	mu sync.RWMutex

	Err         error
	TotalUsers  dashboard.TotalUsersStat
	Applied     dashboard.CountResult
	Summaries   []dashboard.ApplicantSummary
	Incomplete  dashboard.CountResult
	Trends      map[dashboard.TrendMetric][]dashboard.TrendPoint
	Breakdowns  map[string][]dashboard.BreakdownRow
	Counts      map[string]int
	UserLists   map[string][]dashboard.UserApplicationRow
	PrefsByUser map[string]dashboard.Preferences
	SaveAck     bool
}

// NewMockRepository builds an empty mock that acknowledges saves.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		Trends:      map[dashboard.TrendMetric][]dashboard.TrendPoint{},
		Breakdowns:  map[string][]dashboard.BreakdownRow{},
		Counts:      map[string]int{},
		UserLists:   map[string][]dashboard.UserApplicationRow{},
		PrefsByUser: map[string]dashboard.Preferences{},
		SaveAck:     true,
	}
}

// DashboardRepositories bundles the mock for provider registration.
func (m *MockRepository) DashboardRepositories() dashboard.Repositories {
	return dashboard.Repositories{
		Stats:      m,
		Trends:     m,
		Breakdowns: m,
		Counts:     m,
		Users:      m,
	}
}

func (m *MockRepository) FetchTotalUsers(context.Context, dashboard.APIDateRange) (dashboard.TotalUsersStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.TotalUsers, m.Err
}

func (m *MockRepository) FetchUserApplicationStatus(_ context.Context, _ dashboard.ListQuery, _ string, _ dashboard.APIDateRange) (dashboard.CountResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Applied, m.Err
}

func (m *MockRepository) FetchApplicantSummaries(context.Context, dashboard.ListQuery, dashboard.APIDateRange) ([]dashboard.ApplicantSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Summaries, m.Err
}

func (m *MockRepository) FetchIncompleteProfiles(context.Context, dashboard.ListQuery, dashboard.APIDateRange) (dashboard.CountResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Incomplete, m.Err
}

func (m *MockRepository) FetchTrend(_ context.Context, metric dashboard.TrendMetric, _ dashboard.APIDateRange) ([]dashboard.TrendPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Trends[metric], m.Err
}

func (m *MockRepository) FetchBreakdown(_ context.Context, dimension string, _ dashboard.APIDateRange) ([]dashboard.BreakdownRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Breakdowns[dimension], m.Err
}

func (m *MockRepository) FetchCount(_ context.Context, metric string, _ dashboard.APIDateRange) (dashboard.CountResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return dashboard.CountResult{Total: m.Counts[metric]}, m.Err
}

func (m *MockRepository) FetchUserApplicationList(_ context.Context, _ dashboard.ListQuery, filter string, _ dashboard.APIDateRange) ([]dashboard.UserApplicationRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.UserLists[filter], m.Err
}

func (m *MockRepository) FetchPreferences(_ context.Context, userID string) (dashboard.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PrefsByUser[userID], m.Err
}

func (m *MockRepository) SavePreferences(_ context.Context, userID string, prefs dashboard.Preferences) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if m.SaveAck {
		m.PrefsByUser[userID] = prefs
	}
	return m.SaveAck, nil
}
