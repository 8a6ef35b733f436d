package insights

import (
	"context"

	"github.com/kovon-io/go-insights/components/dashboard"
)

// Repository adapts the gateway client to the dashboard repository and
// preference-gateway interfaces.
type Repository struct {
	client *Client
}

// NewRepository wraps a client.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// DashboardRepositories bundles the adapter for provider registration.
func (r *Repository) DashboardRepositories() dashboard.Repositories {
	return dashboard.Repositories{
		Stats:      r,
		Trends:     r,
		Breakdowns: r,
		Counts:     r,
		Users:      r,
	}
}

func toRange(dr dashboard.APIDateRange) RangeParams {
	return RangeParams{Start: dr.Start, End: dr.End}
}

func toPage(q dashboard.ListQuery) PageParams {
	return PageParams{Page: q.Page, Limit: q.PageSize}
}

// FetchTotalUsers implements dashboard.StatsRepository.
func (r *Repository) FetchTotalUsers(ctx context.Context, dr dashboard.APIDateRange) (dashboard.TotalUsersStat, error) {
	payload, err := r.client.TotalUsers(ctx, toRange(dr))
	if err != nil {
		return dashboard.TotalUsersStat{}, err
	}
	return dashboard.TotalUsersStat{Value: payload.Value, UpdatedAt: payload.UpdatedAt}, nil
}

// FetchUserApplicationStatus implements dashboard.StatsRepository.
func (r *Repository) FetchUserApplicationStatus(ctx context.Context, q dashboard.ListQuery, filter string, dr dashboard.APIDateRange) (dashboard.CountResult, error) {
	payload, err := r.client.UserApplicationStatus(ctx, toPage(q), filter, toRange(dr))
	if err != nil {
		return dashboard.CountResult{}, err
	}
	return dashboard.CountResult{Total: payload.Total}, nil
}

// FetchApplicantSummaries implements dashboard.StatsRepository.
func (r *Repository) FetchApplicantSummaries(ctx context.Context, q dashboard.ListQuery, dr dashboard.APIDateRange) ([]dashboard.ApplicantSummary, error) {
	payload, err := r.client.ApplicantSummaries(ctx, toPage(q), toRange(dr))
	if err != nil {
		return nil, err
	}
	out := make([]dashboard.ApplicantSummary, len(payload))
	for i, row := range payload {
		out[i] = dashboard.ApplicantSummary{
			UserID:            row.UserID,
			FullName:          row.FullName,
			TotalApplications: row.TotalApplications,
		}
	}
	return out, nil
}

// FetchIncompleteProfiles implements dashboard.StatsRepository.
func (r *Repository) FetchIncompleteProfiles(ctx context.Context, q dashboard.ListQuery, dr dashboard.APIDateRange) (dashboard.CountResult, error) {
	payload, err := r.client.IncompleteProfiles(ctx, toPage(q), toRange(dr))
	if err != nil {
		return dashboard.CountResult{}, err
	}
	return dashboard.CountResult{Total: payload.Total}, nil
}

// FetchTrend implements dashboard.TrendRepository.
func (r *Repository) FetchTrend(ctx context.Context, metric dashboard.TrendMetric, dr dashboard.APIDateRange) ([]dashboard.TrendPoint, error) {
	payload, err := r.client.Trend(ctx, string(metric), toRange(dr))
	if err != nil {
		return nil, err
	}
	out := make([]dashboard.TrendPoint, len(payload))
	for i, pt := range payload {
		out[i] = dashboard.TrendPoint{Timestamp: pt.Timestamp, Value: pt.Value}
	}
	return out, nil
}

// FetchBreakdown implements dashboard.BreakdownRepository.
func (r *Repository) FetchBreakdown(ctx context.Context, dimension string, dr dashboard.APIDateRange) ([]dashboard.BreakdownRow, error) {
	payload, err := r.client.Breakdown(ctx, dimension, toRange(dr))
	if err != nil {
		return nil, err
	}
	out := make([]dashboard.BreakdownRow, len(payload))
	for i, row := range payload {
		out[i] = dashboard.BreakdownRow{Label: row.Label, Count: row.Count}
	}
	return out, nil
}

// FetchCount implements dashboard.CountRepository.
func (r *Repository) FetchCount(ctx context.Context, metric string, dr dashboard.APIDateRange) (dashboard.CountResult, error) {
	payload, err := r.client.Count(ctx, metric, toRange(dr))
	if err != nil {
		return dashboard.CountResult{}, err
	}
	return dashboard.CountResult{Total: payload.Total}, nil
}

// FetchUserApplicationList implements dashboard.UserListRepository.
func (r *Repository) FetchUserApplicationList(ctx context.Context, q dashboard.ListQuery, filter string, dr dashboard.APIDateRange) ([]dashboard.UserApplicationRow, error) {
	payload, err := r.client.UserApplicationList(ctx, toPage(q), filter, toRange(dr))
	if err != nil {
		return nil, err
	}
	out := make([]dashboard.UserApplicationRow, len(payload))
	for i, row := range payload {
		out[i] = dashboard.UserApplicationRow{
			UserID:        row.UserID,
			FullName:      row.FullName,
			TargetCountry: row.TargetCountry,
			TargetJobRole: row.TargetJobRole,
			Status:        row.Status,
		}
	}
	return out, nil
}

// FetchPreferences implements dashboard.PreferenceGateway.
func (r *Repository) FetchPreferences(ctx context.Context, userID string) (dashboard.Preferences, error) {
	payload, err := r.client.Preferences(ctx, userID)
	if err != nil {
		return dashboard.Preferences{}, err
	}
	return dashboard.Preferences{SelectedCards: payload.SelectedCards}, nil
}

// SavePreferences implements dashboard.PreferenceGateway.
func (r *Repository) SavePreferences(ctx context.Context, userID string, prefs dashboard.Preferences) (bool, error) {
	return r.client.SavePreferences(ctx, userID, PreferencesPayload{SelectedCards: prefs.SelectedCards})
}
