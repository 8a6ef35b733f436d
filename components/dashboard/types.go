package dashboard

import (
	"context"
	"time"
)

// StatsRepository loads the headline metrics that make up the aggregate
// snapshot. Implementations talk to the remote insights gateway; all four
// calls are parameterized by the same normalized date range.
type StatsRepository interface {
	FetchTotalUsers(ctx context.Context, dr APIDateRange) (TotalUsersStat, error)
	FetchUserApplicationStatus(ctx context.Context, query ListQuery, filter string, dr APIDateRange) (CountResult, error)
	FetchApplicantSummaries(ctx context.Context, query ListQuery, dr APIDateRange) ([]ApplicantSummary, error)
	FetchIncompleteProfiles(ctx context.Context, query ListQuery, dr APIDateRange) (CountResult, error)
}

// TrendRepository loads time-ordered series for trend cards.
type TrendRepository interface {
	FetchTrend(ctx context.Context, metric TrendMetric, dr APIDateRange) ([]TrendPoint, error)
}

// BreakdownRepository loads label/count rollups backing the list-style cards
// (top countries, jobs by company, status distributions, ...).
type BreakdownRepository interface {
	FetchBreakdown(ctx context.Context, dimension string, dr APIDateRange) ([]BreakdownRow, error)
}

// CountRepository loads a single range-scoped count for the stat cards.
type CountRepository interface {
	FetchCount(ctx context.Context, metric string, dr APIDateRange) (CountResult, error)
}

// UserListRepository pages through the user-application list, filtered to
// one cohort (applied or not applied).
type UserListRepository interface {
	FetchUserApplicationList(ctx context.Context, query ListQuery, filter string, dr APIDateRange) ([]UserApplicationRow, error)
}

// PreferenceGateway is the remote persistence contract for per-user card
// selections. Save returns the gateway's acknowledgement; a false ack counts
// as a failure even without an error.
type PreferenceGateway interface {
	FetchPreferences(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs Preferences) (bool, error)
}

// PreferenceFallback is the local durable store tried when the gateway is
// unavailable. Keys are derived from the user id via FallbackKey.
type PreferenceFallback interface {
	Preferences(ctx context.Context, key string) (Preferences, bool, error)
	SavePreferences(ctx context.Context, key string, prefs Preferences) error
}

// CardRegistry resolves card codes into definitions and data providers.
type CardRegistry interface {
	RegisterDefinition(def CardDefinition) error
	RegisterProvider(code string, provider Provider) error
	Definition(code string) (CardDefinition, bool)
	Provider(code string) (Provider, bool)
	Definitions() []CardDefinition
}

// ListQuery selects a page of a list-style endpoint. PageSize accepts a
// number or the literal "all".
type ListQuery struct {
	Page     int
	PageSize string
}

// AllRows requests page one with an unbounded page size, matching how the
// aggregate batch queries every list endpoint.
func AllRows() ListQuery {
	return ListQuery{Page: 1, PageSize: "all"}
}

// TrendMetric names one of the gateway's time-series endpoints.
type TrendMetric string

const (
	TrendUsers   TrendMetric = "users"
	TrendJobs    TrendMetric = "jobs"
	TrendTickets TrendMetric = "tickets"
	TrendFeeds   TrendMetric = "feeds"
)

// TotalUsersStat is the gateway's total-user count payload.
type TotalUsersStat struct {
	Value     int
	UpdatedAt time.Time
}

// CountResult is the shape shared by the cohort and incomplete-profile
// count endpoints.
type CountResult struct {
	Total int
}

// ApplicantSummary is one row of the applicant-summary list. Rows without a
// totalApplications field decode to zero.
type ApplicantSummary struct {
	UserID            string
	FullName          string
	TotalApplications int
}

// UserApplicationRow is one row of the cohort list endpoints.
type UserApplicationRow struct {
	UserID        string
	FullName      string
	TargetCountry string
	TargetJobRole string
	Status        string
}

// TrendPoint is a single bucket of a time-series endpoint.
type TrendPoint struct {
	Timestamp time.Time
	Value     float64
}

// BreakdownRow is one label/count entry of a rollup endpoint.
type BreakdownRow struct {
	Label string
	Count int
}

// AggregateSnapshot carries the four headline values shown above the card
// grid. All fields are committed together; a batch either produces a full
// snapshot or nothing.
type AggregateSnapshot struct {
	TotalUsers        TotalUsersStat
	UsersApplied      int
	TotalApplications int
	CompletedProfiles int
}

// Preferences is the per-user dashboard configuration. SelectedCards is
// ordered; the store tolerates duplicates, composition dedupes.
type Preferences struct {
	SelectedCards []string `json:"selectedCards" yaml:"selectedCards"`
}

// ViewerContext identifies the dashboard's current user. It is resolved once
// per session from the auth provider and treated as immutable.
type ViewerContext struct {
	UserID string
	Email  string
}

// CardDefinition describes one card available on the dashboard.
type CardDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ComposedCard is one resolved entry of the rendered dashboard. A provider
// failure fills Err and leaves Data nil; other cards are unaffected.
type ComposedCard struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Data     CardData `json:"data,omitempty"`
	Err      string   `json:"error,omitempty"`
}
