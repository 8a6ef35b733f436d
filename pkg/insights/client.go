// Package insights is the HTTP client for the remote metrics gateway. It
// exposes the raw endpoints as typed calls; the repositories in this
// package adapt them to the dashboard interfaces.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrNotFound maps gateway 404 responses.
	ErrNotFound = errors.New("insights: not found")
	// ErrUnauthorized maps gateway 401/403 responses.
	ErrUnauthorized = errors.New("insights: unauthorized")
)

// HTTPDoer is the subset of http.Client the gateway client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the metrics gateway over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    HTTPDoer
	logger  *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithAPIKey attaches a bearer token to every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a gateway client for the given base URL.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// RangeParams is the date window applied to range-scoped endpoints. Empty
// fields are omitted from the query string.
type RangeParams struct {
	Start string
	End   string
}

// PageParams selects a page of a list endpoint. Limit accepts a number or
// the literal "all".
type PageParams struct {
	Page  int
	Limit string
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("insights: build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("insights: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, path)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("insights: GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("insights: decode %s: %w", path, err)
	}
	return nil
}

func rangeValues(rp RangeParams) url.Values {
	params := url.Values{}
	if rp.Start != "" {
		params.Set("start", rp.Start)
	}
	if rp.End != "" {
		params.Set("end", rp.End)
	}
	return params
}

func applyPage(params url.Values, pp PageParams) {
	if pp.Page > 0 {
		params.Set("page", strconv.Itoa(pp.Page))
	}
	if pp.Limit != "" {
		params.Set("limit", pp.Limit)
	}
}

// TotalUsers returns the all-up user count.
func (c *Client) TotalUsers(ctx context.Context, rp RangeParams) (TotalUsersPayload, error) {
	var out TotalUsersPayload
	err := c.get(ctx, "/metrics/users/total", rangeValues(rp), &out)
	return out, err
}

// UserApplicationStatus returns the user count for one application cohort.
func (c *Client) UserApplicationStatus(ctx context.Context, pp PageParams, filter string, rp RangeParams) (CountPayload, error) {
	params := rangeValues(rp)
	applyPage(params, pp)
	if filter != "" {
		params.Set("filter", filter)
	}
	var out CountPayload
	err := c.get(ctx, "/metrics/users/application-status", params, &out)
	return out, err
}

// ApplicantSummaries returns per-applicant rows with application totals.
func (c *Client) ApplicantSummaries(ctx context.Context, pp PageParams, rp RangeParams) ([]ApplicantSummaryPayload, error) {
	params := rangeValues(rp)
	applyPage(params, pp)
	var out []ApplicantSummaryPayload
	err := c.get(ctx, "/metrics/applicants/summary", params, &out)
	return out, err
}

// IncompleteProfiles returns the incomplete-profile count.
func (c *Client) IncompleteProfiles(ctx context.Context, pp PageParams, rp RangeParams) (CountPayload, error) {
	params := rangeValues(rp)
	applyPage(params, pp)
	var out CountPayload
	err := c.get(ctx, "/metrics/users/incomplete-profiles", params, &out)
	return out, err
}

// Trend returns a time-ordered series for one metric (users, jobs,
// tickets, feeds).
func (c *Client) Trend(ctx context.Context, metric string, rp RangeParams) ([]TrendPointPayload, error) {
	var out []TrendPointPayload
	err := c.get(ctx, "/metrics/trends/"+url.PathEscape(metric), rangeValues(rp), &out)
	return out, err
}

// Breakdown returns label/count rollup rows for one dimension.
func (c *Client) Breakdown(ctx context.Context, dimension string, rp RangeParams) ([]BreakdownRowPayload, error) {
	var out []BreakdownRowPayload
	err := c.get(ctx, "/metrics/breakdowns/"+url.PathEscape(dimension), rangeValues(rp), &out)
	return out, err
}

// Count returns a single range-scoped count for one metric.
func (c *Client) Count(ctx context.Context, metric string, rp RangeParams) (CountPayload, error) {
	var out CountPayload
	err := c.get(ctx, "/metrics/counts/"+url.PathEscape(metric), rangeValues(rp), &out)
	return out, err
}

// UserApplicationList returns the user rows for one application cohort.
func (c *Client) UserApplicationList(ctx context.Context, pp PageParams, filter string, rp RangeParams) ([]UserApplicationPayload, error) {
	params := rangeValues(rp)
	applyPage(params, pp)
	if filter != "" {
		params.Set("filter", filter)
	}
	var out []UserApplicationPayload
	err := c.get(ctx, "/metrics/users/applications", params, &out)
	return out, err
}

// Countries returns the reference list of target countries.
func (c *Client) Countries(ctx context.Context) ([]ReferenceEntry, error) {
	var out []ReferenceEntry
	err := c.get(ctx, "/reference/countries", nil, &out)
	return out, err
}

// JobRoles returns the reference list of job roles.
func (c *Client) JobRoles(ctx context.Context) ([]ReferenceEntry, error) {
	var out []ReferenceEntry
	err := c.get(ctx, "/reference/job-roles", nil, &out)
	return out, err
}

// Preferences fetches a user's stored dashboard preferences.
func (c *Client) Preferences(ctx context.Context, userID string) (PreferencesPayload, error) {
	var out PreferencesPayload
	err := c.get(ctx, "/users/"+url.PathEscape(userID)+"/preferences", nil, &out)
	return out, err
}

// SavePreferences stores a user's dashboard preferences and returns the
// gateway's boolean acknowledgement.
func (c *Client) SavePreferences(ctx context.Context, userID string, payload PreferencesPayload) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("insights: marshal preferences: %w", err)
	}
	endpoint := c.baseURL + "/users/" + url.PathEscape(userID) + "/preferences"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return false, fmt.Errorf("insights: build preferences request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("insights: PUT preferences: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("insights: PUT preferences: status %d", resp.StatusCode)
	}

	var ack AckPayload
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return false, fmt.Errorf("insights: decode preferences ack: %w", err)
	}
	return ack.Success, nil
}
