package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovon-io/go-insights/components/dashboard"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithAPIKey("test-key"))
}

func TestTotalUsersSendsRangeParams(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metrics/users/total", r.URL.Path)
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-01-31T23:59:59", r.URL.Query().Get("end"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 1280, "updatedAt": "2025-02-01T00:00:00Z"}`))
	})

	payload, err := client.TotalUsers(context.Background(), RangeParams{
		Start: "2025-01-01",
		End:   "2025-01-31T23:59:59",
	})
	require.NoError(t, err)
	assert.Equal(t, 1280, payload.Value)
	assert.False(t, payload.UpdatedAt.IsZero())
}

func TestUserApplicationStatusSendsPagingAndFilter(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "all", q.Get("limit"))
		assert.Equal(t, "applied", q.Get("filter"))
		_, _ = w.Write([]byte(`{"total": 40}`))
	})

	payload, err := client.UserApplicationStatus(context.Background(),
		PageParams{Page: 1, Limit: "all"}, "applied", RangeParams{})
	require.NoError(t, err)
	assert.Equal(t, 40, payload.Total)
}

func TestApplicantSummariesDecodesMissingTotals(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"userId": "u1", "fullName": "A", "totalApplications": 3},
			{"userId": "u2", "fullName": "B"},
			{"userId": "u3", "fullName": "C", "totalApplications": 5}
		]`))
	})

	rows, err := client.ApplicantSummaries(context.Background(), PageParams{}, RangeParams{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[1].TotalApplications)

	total := 0
	for _, row := range rows {
		total += row.TotalApplications
	}
	assert.Equal(t, 8, total)
}

func TestClientMapsErrorStatuses(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := client.TotalUsers(context.Background(), RangeParams{})
	require.ErrorIs(t, err, ErrNotFound)

	client = newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err = client.TotalUsers(context.Background(), RangeParams{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSavePreferencesReturnsAck(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/user-1/preferences", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true}`))
	})
	ack, err := client.SavePreferences(context.Background(), "user-1",
		PreferencesPayload{SelectedCards: []string{"insights.card.total_jobs"}})
	require.NoError(t, err)
	assert.True(t, ack)
}

func TestRepositoryAdaptsClientPayloads(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/metrics/trends/users":
			_, _ = w.Write([]byte(`[{"timestamp": "2025-01-01T00:00:00Z", "value": 12}]`))
		case "/metrics/breakdowns/countries":
			_, _ = w.Write([]byte(`[{"label": "AE", "count": 9}]`))
		default:
			http.NotFound(w, r)
		}
	})
	repo := NewRepository(client)

	points, err := repo.FetchTrend(context.Background(), dashboard.TrendUsers, dashboard.APIDateRange{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, float64(12), points[0].Value)

	rows, err := repo.FetchBreakdown(context.Background(), "countries", dashboard.APIDateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dashboard.BreakdownRow{Label: "AE", Count: 9}, rows[0])
}
