package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"
)

type fakeBreakdownRepo struct {
	rows map[string][]BreakdownRow
	// rangedRows, when set, answers queries with a non-empty range.
	rangedRows map[string][]BreakdownRow
}

func (f *fakeBreakdownRepo) FetchBreakdown(_ context.Context, dimension string, dr APIDateRange) ([]BreakdownRow, error) {
	if f.rangedRows != nil && (dr.Start != "" || dr.End != "") {
		return f.rangedRows[dimension], nil
	}
	return f.rows[dimension], nil
}

type fakeCountRepo struct {
	counts map[string]int
}

func (f *fakeCountRepo) FetchCount(_ context.Context, metric string, _ APIDateRange) (CountResult, error) {
	return CountResult{Total: f.counts[metric]}, nil
}

type fakeTrendRepo struct {
	points []TrendPoint
}

func (f *fakeTrendRepo) FetchTrend(_ context.Context, _ TrendMetric, _ APIDateRange) ([]TrendPoint, error) {
	return f.points, nil
}

func TestCountCardProvider(t *testing.T) {
	provider := NewCountCardProvider(&fakeCountRepo{counts: map[string]int{"jobs": 42}}, "jobs")
	data, err := provider.Fetch(context.Background(), CardContext{})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if data["value"] != 42 {
		t.Fatalf("expected 42, got %#v", data["value"])
	}
}

func TestBreakdownCardProviderAppliesLimit(t *testing.T) {
	rows := make([]BreakdownRow, 25)
	for i := range rows {
		rows[i] = BreakdownRow{Label: "x", Count: i}
	}
	repo := &fakeBreakdownRepo{rows: map[string][]BreakdownRow{DimensionCountries: rows}}
	provider := NewBreakdownCardProvider(repo, DimensionCountries)

	data, err := provider.Fetch(context.Background(), CardContext{Config: map[string]any{"limit": 5}})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if data["total"] != 5 {
		t.Fatalf("expected limit applied, got %#v", data["total"])
	}

	data, err = provider.Fetch(context.Background(), CardContext{})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if data["total"] != defaultListLimit {
		t.Fatalf("expected default limit, got %#v", data["total"])
	}
}

func TestComparisonCardProviderMergesBaseline(t *testing.T) {
	repo := &fakeBreakdownRepo{
		rows: map[string][]BreakdownRow{
			DimensionCompanies: {{Label: "Acme", Count: 100}, {Label: "Globex", Count: 50}},
		},
		rangedRows: map[string][]BreakdownRow{
			DimensionCompanies: {{Label: "Acme", Count: 4}},
		},
	}
	provider := NewComparisonCardProvider(repo, DimensionCompanies)
	data, err := provider.Fetch(context.Background(), CardContext{Range: APIDateRange{Start: "2025-01-01"}})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	items := data["items"].([]map[string]any)
	if len(items) != 1 {
		t.Fatalf("expected one current row, got %d", len(items))
	}
	if items[0]["count"] != 4 || items[0]["all_time"] != 100 {
		t.Fatalf("unexpected merge %#v", items[0])
	}
}

func TestTrendCardProviderRendersChart(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeTrendRepo{points: []TrendPoint{
		{Timestamp: base, Value: 3},
		{Timestamp: base.AddDate(0, 0, 1), Value: 7},
	}}
	provider := NewTrendCardProvider(repo, TrendUsers, NewChartRenderer(WithChartCache(nil)))
	data, err := provider.Fetch(context.Background(), CardContext{
		Card: CardDefinition{Code: CardUsersTrend, Name: "Users Trend"},
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	html, _ := data["chart_html"].(string)
	if !strings.Contains(html, "echarts") {
		t.Fatalf("expected echarts markup, got %q", truncate(html, 80))
	}
	if data["points"] != 2 {
		t.Fatalf("expected point count, got %#v", data["points"])
	}
}

func TestTrendCardProviderHonorsLineConfig(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeTrendRepo{points: []TrendPoint{
		{Timestamp: base, Value: 3},
		{Timestamp: base.AddDate(0, 0, 1), Value: 7},
	}}
	provider := NewTrendCardProvider(repo, TrendUsers, NewChartRenderer(WithChartCache(nil)))
	data, err := provider.Fetch(context.Background(), CardContext{
		Card:   CardDefinition{Code: CardUsersTrend, Name: "Users Trend"},
		Config: map[string]any{"color": "#e8684a", "goal": 6.5},
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	html, _ := data["chart_html"].(string)
	if !strings.Contains(html, "#e8684a") {
		t.Fatalf("expected configured color in markup, got %q", truncate(html, 120))
	}
	if !strings.Contains(html, "6.5") {
		t.Fatalf("expected goal mark line in markup, got %q", truncate(html, 120))
	}
}

func TestChartCardHookRegistersProviders(t *testing.T) {
	RegisterCardHook(ChartCardHook(Repositories{
		Trends:     &fakeTrendRepo{},
		Breakdowns: &fakeBreakdownRepo{},
		Charts:     NewChartRenderer(WithChartCache(nil)),
	}))
	reg := NewRegistry()
	if _, ok := reg.Provider(CardUsersTrend); !ok {
		t.Fatal("expected users trend provider from hook")
	}
	if _, ok := reg.Provider(CardApplicationStatusTrend); !ok {
		t.Fatal("expected status trend provider from hook")
	}
}

func TestChartCardHookSkipsClaimedCards(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterProvider(CardUsersTrend, staticProvider(CardData{"value": 1})); err != nil {
		t.Fatalf("RegisterProvider: %v", err)
	}
	hook := ChartCardHook(Repositories{Trends: &fakeTrendRepo{}, Breakdowns: &fakeBreakdownRepo{}})
	if err := hook(reg); err != nil {
		t.Fatalf("hook returned error: %v", err)
	}
	provider, ok := reg.Provider(CardUsersTrend)
	if !ok {
		t.Fatal("expected provider to remain registered")
	}
	data, err := provider.Fetch(context.Background(), CardContext{})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if data["value"] != 1 {
		t.Fatalf("expected claimed provider to survive the hook, got %#v", data)
	}
}

func TestChartCacheReusesRenderedHTML(t *testing.T) {
	cache := NewChartCache(time.Minute)
	renders := 0
	render := func() (string, error) {
		renders++
		return "<div>chart</div>", nil
	}
	for i := 0; i < 3; i++ {
		if _, err := cache.GetOrRender("key", render); err != nil {
			t.Fatalf("GetOrRender returned error: %v", err)
		}
	}
	if renders != 1 {
		t.Fatalf("expected single render, got %d", renders)
	}
}

func TestRenderKeyIsStablePerInput(t *testing.T) {
	dr := APIDateRange{Start: "2025-01-01", End: "2025-01-31T23:59:59"}
	a := renderKey(CardUsersTrend, dr, map[string]any{"limit": 5})
	b := renderKey(CardUsersTrend, dr, map[string]any{"limit": 5})
	if a != b {
		t.Fatalf("expected stable key, got %q vs %q", a, b)
	}
	c := renderKey(CardUsersTrend, dr, map[string]any{"limit": 6})
	if a == c {
		t.Fatal("expected config change to change key")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
