package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns series data into go-echarts markup. The zero value is
// unusable; build one with NewChartRenderer.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so the ECharts JS bundle
// loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer backed by the shared render cache.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *ChartRenderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// LineOptions carries per-card styling read from the card config.
type LineOptions struct {
	// Color overrides the theme series color when non-empty.
	Color string
	// Goal draws a horizontal target line when positive.
	Goal float64
}

func extractLineOptions(config map[string]any) LineOptions {
	return LineOptions{
		Color: stringOr(config["color"], ""),
		Goal:  floatOr(config["goal"], 0),
	}
}

// Line renders a single-series smooth line chart.
func (r *ChartRenderer) Line(title string, labels []string, seriesName string, values []float64, o LineOptions) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(title, "")...)
	line.SetXAxis(labels)
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	line.AddSeries(seriesName, data)
	seriesOpts := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})}
	if o.Color != "" {
		seriesOpts = append(seriesOpts,
			charts.WithLineStyleOpts(opts.LineStyle{Color: o.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: o.Color}),
		)
	}
	if o.Goal > 0 {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "goal", YAxis: o.Goal}),
		)
	}
	line.SetSeriesOptions(seriesOpts...)
	return renderChart(line)
}

// Bar renders a single-series bar chart.
func (r *ChartRenderer) Bar(title string, rows []BreakdownRow) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(title, "")...)
	labels := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	for i, row := range rows {
		labels[i] = row.Label
		data[i] = opts.BarData{Name: row.Label, Value: row.Count}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("count", data)
	return renderChart(bar)
}

// Pie renders a single-series pie chart.
func (r *ChartRenderer) Pie(title string, rows []BreakdownRow) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(title, "")...)
	data := make([]opts.PieData, len(rows))
	for i, row := range rows {
		data[i] = opts.PieData{Name: row.Label, Value: row.Count}
	}
	pie.AddSeries("count", data)
	return renderChart(pie)
}

func (r *ChartRenderer) cached(key string, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(key, render)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewTrendCardProvider serves a time-series card rendered as a line chart.
// A nil renderer falls back to a default one so registration stays cheap.
func NewTrendCardProvider(trends TrendRepository, metric TrendMetric, renderer *ChartRenderer) Provider {
	if renderer == nil {
		renderer = NewChartRenderer()
	}
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		points, err := trends.FetchTrend(ctx, metric, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("trend %s: %w", metric, err)
		}
		labels := make([]string, len(points))
		values := make([]float64, len(points))
		for i, point := range points {
			labels[i] = point.Timestamp.Format("2006-01-02")
			values[i] = point.Value
		}
		lineOpts := extractLineOptions(cc.Config)
		key := renderKey(cc.Card.Code, cc.Range, cc.Config)
		html, err := renderer.cached(key, func() (string, error) {
			return renderer.Line(cc.Card.Name, labels, string(metric), values, lineOpts)
		})
		if err != nil {
			return nil, fmt.Errorf("render trend %s: %w", metric, err)
		}
		return CardData{
			"chart_html": html,
			"chart_type": "line",
			"metric":     string(metric),
			"points":     len(points),
		}, nil
	})
}

// ChartCardHook builds a hook attaching the chart-backed card providers.
// Chart cards register through the hook path so every registry built after
// wiring picks them up; a card already claimed keeps its provider, and a
// card without a definition is skipped.
func ChartCardHook(repos Repositories) CardHook {
	return func(reg *Registry) error {
		register := func(code string, provider Provider) error {
			if _, ok := reg.Provider(code); ok {
				return nil
			}
			if _, ok := reg.Definition(code); !ok {
				return nil
			}
			return reg.RegisterProvider(code, provider)
		}
		if repos.Trends != nil {
			if err := register(CardUsersTrend, NewTrendCardProvider(repos.Trends, TrendUsers, repos.Charts)); err != nil {
				return err
			}
		}
		if repos.Breakdowns != nil {
			if err := register(CardApplicationStatusTrend, NewStatusTrendCardProvider(repos.Breakdowns, repos.Charts)); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewStatusTrendCardProvider serves the application-status mix as a bar
// chart over the selected range.
func NewStatusTrendCardProvider(breakdowns BreakdownRepository, renderer *ChartRenderer) Provider {
	if renderer == nil {
		renderer = NewChartRenderer()
	}
	return ProviderFunc(func(ctx context.Context, cc CardContext) (CardData, error) {
		rows, err := breakdowns.FetchBreakdown(ctx, DimensionApplicationStatus, cc.Range)
		if err != nil {
			return nil, fmt.Errorf("breakdown %s: %w", DimensionApplicationStatus, err)
		}
		key := renderKey(cc.Card.Code, cc.Range, cc.Config)
		html, err := renderer.cached(key, func() (string, error) {
			return renderer.Bar(cc.Card.Name, rows)
		})
		if err != nil {
			return nil, fmt.Errorf("render status trend: %w", err)
		}
		return CardData{
			"chart_html": html,
			"chart_type": "bar",
			"statuses":   len(rows),
		}, nil
	})
}
