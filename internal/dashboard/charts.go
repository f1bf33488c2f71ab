package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "300px"

// Chart names served by the dashboard.
const (
	ChartSales = "vendas"
	ChartUsers = "usuarios"
)

type chartSpec struct {
	kind     string
	title    string
	subtitle string
	series   func() Series
}

var chartSpecs = map[string]chartSpec{
	ChartSales: {
		kind:     "bar",
		title:    "Vendas Mensais",
		subtitle: "Evolução das vendas nos últimos 6 meses",
		series:   MonthlySales,
	},
	ChartUsers: {
		kind:     "line",
		title:    "Usuários Ativos",
		subtitle: "Atividade de usuários na última semana",
		series:   WeeklyActiveUsers,
	},
}

// ChartNames lists the renderable charts in a stable order.
func ChartNames() []string {
	names := make([]string, 0, len(chartSpecs))
	for name := range chartSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChartRenderer renders the dashboard charts to standalone HTML documents.
// The data is static, so each chart is rendered once and cached.
type ChartRenderer struct {
	theme      string
	assetsHost string

	mu    sync.RWMutex
	cache map[string]string
}

// NewChartRenderer returns a renderer. An empty theme uses Westeros; an
// empty assetsHost keeps the go-echarts CDN default.
func NewChartRenderer(theme, assetsHost string) *ChartRenderer {
	if theme == "" {
		theme = types.ThemeWesteros
	}
	return &ChartRenderer{
		theme:      theme,
		assetsHost: assetsHost,
		cache:      make(map[string]string),
	}
}

// Render returns the HTML for the named chart.
func (r *ChartRenderer) Render(name string) (string, error) {
	r.mu.RLock()
	html, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return html, nil
	}

	spec, ok := chartSpecs[name]
	if !ok {
		return "", fmt.Errorf("unknown chart: %s", name)
	}

	html, err := r.render(name, spec)
	if err != nil {
		return "", fmt.Errorf("render chart %s: %w", name, err)
	}

	r.mu.Lock()
	r.cache[name] = html
	r.mu.Unlock()
	return html, nil
}

func (r *ChartRenderer) render(name string, spec chartSpec) (string, error) {
	series := spec.series()
	global := r.globalOptions(name, spec)

	switch spec.kind {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(series.Labels())
		bar.AddSeries(series.Name, toBarData(series.Points))
		return renderChart(bar)
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(series.Labels())
		line.AddSeries(series.Name, toLineData(series.Points))
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", spec.kind)
	}
}

func (r *ChartRenderer) globalOptions(name string, spec chartSpec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		PageTitle: spec.title,
		ChartID:   "chart-" + name,
		Theme:     r.theme,
		Width:     "100%",
		Height:    defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: spec.title, Subtitle: spec.subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toBarData(points []Point) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, p := range points {
		data[i] = opts.BarData{Name: p.Label, Value: p.Value}
	}
	return data
}

func toLineData(points []Point) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Name: p.Label, Value: p.Value}
	}
	return data
}
