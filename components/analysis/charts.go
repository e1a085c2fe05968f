package analysis

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedMarkupCache = NewMarkupCache(5 * time.Minute)

// ChartSpec is the narrow contract between the section renderer and the
// chart renderer: ordered category labels plus a series-name to values
// mapping, with an optional legend fixing the series order.
type ChartSpec struct {
	Title      string               `json:"title,omitempty"`
	Type       ChartType            `json:"type"`
	Legend     []string             `json:"legend,omitempty"`
	Categories []string             `json:"categories"`
	Series     map[string][]float64 `json:"series"`
}

// ChartRenderer renders one typed chart to embeddable HTML.
type ChartRenderer interface {
	RenderChart(spec ChartSpec) (string, error)
}

// EChartsRenderer renders section charts server-side with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithRenderCache injects a markup cache.
func WithRenderCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithAssetsHost rewrites the assets host so the ECharts JS loads from a
// CDN or a locally served bundle.
func WithAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a chart renderer with the shared cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: sharedMarkupCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderChart produces chart HTML. Series shorter than the
// category axis render their available points only. Unsupported chart
// types (including bubble_group, which the bubble renderer owns) return an
// error so callers can skip the block.
func (r *EChartsRenderer) RenderChart(spec ChartSpec) (string, error) {
	renderFn := func() (string, error) {
		return r.render(spec)
	}
	if r.cache != nil {
		key := fmt.Sprintf("%s:%s", spec.Type, specHash(spec))
		return r.cache.GetOrRender(key, renderFn)
	}
	return renderFn()
}

func (r *EChartsRenderer) render(spec ChartSpec) (string, error) {
	switch spec.Type {
	case ChartBarVertical:
		return r.renderBar(spec, false, false)
	case ChartBarHorizontal:
		return r.renderBar(spec, true, false)
	case ChartBarVerticalStacked:
		return r.renderBar(spec, false, true)
	case ChartLine:
		return r.renderLine(spec)
	default:
		return "", fmt.Errorf("analysis: unsupported chart type: %s", spec.Type)
	}
}

func (r *EChartsRenderer) renderBar(spec ChartSpec, horizontal, stacked bool) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(spec.Title)...)
	if stacked {
		// Stacked payloads key the series map by category and index columns
		// by legend position: legend entry i plots data[category][i].
		categories := spec.Categories
		if len(categories) == 0 {
			categories = seriesNames(nil, spec.Series)
		}
		bar.SetXAxis(categories)
		for i, name := range spec.Legend {
			bar.AddSeries(name, stackedColumn(spec, categories, i),
				charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
	} else {
		bar.SetXAxis(spec.Categories)
		for _, name := range seriesNames(spec.Legend, spec.Series) {
			bar.AddSeries(name, toBarData(spec.Series[name]))
		}
	}
	if horizontal {
		bar.XYReversal()
	}
	return renderChart(bar)
}

func (r *EChartsRenderer) renderLine(spec ChartSpec) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(spec.Title)...)
	line.SetXAxis(spec.Categories)
	for _, name := range seriesNames(spec.Legend, spec.Series) {
		line.AddSeries(name, toLineData(spec.Series[name]))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) globalOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stackedColumn extracts legend column i from the per-category series map,
// tolerating categories with fewer values than the legend declares.
func stackedColumn(spec ChartSpec, categories []string, i int) []opts.BarData {
	data := make([]opts.BarData, len(categories))
	for c, category := range categories {
		values := spec.Series[category]
		if i < len(values) {
			data[c] = opts.BarData{Value: values[i]}
		} else {
			data[c] = opts.BarData{Value: nil}
		}
	}
	return data
}

func toBarData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, value := range values {
		data[i] = opts.BarData{Value: value}
	}
	return data
}

func toLineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, value := range values {
		data[i] = opts.LineData{Value: value}
	}
	return data
}
