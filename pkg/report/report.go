package report

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-backoffice/pkg/billing"
)

const defaultChartHeight = "360px"

// Renderer builds standalone HTML charts for the back-office summaries.
type Renderer struct {
	theme      string
	assetsHost string
	cache      *PageCache
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithTheme sets the chart theme (defaults to Westeros).
func WithTheme(theme string) Option {
	return func(r *Renderer) { r.theme = theme }
}

// WithAssetsHost serves the echarts script from a custom host.
func WithAssetsHost(host string) Option {
	return func(r *Renderer) { r.assetsHost = host }
}

// WithCache reuses rendered pages while their data is unchanged.
func WithCache(cache *PageCache) Option {
	return func(r *Renderer) { r.cache = cache }
}

// New builds a renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{theme: types.ThemeWesteros}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// StaffMix is a pie of the roster by staff type.
func (r *Renderer) StaffMix(stats billing.StaffStats) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.global("Staff by type", subtitleActive(stats))...)
	labels := sortedKeys(stats.ByType)
	data := make([]opts.PieData, 0, len(labels))
	for _, label := range labels {
		data = append(data, opts.PieData{Name: label, Value: stats.ByType[label]})
	}
	pie.AddSeries("Staff", data)
	return pie
}

// StatusBreakdown is a bar of how many rows carry each status.
func (r *Renderer) StatusBreakdown(title string, statuses []string) *charts.Bar {
	counts := map[string]int{}
	for _, status := range statuses {
		status = strings.TrimSpace(status)
		if status == "" {
			status = "unknown"
		}
		counts[status]++
	}
	return r.Counts(title, "", counts)
}

// Counts is a single-series bar over labelled counts, in label order.
func (r *Renderer) Counts(title, subtitle string, counts map[string]int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.global(title, subtitle)...)
	labels := sortedKeys(counts)
	data := make([]opts.BarData, 0, len(labels))
	for _, label := range labels {
		data = append(data, opts.BarData{Name: label, Value: counts[label]})
	}
	bar.SetXAxis(labels)
	bar.AddSeries(title, data)
	return bar
}

// WritePage renders every chart into one HTML page.
func (r *Renderer) WritePage(w io.Writer, title string, chartList ...components.Charter) error {
	if len(chartList) == 0 {
		return errors.New("report: no charts to render")
	}
	page := components.NewPage()
	page.PageTitle = title
	if r.assetsHost != "" {
		page.AssetsHost = r.assetsHost
	}
	page.AddCharts(chartList...)
	return page.Render(w)
}

// StaffPage renders the staff summary page: the type mix next to the status
// breakdown of the roster.
func (r *Renderer) StaffPage(stats billing.StaffStats, statuses []string) (string, error) {
	key := dataKey("staff", r.theme, stats, statuses)
	return r.cache.GetOrRender(key, func() (string, error) {
		var buf bytes.Buffer
		err := r.WritePage(&buf, "Staff statistics", r.StaffMix(stats), r.StatusBreakdown("Staff status", statuses))
		if err != nil {
			return "", err
		}
		return buf.String(), nil
	})
}

// HTML renders a single chart as a standalone page.
func HTML(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) global(title, subtitle string) []charts.GlobalOpts {
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

func subtitleActive(stats billing.StaffStats) string {
	if stats.TotalStaff == 0 {
		return ""
	}
	return strings.Join([]string{itoa(stats.ActiveStaff), "of", itoa(stats.TotalStaff), "active"}, " ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
