// Package report renders a static HTML chart report of a scan run.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"trendscout/pkg/models"
)

// maxBarEntries caps the score chart at the strongest posts so the
// axis stays readable on large runs
const maxBarEntries = 25

// Writer renders a run report to an HTML file
type Writer struct {
	path string
}

// NewWriter creates a report writer for the given destination
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write renders the report. Records are expected in their final
// score-descending order.
func (w *Writer) Write(records []models.TrendRecord) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := scoreBar(records).Render(f); err != nil {
		return fmt.Errorf("failed to render score chart: %w", err)
	}
	if err := mediaTypePie(records).Render(f); err != nil {
		return fmt.Errorf("failed to render media type chart: %w", err)
	}

	return nil
}

// scoreBar charts the virality score of the strongest posts
func scoreBar(records []models.TrendRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top Virality Scores"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	n := len(records)
	if n > maxBarEntries {
		n = maxBarEntries
	}

	var x []string
	var y []opts.BarData
	for _, r := range records[:n] {
		x = append(x, "@"+r.Creator.Username)
		y = append(y, opts.BarData{Value: r.Analysis.ViralityScore})
	}
	bar.SetXAxis(x).AddSeries("Score", y)

	return bar
}

// mediaTypePie charts the media-type distribution of accepted posts
func mediaTypePie(records []models.TrendRecord) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Media Type Distribution"}),
	)

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Analysis.Type]++
	}

	var items []opts.PieData
	for k, v := range counts {
		items = append(items, opts.PieData{Name: k, Value: v})
	}
	pie.AddSeries("Posts", items)

	return pie
}
