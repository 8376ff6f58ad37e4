// Package render turns computed balance series into PNG charts.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/budgetwise/budgetwise/internal/balance"
)

const (
	chartWidth  = 900
	chartHeight = 400
)

// RenderBalanceChart renders the chart series as a PNG line chart, one line
// per configured series. Returns raw PNG bytes.
func RenderBalanceChart(cs *balance.ChartSeries, title string) ([]byte, error) {
	if len(cs.Points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(cs.Points))
	}
	if len(cs.Series) == 0 {
		return nil, fmt.Errorf("no series to render")
	}

	var series []chart.Series
	for _, cfg := range cs.Series {
		ts := chart.TimeSeries{
			Name: cfg.Label,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(cfg.Color, "#")),
				StrokeWidth: strokeWidthFor(cfg.Key),
			},
			XValues: make([]time.Time, 0, len(cs.Points)),
			YValues: make([]float64, 0, len(cs.Points)),
		}
		for _, p := range cs.Points {
			ts.XValues = append(ts.XValues, p.Date)
			ts.YValues = append(ts.YValues, p.Values[cfg.Key].InexactFloat64())
		}
		series = append(series, ts)
	}

	spanDays := int(cs.Points[len(cs.Points)-1].Date.Sub(cs.Points[0].Date).Hours() / 24)

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition:   chart.TickPositionBetweenTicks,
			ValueFormatter: dateFormatter(spanDays),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// strokeWidthFor draws the synthetic total line heavier than account lines.
func strokeWidthFor(key string) float64 {
	if key == balance.SeriesTotal {
		return 2.5
	}
	return 1.5
}

// dateFormatter picks a tick label format matching the chart's span.
func dateFormatter(spanDays int) chart.ValueFormatter {
	layout := "Jan 06"
	if spanDays <= 90 {
		layout = "2 Jan"
	} else if spanDays > 1095 {
		layout = "2006"
	}
	return func(v interface{}) string {
		if t, ok := v.(float64); ok {
			return chart.TimeFromFloat64(t).Format(layout)
		}
		return ""
	}
}
