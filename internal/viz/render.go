package viz

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 1000
	chartHeight = 600
)

// Render draws the chart described by spec over rows and returns PNG bytes.
// Rows with a nil X or Y value are dropped before drawing. bar and line
// require a non-empty Y; pie tolerates Y-only rendering no better, so the
// same rule applies there with X as the label column.
func Render(rows []map[string]any, spec ChartSpec) ([]byte, error) {
	if spec.X == "" {
		return nil, fmt.Errorf("chart spec has no x axis")
	}
	if spec.Y == "" {
		return nil, fmt.Errorf("chart spec has no y axis")
	}

	labels, values := extractSeries(rows, spec)
	if len(values) == 0 {
		return nil, fmt.Errorf("no drawable rows for chart")
	}

	title := fmt.Sprintf("%s chart: %s by %s", spec.Type, spec.Y, spec.X)
	var buf bytes.Buffer

	switch spec.Type {
	case ChartBar:
		bars := make([]chart.Value, len(values))
		for i := range values {
			bars[i] = chart.Value{Label: labels[i], Value: values[i]}
		}
		c := chart.BarChart{
			Title:    title,
			Width:    chartWidth,
			Height:   chartHeight,
			BarWidth: 40,
			Bars:     bars,
		}
		if err := c.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("render bar chart: %w", err)
		}

	case ChartPie:
		slices := make([]chart.Value, len(values))
		for i := range values {
			slices[i] = chart.Value{Label: labels[i], Value: values[i]}
		}
		c := chart.PieChart{
			Title:  title,
			Width:  chartHeight, // square canvas
			Height: chartHeight,
			Values: slices,
		}
		if err := c.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("render pie chart: %w", err)
		}

	case ChartLine:
		c, err := lineChart(title, labels, values)
		if err != nil {
			return nil, err
		}
		if err := c.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("render line chart: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported chart type %q", spec.Type)
	}

	return buf.Bytes(), nil
}

// extractSeries pulls (label, value) pairs from rows, skipping rows where
// either field is nil or the Y value is not numeric.
func extractSeries(rows []map[string]any, spec ChartSpec) ([]string, []float64) {
	var labels []string
	var values []float64
	for _, row := range rows {
		xv, yv := row[spec.X], row[spec.Y]
		if xv == nil || yv == nil {
			continue
		}
		y, ok := ToFloat(yv)
		if !ok {
			continue
		}
		labels = append(labels, fmt.Sprintf("%v", xv))
		values = append(values, y)
	}
	return labels, values
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006-01-02 15:04:05",
	"01/02/2006",
	time.RFC3339,
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// lineChart builds a time series when every X label parses as a date,
// otherwise an index-based series with the raw labels as ticks. Parse failure
// never aborts rendering.
func lineChart(title string, labels []string, values []float64) (chart.Chart, error) {
	times := make([]time.Time, len(labels))
	allDates := true
	for i, l := range labels {
		t, ok := parseDate(l)
		if !ok {
			allDates = false
			break
		}
		times[i] = t
	}

	if allDates {
		type point struct {
			t time.Time
			v float64
		}
		points := make([]point, len(values))
		for i := range values {
			points[i] = point{t: times[i], v: values[i]}
		}
		sort.Slice(points, func(i, j int) bool { return points[i].t.Before(points[j].t) })
		xs := make([]time.Time, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = p.t
			ys[i] = p.v
		}
		return chart.Chart{
			Title:  title,
			Width:  chartWidth,
			Height: chartHeight,
			Series: []chart.Series{chart.TimeSeries{XValues: xs, YValues: ys}},
		}, nil
	}

	xs := make([]float64, len(values))
	ticks := make([]chart.Tick, len(values))
	for i := range values {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: labels[i]}
	}
	return chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: []chart.Series{chart.ContinuousSeries{XValues: xs, YValues: values}},
	}, nil
}
