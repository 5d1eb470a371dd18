// Package viz decides whether and how to visualize a result set, renders the
// chart, and publishes the image. Every failure in here degrades to "no
// chart" — visualization never takes down a report.
package viz

import "strings"

type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// ChartSpec is the decided chart family and axis columns for one result set.
// Y may be empty when no numeric column exists besides X.
type ChartSpec struct {
	Type ChartType
	X    string
	Y    string
}

// graphKeywords gates whether the visualization stages run at all. The list
// covers both languages guests ask in.
var graphKeywords = []string{
	"grafica", "gráfico", "gráfica", "grafico",
	"visualiza", "visualización", "diagrama", "imagen", "representa",
	"chart", "graph", "plot", "visualize", "visualization", "diagram",
}

// WantsChart reports whether the question asks for a visualization.
func WantsChart(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range graphKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var (
	trendTerms      = []string{"line", "trend", "tendencia", "over time", "evolución", "evolucion"}
	proportionTerms = []string{"pie", "%", "torta", "proportion", "proporción", "proporcion", "share of"}
)

// Decide selects a chart family and axis columns for the given rows and
// question. It is pure: identical inputs always yield an identical spec.
//
// The X axis is the first textual column in projection order, falling back to
// the first column of any type; Y is the first numeric column other than X,
// or empty if none. Only the first row is sampled as a type representative —
// a deliberate simplification carried over from the heuristic this replaces.
func Decide(columns []string, rows []map[string]any, question string) ChartSpec {
	spec := ChartSpec{Type: chartTypeFor(question)}
	if len(rows) == 0 || len(columns) == 0 {
		return spec
	}
	first := rows[0]

	for _, col := range columns {
		if isText(first[col]) {
			spec.X = col
			break
		}
	}
	if spec.X == "" {
		spec.X = columns[0]
	}

	for _, col := range columns {
		if col == spec.X {
			continue
		}
		if _, ok := ToFloat(first[col]); ok {
			spec.Y = col
			break
		}
	}
	return spec
}

func chartTypeFor(question string) ChartType {
	lower := strings.ToLower(question)
	for _, term := range trendTerms {
		if strings.Contains(lower, term) {
			return ChartLine
		}
	}
	for _, term := range proportionTerms {
		if strings.Contains(lower, term) {
			return ChartPie
		}
	}
	return ChartBar
}

func isText(v any) bool {
	switch v.(type) {
	case string, []byte:
		return true
	}
	return false
}

// ToFloat normalizes the scalar kinds the executor and JSON decoding produce.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}
