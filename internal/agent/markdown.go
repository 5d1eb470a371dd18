package agent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/garooinc/itzana-insights/internal/viz"
)

// FormatTable renders rows as a markdown table following the report
// formatting rules: numeric cells get thousands separators with two decimals,
// and any row containing an empty cell in a rendered column is dropped
// entirely rather than padded.
func FormatTable(columns []string, rows []map[string]any) string {
	if len(columns) == 0 || len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("|" + strings.Join(columns, "|") + "|\n")
	sb.WriteString("|" + strings.Repeat("---|", len(columns)) + "\n")

	rendered := 0
	for _, row := range rows {
		cells := make([]string, len(columns))
		complete := true
		for i, col := range columns {
			val, ok := row[col]
			if !ok || val == nil {
				complete = false
				break
			}
			cell := formatCell(val)
			if cell == "" {
				complete = false
				break
			}
			cells[i] = cell
		}
		if !complete {
			continue
		}
		sb.WriteString("|" + strings.Join(cells, "|") + "|\n")
		rendered++
	}
	if rendered == 0 {
		return ""
	}
	return sb.String()
}

func formatCell(v any) string {
	if f, ok := viz.ToFloat(v); ok {
		return formatNumber(f)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// formatNumber renders 1234567.5 as "1,234,567.50": comma thousands
// separators, period decimal marker, two decimals.
func formatNumber(f float64) string {
	neg := math.Signbit(f)
	s := strconv.FormatFloat(math.Abs(f), 'f', 2, 64)
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	sb.WriteString(fracPart)
	return sb.String()
}

// FormatMarkdown renders the raw structured report as a minimal document.
// This is the fallback when the narrative assembly capability is down, so it
// must work with nothing but the report itself.
func FormatMarkdown(rep AnalysisReport, chartRef, remainder string) string {
	var sb strings.Builder
	sb.WriteString("# " + rep.Title + "\n\n")

	if table := FormatTable(rep.Columns, rep.Rows); table != "" {
		sb.WriteString("## Data\n\n")
		sb.WriteString(table)
		sb.WriteString("\n")
	}

	writeSection := func(heading, body string) {
		if body == "" {
			return
		}
		sb.WriteString("## " + heading + "\n\n" + body + "\n\n")
	}
	writeSection("Key findings", rep.Findings)
	writeSection("Methodology", rep.Methodology)
	writeSection("Interpretation", rep.Interpretation)
	writeSection("Recommendations", rep.Recommendations)
	writeSection("Conclusion", rep.Conclusion)

	if chartRef != "" {
		sb.WriteString("## Chart\n\n")
		sb.WriteString(fmt.Sprintf("![Chart](%s)\n\n", chartRef))
	}
	if remainder != "" {
		sb.WriteString("_Outside the data: " + remainder + "_\n\n")
	}
	sb.WriteString("_This report uses only the information available in the reservations data._\n")
	return sb.String()
}
