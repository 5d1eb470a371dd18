// Package agent implements the question-to-report pipeline: refine the
// question, synthesize and execute a query, optionally chart the result, and
// assemble the narrative report. Stages are fixed-order pure-ish functions
// wired by the Pipeline; every optional stage absorbs its own failures.
package agent

import "github.com/garooinc/itzana-insights/internal/store"

// RefinedInstruction is the precision-rewritten form of the user's question.
// Refined is false when the completion capability failed and the original
// question passed through unchanged.
type RefinedInstruction struct {
	Instruction           string
	UnanswerableRemainder string
	Refined               bool
}

// AnalysisReport is the structured output of the query synthesis stage,
// created once per question and read-only afterward. Rows may be the single
// synthetic error row; the narrative fields then describe the failure in
// plain language.
type AnalysisReport struct {
	Title       string
	Findings    string
	Methodology string

	// Optional narrative subfields carried by richer pipeline variants.
	Interpretation  string
	Recommendations string
	Conclusion      string

	// Columns preserves the executed query's projection order.
	Columns []string
	Rows    []map[string]any

	GeneratedSQL string
}

// IsError reports whether the rows are the synthetic error row.
func (r AnalysisReport) IsError() bool {
	if len(r.Rows) != 1 {
		return false
	}
	_, ok := r.Rows[0][store.ErrorColumn]
	return ok && len(r.Rows[0]) == 1
}

// ReportDocument is the final, externally visible artifact. Fallback is true
// when the narrative stage failed and the document embeds the raw structured
// report instead.
type ReportDocument struct {
	Markdown string
	Fallback bool
}
