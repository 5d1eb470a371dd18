package agent

import (
	"context"
	"strings"
	"testing"
	"time"
)

func sampleReport() AnalysisReport {
	return AnalysisReport{
		Title:       "Occupancy by month",
		Findings:    "March peaked at 92% occupancy.",
		Methodology: "Counted reservations per arrival month.",
		Columns:     []string{"MONTH", "OCCUPANCY"},
		Rows:        []map[string]any{{"MONTH": "2025-03", "OCCUPANCY": 92.0}},
	}
}

func TestAssembleUsesCompletion(t *testing.T) {
	llm := &stubCompleter{reply: "# Occupancy\n\nMarch was the strongest month."}
	a := NewAssembler(llm, time.Second)

	doc := a.Assemble(context.Background(), sampleReport(), "", "context doc", "")
	if doc.Fallback {
		t.Error("Fallback should be false on success")
	}
	if doc.Markdown != "# Occupancy\n\nMarch was the strongest month." {
		t.Errorf("markdown = %q", doc.Markdown)
	}
	if llm.calls != 1 {
		t.Errorf("calls = %d, want 1", llm.calls)
	}
}

func TestAssembleFallbackOnFailure(t *testing.T) {
	a := NewAssembler(&stubCompleter{}, time.Second)

	doc := a.Assemble(context.Background(), sampleReport(), "", "context doc", "")
	if !doc.Fallback {
		t.Error("Fallback should be true when completion fails")
	}
	for _, want := range []string{"# Occupancy by month", "March peaked", "2025-03"} {
		if !strings.Contains(doc.Markdown, want) {
			t.Errorf("fallback document missing %q:\n%s", want, doc.Markdown)
		}
	}
}

func TestAssembleFallbackOnNilCompleter(t *testing.T) {
	a := NewAssembler(nil, time.Second)

	doc := a.Assemble(context.Background(), sampleReport(), "https://x/y.png", "", "and the weather")
	if !doc.Fallback {
		t.Error("Fallback should be true without a completer")
	}
	if !strings.Contains(doc.Markdown, "![Chart](https://x/y.png)") {
		t.Errorf("fallback document missing chart:\n%s", doc.Markdown)
	}
	if !strings.Contains(doc.Markdown, "and the weather") {
		t.Errorf("fallback document missing remainder note:\n%s", doc.Markdown)
	}
}

func TestAssembleFallbackOnEmptyReply(t *testing.T) {
	a := NewAssembler(&stubCompleter{reply: "   "}, time.Second)

	doc := a.Assemble(context.Background(), sampleReport(), "", "", "")
	if !doc.Fallback {
		t.Error("whitespace-only reply should fall back")
	}
}
