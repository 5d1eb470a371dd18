package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/knowledge"
	"github.com/garooinc/itzana-insights/internal/llm"
	"github.com/garooinc/itzana-insights/internal/store"
)

// Refiner rewrites a free-form question into a precise retrieval instruction
// grounded in the schema and partner vocabulary. Strictly best-effort: any
// completion failure returns the original question unchanged.
type Refiner struct {
	llm     llm.Completer
	timeout time.Duration
}

func NewRefiner(completer llm.Completer, timeout time.Duration) *Refiner {
	return &Refiner{llm: completer, timeout: timeout}
}

const refinerSystemPrompt = `You are a data analysis assistant for the Itz'ana resort.
Rewrite the user's question so it is clear, precise and easy to answer by a
data agent working against the 'reservations' table.

Rules:
- Only use columns that exist in the schema provided. Never invent columns,
  relationships or data.
- Keep the rewritten question limited to direct queries, filters and
  groupings the available fields support. Do not ask for advanced analysis.
- Keep relevant details: channel, company, amounts, dates, room type and any
  useful filter, but only if the schema has them.
- If the question mentions wholesalers, filter on the designated wholesaler
  column named in the schema notes.
- When a partner name is a near-miss spelling of a known name from the
  vocabulary, use the canonical spelling.
- If part of the question cannot be answered from the data at all (open-ended
  advice, recommendations, information outside the table), move that part to
  "unanswerable_remainder" and keep only the retrievable part in
  "instruction".
- Answer in the language of the question.

Reply with only a JSON object:
{"instruction": "...", "unanswerable_remainder": "..."}`

type refinerOutput struct {
	Instruction           string `json:"instruction"`
	UnanswerableRemainder string `json:"unanswerable_remainder"`
}

// Refine produces the refined instruction for question given the schema
// context. The deterministic vocabulary pre-pass runs even when the
// completion capability is down, so obvious partner typos are always fixed.
func (r *Refiner) Refine(ctx context.Context, question string, sc store.SchemaContext) RefinedInstruction {
	corrected := knowledge.CorrectEntities(question, sc.Vocabulary)
	fallback := RefinedInstruction{Instruction: corrected}

	if r.llm == nil {
		return fallback
	}

	prompt := fmt.Sprintf("Schema of 'reservations': %s\n\nKnown partner names: %s\n\nQuestion: %s",
		sc.String(), strings.Join(sc.Vocabulary, "; "), corrected)

	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.llm.Complete(rctx, refinerSystemPrompt, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("question refinement failed, passing original through")
		return fallback
	}

	raw := extractJSON(text)
	if raw == "" {
		// Some models answer with the bare rewritten question.
		if t := strings.TrimSpace(text); t != "" {
			return RefinedInstruction{Instruction: t, Refined: true}
		}
		return fallback
	}

	var out refinerOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil || strings.TrimSpace(out.Instruction) == "" {
		log.Warn().Err(err).Msg("refiner output unparseable, passing original through")
		return fallback
	}

	return RefinedInstruction{
		Instruction:           strings.TrimSpace(out.Instruction),
		UnanswerableRemainder: strings.TrimSpace(out.UnanswerableRemainder),
		Refined:               true,
	}
}
