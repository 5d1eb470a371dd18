package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/llm"
)

// Assembler merges the structured analysis, the optional chart reference and
// the business context into one narrative document. When the completion
// capability fails, it falls back to a minimal document embedding the raw
// report rather than losing the response.
type Assembler struct {
	llm     llm.Completer
	timeout time.Duration
}

func NewAssembler(completer llm.Completer, timeout time.Duration) *Assembler {
	return &Assembler{llm: completer, timeout: timeout}
}

const assemblerSystemPrompt = `You are a data analysis partner for the Itz'ana resort in Placencia, Belize, with a conversational style, as if chatting about the numbers with a colleague.`

const assemblerPromptTemplate = `Business context:
%s

Structured analysis from the data agent:
Title: %s
Findings: %s
Methodology: %s

Data table (already formatted, include it verbatim if relevant):
%s

%s%sWrite the answer in Markdown following these guidelines:

1. **Title**: start with a short, relevant title for the analysis.
2. **Free-form analysis**: explain in your own words what matters in the data
   — trends, anomalies, context, opportunities, risks. Adapt the analysis to
   what the data shows, no rigid format.
3. **Data table**: include the table above verbatim if it is relevant;
   otherwise omit the section.
4. **Recommendations**: propose concrete, practical actions based on the
   data, tailored to the resort's day to day. Only do this if the data is
   sufficient for the recommendations to be useful; otherwise omit the
   section.
5. **Closing**: end with a reminder that only the provided information was
   used, keeping the friendly tone.

Invent nothing: use only the information provided. Amounts are in USD; write
numbers with comma thousands separators and a period decimal marker. Answer
in the language of the analysis.`

// Assemble produces the final report document.
func (a *Assembler) Assemble(ctx context.Context, rep AnalysisReport, chartRef, businessContext, remainder string) ReportDocument {
	if a.llm == nil {
		return ReportDocument{Markdown: FormatMarkdown(rep, chartRef, remainder), Fallback: true}
	}

	chartNote := ""
	if chartRef != "" {
		chartNote = fmt.Sprintf("A chart of the data is available; include a section with the image:\n![Chart](%s)\n\n", chartRef)
	}
	remainderNote := ""
	if remainder != "" {
		remainderNote = fmt.Sprintf("The user also asked the following, which the data cannot answer; acknowledge it briefly in the closing: %s\n\n", remainder)
	}

	table := FormatTable(rep.Columns, rep.Rows)
	if table == "" {
		table = "(no rows)"
	}

	prompt := fmt.Sprintf(assemblerPromptTemplate,
		businessContext, rep.Title, rep.Findings, rep.Methodology, table, chartNote, remainderNote)

	actx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.llm.Complete(actx, assemblerSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		log.Warn().Err(err).Msg("narrative assembly failed, embedding raw report")
		return ReportDocument{Markdown: FormatMarkdown(rep, chartRef, remainder), Fallback: true}
	}

	return ReportDocument{Markdown: strings.TrimSpace(text)}
}
