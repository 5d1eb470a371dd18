package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/llm"
	"github.com/garooinc/itzana-insights/internal/security"
	"github.com/garooinc/itzana-insights/internal/store"
)

// ToolRunner is the multi-turn tool-calling capability the analyst drives.
type ToolRunner interface {
	RunTools(ctx context.Context, systemPrompt, userPrompt string, tools []llm.Tool) (string, []string, error)
}

// Analyst turns a refined instruction into a query, executes it through the
// store, and packages the result plus derived narrative fields into an
// AnalysisReport. A failed query yields the synthetic error row and a
// plain-language failure narrative — never an aborted request.
type Analyst struct {
	llm     ToolRunner
	store   *store.Store
	guard   *security.SQLValidator
	timeout time.Duration

	// wholesalerColumn is the designated column for partner filters. Domain
	// rule, configurable per deployment.
	wholesalerColumn string
}

func NewAnalyst(runner ToolRunner, st *store.Store, guard *security.SQLValidator, wholesalerColumn string, timeout time.Duration) *Analyst {
	return &Analyst{
		llm:              runner,
		store:            st,
		guard:            guard,
		timeout:          timeout,
		wholesalerColumn: wholesalerColumn,
	}
}

const analystSystemPromptTemplate = `You are a data analyst with access to a single-file SQL database. The main table is 'reservations'.
The schema of 'reservations' is: %s

From the user's instruction, generate a SQL query over 'reservations' that answers it, then call the execute_sql tool to run it.

Notes on the data:
- Date format is YYYY-MM-DD and amounts are in USD. Use strftime('%%Y-%%m', ...) to group by month and year.
- The date columns are ARRIVAL and DEPARTURE.
- If the instruction mentions wholesalers, filter on the %s column.
- Every row belongs to the same resort, so never filter on a RESORT column.

When you deliver your final answer, reply with only a JSON object:
{
  "title": "short descriptive title",
  "returned_json": [... the rows the query returned ...],
  "findings": "explanation of what the data shows",
  "methodology": "how the query was built and which filters were applied"
}

Rules for the narrative fields:
- Never echo raw column names; phrase them conversationally.
- Monetary amounts are in USD.
- Answer in the language of the instruction.`

type analystOutput struct {
	Title        string           `json:"title"`
	ReturnedJSON []map[string]any `json:"returned_json"`
	Findings     string           `json:"findings"`
	Methodology  string           `json:"methodology"`
}

// Analyze runs the synthesis loop for one instruction.
func (a *Analyst) Analyze(ctx context.Context, instruction string, sc store.SchemaContext) AnalysisReport {
	if a.llm == nil {
		return a.failureReport(instruction, "", nil, fmt.Errorf("query synthesis is not configured"))
	}
	actx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The last executed result is captured at the tool boundary so the
	// report's table is the real execution output even when the model's
	// final JSON mangles the rows.
	var lastSQL string
	var lastResult *store.QueryResult

	tools := []llm.Tool{{
		Name:        "execute_sql",
		Description: "Execute a SQL SELECT query against the reservations database and return the result rows as JSON.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The SQL SELECT query to execute",
				},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			query, _ := input["query"].(string)
			if query == "" {
				return "", fmt.Errorf("query is required")
			}
			if msg := a.guard.Validate(query); msg != "" {
				return "", fmt.Errorf("query rejected: %s", msg)
			}
			res := a.store.Execute(ctx, query)
			lastSQL = query
			lastResult = &res

			out := map[string]interface{}{
				"row_count": len(res.Rows),
				"columns":   res.Columns,
				"data":      res.Rows,
			}
			b, _ := json.Marshal(out)
			return string(b), nil
		},
	}}

	system := fmt.Sprintf(analystSystemPromptTemplate, sc.String(), a.wholesalerColumn)

	text, toolsUsed, err := a.llm.RunTools(actx, system, instruction, tools)
	if err != nil {
		log.Warn().Err(err).Msg("query synthesis failed")
		return a.failureReport(instruction, lastSQL, lastResult, err)
	}
	log.Debug().Strs("tools_used", toolsUsed).Msg("analysis loop finished")

	raw := extractJSON(text)
	var out analystOutput
	if raw == "" || json.Unmarshal([]byte(raw), &out) != nil {
		log.Warn().Msg("analyst output unparseable")
		if lastResult != nil {
			// The query ran; salvage the data with a generic narrative.
			return AnalysisReport{
				Title:        "Query result",
				Findings:     strings.TrimSpace(text),
				Methodology:  "The result below is the direct output of the executed query.",
				Columns:      lastResult.Columns,
				Rows:         lastResult.Rows,
				GeneratedSQL: lastSQL,
			}
		}
		return a.failureReport(instruction, lastSQL, lastResult, fmt.Errorf("no structured answer produced"))
	}

	rep := AnalysisReport{
		Title:        strings.TrimSpace(out.Title),
		Findings:     strings.TrimSpace(out.Findings),
		Methodology:  strings.TrimSpace(out.Methodology),
		GeneratedSQL: lastSQL,
	}
	if lastResult != nil {
		rep.Columns = lastResult.Columns
		rep.Rows = lastResult.Rows
	} else {
		rep.Rows = out.ReturnedJSON
		rep.Columns = columnsFromRows(out.ReturnedJSON)
	}
	if rep.Title == "" {
		rep.Title = "Analysis"
	}
	return rep
}

// failureReport converts a synthesis failure into the uniform error-row shape
// so downstream stages proceed normally.
func (a *Analyst) failureReport(instruction, lastSQL string, lastResult *store.QueryResult, err error) AnalysisReport {
	rows := []map[string]any{{store.ErrorColumn: fmt.Sprintf("Error al ejecutar la consulta: %v", err)}}
	columns := []string{store.ErrorColumn}
	if lastResult != nil && lastResult.IsErr() {
		rows = lastResult.Rows
		columns = lastResult.Columns
	}
	return AnalysisReport{
		Title:        "Query failed",
		Findings:     fmt.Sprintf("The question %q could not be answered: the data retrieval step failed.", instruction),
		Methodology:  "A query was attempted against the reservations table but did not complete successfully.",
		Columns:      columns,
		Rows:         rows,
		GeneratedSQL: lastSQL,
	}
}

// columnsFromRows derives a stable column order when no execution result was
// captured. JSON objects lose order, so keys are sorted.
func columnsFromRows(rows []map[string]any) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
