package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/security"
	"github.com/garooinc/itzana-insights/internal/store"
	"github.com/garooinc/itzana-insights/internal/viz"
)

// Pipeline is the fixed-order orchestrator for one question-to-report run:
// refine → analyze → (decide → render → publish) → assemble. Refinement,
// visualization and narrative assembly are enhancement stages whose failures
// degrade output quality, never availability; only query execution is
// mandatory, and its failures travel as data (the synthetic error row).
type Pipeline struct {
	refiner   *Refiner
	analyst   *Analyst
	assembler *Assembler
	schema    *SchemaProvider
	publisher viz.Publisher
	audit     *security.AuditLogger

	businessContext string
}

func NewPipeline(
	refiner *Refiner,
	analyst *Analyst,
	assembler *Assembler,
	schema *SchemaProvider,
	publisher viz.Publisher,
	audit *security.AuditLogger,
	businessContext string,
) *Pipeline {
	return &Pipeline{
		refiner:         refiner,
		analyst:         analyst,
		assembler:       assembler,
		schema:          schema,
		publisher:       publisher,
		audit:           audit,
		businessContext: businessContext,
	}
}

// Ask runs the full pipeline for one question and returns the report
// markdown. An error here means the request had no defined degradation path
// and surfaces at the HTTP boundary.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("question is empty")
	}
	start := time.Now()

	sc := p.schema.Context(ctx)

	refined := p.refiner.Refine(ctx, question, sc)
	log.Debug().
		Bool("refined", refined.Refined).
		Str("instruction", refined.Instruction).
		Msg("question refined")

	rep := p.analyst.Analyze(ctx, refined.Instruction, sc)

	chartRef := ""
	if viz.WantsChart(question) && !rep.IsError() {
		chartRef = p.chart(ctx, rep, question)
	}

	doc := p.assembler.Assemble(ctx, rep, chartRef, p.businessContext, refined.UnanswerableRemainder)

	p.audit.LogPipelineRun(
		question,
		rep.GeneratedSQL,
		len(rep.Rows),
		chartRef != "",
		doc.Fallback,
		time.Since(start).Milliseconds(),
		!rep.IsError(),
		rep.errMessage(),
	)
	return doc.Markdown, nil
}

// chart runs the visualization stages. Any failure is absorbed here and
// logged; the report simply carries no chart.
func (p *Pipeline) chart(ctx context.Context, rep AnalysisReport, question string) string {
	spec := viz.Decide(rep.Columns, rep.Rows, question)
	if spec.X == "" || spec.Y == "" {
		log.Debug().Str("x", spec.X).Str("y", spec.Y).Msg("no usable axes, skipping chart")
		return ""
	}

	png, err := viz.Render(rep.Rows, spec)
	if err != nil {
		log.Warn().Err(err).Str("type", string(spec.Type)).Msg("chart rendering failed")
		return ""
	}

	ref, err := p.publisher.Publish(ctx, viz.Filename(), png)
	if err != nil {
		log.Warn().Err(err).Msg("chart publishing failed")
		return ""
	}
	return ref
}

func (r AnalysisReport) errMessage() string {
	if !r.IsError() {
		return ""
	}
	if msg, ok := r.Rows[0][store.ErrorColumn].(string); ok {
		return msg
	}
	return "query failed"
}
