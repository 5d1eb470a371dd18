package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/agent"
	"github.com/garooinc/itzana-insights/internal/handler"
	"github.com/garooinc/itzana-insights/internal/knowledge"
	"github.com/garooinc/itzana-insights/internal/llm"
	"github.com/garooinc/itzana-insights/internal/middleware"
	"github.com/garooinc/itzana-insights/internal/security"
	"github.com/garooinc/itzana-insights/internal/store"
	"github.com/garooinc/itzana-insights/internal/viz"
)

// setupRoutes returns (router, store, error) so the store can be closed on
// shutdown.
func (s *Server) setupRoutes() (http.Handler, *store.Store, error) {
	cfg := s.cfg
	ctx := context.Background()

	// ─── Store ──────────────────────────────────────────────────────────────────
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	datasets := store.DefaultDatasets(cfg.DataDir)

	// ─── LLM ────────────────────────────────────────────────────────────────────
	// The analyst drives the tool loop on the analyst model; refinement and
	// narrative assembly are single-shot calls on the chat model. Both are
	// optional capabilities: without an API key the pipeline still executes,
	// it just degrades to pass-through refinement and template reports.
	var completer llm.Completer
	var runner agent.ToolRunner
	if cfg.AnthropicAPIKey != "" {
		analystClient := llm.NewClient(cfg.AnthropicAPIKey, cfg.AnalystModel, cfg.AnthropicBaseURL)
		runner = analystClient
		completer = analystClient.WithModel(cfg.ChatModel)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - question refinement and query synthesis disabled")
	}

	// ─── Chart publishing ───────────────────────────────────────────────────────
	var publisher viz.Publisher = viz.InlinePublisher{}
	if cfg.ChartMode == "s3" && cfg.ChartBucket != "" {
		s3pub, s3err := viz.NewS3Publisher(ctx, cfg.ChartBucket, cfg.ChartRegion, cfg.ChartKeyPrefix, cfg.ChartURLPrefix)
		if s3err != nil {
			log.Warn().Err(s3err).Msg("S3 chart publisher unavailable, falling back to inline charts")
		} else {
			publisher = s3pub
		}
	}

	// ─── Pipeline ───────────────────────────────────────────────────────────────
	guard := security.NewSQLValidator()
	audit := security.NewAuditLogger(cfg.EnableAuditLogging)
	schemaProvider := agent.NewSchemaProvider(st, store.ReservationsTable, cfg.WholesalerColumn)
	businessContext := knowledge.Context(cfg.BusinessContextPath)

	completionTimeout := time.Duration(cfg.CompletionTimeout) * time.Second
	agentTimeout := time.Duration(cfg.AgentTimeout) * time.Second

	refiner := agent.NewRefiner(completer, completionTimeout)
	analyst := agent.NewAnalyst(runner, st, guard, cfg.WholesalerColumn, agentTimeout)
	assembler := agent.NewAssembler(completer, completionTimeout)
	pipeline := agent.NewPipeline(refiner, analyst, assembler, schemaProvider, publisher, audit, businessContext)

	log.Info().
		Bool("llm_enabled", runner != nil).
		Str("chart_mode", cfg.ChartMode).
		Str("store_path", cfg.StorePath).
		Str("data_dir", cfg.DataDir).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Msg("service configuration")

	// ─── Handlers ───────────────────────────────────────────────────────────────
	askH := handler.NewAskHandler(pipeline)
	reloadH := handler.NewReloadHandler(st, datasets, schemaProvider, audit)
	schemaH := handler.NewSchemaHandler(st, []string{store.ReservationsTable, store.GroupedAccountsTable})
	healthH := handler.NewHealthHandler(st, runner != nil)

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

		r.Post("/ask", askH.Ask)
		r.Post("/reload", reloadH.Reload)
		r.Get("/schema", schemaH.Schema)
	})

	return r, st, nil
}
