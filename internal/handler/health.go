package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/garooinc/itzana-insights/internal/models"
	"github.com/garooinc/itzana-insights/internal/store"
)

const version = "1.0.0"

// HealthHandler handles GET /health with dependency checks
type HealthHandler struct {
	store      *store.Store
	llmEnabled bool
}

func NewHealthHandler(st *store.Store, llmEnabled bool) *HealthHandler {
	return &HealthHandler{store: st, llmEnabled: llmEnabled}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Short timeout so health checks never block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store != nil {
		if err := h.store.TestConnection(ctx); err != nil {
			checks["store"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "disabled"
	}

	if h.llmEnabled {
		checks["completion"] = "configured"
	} else {
		checks["completion"] = "disabled"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: version,
		Checks:  checks,
	})
}
