package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/models"
	"github.com/garooinc/itzana-insights/internal/security"
	"github.com/garooinc/itzana-insights/internal/store"
)

// Invalidator drops cached grounding context after the store is replaced.
type Invalidator interface {
	Invalidate()
}

// ReloadHandler handles POST /reload: replace the store's contents from the
// source spreadsheets. Reload is an exclusive maintenance operation; the
// store serializes the swap against in-flight queries.
type ReloadHandler struct {
	store    *store.Store
	datasets []store.Dataset
	schema   Invalidator
	audit    *security.AuditLogger
}

func NewReloadHandler(st *store.Store, datasets []store.Dataset, schema Invalidator, audit *security.AuditLogger) *ReloadHandler {
	return &ReloadHandler{store: st, datasets: datasets, schema: schema, audit: audit}
}

// Reload handles POST /reload
func (h *ReloadHandler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	counts, err := h.store.Reload(r.Context(), h.datasets)
	if err != nil {
		log.Error().Err(err).Msg("store reload failed")
		h.audit.LogReload(nil, time.Since(start).Milliseconds(), false, err.Error())
		models.WriteError(w, http.StatusInternalServerError, "reload failed: "+err.Error())
		return
	}
	h.schema.Invalidate()
	h.audit.LogReload(counts, time.Since(start).Milliseconds(), true, "")

	resp := make(map[string]int, len(counts))
	for table, n := range counts {
		resp[table+"_loaded"] = n
	}
	models.WriteJSON(w, http.StatusOK, resp)
}
