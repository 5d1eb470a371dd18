package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/garooinc/itzana-insights/internal/models"
)

// Asker runs one question-to-report pipeline.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskHandler handles POST /ask
type AskHandler struct {
	pipeline Asker
}

func NewAskHandler(pipeline Asker) *AskHandler {
	return &AskHandler{pipeline: pipeline}
}

// Ask handles POST /ask. Degraded stages have already been absorbed inside
// the pipeline; an error here is a server error with diagnostic detail.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	markdown, err := h.pipeline.Ask(r.Context(), req.Question)
	if err != nil {
		log.Error().Err(err).Msg("pipeline run failed")
		models.WriteErrorTrace(w, http.StatusInternalServerError, err.Error(), string(debug.Stack()))
		return
	}

	models.WriteJSON(w, http.StatusOK, models.AskResponse{Markdown: markdown})
}
