package handler

import (
	"net/http"

	"github.com/garooinc/itzana-insights/internal/models"
	"github.com/garooinc/itzana-insights/internal/store"
)

// SchemaHandler handles GET /schema: the live column metadata of the store's
// tables, read via introspection rather than hardcoded.
type SchemaHandler struct {
	store  *store.Store
	tables []string
}

func NewSchemaHandler(st *store.Store, tables []string) *SchemaHandler {
	return &SchemaHandler{store: st, tables: tables}
}

// Schema handles GET /schema. Missing tables are simply absent from the
// response; only a fully unreachable store is an error.
func (h *SchemaHandler) Schema(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]models.ColumnInfo, len(h.tables))
	for _, table := range h.tables {
		sc, err := h.store.Describe(r.Context(), table)
		if err != nil {
			continue
		}
		cols := make([]models.ColumnInfo, len(sc.Columns))
		for i, c := range sc.Columns {
			cols[i] = models.ColumnInfo{Name: c.Name, Type: c.Type}
		}
		out[table] = cols
	}
	if len(out) == 0 {
		models.WriteError(w, http.StatusServiceUnavailable, "no tables available: "+store.SchemaPlaceholder)
		return
	}
	models.WriteJSON(w, http.StatusOK, models.SchemaResponse{Status: "success", Tables: out})
}
