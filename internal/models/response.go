package models

// AskResponse is returned by POST /ask: the serialized report document.
type AskResponse struct {
	Markdown string `json:"markdown"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ColumnInfo is one column of a store table.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaResponse is returned by GET /schema
type SchemaResponse struct {
	Status string                  `json:"status"`
	Tables map[string][]ColumnInfo `json:"tables"`
}
