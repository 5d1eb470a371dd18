package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger records pipeline events with hashed question/SQL identifiers so
// audit trails never carry raw guest data.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogPipelineRun records one question-to-report run.
func (a *AuditLogger) LogPipelineRun(
	question, generatedSQL string,
	rowCount int,
	chartPublished bool,
	fallbackNarrative bool,
	executionTimeMs int64,
	success bool,
	errMsg string,
) {
	if !a.enabled {
		return
	}
	sqlHash := ""
	if generatedSQL != "" {
		sqlHash = hashStr(generatedSQL)[:16]
	}

	evt := log.Info().
		Str("event", "pipeline_audit").
		Str("question_hash", hashStr(question)[:16]).
		Str("sql_hash", sqlHash).
		Int("row_count", rowCount).
		Bool("chart_published", chartPublished).
		Bool("fallback_narrative", fallbackNarrative).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

// LogReload records a store reload with per-table row counts.
func (a *AuditLogger) LogReload(counts map[string]int, executionTimeMs int64, success bool, errMsg string) {
	if !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "reload_audit").
		Interface("loaded", counts).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)
	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
