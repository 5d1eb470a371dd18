package agent

import (
	"encoding/json"
	"strings"
)

// extractJSON pulls the first JSON object out of model output using three
// strategies in order:
// 1. ```json ... ``` code block
// 2. any ``` ... ``` block whose content starts with '{'
// 3. outermost { ... } span of the raw text
// Returns the raw JSON string, or "" when nothing parses.
func extractJSON(text string) string {
	lower := strings.ToLower(text)
	if idx := strings.Index(lower, "```json"); idx != -1 {
		body := text[idx+len("```json"):]
		if end := strings.Index(body, "```"); end != -1 {
			if candidate := strings.TrimSpace(body[:end]); json.Valid([]byte(candidate)) {
				return candidate
			}
		}
	}

	parts := strings.Split(text, "```")
	for i := 1; i < len(parts); i += 2 {
		candidate := strings.TrimSpace(parts[i])
		// strip a language tag line if present
		if nl := strings.Index(candidate, "\n"); nl != -1 && !strings.HasPrefix(candidate, "{") {
			candidate = strings.TrimSpace(candidate[nl:])
		}
		if strings.HasPrefix(candidate, "{") && json.Valid([]byte(candidate)) {
			return candidate
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		candidate := strings.TrimSpace(text[start : end+1])
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	return ""
}
