// Package llm wraps the natural-language completion capability: a plain
// completion call for the refinement and assembly stages, and a multi-turn
// tool-calling loop for query synthesis. Every call is bounded by the
// caller's context; the service degrades, it never blocks on the model.
package llm

import "context"

// Tool represents a callable function the model can invoke during a loop run.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}
