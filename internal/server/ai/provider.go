// Package ai holds the providers behind the /api/ai routes. A real OpenAI
// provider is used when an API key is configured; otherwise the heuristic
// provider keeps every AI feature usable offline.
package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jask/canban/internal/model"
)

// Provider defines methods used by the AI handlers.
type Provider interface {
	// Name identifies the provider; it is recorded in priority history.
	Name() string
	// Prioritize assigns a 1-5 priority with reasoning to every card.
	Prioritize(ctx context.Context, cards []model.Card, boardNames map[string]string) ([]model.PriorityAssignment, error)
	// Suggest returns actionable suggestions for one card.
	Suggest(ctx context.Context, card model.Card) (model.SuggestResponse, error)
	// Briefing summarizes the open cards into a short daily focus.
	Briefing(ctx context.Context, open []model.Card, boardNames map[string]string, highPriority, overdue int) (summary string, suggestions []string, err error)
	// Extract pulls actionable tasks out of free-form text.
	Extract(ctx context.Context, text, boardName string) (tasks []model.ExtractedTask, summary string, err error)
}

// decodeJSON parses a model response, tolerating markdown code fences.
func decodeJSON(text string, out any) error {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		if i := strings.IndexByte(t, '\n'); i >= 0 {
			t = t[i+1:]
		}
		if i := strings.LastIndex(t, "```"); i >= 0 {
			t = t[:i]
		}
	}
	return json.Unmarshal([]byte(strings.TrimSpace(t)), out)
}
