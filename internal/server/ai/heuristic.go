package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/jask/canban/internal/model"
)

// HeuristicProvider keeps the AI features working with no API key. Results
// come from deadlines, status and simple text signals instead of a model.
type HeuristicProvider struct {
	now func() time.Time
}

func NewHeuristicProvider() *HeuristicProvider {
	return &HeuristicProvider{now: time.Now}
}

func (p *HeuristicProvider) Name() string { return "heuristic" }

func (p *HeuristicProvider) Prioritize(_ context.Context, cards []model.Card, _ map[string]string) ([]model.PriorityAssignment, error) {
	now := p.now().UTC()
	out := make([]model.PriorityAssignment, 0, len(cards))
	for _, c := range cards {
		priority := model.DefaultPriority
		var reasons []string
		if c.Deadline != nil {
			until := c.Deadline.Sub(now)
			switch {
			case until <= 0:
				priority = 1
				reasons = append(reasons, "deadline has passed")
			case until <= 48*time.Hour:
				priority = 1
				reasons = append(reasons, "deadline within two days")
			case until <= 7*24*time.Hour:
				priority = 2
				reasons = append(reasons, "deadline within a week")
			}
		}
		if c.Status == model.StatusInProgress && priority > 2 {
			priority = 2
			reasons = append(reasons, "already in progress")
		}
		if now.Sub(c.CreatedAt) > 30*24*time.Hour && priority > 2 {
			reasons = append(reasons, "task is over a month old")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "no urgency signals")
		}
		out = append(out, model.PriorityAssignment{
			ID:        c.ID,
			Priority:  priority,
			Reasoning: strings.Join(reasons, "; "),
		})
	}
	return out, nil
}

func (p *HeuristicProvider) Suggest(_ context.Context, card model.Card) (model.SuggestResponse, error) {
	var suggestions []string
	if card.Description == nil || strings.TrimSpace(stringOr(card.Description)) == "" {
		suggestions = append(suggestions, "Add a short description so the next step is obvious when you pick this up")
	}
	if card.EstimatedHours == nil {
		suggestions = append(suggestions, "Estimate the effort to make it easier to schedule")
	} else if *card.EstimatedHours > 4 {
		suggestions = append(suggestions, "Break this into smaller steps; it is estimated at more than half a day")
	}
	if card.Overdue(p.now().UTC()) {
		suggestions = append(suggestions, "The deadline has passed; either reschedule it or tackle it first today")
	} else if card.Deadline == nil {
		suggestions = append(suggestions, "Set a deadline if this has a real due date")
	}
	if card.Status == model.StatusTodo && card.Priority <= 2 {
		suggestions = append(suggestions, "High priority but not started; consider moving it to in progress")
	}
	if len(suggestions) < 2 {
		suggestions = append(suggestions, "Block a focused time slot for this task")
	}
	if len(suggestions) > 4 {
		suggestions = suggestions[:4]
	}
	return model.SuggestResponse{
		Suggestions: suggestions,
		Reasoning:   fmt.Sprintf("Based on the task's deadline, estimate and status (priority %d/5)", card.Priority),
	}, nil
}

func (p *HeuristicProvider) Briefing(_ context.Context, open []model.Card, _ map[string]string, highPriority, overdue int) (string, []string, error) {
	summary := fmt.Sprintf("You have %d open tasks, %d high-priority and %d overdue.", len(open), highPriority, overdue)
	suggestions := []string{
		"Review your high-priority tasks first",
		"Check for any overdue items",
		"Limit work in progress to what you can finish today",
	}
	return summary, suggestions, nil
}

// Extract splits the text into lines, strips list markers and keeps lines
// that look like actionable items. Near-duplicate titles are dropped.
func (p *HeuristicProvider) Extract(_ context.Context, text, _ string) ([]model.ExtractedTask, string, error) {
	var tasks []model.ExtractedTask
	var seen []string
	for _, line := range strings.Split(text, "\n") {
		title := stripListMarker(line)
		if len([]rune(title)) < 3 {
			continue
		}
		if r := []rune(title); len(r) > 100 {
			title = string(r[:100])
		}
		norm := normalizeTitle(title)
		if isDuplicate(norm, seen) {
			continue
		}
		seen = append(seen, norm)
		tasks = append(tasks, model.ExtractedTask{
			Title:    title,
			Priority: urgencyPriority(title),
			Tags:     detectTags(title),
		})
	}
	summary := fmt.Sprintf("Extracted %d tasks from %d lines of text", len(tasks), len(strings.Split(text, "\n")))
	return tasks, summary, nil
}

func stringOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// stripListMarker removes bullet, checkbox and numbering prefixes.
func stripListMarker(line string) string {
	t := strings.TrimSpace(line)
	for _, prefix := range []string{"- [ ]", "- [x]", "* [ ]", "* [x]"} {
		if strings.HasPrefix(t, prefix) {
			return strings.TrimSpace(t[len(prefix):])
		}
	}
	for _, prefix := range []string{"-", "*", "•"} {
		if strings.HasPrefix(t, prefix) {
			return strings.TrimSpace(t[len(prefix):])
		}
	}
	// numbered lists: "1. foo" or "2) foo"
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i > 0 && i < len(t) && (t[i] == '.' || t[i] == ')') {
		return strings.TrimSpace(t[i+1:])
	}
	return t
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDuplicate(norm string, seen []string) bool {
	for _, s := range seen {
		if levenshtein.ComputeDistance(norm, s) <= 2 {
			return true
		}
	}
	return false
}

func urgencyPriority(title string) int {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "urgent") || strings.Contains(t, "asap"):
		return 1
	case strings.Contains(t, "important"):
		return 2
	case strings.Contains(t, "low priority") || strings.Contains(t, "minor"):
		return 4
	case strings.Contains(t, "someday") || strings.Contains(t, "maybe"):
		return 5
	}
	return model.DefaultPriority
}

var tagKeywords = []string{"meeting", "email", "review", "essay", "reading", "research", "call", "write"}

func detectTags(title string) []string {
	t := strings.ToLower(title)
	tags := []string{}
	for _, kw := range tagKeywords {
		if strings.Contains(t, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}
