package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/canban/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func testProvider() *HeuristicProvider {
	p := NewHeuristicProvider()
	p.now = fixedNow
	return p
}

func TestHeuristicPrioritizeDeadlines(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	overdue := now.Add(-2 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	nextWeek := now.Add(5 * 24 * time.Hour)

	cards := []model.Card{
		{ID: "a", Deadline: &overdue, Status: model.StatusTodo, CreatedAt: now},
		{ID: "b", Deadline: &tomorrow, Status: model.StatusTodo, CreatedAt: now},
		{ID: "c", Deadline: &nextWeek, Status: model.StatusTodo, CreatedAt: now},
		{ID: "d", Status: model.StatusInProgress, CreatedAt: now},
		{ID: "e", Status: model.StatusTodo, CreatedAt: now},
	}

	got, err := testProvider().Prioritize(context.Background(), cards, nil)
	require.NoError(t, err)
	require.Len(t, got, 5)

	byID := map[string]model.PriorityAssignment{}
	for _, a := range got {
		byID[a.ID] = a
	}
	require.Equal(t, 1, byID["a"].Priority)
	require.Contains(t, byID["a"].Reasoning, "passed")
	require.Equal(t, 1, byID["b"].Priority)
	require.Equal(t, 2, byID["c"].Priority)
	require.Equal(t, 2, byID["d"].Priority)
	require.Equal(t, model.DefaultPriority, byID["e"].Priority)
}

func TestHeuristicSuggestOverdueCard(t *testing.T) {
	t.Parallel()

	deadline := fixedNow().Add(-time.Hour)
	resp, err := testProvider().Suggest(context.Background(), model.Card{
		ID: "c1", Title: "File taxes", Status: model.StatusTodo,
		Priority: 2, Deadline: &deadline,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Suggestions)
	require.LessOrEqual(t, len(resp.Suggestions), 4)
	require.NotEmpty(t, resp.Reasoning)
}

func TestHeuristicExtractStripsMarkersAndDedupes(t *testing.T) {
	t.Parallel()

	text := "- [ ] Email the professor about the essay\n" +
		"* buy groceries\n" +
		"1. urgent: submit visa application\n" +
		"- Buy groceries!\n" + // near-duplicate of the earlier line
		"x\n" + // too short to be a task
		"\n"

	tasks, summary, err := testProvider().Extract(context.Background(), text, "School")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, "Email the professor about the essay", tasks[0].Title)
	require.Contains(t, tasks[0].Tags, "email")
	require.Equal(t, "buy groceries", tasks[1].Title)
	require.Equal(t, 1, tasks[2].Priority, "urgent keyword bumps priority")
	require.Contains(t, summary, "3 tasks")
}

func TestHeuristicBriefingCounts(t *testing.T) {
	t.Parallel()

	summary, suggestions, err := testProvider().Briefing(context.Background(),
		make([]model.Card, 4), nil, 2, 1)
	require.NoError(t, err)
	require.Contains(t, summary, "4 open tasks")
	require.Contains(t, summary, "2 high-priority")
	require.Len(t, suggestions, 3)
}
