package kanban

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/canban/internal/model"
)

func requireDense(t *testing.T, cards []model.Card) {
	t.Helper()
	for i, c := range cards {
		require.Equal(t, i, c.Position, "card %s at index %d", c.ID, i)
	}
}

func TestDragReorderWithinColumn(t *testing.T) {
	t.Parallel()

	// board "Research": A(todo,0), C(todo,1); drag A onto C
	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{
		card("A", "B1", model.StatusTodo, 0, 3),
		card("C", "B1", model.StatusTodo, 1, 3),
	})
	e := NewEngine(s)

	require.True(t, e.Start("A"))
	intent, ok := e.End("C")
	require.True(t, ok)
	require.Equal(t, MoveIntent{CardID: "A", Status: model.StatusTodo, Position: 1}, intent)

	got := s.ColumnCards(model.StatusTodo)
	require.Equal(t, []string{"C", "A"}, []string{got[0].ID, got[1].ID})
	requireDense(t, got)
}

func TestDragToEmptyColumn(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{
		card("A", "B1", model.StatusTodo, 0, 3),
	})
	e := NewEngine(s)

	require.True(t, e.Start("A"))
	e.Over(string(model.StatusInProgress))
	intent, ok := e.End(string(model.StatusInProgress))
	require.True(t, ok)
	require.Equal(t, MoveIntent{CardID: "A", Status: model.StatusInProgress, Position: 0}, intent)

	require.Empty(t, s.ColumnCards(model.StatusTodo))
	got := s.ColumnCards(model.StatusInProgress)
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0].ID)
	requireDense(t, got)
}

func TestDragOntoCardInOtherColumn(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{
		card("A", "B1", model.StatusTodo, 0, 3),
		card("B", "B1", model.StatusInProgress, 0, 3),
		card("C", "B1", model.StatusInProgress, 1, 3),
	})
	e := NewEngine(s)

	require.True(t, e.Start("A"))
	e.Over("B") // hover over a card in in_progress: status follows eagerly
	got, _ := s.CardByID("A")
	require.Equal(t, model.StatusInProgress, got.Status)

	intent, ok := e.End("C")
	require.True(t, ok)
	require.Equal(t, model.StatusInProgress, intent.Status)
	require.Equal(t, "A", intent.CardID)

	column := s.ColumnCards(model.StatusInProgress)
	require.Len(t, column, 3)
	requireDense(t, column)
	require.Equal(t, intent.Position, indexOf(column, "A"))
	require.Empty(t, s.ColumnCards(model.StatusTodo))
}

func TestDragSelfDropIsNoop(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{
		card("A", "B1", model.StatusTodo, 0, 3),
		card("B", "B1", model.StatusTodo, 1, 3),
	})
	e := NewEngine(s)

	require.True(t, e.Start("A"))
	_, ok := e.End("A")
	require.False(t, ok)
	require.False(t, e.Dragging())

	got := s.ColumnCards(model.StatusTodo)
	require.Equal(t, []string{"A", "B"}, []string{got[0].ID, got[1].ID})
	requireDense(t, got)
}

func TestDragNoTargetAborts(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{card("A", "B1", model.StatusTodo, 0, 3)})
	e := NewEngine(s)

	require.True(t, e.Start("A"))
	_, ok := e.End("")
	require.False(t, ok)

	got, _ := s.CardByID("A")
	require.Equal(t, model.StatusTodo, got.Status)
	require.Equal(t, 0, got.Position)
}

func TestDragCancel(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{card("A", "B1", model.StatusTodo, 0, 3)})
	e := NewEngine(s)

	require.True(t, e.Start("A"))
	_, ok := e.Ghost()
	require.True(t, ok)
	e.Cancel()
	require.False(t, e.Dragging())
	_, ok = e.Ghost()
	require.False(t, ok)

	_, ok = e.End("A")
	require.False(t, ok, "ended gesture must not emit an intent")
}

func TestDragStartUnknownCard(t *testing.T) {
	t.Parallel()

	s := NewStore()
	e := NewEngine(s)
	require.False(t, e.Start("ghost"))
	require.False(t, e.Dragging())
}

func TestDragDensePositionsProperty(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("B1")
	s.SetCards([]model.Card{
		card("a", "B1", model.StatusTodo, 0, 3),
		card("b", "B1", model.StatusTodo, 1, 3),
		card("c", "B1", model.StatusTodo, 2, 3),
		card("d", "B1", model.StatusTodo, 3, 3),
	})
	e := NewEngine(s)

	// walk "d" to the head one drop at a time; destination stays dense
	for _, target := range []string{"c", "b", "a"} {
		require.True(t, e.Start("d"))
		_, ok := e.End(target)
		require.True(t, ok)
		requireDense(t, s.ColumnCards(model.StatusTodo))
	}

	got := s.ColumnCards(model.StatusTodo)
	require.Equal(t, "d", got[0].ID)
}

func TestDragAggregateViewOrdersByPriority(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select(AllBoards)
	s.SetCards([]model.Card{
		card("p1", "B1", model.StatusTodo, 0, 1),
		card("p3", "B2", model.StatusTodo, 0, 3),
		card("p5", "B1", model.StatusTodo, 1, 5),
	})
	e := NewEngine(s)

	require.True(t, e.Start("p5"))
	intent, ok := e.End("p3")
	require.True(t, ok)
	require.Equal(t, "p5", intent.CardID)

	// aggregate ordering is still priority-first after renumbering
	got := s.ColumnCards(model.StatusTodo)
	require.Equal(t, "p1", got[0].ID)
}

func indexOf(cards []model.Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
