package kanban

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/canban/internal/model"
)

func TestColumnCardsSingleBoard(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("b1")
	s.SetCards([]model.Card{
		card("a", "b1", model.StatusTodo, 1, 5),
		card("b", "b1", model.StatusTodo, 0, 1),
		card("c", "b2", model.StatusTodo, 0, 1), // other board, excluded
		card("d", "b1", model.StatusInProgress, 0, 1),
	})

	got := s.ColumnCards(model.StatusTodo)
	require.Len(t, got, 2)
	// position order, priority ignored in single-board view
	require.Equal(t, "b", got[0].ID)
	require.Equal(t, "a", got[1].ID)
}

func TestColumnCardsAllBoards(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select(AllBoards)
	s.SetCards([]model.Card{
		card("low", "b1", model.StatusTodo, 0, 4),
		card("high", "b2", model.StatusTodo, 3, 1),
		card("mid1", "b1", model.StatusTodo, 2, 2),
		card("mid0", "b2", model.StatusTodo, 1, 2),
	})

	got := s.ColumnCards(model.StatusTodo)
	require.Len(t, got, 4)
	require.Equal(t, []string{"high", "mid0", "mid1", "low"},
		[]string{got[0].ID, got[1].ID, got[2].ID, got[3].ID})

	// pairwise: lower priority number always sorts first, position breaks ties
	for i := 0; i < len(got)-1; i++ {
		a, b := got[i], got[i+1]
		require.LessOrEqual(t, a.Priority, b.Priority)
		if a.Priority == b.Priority {
			require.LessOrEqual(t, a.Position, b.Position)
		}
	}
}

func TestProjectionIsDerived(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Select("b1")
	s.SetCards([]model.Card{card("a", "b1", model.StatusTodo, 0, 3)})

	require.Len(t, s.ColumnCards(model.StatusTodo), 1)

	// store mutation is visible on the very next read
	s.UpdateCard("a", func(c *model.Card) { c.Status = model.StatusDone })
	require.Empty(t, s.ColumnCards(model.StatusTodo))
	require.Len(t, s.ColumnCards(model.StatusDone), 1)
}
