package kanban

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/canban/internal/model"
)

func card(id, boardID string, status model.CardStatus, pos, priority int) model.Card {
	return model.Card{
		ID:       id,
		BoardID:  boardID,
		Title:    "card " + id,
		Status:   status,
		Priority: priority,
		Position: pos,
	}
}

func TestStoreCardMutations(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.SetCards([]model.Card{
		card("a", "b1", model.StatusTodo, 0, 3),
		card("b", "b1", model.StatusTodo, 1, 3),
	})

	s.AddCard(card("c", "b1", model.StatusDone, 0, 1))
	require.Len(t, s.Cards(), 3)

	ok := s.UpdateCard("b", func(c *model.Card) { c.Position = 5 })
	require.True(t, ok)
	got, ok := s.CardByID("b")
	require.True(t, ok)
	require.Equal(t, 5, got.Position)

	require.False(t, s.UpdateCard("missing", func(c *model.Card) { c.Position = 9 }))

	s.RemoveCard("a")
	_, ok = s.CardByID("a")
	require.False(t, ok)
	require.Len(t, s.Cards(), 2)
}

func TestRemoveBoardCascades(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.SetBoards([]model.Board{{ID: "b1", Name: "Research"}, {ID: "b2", Name: "Chores"}})
	s.SetCards([]model.Card{
		card("a", "b1", model.StatusTodo, 0, 3),
		card("b", "b1", model.StatusDone, 0, 3),
		card("c", "b2", model.StatusTodo, 0, 3),
	})

	s.RemoveBoard("b1")

	require.Len(t, s.Boards(), 1)
	require.Equal(t, "b2", s.Boards()[0].ID)
	require.Len(t, s.Cards(), 1)
	require.Equal(t, "c", s.Cards()[0].ID)
	require.Empty(t, s.CardsByBoard("b1"))
}

func TestCardsByStatusSortedByPosition(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.SetCards([]model.Card{
		card("x", "b1", model.StatusTodo, 2, 3),
		card("y", "b1", model.StatusTodo, 0, 3),
		card("z", "b1", model.StatusTodo, 1, 3),
		card("other", "b2", model.StatusTodo, 0, 3),
		card("done", "b1", model.StatusDone, 0, 3),
	})

	got := s.CardsByStatus("b1", model.StatusTodo)
	require.Len(t, got, 3)
	require.Equal(t, []string{"y", "z", "x"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSelection(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.Empty(t, s.Selected())
	s.Select(AllBoards)
	require.Equal(t, AllBoards, s.Selected())
	s.Select("b1")
	require.Equal(t, "b1", s.Selected())
}
