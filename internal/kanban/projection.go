package kanban

import (
	"sort"

	"github.com/jask/canban/internal/model"
)

// ColumnCards derives the ordered card list for one column under the current
// selection. It holds no state of its own; every call reads the store fresh.
//
// Single-board policy: filter by board and status, order by position.
// All-boards policy: filter by status only, order by priority (P1 first),
// ties broken by position.
func (s *Store) ColumnCards(status model.CardStatus) []model.Card {
	if s.selected == AllBoards {
		return projectAggregate(s.cards, status)
	}
	return projectColumn(s.cards, s.selected, status)
}

func projectColumn(cards []model.Card, boardID string, status model.CardStatus) []model.Card {
	var out []model.Card
	for _, c := range cards {
		if c.BoardID == boardID && c.Status == status {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func projectAggregate(cards []model.Card, status model.CardStatus) []model.Card {
	var out []model.Card
	for _, c := range cards {
		if c.Status == status {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Position < out[j].Position
	})
	return out
}
