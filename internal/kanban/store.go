// Package kanban holds the client-side board/card state: the entity store,
// the column projections derived from it, and the drag reconciliation engine
// that turns a completed gesture into consistent local state plus one
// persisted move intent.
package kanban

import "github.com/jask/canban/internal/model"

// AllBoards is the virtual selection that aggregates every board.
const AllBoards = "all"

// Store is the in-memory source of truth for rendering. It is owned by the
// application root and passed to consumers; mutations are synchronous and
// never trigger network calls themselves.
type Store struct {
	boards   []model.Board
	cards    []model.Card
	selected string // board id, AllBoards, or "" (nothing selected yet)
}

func NewStore() *Store {
	return &Store{}
}

// SetBoards replaces the board collection (bulk, after a remote fetch).
func (s *Store) SetBoards(boards []model.Board) {
	s.boards = boards
}

// SetCards replaces the card collection (bulk, after a remote fetch).
func (s *Store) SetCards(cards []model.Card) {
	s.cards = cards
}

func (s *Store) Boards() []model.Board { return s.boards }
func (s *Store) Cards() []model.Card   { return s.cards }

// Select sets the active board selection (a board id or AllBoards).
func (s *Store) Select(id string) { s.selected = id }

func (s *Store) Selected() string { return s.selected }

func (s *Store) AddBoard(b model.Board) {
	s.boards = append(s.boards, b)
}

// UpdateBoard applies fn to the board with the given id, if present.
func (s *Store) UpdateBoard(id string, fn func(*model.Board)) bool {
	for i := range s.boards {
		if s.boards[i].ID == id {
			fn(&s.boards[i])
			return true
		}
	}
	return false
}

// RemoveBoard drops the board and cascades to its cards, mirroring the
// backend's archive cascade.
func (s *Store) RemoveBoard(id string) {
	boards := s.boards[:0]
	for _, b := range s.boards {
		if b.ID != id {
			boards = append(boards, b)
		}
	}
	s.boards = boards

	cards := s.cards[:0]
	for _, c := range s.cards {
		if c.BoardID != id {
			cards = append(cards, c)
		}
	}
	s.cards = cards
}

func (s *Store) AddCard(c model.Card) {
	s.cards = append(s.cards, c)
}

// UpdateCard applies fn to the card with the given id, if present.
func (s *Store) UpdateCard(id string, fn func(*model.Card)) bool {
	for i := range s.cards {
		if s.cards[i].ID == id {
			fn(&s.cards[i])
			return true
		}
	}
	return false
}

func (s *Store) RemoveCard(id string) {
	cards := s.cards[:0]
	for _, c := range s.cards {
		if c.ID != id {
			cards = append(cards, c)
		}
	}
	s.cards = cards
}

// CardByID returns a copy of the card, if present.
func (s *Store) CardByID(id string) (model.Card, bool) {
	for _, c := range s.cards {
		if c.ID == id {
			return c, true
		}
	}
	return model.Card{}, false
}

// BoardByID returns a copy of the board, if present.
func (s *Store) BoardByID(id string) (model.Board, bool) {
	for _, b := range s.boards {
		if b.ID == id {
			return b, true
		}
	}
	return model.Board{}, false
}

// CardsByBoard returns the cards owned by a board, unsorted.
func (s *Store) CardsByBoard(boardID string) []model.Card {
	var out []model.Card
	for _, c := range s.cards {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	return out
}

// CardsByStatus returns a board's cards in one status column, by position.
func (s *Store) CardsByStatus(boardID string, status model.CardStatus) []model.Card {
	return projectColumn(s.cards, boardID, status)
}
