package kanban

import "github.com/jask/canban/internal/model"

// MoveIntent is the single persisted call a completed drag produces. Sibling
// renumbering stays local; the backend settles its own ordering from this.
type MoveIntent struct {
	CardID   string
	Status   model.CardStatus
	Position int
}

// Engine is the drag gesture state machine: Idle -> Dragging(activeID) ->
// Idle. It reads column snapshots through the store's projection and applies
// all local mutations synchronously, so the visible state is never
// half-reordered.
type Engine struct {
	store  *Store
	active string
	ghost  model.Card // captured at Start for the drag overlay
}

func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// Dragging reports whether a gesture is in flight.
func (e *Engine) Dragging() bool { return e.active != "" }

// ActiveID returns the id of the card being dragged, or "".
func (e *Engine) ActiveID() string { return e.active }

// Ghost returns the card captured at Start, for rendering only.
func (e *Engine) Ghost() (model.Card, bool) {
	return e.ghost, e.active != ""
}

// Start picks up a card. It is a no-op if the card is unknown.
func (e *Engine) Start(cardID string) bool {
	card, ok := e.store.CardByID(cardID)
	if !ok {
		return false
	}
	e.active = cardID
	e.ghost = card
	return true
}

// Over is advisory and may fire repeatedly while the pointer moves. When the
// target is a column, or a card in another column, the active card's status
// follows it immediately so the visual column tracks the hover. Positions
// are never touched here.
func (e *Engine) Over(targetID string) {
	if e.active == "" || targetID == "" {
		return
	}
	card, ok := e.store.CardByID(e.active)
	if !ok {
		return
	}
	if st, err := model.ParseStatus(targetID); err == nil {
		if card.Status != st {
			e.store.UpdateCard(e.active, func(c *model.Card) { c.Status = st })
		}
		return
	}
	if over, ok := e.store.CardByID(targetID); ok && card.Status != over.Status {
		e.store.UpdateCard(e.active, func(c *model.Card) { c.Status = over.Status })
	}
}

// Cancel aborts the gesture with zero mutation and zero persistence.
// The status may already have followed a hover target; callers that want a
// true rollback should refresh, matching the remote-truth recovery model.
func (e *Engine) Cancel() {
	e.active = ""
	e.ghost = model.Card{}
}

// End drops the active card on targetID (a column identifier or a card id)
// and returns the move intent to persist. ok is false when the gesture
// aborts: no target, self-drop, or unknown active card.
func (e *Engine) End(targetID string) (MoveIntent, bool) {
	activeID := e.active
	e.active = ""
	e.ghost = model.Card{}

	if activeID == "" || targetID == "" || targetID == activeID {
		return MoveIntent{}, false
	}
	card, ok := e.store.CardByID(activeID)
	if !ok {
		return MoveIntent{}, false
	}

	// Column identifier wins, then the card under the pointer, then the
	// active card's current status.
	targetStatus := card.Status
	if st, err := model.ParseStatus(targetID); err == nil {
		targetStatus = st
	} else if over, ok := e.store.CardByID(targetID); ok {
		targetStatus = over.Status
	}

	if card.Status != targetStatus {
		e.store.UpdateCard(activeID, func(c *model.Card) { c.Status = targetStatus })
	}

	column := e.store.ColumnCards(targetStatus)
	oldIdx, newIdx := -1, -1
	for i, c := range column {
		if c.ID == activeID {
			oldIdx = i
		}
		if c.ID == targetID {
			newIdx = i
		}
	}

	position := 0
	if newIdx >= 0 {
		reordered := moveCard(column, card, oldIdx, newIdx)
		position = newIdx
		for i, c := range reordered {
			if c.Position != i {
				idx := i
				e.store.UpdateCard(c.ID, func(cc *model.Card) { cc.Position = idx })
			}
		}
	} else {
		// Dropped on the column itself: land at the head. The backend
		// settles sibling order on its side.
		e.store.UpdateCard(activeID, func(cc *model.Card) { cc.Position = 0 })
	}

	return MoveIntent{CardID: activeID, Status: targetStatus, Position: position}, true
}

// moveCard removes the active card from its old index (appending first when
// absent) and reinserts it at the target index. A single-element list move,
// never a swap.
func moveCard(column []model.Card, active model.Card, from, to int) []model.Card {
	out := make([]model.Card, 0, len(column)+1)
	out = append(out, column...)
	if from < 0 {
		out = append(out, active)
		from = len(out) - 1
	}
	card := out[from]
	out = append(out[:from], out[from+1:]...)
	if to > len(out) {
		to = len(out)
	}
	out = append(out, model.Card{})
	copy(out[to+1:], out[to:])
	out[to] = card
	return out
}
