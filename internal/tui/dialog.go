package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/canban/internal/model"
)

// dialogState backs the card and board editors and the extract textarea.
// One dialog is active at a time, keyed by the modal state.
type dialogState struct {
	title   string
	inputs  []textinput.Model
	focus   int
	cardID  string // editing an existing card when set
	boardID string // editing an existing board when set
	area    textarea.Model
}

const (
	cardFieldTitle = iota
	cardFieldDescription
	cardFieldPriority
	cardFieldDeadline
	cardFieldEstimate
	cardFieldTags
	cardFieldCount
)

func newInput(label, value string) textinput.Model {
	inp := textinput.New()
	inp.Prompt = label + ": "
	inp.SetValue(value)
	inp.CharLimit = 200
	return inp
}

func (a *App) openCardDialog(card *model.Card) {
	d := dialogState{title: "New card"}
	values := make([]string, cardFieldCount)
	if card != nil {
		d.title = "Edit card"
		d.cardID = card.ID
		values[cardFieldTitle] = card.Title
		if card.Description != nil {
			values[cardFieldDescription] = *card.Description
		}
		values[cardFieldPriority] = strconv.Itoa(card.Priority)
		if card.Deadline != nil {
			values[cardFieldDeadline] = card.Deadline.Format("2006-01-02")
		}
		if card.EstimatedHours != nil {
			values[cardFieldEstimate] = strconv.FormatFloat(*card.EstimatedHours, 'f', -1, 64)
		}
		values[cardFieldTags] = strings.Join(card.Tags, ", ")
	}
	labels := []string{"Title", "Description", "Priority (1-5)", "Deadline (YYYY-MM-DD)", "Estimated hours", "Tags (comma separated)"}
	for i, label := range labels {
		d.inputs = append(d.inputs, newInput(label, values[i]))
	}
	d.inputs[0].Focus()
	a.dialog = d
	a.modal = modalCard
	a.status = ""
}

const (
	boardFieldName = iota
	boardFieldDescription
	boardFieldColor
	boardFieldCount
)

func (a *App) openBoardDialog(board *model.Board) {
	d := dialogState{title: "New board"}
	values := make([]string, boardFieldCount)
	values[boardFieldColor] = model.DefaultBoardColor
	if board != nil {
		d.title = "Edit board"
		d.boardID = board.ID
		values[boardFieldName] = board.Name
		if board.Description != nil {
			values[boardFieldDescription] = *board.Description
		}
		values[boardFieldColor] = board.Color
	}
	labels := []string{"Name", "Description", "Color (#rrggbb)"}
	for i, label := range labels {
		d.inputs = append(d.inputs, newInput(label, values[i]))
	}
	d.inputs[0].Focus()
	a.dialog = d
	a.modal = modalBoard
	a.status = ""
}

func (a *App) openExtractDialog() {
	area := textarea.New()
	area.Placeholder = "Paste notes, emails or meeting minutes here..."
	area.SetHeight(8)
	area.Focus()
	a.dialog = dialogState{title: "Extract tasks", area: area}
	a.modal = modalExtract
	a.status = ""
}

func (a *App) closeDialog() {
	a.dialog = dialogState{}
	a.modal = modalNone
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalCard, modalBoard:
		return a.handleEditorKey(m)
	case modalConfirmArchive:
		switch m.String() {
		case "y", "Y":
			id := a.selectedBoardID()
			a.modal = modalNone
			if id == "" {
				return a, nil
			}
			a.selectTab(0) // back to the aggregate view
			return a, tea.Batch(a.archiveBoardCmd(id), a.loadCards())
		case "n", "N", "esc":
			a.modal = modalNone
		}
		return a, nil
	case modalExtract:
		switch m.String() {
		case "esc":
			a.closeDialog()
			return a, nil
		case "ctrl+s":
			text := strings.TrimSpace(a.dialog.area.Value())
			if text == "" {
				a.status = "paste some text first"
				return a, nil
			}
			a.closeDialog()
			a.status = "extracting tasks..."
			return a, a.extractCmd(text)
		}
		var cmd tea.Cmd
		a.dialog.area, cmd = a.dialog.area.Update(m)
		return a, cmd
	case modalExtractPreview:
		switch m.String() {
		case "enter":
			tasks := a.extracted
			a.modal = modalNone
			if len(tasks) == 0 {
				a.status = "no tasks found, nothing created"
				return a, nil
			}
			a.status = "creating cards..."
			return a, a.createExtractedCmd(tasks)
		case "esc", "q":
			a.modal = modalNone
			a.status = "extraction discarded"
		}
		return a, nil
	case modalBriefing, modalSuggest:
		switch m.String() {
		case "esc", "enter", "q":
			a.modal = modalNone
			a.briefing = nil
			a.suggestion = nil
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleEditorKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.closeDialog()
		return a, nil
	case "tab", "shift+tab", "down", "up":
		dir := 1
		if m.String() == "shift+tab" || m.String() == "up" {
			dir = -1
		}
		a.dialog.inputs[a.dialog.focus].Blur()
		a.dialog.focus = (a.dialog.focus + dir + len(a.dialog.inputs)) % len(a.dialog.inputs)
		a.dialog.inputs[a.dialog.focus].Focus()
		return a, nil
	case "enter":
		if a.modal == modalCard {
			return a.submitCardDialog()
		}
		return a.submitBoardDialog()
	}
	var cmd tea.Cmd
	a.dialog.inputs[a.dialog.focus], cmd = a.dialog.inputs[a.dialog.focus].Update(m)
	return a, cmd
}

func (a *App) submitCardDialog() (tea.Model, tea.Cmd) {
	get := func(i int) string { return strings.TrimSpace(a.dialog.inputs[i].Value()) }

	title := get(cardFieldTitle)
	if title == "" {
		a.status = "title must not be empty"
		return a, nil
	}

	priority := model.DefaultPriority
	if v := get(cardFieldPriority); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			a.status = "priority must be a number between 1 and 5"
			return a, nil
		}
		priority = model.ClampPriority(p)
	}

	var deadline *time.Time
	if v := get(cardFieldDeadline); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			a.status = "deadline must look like 2026-03-15"
			return a, nil
		}
		d = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, time.UTC)
		deadline = &d
	}

	var estimate *float64
	if v := get(cardFieldEstimate); v != "" {
		e, err := strconv.ParseFloat(v, 64)
		if err != nil {
			a.status = "estimated hours must be a number"
			return a, nil
		}
		estimate = &e
	}

	var description *string
	if v := get(cardFieldDescription); v != "" {
		description = &v
	}

	tags := []string{}
	for _, t := range strings.Split(get(cardFieldTags), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	cardID := a.dialog.cardID
	a.closeDialog()

	if cardID == "" {
		boardID := a.selectedBoardID()
		position := 0
		for _, c := range a.store.CardsByBoard(boardID) {
			if c.Status == model.StatusTodo {
				position++
			}
		}
		return a, a.createCardCmd(model.CardCreate{
			BoardID:        boardID,
			Title:          title,
			Description:    description,
			Status:         model.StatusTodo,
			Priority:       priority,
			EstimatedHours: estimate,
			Deadline:       deadline,
			Position:       position,
			Tags:           tags,
		})
	}
	return a, a.updateCardCmd(cardID, model.CardUpdate{
		Title:          &title,
		Description:    description,
		Priority:       &priority,
		EstimatedHours: estimate,
		Deadline:       deadline,
		Tags:           tags,
	})
}

func (a *App) submitBoardDialog() (tea.Model, tea.Cmd) {
	get := func(i int) string { return strings.TrimSpace(a.dialog.inputs[i].Value()) }

	name := get(boardFieldName)
	if name == "" {
		a.status = "name must not be empty"
		return a, nil
	}
	color := get(boardFieldColor)
	var description *string
	if v := get(boardFieldDescription); v != "" {
		description = &v
	}

	boardID := a.dialog.boardID
	a.closeDialog()

	if boardID == "" {
		return a, a.createBoardCmd(model.BoardCreate{
			Name:        name,
			Description: description,
			Color:       color,
			Position:    len(a.store.Boards()),
		})
	}
	update := model.BoardUpdate{Name: &name, Description: description}
	if color != "" {
		update.Color = &color
	}
	return a, a.updateBoardCmd(boardID, update)
}
