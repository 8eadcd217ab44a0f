package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/canban/internal/api"
	"github.com/jask/canban/internal/config"
	"github.com/jask/canban/internal/kanban"
	"github.com/jask/canban/internal/model"
	"github.com/jask/canban/internal/service"
)

// App ties together the board view, dialogs and the sync gateway. The store
// and engine are only touched from Update, so every mutation is serialized
// through the event loop.
type App struct {
	ctx     context.Context
	cfg     config.Config
	gateway *service.Gateway
	store   *kanban.Store
	engine  *kanban.Engine

	view  viewState
	modal modalState

	tabs   []boardTab
	tabIdx int
	colIdx int
	rowIdx int

	archived   []model.Board
	archCursor int

	dialog dialogState

	extracted      []model.ExtractedTask
	extractSummary string
	briefing       *model.DailyBriefing
	suggestion     *model.SuggestResponse
	suggestTitle   string

	seenBoards uint64
	seenCards  uint64

	status string
	width  int
	height int
}

// boardTab is one entry of the tab strip: the aggregate view plus every
// active board.
type boardTab struct {
	id    string
	name  string
	color string
}

type viewState string

const (
	viewBoard    viewState = "board"
	viewArchived viewState = "archived"
)

type modalState string

const (
	modalNone           modalState = ""
	modalCard           modalState = "card"
	modalBoard          modalState = "board"
	modalConfirmArchive modalState = "confirmArchive"
	modalExtract        modalState = "extract"
	modalExtractPreview modalState = "extractPreview"
	modalBriefing       modalState = "briefing"
	modalSuggest        modalState = "suggest"
)

func New(ctx context.Context, cfg config.Config, gateway *service.Gateway) *App {
	store := kanban.NewStore()
	store.Select(kanban.AllBoards)
	return &App{
		ctx:     ctx,
		cfg:     cfg,
		gateway: gateway,
		store:   store,
		engine:  kanban.NewEngine(store),
		view:    viewBoard,
		tabs:    []boardTab{{id: kanban.AllBoards, name: "All"}},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadBoards(), a.loadCards())
}

// loads

func (a *App) loadBoards() tea.Cmd {
	gen := a.gateway.Cache().Generation(api.KeyBoards)
	return func() tea.Msg {
		boards, err := a.gateway.FetchBoards(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return boardsMsg{boards: boards, gen: gen}
	}
}

func (a *App) loadCards() tea.Cmd {
	sel := a.store.Selected()
	gen := a.gateway.Cache().Generation(api.CardsKey(sel))
	return func() tea.Msg {
		cards, err := a.gateway.FetchCards(a.ctx, sel)
		if err != nil {
			return errMsg{err}
		}
		return cardsMsg{cards: cards, selection: sel, gen: gen}
	}
}

func (a *App) loadArchived() tea.Cmd {
	return func() tea.Msg {
		boards, err := a.gateway.FetchArchivedBoards(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return archivedMsg(boards)
	}
}

// refreshStale reloads whichever collections a settled mutation invalidated.
func (a *App) refreshStale() tea.Cmd {
	var cmds []tea.Cmd
	if a.gateway.Cache().Stale(api.KeyBoards, a.seenBoards) {
		cmds = append(cmds, a.loadBoards())
	}
	if a.gateway.Cache().Stale(api.CardsKey(a.store.Selected()), a.seenCards) {
		cmds = append(cmds, a.loadCards())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.view == viewArchived {
			return a.handleArchivedKey(m)
		}
		return a.handleBoardKey(m)
	case boardsMsg:
		a.store.SetBoards(m.boards)
		a.seenBoards = m.gen
		a.rebuildTabs()
		return a, nil
	case cardsMsg:
		if m.selection != a.store.Selected() {
			return a, nil // selection changed while the fetch was in flight
		}
		a.store.SetCards(m.cards)
		a.seenCards = m.gen
		a.clampCursor()
		return a, nil
	case archivedMsg:
		a.archived = []model.Board(m)
		if a.archCursor >= len(a.archived) {
			a.archCursor = 0
		}
		return a, nil
	case statusMsg:
		a.status = string(m)
		return a, a.refreshStale()
	case errMsg:
		a.status = "error: " + m.Error()
		return a, a.refreshStale()
	case extractMsg:
		a.extracted = m.Tasks
		a.extractSummary = m.Summary
		a.modal = modalExtractPreview
		a.status = ""
		return a, nil
	case briefingMsg:
		b := model.DailyBriefing(m)
		a.briefing = &b
		a.modal = modalBriefing
		a.status = ""
		return a, nil
	case suggestMsg:
		s := model.SuggestResponse(m)
		a.suggestion = &s
		a.modal = modalSuggest
		a.status = ""
		return a, nil
	}
	return a, nil
}

func (a *App) handleBoardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "tab":
		a.selectTab(a.tabIdx + 1)
		return a, a.loadCards()
	case "shift+tab":
		a.selectTab(a.tabIdx - 1)
		return a, a.loadCards()
	case "left", "h":
		if a.colIdx > 0 {
			a.colIdx--
			a.clampCursor()
			a.hoverAfterCarry()
		}
	case "right", "l":
		if a.colIdx < len(model.Statuses)-1 {
			a.colIdx++
			a.clampCursor()
			a.hoverAfterCarry()
		}
	case "up", "k":
		if a.rowIdx > 0 {
			a.rowIdx--
			a.hoverAfterCarry()
		}
	case "down", "j":
		if a.rowIdx < len(a.columnCards())-1 {
			a.rowIdx++
			a.hoverAfterCarry()
		}
	case " ":
		if a.engine.Dragging() {
			return a, nil
		}
		if card, ok := a.cardUnderCursor(); ok {
			a.engine.Start(card.ID)
			a.status = "carrying " + card.Title + " (enter to drop, esc to cancel)"
		}
	case "enter":
		if a.engine.Dragging() {
			return a, a.dropCarried()
		}
		if card, ok := a.cardUnderCursor(); ok {
			a.openCardDialog(&card)
		}
	case "esc":
		if a.engine.Dragging() {
			a.engine.Cancel()
			a.status = "move cancelled"
			// The hover may already have recolored the card; remote truth
			// comes back on refetch.
			return a, a.loadCards()
		}
		a.status = ""
	case "n":
		if a.selectedBoardID() == "" {
			a.status = "switch to a board tab to add cards"
			return a, nil
		}
		a.openCardDialog(nil)
	case "d":
		if card, ok := a.cardUnderCursor(); ok {
			return a, a.deleteCardCmd(card)
		}
	case "s":
		if card, ok := a.cardUnderCursor(); ok {
			a.status = "asking for suggestions..."
			a.suggestTitle = card.Title
			return a, a.suggestCmd(card.ID)
		}
	case "p":
		a.status = "prioritizing..."
		return a, a.prioritizeCmd()
	case "b":
		a.status = "building briefing..."
		return a, a.briefingCmd()
	case "x":
		if a.selectedBoardID() == "" {
			a.status = "switch to a board tab to extract tasks"
			return a, nil
		}
		a.openExtractDialog()
	case "N":
		a.openBoardDialog(nil)
	case "R":
		if board, ok := a.currentBoard(); ok {
			a.openBoardDialog(&board)
		} else {
			a.status = "no board selected"
		}
	case "X":
		if _, ok := a.currentBoard(); ok {
			a.modal = modalConfirmArchive
		} else {
			a.status = "no board selected"
		}
	case "A":
		a.view = viewArchived
		a.status = ""
		return a, a.loadArchived()
	case "r":
		a.status = "refreshing..."
		return a, tea.Batch(a.loadBoards(), a.loadCards())
	case "c":
		a.status = "testing connection..."
		return a, a.testConnectionCmd()
	}
	return a, nil
}

func (a *App) handleArchivedKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "A":
		a.view = viewBoard
		a.status = ""
	case "up", "k":
		if a.archCursor > 0 {
			a.archCursor--
		}
	case "down", "j":
		if a.archCursor < len(a.archived)-1 {
			a.archCursor++
		}
	case "enter":
		if len(a.archived) == 0 {
			return a, nil
		}
		board := a.archived[a.archCursor]
		a.view = viewBoard
		return a, a.restoreBoardCmd(board)
	}
	return a, nil
}

// dropCarried completes the keyboard drag: the card under the cursor is the
// drop target, or the column itself when the cursor sits on the carried card
// (which happens after hovering into an empty column) or on no card at all.
func (a *App) dropCarried() tea.Cmd {
	target := string(a.columnStatus())
	if card, ok := a.cardUnderCursor(); ok && card.ID != a.engine.ActiveID() {
		target = card.ID
	} else if ok {
		if ghost, _ := a.engine.Ghost(); ghost.Status == card.Status {
			a.engine.Cancel()
			a.status = "not moved"
			return nil
		}
	}
	intent, ok := a.engine.End(target)
	if !ok {
		a.status = "not moved"
		return nil
	}
	a.status = "saving move..."
	return a.moveCmd(intent)
}

// hoverAfterCarry mirrors pointer drag-over: while carrying, the card under
// the cursor (or the bare column) becomes the hover target.
func (a *App) hoverAfterCarry() {
	if !a.engine.Dragging() {
		return
	}
	if card, ok := a.cardUnderCursor(); ok && card.ID != a.engine.ActiveID() {
		a.engine.Over(card.ID)
		return
	}
	a.engine.Over(string(a.columnStatus()))
}

// cursor helpers

func (a *App) columnStatus() model.CardStatus {
	return model.Statuses[a.colIdx]
}

func (a *App) columnCards() []model.Card {
	return a.store.ColumnCards(a.columnStatus())
}

func (a *App) cardUnderCursor() (model.Card, bool) {
	cards := a.columnCards()
	if a.rowIdx < 0 || a.rowIdx >= len(cards) {
		return model.Card{}, false
	}
	return cards[a.rowIdx], true
}

func (a *App) clampCursor() {
	if n := len(a.columnCards()); a.rowIdx >= n {
		a.rowIdx = n - 1
	}
	if a.rowIdx < 0 {
		a.rowIdx = 0
	}
}

func (a *App) rebuildTabs() {
	selected := a.store.Selected()
	a.tabs = []boardTab{{id: kanban.AllBoards, name: "All"}}
	for _, b := range a.store.Boards() {
		a.tabs = append(a.tabs, boardTab{id: b.ID, name: b.Name, color: b.Color})
	}
	a.tabIdx = 0
	for i, t := range a.tabs {
		if t.id == selected {
			a.tabIdx = i
		}
	}
	a.store.Select(a.tabs[a.tabIdx].id)
}

func (a *App) selectTab(idx int) {
	if len(a.tabs) == 0 {
		return
	}
	a.tabIdx = ((idx % len(a.tabs)) + len(a.tabs)) % len(a.tabs)
	a.store.Select(a.tabs[a.tabIdx].id)
	a.rowIdx = 0
	if a.engine.Dragging() {
		a.engine.Cancel()
	}
}

// selectedBoardID returns the current board id, or "" for the aggregate tab.
func (a *App) selectedBoardID() string {
	if sel := a.store.Selected(); sel != kanban.AllBoards {
		return sel
	}
	return ""
}

func (a *App) currentBoard() (model.Board, bool) {
	id := a.selectedBoardID()
	if id == "" {
		return model.Board{}, false
	}
	return a.store.BoardByID(id)
}

// commands

func (a *App) moveCmd(intent kanban.MoveIntent) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		if err := a.gateway.MoveCard(a.ctx, intent, sel); err != nil {
			return errMsg{fmt.Errorf("move not saved: %w", err)}
		}
		return statusMsg("card moved")
	}
}

func (a *App) createCardCmd(in model.CardCreate) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		if err := a.gateway.CreateCard(a.ctx, in, sel); err != nil {
			return errMsg{err}
		}
		return statusMsg("card created")
	}
}

func (a *App) updateCardCmd(id string, in model.CardUpdate) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		if err := a.gateway.UpdateCard(a.ctx, id, in, sel); err != nil {
			return errMsg{err}
		}
		return statusMsg("card updated")
	}
}

func (a *App) deleteCardCmd(card model.Card) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		if err := a.gateway.DeleteCard(a.ctx, card.ID, sel); err != nil {
			return errMsg{err}
		}
		return statusMsg("archived " + card.Title)
	}
}

func (a *App) createBoardCmd(in model.BoardCreate) tea.Cmd {
	return func() tea.Msg {
		if err := a.gateway.CreateBoard(a.ctx, in); err != nil {
			return errMsg{err}
		}
		return statusMsg("board created")
	}
}

func (a *App) updateBoardCmd(id string, in model.BoardUpdate) tea.Cmd {
	return func() tea.Msg {
		if err := a.gateway.UpdateBoard(a.ctx, id, in); err != nil {
			return errMsg{err}
		}
		return statusMsg("board updated")
	}
}

func (a *App) archiveBoardCmd(id string) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		if err := a.gateway.DeleteBoard(a.ctx, id, sel); err != nil {
			return errMsg{err}
		}
		return statusMsg("board archived (A to restore)")
	}
}

func (a *App) restoreBoardCmd(board model.Board) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		if err := a.gateway.RestoreBoard(a.ctx, board.ID, sel); err != nil {
			return errMsg{err}
		}
		return statusMsg("restored " + board.Name)
	}
}

func (a *App) prioritizeCmd() tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		resp, err := a.gateway.Prioritize(a.ctx, sel)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("prioritized %d cards", resp.CardsUpdated))
	}
}

func (a *App) suggestCmd(cardID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.gateway.Suggest(a.ctx, cardID)
		if err != nil {
			return errMsg{err}
		}
		return suggestMsg(resp)
	}
}

func (a *App) briefingCmd() tea.Cmd {
	return func() tea.Msg {
		b, err := a.gateway.DailyBriefing(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return briefingMsg(b)
	}
}

func (a *App) extractCmd(text string) tea.Cmd {
	boardID := a.selectedBoardID()
	return func() tea.Msg {
		resp, err := a.gateway.ExtractTasks(a.ctx, text, boardID)
		if err != nil {
			return errMsg{err}
		}
		return extractMsg(resp)
	}
}

func (a *App) createExtractedCmd(tasks []model.ExtractedTask) tea.Cmd {
	sel := a.store.Selected()
	return func() tea.Msg {
		n, err := a.gateway.CreateExtractedTasks(a.ctx, tasks, sel)
		if err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("created %d cards", n))
	}
}

func (a *App) testConnectionCmd() tea.Cmd {
	url := a.cfg.BackendURL()
	return func() tea.Msg {
		if err := a.gateway.TestConnection(a.ctx); err != nil {
			return errMsg{fmt.Errorf("backend unreachable at %s: %w", url, err)}
		}
		return statusMsg("backend healthy at " + url)
	}
}

// messages

type boardsMsg struct {
	boards []model.Board
	gen    uint64
}

type cardsMsg struct {
	cards     []model.Card
	selection string
	gen       uint64
}

type archivedMsg []model.Board

type statusMsg string

type errMsg struct{ error }

type extractMsg model.ExtractTasksResponse

type briefingMsg model.DailyBriefing

type suggestMsg model.SuggestResponse
