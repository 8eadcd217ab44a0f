// Package service orchestrates remote persistence for the TUI: every
// mutation goes to the backend first, then invalidates the matching query
// key so the next read refetches authoritative state. Only the drag engine
// mutates the store ahead of persistence; everything here relies on
// invalidation + refetch.
package service

import (
	"context"
	"fmt"

	"github.com/jask/canban/internal/api"
	"github.com/jask/canban/internal/kanban"
	"github.com/jask/canban/internal/model"
)

// Gateway wraps the REST client with cache bookkeeping. It never touches the
// entity store: fetched collections are returned to the caller, which applies
// them from the main event loop.
type Gateway struct {
	client *api.Client
	cache  *api.Cache
}

func NewGateway(client *api.Client, cache *api.Cache) *Gateway {
	return &Gateway{client: client, cache: cache}
}

func (g *Gateway) Cache() *api.Cache { return g.cache }

// TestConnection pings the backend health endpoint.
func (g *Gateway) TestConnection(ctx context.Context) error {
	return g.client.Health(ctx)
}

// FetchBoards returns the active boards. Callers treat an error as an empty
// dataset and retry on the next manual refresh.
func (g *Gateway) FetchBoards(ctx context.Context) ([]model.Board, error) {
	return g.client.Boards(ctx)
}

func (g *Gateway) FetchArchivedBoards(ctx context.Context) ([]model.Board, error) {
	return g.client.ArchivedBoards(ctx)
}

// FetchCards returns the card set for the selection: every card for the
// aggregate view, a single board's cards otherwise, nothing when no board
// is selected yet.
func (g *Gateway) FetchCards(ctx context.Context, selection string) ([]model.Card, error) {
	switch selection {
	case "":
		return nil, nil
	case kanban.AllBoards:
		return g.client.Cards(ctx)
	default:
		return g.client.CardsByBoard(ctx, selection)
	}
}

func (g *Gateway) CreateBoard(ctx context.Context, in model.BoardCreate) error {
	name, err := model.ValidateTitle(in.Name)
	if err != nil {
		return err
	}
	in.Name = name
	if in.Color == "" {
		in.Color = model.DefaultBoardColor
	}
	if _, err := g.client.CreateBoard(ctx, in); err != nil {
		return err
	}
	g.cache.Invalidate(api.KeyBoards)
	return nil
}

func (g *Gateway) UpdateBoard(ctx context.Context, id string, in model.BoardUpdate) error {
	if in.Name != nil {
		name, err := model.ValidateTitle(*in.Name)
		if err != nil {
			return err
		}
		in.Name = &name
	}
	if _, err := g.client.UpdateBoard(ctx, id, in); err != nil {
		return err
	}
	g.cache.Invalidate(api.KeyBoards)
	return nil
}

// DeleteBoard archives the board; its cards vanish from board-scoped views
// on the refetch the invalidation triggers.
func (g *Gateway) DeleteBoard(ctx context.Context, id, selection string) error {
	if err := g.client.DeleteBoard(ctx, id); err != nil {
		return err
	}
	g.cache.Invalidate(api.KeyBoards)
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

func (g *Gateway) RestoreBoard(ctx context.Context, id, selection string) error {
	if _, err := g.client.RestoreBoard(ctx, id); err != nil {
		return err
	}
	g.cache.Invalidate(api.KeyBoards)
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

// CreateCard validates client-side before any request is issued: no network
// round-trip for an empty title.
func (g *Gateway) CreateCard(ctx context.Context, in model.CardCreate, selection string) error {
	title, err := model.ValidateTitle(in.Title)
	if err != nil {
		return err
	}
	if in.BoardID == "" {
		return model.ErrNoBoard
	}
	in.Title = title
	if in.Priority != 0 {
		in.Priority = model.ClampPriority(in.Priority)
	}
	if _, err := g.client.CreateCard(ctx, in); err != nil {
		return err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

func (g *Gateway) UpdateCard(ctx context.Context, id string, in model.CardUpdate, selection string) error {
	if in.Title != nil {
		title, err := model.ValidateTitle(*in.Title)
		if err != nil {
			return err
		}
		in.Title = &title
	}
	if in.Priority != nil {
		p := model.ClampPriority(*in.Priority)
		in.Priority = &p
	}
	if _, err := g.client.UpdateCard(ctx, id, in); err != nil {
		return err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

func (g *Gateway) DeleteCard(ctx context.Context, id, selection string) error {
	if err := g.client.DeleteCard(ctx, id); err != nil {
		return err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

// MoveCard persists a reconciled drag. The optimistic local mutation already
// happened; a failure here is the caller's to log, not roll back.
func (g *Gateway) MoveCard(ctx context.Context, intent kanban.MoveIntent, selection string) error {
	status := intent.Status
	position := intent.Position
	_, err := g.client.MoveCard(ctx, intent.CardID, model.CardMove{
		Status:   &status,
		Position: &position,
	})
	if err != nil {
		return err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

// ReorderCards persists a batch of positions in one call.
func (g *Gateway) ReorderCards(ctx context.Context, positions []model.CardPosition, selection string) error {
	if len(positions) == 0 {
		return nil
	}
	if err := g.client.ReorderCards(ctx, positions); err != nil {
		return err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return nil
}

// Prioritize runs AI prioritization over the selection (all boards for the
// aggregate view).
func (g *Gateway) Prioritize(ctx context.Context, selection string) (model.PrioritizeResponse, error) {
	var boardID *string
	if selection != "" && selection != kanban.AllBoards {
		boardID = &selection
	}
	resp, err := g.client.Prioritize(ctx, boardID)
	if err != nil {
		return model.PrioritizeResponse{}, err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return resp, nil
}

func (g *Gateway) Suggest(ctx context.Context, cardID string) (model.SuggestResponse, error) {
	return g.client.Suggest(ctx, cardID)
}

func (g *Gateway) DailyBriefing(ctx context.Context) (model.DailyBriefing, error) {
	return g.client.DailyBriefing(ctx)
}

// ExtractTasks sends pasted text for extraction. The text and a target board
// are required client-side.
func (g *Gateway) ExtractTasks(ctx context.Context, text, boardID string) (model.ExtractTasksResponse, error) {
	trimmed, err := model.ValidateTitle(text)
	if err != nil {
		return model.ExtractTasksResponse{}, fmt.Errorf("nothing to extract: %w", err)
	}
	if boardID == "" || boardID == kanban.AllBoards {
		return model.ExtractTasksResponse{}, model.ErrNoBoard
	}
	return g.client.ExtractTasks(ctx, trimmed, boardID)
}

// CreateExtractedTasks persists previewed tasks. An empty preview issues no
// call and leaves the store untouched.
func (g *Gateway) CreateExtractedTasks(ctx context.Context, tasks []model.ExtractedTask, selection string) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}
	resp, err := g.client.CreateExtractedTasks(ctx, tasks)
	if err != nil {
		return 0, err
	}
	g.cache.Invalidate(api.CardsKey(selection))
	return resp.CreatedCount, nil
}
