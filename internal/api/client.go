// Package api is the typed client for the CanBan REST backend, plus the
// query cache that turns mutation success into refetches.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jask/canban/internal/model"
)

// Client talks to the backend, local or remote. All calls are synchronous;
// callers run them inside tea commands to keep the UI responsive.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: backend returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Health checks backend liveness (the "test connection" action).
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Boards lists active boards ordered by position.
func (c *Client) Boards(ctx context.Context) ([]model.Board, error) {
	var out []model.Board
	err := c.do(ctx, http.MethodGet, "/api/boards", nil, &out)
	return out, err
}

// ArchivedBoards lists soft-deleted boards.
func (c *Client) ArchivedBoards(ctx context.Context) ([]model.Board, error) {
	var out []model.Board
	err := c.do(ctx, http.MethodGet, "/api/boards/archived", nil, &out)
	return out, err
}

func (c *Client) CreateBoard(ctx context.Context, in model.BoardCreate) (model.Board, error) {
	var out model.Board
	err := c.do(ctx, http.MethodPost, "/api/boards", in, &out)
	return out, err
}

func (c *Client) UpdateBoard(ctx context.Context, id string, in model.BoardUpdate) (model.Board, error) {
	var out model.Board
	err := c.do(ctx, http.MethodPut, "/api/boards/"+id, in, &out)
	return out, err
}

// DeleteBoard archives the board and all its cards.
func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/boards/"+id, nil, nil)
}

// RestoreBoard brings an archived board (and its cards) back.
func (c *Client) RestoreBoard(ctx context.Context, id string) (model.Board, error) {
	var out model.Board
	err := c.do(ctx, http.MethodPost, "/api/boards/"+id+"/restore", nil, &out)
	return out, err
}

// Cards lists every active card across boards, priority-ordered.
func (c *Client) Cards(ctx context.Context) ([]model.Card, error) {
	var out []model.Card
	err := c.do(ctx, http.MethodGet, "/api/cards", nil, &out)
	return out, err
}

// CardsByBoard lists a board's active cards, position-ordered.
func (c *Client) CardsByBoard(ctx context.Context, boardID string) ([]model.Card, error) {
	var out []model.Card
	err := c.do(ctx, http.MethodGet, "/api/cards/board/"+boardID, nil, &out)
	return out, err
}

func (c *Client) Card(ctx context.Context, id string) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodGet, "/api/cards/"+id, nil, &out)
	return out, err
}

func (c *Client) CreateCard(ctx context.Context, in model.CardCreate) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPost, "/api/cards", in, &out)
	return out, err
}

func (c *Client) UpdateCard(ctx context.Context, id string, in model.CardUpdate) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPut, "/api/cards/"+id, in, &out)
	return out, err
}

func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/"+id, nil, nil)
}

// MoveCard persists the single move intent of a reconciled drag.
func (c *Client) MoveCard(ctx context.Context, id string, in model.CardMove) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPost, "/api/cards/"+id+"/move", in, &out)
	return out, err
}

// ReorderCards bulk-updates positions (and optionally statuses).
func (c *Client) ReorderCards(ctx context.Context, positions []model.CardPosition) error {
	return c.do(ctx, http.MethodPost, "/api/cards/reorder", positions, nil)
}

// Prioritize asks the AI to re-rank one board, or all boards when boardID
// is nil.
func (c *Client) Prioritize(ctx context.Context, boardID *string) (model.PrioritizeResponse, error) {
	var out model.PrioritizeResponse
	err := c.do(ctx, http.MethodPost, "/api/ai/prioritize", model.PrioritizeRequest{BoardID: boardID}, &out)
	return out, err
}

func (c *Client) Suggest(ctx context.Context, cardID string) (model.SuggestResponse, error) {
	var out model.SuggestResponse
	err := c.do(ctx, http.MethodPost, "/api/ai/suggest", model.SuggestRequest{CardID: cardID}, &out)
	return out, err
}

func (c *Client) DailyBriefing(ctx context.Context) (model.DailyBriefing, error) {
	var out model.DailyBriefing
	err := c.do(ctx, http.MethodGet, "/api/ai/daily-briefing", nil, &out)
	return out, err
}

func (c *Client) ExtractTasks(ctx context.Context, text, boardID string) (model.ExtractTasksResponse, error) {
	var out model.ExtractTasksResponse
	err := c.do(ctx, http.MethodPost, "/api/ai/extract-tasks", model.ExtractTasksRequest{Text: text, BoardID: boardID}, &out)
	return out, err
}

func (c *Client) CreateExtractedTasks(ctx context.Context, tasks []model.ExtractedTask) (model.CreateExtractedTasksResponse, error) {
	var out model.CreateExtractedTasksResponse
	err := c.do(ctx, http.MethodPost, "/api/ai/create-extracted-tasks", model.CreateExtractedTasksRequest{Tasks: tasks}, &out)
	return out, err
}
