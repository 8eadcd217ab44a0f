package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/canban/internal/api"
	"github.com/jask/canban/internal/kanban"
	"github.com/jask/canban/internal/model"
)

func newGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *api.Cache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cache := api.NewCache()
	return NewGateway(api.NewClient(srv.URL), cache), cache
}

func TestCreateCardValidatesBeforeRequest(t *testing.T) {
	t.Parallel()

	requests := 0
	g, cache := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(model.Card{ID: "c1"})
	})

	err := g.CreateCard(context.Background(), model.CardCreate{Title: "   ", BoardID: "b1"}, "b1")
	require.ErrorIs(t, err, model.ErrEmptyTitle)

	err = g.CreateCard(context.Background(), model.CardCreate{Title: "Task"}, "b1")
	require.ErrorIs(t, err, model.ErrNoBoard)

	require.Zero(t, requests, "invalid input must not reach the backend")
	require.EqualValues(t, 0, cache.Generation(api.CardsKey("b1")))

	require.NoError(t, g.CreateCard(context.Background(), model.CardCreate{Title: " Task ", BoardID: "b1", Priority: 9}, "b1"))
	require.Equal(t, 1, requests)
	require.EqualValues(t, 1, cache.Generation(api.CardsKey("b1")))
}

func TestMoveCardInvalidatesSelection(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody model.CardMove
	g, cache := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(model.Card{ID: "c1"})
	})

	intent := kanban.MoveIntent{CardID: "c1", Status: model.StatusInProgress, Position: 3}
	require.NoError(t, g.MoveCard(context.Background(), intent, kanban.AllBoards))

	require.Equal(t, "/api/cards/c1/move", gotPath)
	require.NotNil(t, gotBody.Status)
	require.Equal(t, model.StatusInProgress, *gotBody.Status)
	require.NotNil(t, gotBody.Position)
	require.Equal(t, 3, *gotBody.Position)
	require.EqualValues(t, 1, cache.Generation(api.CardsKey(kanban.AllBoards)))
	require.EqualValues(t, 0, cache.Generation(api.KeyBoards))
}

func TestMoveCardFailureLeavesCacheAlone(t *testing.T) {
	t.Parallel()

	g, cache := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Card not found"}`, http.StatusNotFound)
	})

	intent := kanban.MoveIntent{CardID: "gone", Status: model.StatusTodo, Position: 0}
	err := g.MoveCard(context.Background(), intent, "b1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.EqualValues(t, 0, cache.Generation(api.CardsKey("b1")))
}

func TestDeleteBoardInvalidatesBothCollections(t *testing.T) {
	t.Parallel()

	g, cache := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Board archived"})
	})

	require.NoError(t, g.DeleteBoard(context.Background(), "b1", "b1"))
	require.EqualValues(t, 1, cache.Generation(api.KeyBoards))
	require.EqualValues(t, 1, cache.Generation(api.CardsKey("b1")))
}

func TestFetchCardsRoutesBySelection(t *testing.T) {
	t.Parallel()

	var paths []string
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode([]model.Card{})
	})

	cards, err := g.FetchCards(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, cards)
	require.Empty(t, paths, "no selection means no fetch")

	_, err = g.FetchCards(context.Background(), kanban.AllBoards)
	require.NoError(t, err)
	_, err = g.FetchCards(context.Background(), "b1")
	require.NoError(t, err)
	require.Equal(t, []string{"/api/cards", "/api/cards/board/b1"}, paths)
}

func TestPrioritizeScope(t *testing.T) {
	t.Parallel()

	var gotReq model.PrioritizeRequest
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(model.PrioritizeResponse{CardsUpdated: 2})
	})

	resp, err := g.Prioritize(context.Background(), kanban.AllBoards)
	require.NoError(t, err)
	require.Equal(t, 2, resp.CardsUpdated)
	require.Nil(t, gotReq.BoardID, "aggregate view prioritizes every board")

	_, err = g.Prioritize(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, gotReq.BoardID)
	require.Equal(t, "b1", *gotReq.BoardID)
}

func TestExtractTasksGuards(t *testing.T) {
	t.Parallel()

	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.ExtractTasksResponse{})
	})

	_, err := g.ExtractTasks(context.Background(), "  \n ", "b1")
	require.Error(t, err)

	_, err = g.ExtractTasks(context.Background(), "ship the release", kanban.AllBoards)
	require.ErrorIs(t, err, model.ErrNoBoard)

	_, err = g.ExtractTasks(context.Background(), "ship the release", "b1")
	require.NoError(t, err)
}

func TestCreateExtractedTasksSkipsEmptyPreview(t *testing.T) {
	t.Parallel()

	requests := 0
	g, cache := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(model.CreateExtractedTasksResponse{CreatedCount: 1})
	})

	n, err := g.CreateExtractedTasks(context.Background(), nil, "b1")
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, requests)

	n, err = g.CreateExtractedTasks(context.Background(), []model.ExtractedTask{{Title: "Follow up"}}, "b1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.EqualValues(t, 1, cache.Generation(api.CardsKey("b1")))
}
