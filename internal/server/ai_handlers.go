package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jask/canban/internal/model"
	"github.com/jask/canban/internal/server/repository"
)

func (s *Server) boardNames(ctx context.Context) (map[string]string, error) {
	boards, err := s.boards.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(boards))
	for _, b := range boards {
		names[b.ID] = b.Name
	}
	return names, nil
}

func (s *Server) prioritize(c echo.Context) error {
	var req model.PrioritizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prioritize payload")
	}
	ctx := c.Request().Context()

	cards, err := s.cards.ListForBoardScope(ctx, req.BoardID)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return c.JSON(http.StatusOK, model.PrioritizeResponse{Priorities: []model.PriorityAssignment{}})
	}

	names, err := s.boardNames(ctx)
	if err != nil {
		return err
	}
	assignments, err := s.ai.Prioritize(ctx, cards, names)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "AI prioritization failed: "+err.Error())
	}
	applied, err := s.cards.ApplyPriorities(ctx, assignments, s.ai.Name())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.PrioritizeResponse{
		CardsUpdated: applied,
		Priorities:   assignments,
	})
}

func (s *Server) suggest(c echo.Context) error {
	var req model.SuggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid suggest payload")
	}
	ctx := c.Request().Context()

	card, err := s.cards.Get(ctx, req.CardID)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	if err != nil {
		return err
	}
	resp, err := s.ai.Suggest(ctx, card)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "AI suggestions failed: "+err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) dailyBriefing(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now().UTC()

	open, err := s.cards.ListOpen(ctx)
	if err != nil {
		return err
	}

	var high, overdue []model.BriefingTask
	highCards := 0
	for _, card := range open {
		if card.Priority <= 2 {
			highCards++
			if len(high) < 5 {
				high = append(high, model.BriefingTask{ID: card.ID, Title: card.Title, Priority: card.Priority})
			}
		}
		if card.Overdue(now) {
			t := model.BriefingTask{ID: card.ID, Title: card.Title}
			if card.Deadline != nil {
				t.Deadline = card.Deadline.Format(time.RFC3339)
			}
			overdue = append(overdue, t)
		}
	}
	if high == nil {
		high = []model.BriefingTask{}
	}
	if overdue == nil {
		overdue = []model.BriefingTask{}
	}

	briefing := model.DailyBriefing{
		Date:              now.Format("2006-01-02"),
		HighPriorityTasks: high,
		OverdueTasks:      overdue,
	}

	names, err := s.boardNames(ctx)
	if err != nil {
		return err
	}
	summary, suggestions, err := s.ai.Briefing(ctx, open, names, highCards, len(overdue))
	if err != nil {
		// Serve a basic briefing when the provider is unavailable.
		briefing.Summary = fmt.Sprintf("You have %d high-priority tasks and %d overdue items.", highCards, len(overdue))
		briefing.Suggestions = []string{
			"Review your high-priority tasks first",
			"Check for any overdue items",
		}
	} else {
		briefing.Summary = summary
		briefing.Suggestions = suggestions
	}
	return c.JSON(http.StatusOK, briefing)
}

func (s *Server) extractTasks(c echo.Context) error {
	var req model.ExtractTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid extract payload")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	ctx := c.Request().Context()

	boardName := "Unknown"
	if board, err := s.boards.Get(ctx, req.BoardID); err == nil {
		boardName = board.Name
	}

	tasks, summary, err := s.ai.Extract(ctx, req.Text, boardName)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "AI task extraction failed: "+err.Error())
	}
	for i := range tasks {
		tasks[i].BoardID = req.BoardID
		tasks[i].Status = string(model.StatusTodo)
		tasks[i].Position = 0
	}
	if tasks == nil {
		tasks = []model.ExtractedTask{}
	}
	return c.JSON(http.StatusOK, model.ExtractTasksResponse{Tasks: tasks, Summary: summary})
}

func (s *Server) createExtractedTasks(c echo.Context) error {
	var req model.CreateExtractedTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid create-tasks payload")
	}
	created, err := s.cards.CreateExtracted(c.Request().Context(), req.Tasks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.CreateExtractedTasksResponse{
		CreatedCount: len(created),
		Cards:        created,
	})
}
