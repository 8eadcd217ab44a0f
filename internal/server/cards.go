package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jask/canban/internal/model"
	"github.com/jask/canban/internal/server/repository"
)

func (s *Server) listCards(c echo.Context) error {
	cards, err := s.cards.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (s *Server) listCardsByBoard(c echo.Context) error {
	cards, err := s.cards.ListByBoard(c.Request().Context(), c.Param("boardId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (s *Server) createCard(c echo.Context) error {
	var in model.CardCreate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid card payload")
	}
	title, err := model.ValidateTitle(in.Title)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.Title = title
	if in.BoardID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "board_id is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if in.Priority != 0 {
		in.Priority = model.ClampPriority(in.Priority)
	}
	card, err := s.cards.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) getCard(c echo.Context) error {
	card, err := s.cards.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) updateCard(c echo.Context) error {
	var in model.CardUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid card payload")
	}
	if in.Title != nil {
		title, err := model.ValidateTitle(*in.Title)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		in.Title = &title
	}
	if in.Status != nil && !in.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if in.Priority != nil {
		p := model.ClampPriority(*in.Priority)
		in.Priority = &p
	}
	card, err := s.cards.Update(c.Request().Context(), c.Param("id"), in)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) deleteCard(c echo.Context) error {
	err := s.cards.Archive(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Card archived successfully"})
}

func (s *Server) moveCard(c echo.Context) error {
	var in model.CardMove
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid move payload")
	}
	if in.Status != nil && !in.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	card, err := s.cards.Move(c.Request().Context(), c.Param("id"), in)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) reorderCards(c echo.Context) error {
	var positions []model.CardPosition
	if err := c.Bind(&positions); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reorder payload")
	}
	for _, p := range positions {
		if p.Status != nil && !p.Status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}
	if err := s.cards.Reorder(c.Request().Context(), positions); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Cards reordered successfully"})
}
