package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jask/canban/internal/model"
	"github.com/jask/canban/internal/server/repository"
)

func (s *Server) listBoards(c echo.Context) error {
	boards, err := s.boards.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, boards)
}

func (s *Server) listArchivedBoards(c echo.Context) error {
	boards, err := s.boards.ListArchived(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, boards)
}

func (s *Server) createBoard(c echo.Context) error {
	var in model.BoardCreate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid board payload")
	}
	name, err := model.ValidateTitle(in.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.Name = name
	board, err := s.boards.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) getBoard(c echo.Context) error {
	board, err := s.boards.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) updateBoard(c echo.Context) error {
	var in model.BoardUpdate
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid board payload")
	}
	if in.Name != nil {
		name, err := model.ValidateTitle(*in.Name)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		in.Name = &name
	}
	board, err := s.boards.Update(c.Request().Context(), c.Param("id"), in)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) deleteBoard(c echo.Context) error {
	err := s.boards.Archive(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Board archived successfully"})
}

func (s *Server) restoreBoard(c echo.Context) error {
	board, err := s.boards.Restore(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}
