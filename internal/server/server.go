// Package server is the embedded REST backend. The desktop binary runs it
// in-process by default; `canban serve` runs it headless so other clients
// can share the same database.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jask/canban/internal/server/ai"
	"github.com/jask/canban/internal/server/repository"
)

type Server struct {
	echo   *echo.Echo
	db     *sql.DB
	boards *repository.BoardRepo
	cards  *repository.CardRepo
	ai     ai.Provider
}

func New(db *sql.DB, provider ai.Provider) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:   e,
		db:     db,
		boards: repository.NewBoardRepo(db),
		cards:  repository.NewCardRepo(db),
		ai:     provider,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)

	api := s.echo.Group("/api")

	api.GET("/boards", s.listBoards)
	api.GET("/boards/archived", s.listArchivedBoards)
	api.POST("/boards", s.createBoard)
	api.GET("/boards/:id", s.getBoard)
	api.PUT("/boards/:id", s.updateBoard)
	api.DELETE("/boards/:id", s.deleteBoard)
	api.POST("/boards/:id/restore", s.restoreBoard)

	api.GET("/cards", s.listCards)
	api.GET("/cards/board/:boardId", s.listCardsByBoard)
	api.POST("/cards", s.createCard)
	api.POST("/cards/reorder", s.reorderCards)
	api.GET("/cards/:id", s.getCard)
	api.PUT("/cards/:id", s.updateCard)
	api.DELETE("/cards/:id", s.deleteCard)
	api.POST("/cards/:id/move", s.moveCard)

	aig := api.Group("/ai")
	aig.POST("/prioritize", s.prioritize)
	aig.POST("/suggest", s.suggest)
	aig.GET("/daily-briefing", s.dailyBriefing)
	aig.POST("/extract-tasks", s.extractTasks)
	aig.POST("/create-extracted-tasks", s.createExtractedTasks)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start blocks serving on the loopback interface.
func (s *Server) Start(port int) error {
	return s.echo.Start(fmt.Sprintf("127.0.0.1:%d", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
