package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/canban/internal/api"
	"github.com/jask/canban/internal/config"
	"github.com/jask/canban/internal/server"
	"github.com/jask/canban/internal/server/ai"
	"github.com/jask/canban/internal/service"
	"github.com/jask/canban/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	headless := len(os.Args) > 1 && os.Args[1] == "serve"

	var backend *server.Server
	if cfg.Backend.Embedded || headless {
		backend, err = startBackend(cfg)
		if err != nil {
			log.Fatalf("backend: %v", err)
		}
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = backend.Shutdown(shutCtx)
		}()
	}

	if headless {
		log.Printf("serving on 127.0.0.1:%d", cfg.Server.Port)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return
	}

	client := api.NewClient(cfg.BackendURL())
	if err := waitHealthy(ctx, client); err != nil {
		log.Fatalf("backend unreachable at %s: %v", cfg.BackendURL(), err)
	}

	gateway := service.NewGateway(client, api.NewCache())

	p := tea.NewProgram(tui.New(ctx, cfg, gateway), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// startBackend opens the database, applies migrations and starts the REST
// listener on its own goroutine.
func startBackend(cfg config.Config) (*server.Server, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Server.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := server.OpenDB(cfg.Server.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := server.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	srv := server.New(db, aiProvider(cfg))
	go func() {
		if err := srv.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()
	return srv, nil
}

// aiProvider picks OpenAI when a key is configured, the offline heuristic
// otherwise.
func aiProvider(cfg config.Config) ai.Provider {
	if key := cfg.AI.ResolveAPIKey(); key != "" {
		return ai.NewOpenAIProvider(key, cfg.AI.Model)
	}
	return ai.NewHeuristicProvider()
}

// waitHealthy polls the backend until it answers, so the TUI never races the
// embedded listener's startup.
func waitHealthy(ctx context.Context, client *api.Client) error {
	var err error
	for i := 0; i < 50; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		err = client.Health(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return err
}
