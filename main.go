// Command quizmaze runs the quiz maze game.
//
// It supports three modes:
//  1. "play" (default) - interactive terminal game
//  2. "serve" - HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  3. "mcp" - MCP stdio server for AI agent clients
//
// Flags control host/port, the data directory, the maze directory, and
// which store backend (json or sqlite) holds game state.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	clipkg "github.com/urfave/cli/v3"

	"github.com/mazehack/quizmaze/api"
	"github.com/mazehack/quizmaze/cli"
	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/puzzle"
	"github.com/mazehack/quizmaze/game/service"
	"github.com/mazehack/quizmaze/game/session"
	"github.com/mazehack/quizmaze/game/store"
	"github.com/mazehack/quizmaze/game/store/jsonfile"
	"github.com/mazehack/quizmaze/game/store/sqlite"
	mcptransport "github.com/mazehack/quizmaze/transport/mcp"
	"github.com/mazehack/quizmaze/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Quiz Maze"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cmd := &clipkg.Command{
		Name:    "quizmaze",
		Usage:   "a turn-based maze game gated by quiz puzzles",
		Version: Version,
		Flags: []clipkg.Flag{
			&clipkg.StringFlag{
				Name:    "data-dir",
				Value:   "data",
				Usage:   "directory holding the persistent store",
				Sources: clipkg.EnvVars("QUIZMAZE_DATA_DIR"),
			},
			&clipkg.StringFlag{
				Name:    "mazes-dir",
				Value:   "mazes",
				Usage:   "directory holding maze definition files (JSON or YAML)",
				Sources: clipkg.EnvVars("QUIZMAZE_MAZES_DIR"),
			},
			&clipkg.StringFlag{
				Name:    "store",
				Value:   "json",
				Usage:   "store backend: json or sqlite",
				Sources: clipkg.EnvVars("QUIZMAZE_STORE"),
			},
		},
		Commands: []*clipkg.Command{
			{
				Name:  "play",
				Usage: "play interactively in the terminal (default)",
				Flags: []clipkg.Flag{
					&clipkg.StringFlag{
						Name:  "maze",
						Value: config.DefaultMazeName,
						Usage: "maze to play",
					},
				},
				Action: runPlay,
			},
			{
				Name:  "serve",
				Usage: "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags: []clipkg.Flag{
					&clipkg.StringFlag{
						Name:  "host",
						Value: "localhost",
						Usage: "HTTP server host",
					},
					&clipkg.IntFlag{
						Name:  "port",
						Value: 8080,
						Usage: "HTTP server port",
					},
				},
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "run an MCP stdio server for AI agent clients",
				Action: runMCP,
			},
		},
		DefaultCommand: "play",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// openStore opens the requested store backend under dataDir.
func openStore(dataDir, backend string) (store.Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	switch backend {
	case "json":
		return jsonfile.New(filepath.Join(dataDir, "games.json"))
	case "sqlite":
		return sqlite.Open(filepath.Join(dataDir, "quizmaze.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q (use json or sqlite)", backend)
	}
}

// runPlay starts the interactive terminal game.
func runPlay(ctx context.Context, cmd *clipkg.Command) error {
	st, err := openStore(cmd.String("data-dir"), cmd.String("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	return cli.Run(cli.Options{
		Store:    st,
		Mazes:    config.NewManager(cmd.String("mazes-dir")),
		Puzzles:  puzzle.NewRegistry(),
		MazeName: cmd.String("maze"),
		In:       os.Stdin,
		Out:      os.Stdout,
	})
}

// runServe starts the HTTP server and blocks until a shutdown signal.
func runServe(ctx context.Context, cmd *clipkg.Command) error {
	st, err := openStore(cmd.String("data-dir"), cmd.String("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	gameService := buildService(cmd.String("mazes-dir"), st)

	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)
	mcpAdapter := mcptransport.NewAdapter(gameService)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpAdapter.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("%s v%s listening on %s", AppName, Version, addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?gameId=<game_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// runMCP serves the MCP protocol over stdio.
func runMCP(ctx context.Context, cmd *clipkg.Command) error {
	st, err := openStore(cmd.String("data-dir"), cmd.String("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	adapter := mcptransport.NewAdapter(buildService(cmd.String("mazes-dir"), st))

	log.Println("Starting MCP stdio server...")
	if err := adapter.ServeStdio(); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// buildService wires the session cache, maze catalogue, puzzle registry,
// and store into the game service, and starts the session cleanup loop.
func buildService(mazesDir string, st store.Store) service.GameService {
	sessions := session.NewManager()
	go sessionCleanupRoutine(sessions)

	mazes := config.NewManager(mazesDir)
	return service.NewGameService(sessions, mazes, puzzle.NewRegistry(), st)
}

// sessionCleanupRoutine periodically evicts sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpired(24 * time.Hour)
		if removed > 0 {
			log.Printf("Evicted %d idle sessions", removed)
		}
	}
}
