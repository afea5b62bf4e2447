package service

import (
	"context"
	"sync"
	"time"

	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/engine"
	"github.com/mazehack/quizmaze/game/maze"
	"github.com/mazehack/quizmaze/game/store"
)

// GameService defines all game-related operations exposed to the
// presentation layers (HTTP, WebSocket, MCP, CLI).
type GameService interface {
	// Game lifecycle
	NewGame(ctx context.Context, playerHandle, mazeName string) (*GameInfo, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)

	// Gameplay
	Command(ctx context.Context, gameID, line string) (*CommandResult, error)
	View(ctx context.Context, gameID string) (*engine.View, error)

	// Catalogue and scores
	ListMazes(ctx context.Context) ([]config.MazeInfo, error)
	TopScores(ctx context.Context, mazeID string, limit int) ([]store.ScoreRecord, error)
}

// SessionManager caches live engine sessions keyed by game id.
type SessionManager interface {
	Add(sess *Session) error
	Get(gameID string) (*Session, error)
	Delete(gameID string) error
	List() []*Session
	Count() int
}

// MazeCatalog resolves maze layouts by name or by persisted maze id.
// config.Manager satisfies it.
type MazeCatalog interface {
	Load(name string) (*maze.Maze, error)
	ByID(mazeID string) (*maze.Maze, error)
	List() ([]config.MazeInfo, error)
}

// Session is one live game: an engine instance plus access metadata.
// Handle and View serialize access, so a session is safe to share across
// transports.
type Session struct {
	GameID         string
	PlayerID       string
	PlayerHandle   string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Handle runs one command through the session's engine. Calls are
// serialized per session.
func (s *Session) Handle(cmd engine.Command) (engine.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccessedAt = time.Now()
	return s.Engine.Handle(cmd)
}

// View returns the current projection without mutating anything.
func (s *Session) View() engine.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.View()
}

// LastAccess reports when the session last handled a command. It takes
// the session lock so idle sweeps can read it while commands run.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastAccessedAt
}
