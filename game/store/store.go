// Package store defines the durable record shapes and the Store contract
// the rest of the game programs against. Implementations live in the
// jsonfile and sqlite subpackages.
package store

import (
	"errors"
	"time"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// Status tags a persisted game record.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Pos is the persisted form of a grid coordinate.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GameState is the canonical persisted shape of one game's progress.
// SolvedGates is kept sorted and deduplicated; timestamps are ISO-8601 UTC
// strings with a 'Z' suffix and no sub-second precision.
type GameState struct {
	Pos         Pos      `json:"pos"`
	MoveCount   int      `json:"move_count"`
	SolvedGates []string `json:"solved_gates"`
	StartedAt   string   `json:"started_at"`
	EndedAt     string   `json:"ended_at,omitempty"`
}

// GameRecord is one game's durable record: its state plus a status tag.
type GameRecord struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"player_id"`
	MazeID      string    `json:"maze_id"`
	MazeVersion string    `json:"maze_version"`
	State       GameState `json:"state"`
	Status      Status    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// Player identifies a registered player handle.
type Player struct {
	ID        string `json:"id"`
	Handle    string `json:"handle"`
	CreatedAt string `json:"created_at"`
}

// Metrics are the scoring figures recorded on completion.
type Metrics struct {
	ElapsedSeconds int `json:"elapsed_seconds"`
	Moves          int `json:"moves"`
	PuzzlesSolved  int `json:"puzzles_solved"`
}

// ScoreRecord is one appended score ledger entry.
type ScoreRecord struct {
	PlayerID    string  `json:"player_id"`
	GameID      string  `json:"game_id"`
	MazeID      string  `json:"maze_id"`
	MazeVersion string  `json:"maze_version"`
	Metrics     Metrics `json:"metrics"`
	RecordedAt  string  `json:"recorded_at"`
}

// Store is the persistence contract: a durable record per game, a player
// registry, and an append-only score ledger. TopScores ordering is the
// store's responsibility (fewest moves first, then fastest).
type Store interface {
	GetGame(gameID string) (*GameRecord, error)
	SaveGame(gameID string, state GameState, status Status) error
	GetOrCreatePlayer(handle string) (*Player, error)
	CreateGame(playerID, mazeID, mazeVersion string, initial GameState) (*GameRecord, error)
	RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics Metrics) error
	TopScores(mazeID string, limit int) ([]ScoreRecord, error)
	Close() error
}

// NowISO returns the current UTC time in the persisted timestamp format:
// ISO-8601 with 'Z' suffix and second precision.
func NowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
