package service

import (
	"time"

	"github.com/mazehack/quizmaze/game/engine"
)

// GameInfo describes one game to API callers.
type GameInfo struct {
	GameID       string      `json:"game_id"`
	PlayerID     string      `json:"player_id"`
	PlayerHandle string      `json:"player_handle,omitempty"`
	MazeID       string      `json:"maze_id"`
	MazeVersion  string      `json:"maze_version"`
	View         engine.View `json:"view"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CommandResult is the outcome of running one command line against a game.
type CommandResult struct {
	GameID     string      `json:"game_id"`
	View       engine.View `json:"view"`
	Messages   []string    `json:"messages,omitempty"`
	DidPersist bool        `json:"did_persist"`
}
