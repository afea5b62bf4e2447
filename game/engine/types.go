package engine

import (
	"errors"

	"github.com/mazehack/quizmaze/game/maze"
	"github.com/mazehack/quizmaze/game/puzzle"
	"github.com/mazehack/quizmaze/game/store"
)

// ErrUnknownGame is returned from NewEngine when the store has no record
// for the requested game id.
var ErrUnknownGame = errors.New("unknown game id")

// Topology answers movement, adjacency, and gate queries for a fixed maze.
// *maze.Maze satisfies it.
type Topology interface {
	MazeID() string
	MazeVersion() string
	Width() int
	Height() int
	Start() maze.Position
	Exit() maze.Position
	InBounds(p maze.Position) bool
	Cell(p maze.Position) maze.Cell
	AvailableMoves(p maze.Position) []maze.Direction
	NextPos(p maze.Position, d maze.Direction) (maze.Position, bool)
	GateIDFor(p maze.Position, d maze.Direction) (string, bool)
}

// PuzzleLookup resolves a gate id to a puzzle. Implementations must always
// return a usable puzzle, falling back for unknown ids.
type PuzzleLookup interface {
	Get(id string) puzzle.Puzzle
}

// Store is the slice of the persistence contract the engine consumes.
type Store interface {
	GetGame(gameID string) (*store.GameRecord, error)
	SaveGame(gameID string, state store.GameState, status store.Status) error
	RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics store.Metrics) error
}

// Command is a normalized (verb, args) pair. Verbs are matched
// case-insensitively after trimming.
type Command struct {
	Verb string   `json:"verb"`
	Args []string `json:"args,omitempty"`
}

// PendingPuzzle is the puzzle payload exposed while a gate blocks the
// player. Its presence tells the presentation layer to route input to the
// answer verb.
type PendingPuzzle struct {
	PuzzleID string `json:"puzzle_id"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
}

// View is a UI-agnostic projection of the session: everything a caller
// needs to render state without reaching back into the engine.
type View struct {
	Pos             store.Pos      `json:"pos"`
	CellTitle       string         `json:"cell_title"`
	CellDescription string         `json:"cell_description"`
	AvailableMoves  []string       `json:"available_moves"`
	PendingPuzzle   *PendingPuzzle `json:"pending_puzzle,omitempty"`
	IsComplete      bool           `json:"is_complete"`
	MoveCount       int            `json:"move_count"`
}

// Output wraps the post-command view with user-facing messages and a flag
// indicating whether this call persisted state.
type Output struct {
	View       View     `json:"view"`
	Messages   []string `json:"messages,omitempty"`
	DidPersist bool     `json:"did_persist"`
}

// User-facing messages emitted by the command handler.
const (
	MsgProgressSaved   = "Progress saved."
	MsgNoPendingPuzzle = "No pending puzzle."
	MsgCorrect         = "Correct."
	MsgIncorrect       = "Incorrect answer."
	MsgUnknownCommand  = "Unknown command."
	MsgInvalidDir      = "Invalid direction."
	MsgSolveFirst      = "Solve the pending puzzle first."
	MsgPuzzleRequired  = "Puzzle required."
	MsgBlockedPath     = "Blocked path."
)
