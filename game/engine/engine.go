package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mazehack/quizmaze/game/maze"
	"github.com/mazehack/quizmaze/game/store"
)

// GameEngine is the stateful command interpreter for one game session. It
// owns position, movement legality, puzzle-gate enforcement, completion
// detection, and the save/restore contract. An engine instance assumes
// exclusive ownership of its session; it is not safe for concurrent use.
type GameEngine struct {
	topo     Topology
	puzzles  PuzzleLookup
	store    Store
	playerID string
	gameID   string

	pos           maze.Position
	moveCount     int
	solvedGates   map[string]bool
	pendingGateID string
	startedAt     string
	isComplete    bool

	// scoreRecorded guards against duplicate score writes within this
	// engine instance's lifetime. It is never persisted.
	scoreRecorded bool
}

// NewEngine loads the persisted record for gameID and reconstructs the
// session from it. It fails with ErrUnknownGame when the store has no such
// game. A pending puzzle obligation is never persisted, so the session
// always starts with none; completion is taken from the record's status
// tag rather than recomputed from position, to tolerate maze edits across
// versions.
func NewEngine(topo Topology, puzzles PuzzleLookup, st Store, playerID, gameID string) (*GameEngine, error) {
	rec, err := st.GetGame(gameID)
	if err != nil {
		if err == store.ErrGameNotFound {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGame, gameID)
		}
		return nil, fmt.Errorf("load game %q: %w", gameID, err)
	}

	e := &GameEngine{
		topo:     topo,
		puzzles:  puzzles,
		store:    st,
		playerID: playerID,
		gameID:   gameID,
	}

	pos := maze.Position{Row: rec.State.Pos.Row, Col: rec.State.Pos.Col}
	if !topo.InBounds(pos) {
		pos = topo.Start()
	}
	e.pos = pos
	e.moveCount = rec.State.MoveCount
	e.solvedGates = make(map[string]bool, len(rec.State.SolvedGates))
	for _, id := range rec.State.SolvedGates {
		e.solvedGates[id] = true
	}
	e.startedAt = rec.State.StartedAt
	e.isComplete = rec.Status == store.StatusCompleted

	return e, nil
}

// PlayerID returns the player this session belongs to.
func (e *GameEngine) PlayerID() string { return e.playerID }

// GameID returns the durable game id this session is bound to.
func (e *GameEngine) GameID() string { return e.gameID }

// MazeID identifies the maze this session runs on.
func (e *GameEngine) MazeID() string { return e.topo.MazeID() }

// MazeVersion is the layout version of the session's maze.
func (e *GameEngine) MazeVersion() string { return e.topo.MazeVersion() }

// View returns the current state projection without side effects.
func (e *GameEngine) View() View {
	return e.makeView()
}

// Handle validates and applies one command, returning the resulting view
// plus any user-facing messages. Malformed or currently-illegal input
// never produces an error: it degrades to a message with an unchanged
// view. A non-nil error means persistence or scoring failed; the
// in-memory session may already have mutated (see package doc).
func (e *GameEngine) Handle(cmd Command) (Output, error) {
	verb := strings.ToLower(strings.TrimSpace(cmd.Verb))
	args := cmd.Args

	switch verb {
	case "look", "map":
		return Output{View: e.makeView()}, nil

	case "save":
		status := store.StatusInProgress
		if e.isComplete {
			status = store.StatusCompleted
		}
		if err := e.persist(status); err != nil {
			return Output{}, err
		}
		return Output{View: e.makeView(), Messages: []string{MsgProgressSaved}, DidPersist: true}, nil

	case "answer":
		return e.handleAnswer(args)
	}

	var dir maze.Direction
	var ok bool
	switch verb {
	case "n", "s", "e", "w":
		dir, ok = maze.ParseDirection(verb)
	case "go":
		if len(args) > 0 {
			dir, ok = maze.ParseDirection(args[0])
		}
	default:
		return Output{View: e.makeView(), Messages: []string{MsgUnknownCommand}}, nil
	}

	if !ok {
		return Output{View: e.makeView(), Messages: []string{MsgInvalidDir}}, nil
	}
	return e.handleMove(dir)
}

// handleAnswer checks the submitted text against the pending puzzle. With
// nothing pending it is an informational no-op.
func (e *GameEngine) handleAnswer(args []string) (Output, error) {
	if e.pendingGateID == "" {
		return Output{View: e.makeView(), Messages: []string{MsgNoPendingPuzzle}}, nil
	}

	answer := strings.TrimSpace(strings.Join(args, " "))
	p := e.puzzles.Get(e.pendingGateID)
	if !p.Check(answer, e.serializeState()) {
		return Output{View: e.makeView(), Messages: []string{MsgIncorrect}}, nil
	}

	e.solvedGates[e.pendingGateID] = true
	e.pendingGateID = ""
	if err := e.persist(store.StatusInProgress); err != nil {
		return Output{}, err
	}
	return Output{View: e.makeView(), Messages: []string{MsgCorrect}, DidPersist: true}, nil
}

// handleMove applies the movement rules: pending puzzles block all
// movement, unsolved gates convert the attempt into a pending puzzle, and
// missing edges refuse without mutation. A committed move increments the
// move count by exactly one and checks completion.
func (e *GameEngine) handleMove(dir maze.Direction) (Output, error) {
	if e.pendingGateID != "" {
		return Output{View: e.makeView(), Messages: []string{MsgSolveFirst}}, nil
	}

	if gateID, ok := e.topo.GateIDFor(e.pos, dir); ok && !e.solvedGates[gateID] {
		e.pendingGateID = gateID
		return Output{View: e.makeView(), Messages: []string{MsgPuzzleRequired}}, nil
	}

	next, ok := e.topo.NextPos(e.pos, dir)
	if !ok {
		return Output{View: e.makeView(), Messages: []string{MsgBlockedPath}}, nil
	}

	e.pos = next
	e.moveCount++

	completed, err := e.maybeFinish()
	if err != nil {
		return Output{}, err
	}
	if !completed {
		if err := e.persist(store.StatusInProgress); err != nil {
			return Output{}, err
		}
	}
	return Output{View: e.makeView(), DidPersist: true}, nil
}

// maybeFinish checks completion after a committed move. On first
// detection it persists the completed record and records the score exactly
// once for this engine instance.
func (e *GameEngine) maybeFinish() (bool, error) {
	if e.pos != e.topo.Exit() {
		return false, nil
	}
	e.isComplete = true
	if err := e.persist(store.StatusCompleted); err != nil {
		return true, err
	}

	if !e.scoreRecorded {
		metrics := store.Metrics{
			ElapsedSeconds: elapsedSeconds(e.startedAt),
			Moves:          e.moveCount,
			PuzzlesSolved:  len(e.solvedGates),
		}
		if err := e.store.RecordScore(e.playerID, e.gameID, e.topo.MazeID(), e.topo.MazeVersion(), metrics); err != nil {
			return true, fmt.Errorf("record score: %w", err)
		}
		e.scoreRecorded = true
	}
	return true, nil
}

func (e *GameEngine) persist(status store.Status) error {
	if err := e.store.SaveGame(e.gameID, e.serializeState(), status); err != nil {
		return fmt.Errorf("save game %q: %w", e.gameID, err)
	}
	return nil
}

// serializeState produces the canonical persisted state shape: sorted,
// deduplicated gate ids and ISO-8601 Z timestamps.
func (e *GameEngine) serializeState() store.GameState {
	gates := make([]string, 0, len(e.solvedGates))
	for id := range e.solvedGates {
		gates = append(gates, id)
	}
	sort.Strings(gates)

	st := store.GameState{
		Pos:         store.Pos{Row: e.pos.Row, Col: e.pos.Col},
		MoveCount:   e.moveCount,
		SolvedGates: gates,
		StartedAt:   e.startedAt,
	}
	if e.isComplete {
		st.EndedAt = store.NowISO()
	}
	return st
}

func (e *GameEngine) makeView() View {
	cell := e.topo.Cell(e.pos)
	return View{
		Pos:             store.Pos{Row: e.pos.Row, Col: e.pos.Col},
		CellTitle:       cell.Title,
		CellDescription: cell.Description,
		AvailableMoves:  e.availableMoveTokens(),
		PendingPuzzle:   e.pendingPuzzlePayload(),
		IsComplete:      e.isComplete,
		MoveCount:       e.moveCount,
	}
}

// availableMoveTokens lists the traversable direction tokens from the
// current position, ascending alphabetically.
func (e *GameEngine) availableMoveTokens() []string {
	dirs := e.topo.AvailableMoves(e.pos)
	tokens := make([]string, 0, len(dirs))
	for _, d := range dirs {
		tokens = append(tokens, d.String())
	}
	sort.Strings(tokens)
	return tokens
}

func (e *GameEngine) pendingPuzzlePayload() *PendingPuzzle {
	if e.pendingGateID == "" {
		return nil
	}
	p := e.puzzles.Get(e.pendingGateID)
	return &PendingPuzzle{PuzzleID: p.ID, Title: p.Title, Prompt: p.Prompt}
}

// elapsedSeconds returns the whole seconds since startedAt, clamped at
// zero. Absent or unparsable timestamps count as zero.
func elapsedSeconds(startedAt string) int {
	if startedAt == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return 0
	}
	secs := int(time.Since(t).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
