package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/engine"
	"github.com/mazehack/quizmaze/game/store"
)

var ErrGameNotFound = errors.New("game not found")

// gameServiceImpl implements GameService on top of a session cache, a
// maze catalogue, a puzzle registry, and the persistent store.
type gameServiceImpl struct {
	sessions SessionManager
	mazes    MazeCatalog
	puzzles  engine.PuzzleLookup
	store    store.Store
}

// NewGameService creates the service layer.
func NewGameService(sessions SessionManager, mazes MazeCatalog, puzzles engine.PuzzleLookup, st store.Store) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		mazes:    mazes,
		puzzles:  puzzles,
		store:    st,
	}
}

// NewGame registers the player handle if needed, creates a fresh game
// record at the maze start, and opens a live session for it.
func (s *gameServiceImpl) NewGame(ctx context.Context, playerHandle, mazeName string) (*GameInfo, error) {
	handle := strings.TrimSpace(playerHandle)
	if handle == "" {
		return nil, errors.New("player handle is required")
	}
	if mazeName == "" {
		mazeName = config.DefaultMazeName
	}

	mz, err := s.mazes.Load(mazeName)
	if err != nil {
		if errors.Is(err, config.ErrMazeNotFound) {
			infos, listErr := s.mazes.List()
			if listErr == nil && len(infos) > 0 {
				names := make([]string, 0, len(infos))
				for _, info := range infos {
					names = append(names, info.Name)
				}
				return nil, fmt.Errorf("maze %q not found, available mazes: %v", mazeName, names)
			}
		}
		return nil, fmt.Errorf("load maze %q: %w", mazeName, err)
	}

	player, err := s.store.GetOrCreatePlayer(handle)
	if err != nil {
		return nil, fmt.Errorf("register player: %w", err)
	}

	start := mz.Start()
	initial := store.GameState{
		Pos:         store.Pos{Row: start.Row, Col: start.Col},
		SolvedGates: []string{},
		StartedAt:   store.NowISO(),
	}
	rec, err := s.store.CreateGame(player.ID, mz.MazeID(), mz.MazeVersion(), initial)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	eng, err := engine.NewEngine(mz, s.puzzles, s.store, player.ID, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}

	sess := &Session{
		GameID:         rec.ID,
		PlayerID:       player.ID,
		PlayerHandle:   player.Handle,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	if err := s.sessions.Add(sess); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	return s.gameInfo(sess), nil
}

// GetGame returns the current description of a game, resuming it from
// the store if it is not live.
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}
	return s.gameInfo(sess), nil
}

// Command parses one input line and runs it against the game's engine.
func (s *gameServiceImpl) Command(ctx context.Context, gameID, line string) (*CommandResult, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}

	out, err := sess.Handle(parseLine(line))
	if err != nil {
		return nil, fmt.Errorf("command failed: %w", err)
	}

	return &CommandResult{
		GameID:     sess.GameID,
		View:       out.View,
		Messages:   out.Messages,
		DidPersist: out.DidPersist,
	}, nil
}

// View returns the game's current projection without running a command.
func (s *gameServiceImpl) View(ctx context.Context, gameID string) (*engine.View, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}
	v := sess.View()
	return &v, nil
}

// ListMazes returns the available maze catalogue.
func (s *gameServiceImpl) ListMazes(ctx context.Context) ([]config.MazeInfo, error) {
	return s.mazes.List()
}

// TopScores returns the leaderboard for one maze.
func (s *gameServiceImpl) TopScores(ctx context.Context, mazeID string, limit int) ([]store.ScoreRecord, error) {
	return s.store.TopScores(mazeID, limit)
}

// session returns the live session for gameID, resuming it from the
// store on a cache miss.
func (s *gameServiceImpl) session(gameID string) (*Session, error) {
	sess, err := s.sessions.Get(gameID)
	if err == nil {
		return sess, nil
	}

	rec, err := s.store.GetGame(gameID)
	if err != nil {
		if errors.Is(err, store.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
		}
		return nil, fmt.Errorf("load game: %w", err)
	}

	mz, err := s.mazes.ByID(rec.MazeID)
	if err != nil {
		return nil, fmt.Errorf("resume game %s: %w", gameID, err)
	}

	eng, err := engine.NewEngine(mz, s.puzzles, s.store, rec.PlayerID, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("resume game %s: %w", gameID, err)
	}

	createdAt, perr := time.Parse(time.RFC3339, rec.CreatedAt)
	if perr != nil {
		createdAt = time.Now()
	}
	sess = &Session{
		GameID:         rec.ID,
		PlayerID:       rec.PlayerID,
		Engine:         eng,
		CreatedAt:      createdAt,
		LastAccessedAt: time.Now(),
	}
	if err := s.sessions.Add(sess); err != nil {
		// Another caller resumed it first; use theirs.
		if existing, gerr := s.sessions.Get(gameID); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return sess, nil
}

func (s *gameServiceImpl) gameInfo(sess *Session) *GameInfo {
	return &GameInfo{
		GameID:       sess.GameID,
		PlayerID:     sess.PlayerID,
		PlayerHandle: sess.PlayerHandle,
		MazeID:       sess.Engine.MazeID(),
		MazeVersion:  sess.Engine.MazeVersion(),
		View:         sess.View(),
		CreatedAt:    sess.CreatedAt,
	}
}

// parseLine splits a raw input line into a command. The engine handles
// verb normalization and unknown verbs.
func parseLine(line string) engine.Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engine.Command{}
	}
	return engine.Command{Verb: fields[0], Args: fields[1:]}
}
