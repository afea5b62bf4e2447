// Package sqlite implements the store contract on SQLite via
// modernc.org/sqlite. Game state is kept as a JSON column so the
// persisted shape stays identical across backends.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mazehack/quizmaze/game/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id         TEXT PRIMARY KEY,
	handle     TEXT NOT NULL UNIQUE COLLATE NOCASE,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	id           TEXT PRIMARY KEY,
	player_id    TEXT NOT NULL REFERENCES players(id),
	maze_id      TEXT NOT NULL,
	maze_version TEXT NOT NULL,
	state_json   TEXT NOT NULL DEFAULT '{}',
	status       TEXT NOT NULL DEFAULT 'in_progress',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_player ON games(player_id);

CREATE TABLE IF NOT EXISTS scores (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id       TEXT NOT NULL,
	game_id         TEXT NOT NULL,
	maze_id         TEXT NOT NULL,
	maze_version    TEXT NOT NULL,
	elapsed_seconds INTEGER NOT NULL DEFAULT 0,
	moves           INTEGER NOT NULL DEFAULT 0,
	puzzles_solved  INTEGER NOT NULL DEFAULT 0,
	recorded_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_maze ON scores(maze_id, moves, elapsed_seconds);
`

// Store is a SQLite-backed store.Store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL allows concurrent reads but SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// GetGame returns the record for gameID, or store.ErrGameNotFound.
func (s *Store) GetGame(gameID string) (*store.GameRecord, error) {
	const q = `SELECT id, player_id, maze_id, maze_version, state_json, status, created_at, updated_at
FROM games WHERE id = ?`

	var rec store.GameRecord
	var stateJSON, status string
	err := s.db.QueryRowContext(context.Background(), q, gameID).Scan(
		&rec.ID, &rec.PlayerID, &rec.MazeID, &rec.MazeVersion,
		&stateJSON, &status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrGameNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	rec.Status = store.Status(status)
	return &rec, nil
}

// SaveGame overwrites the state and status of an existing game record.
func (s *Store) SaveGame(gameID string, state store.GameState, status store.Status) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}

	const q = `UPDATE games SET state_json = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := s.db.ExecContext(context.Background(), q, string(raw), string(status), store.NowISO(), gameID)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrGameNotFound
	}
	return nil
}

// GetOrCreatePlayer finds a player by handle (case-insensitive via the
// NOCASE column collation) or registers a new one.
func (s *Store) GetOrCreatePlayer(handle string) (*store.Player, error) {
	ctx := context.Background()

	var p store.Player
	err := s.db.QueryRowContext(ctx,
		`SELECT id, handle, created_at FROM players WHERE handle = ?`, handle,
	).Scan(&p.ID, &p.Handle, &p.CreatedAt)
	if err == nil {
		return &p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get player: %w", err)
	}

	p = store.Player{ID: uuid.NewString(), Handle: handle, CreatedAt: store.NowISO()}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, handle, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Handle, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &p, nil
}

// CreateGame inserts a new game record with the given initial state.
func (s *Store) CreateGame(playerID, mazeID, mazeVersion string, initial store.GameState) (*store.GameRecord, error) {
	raw, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}

	now := store.NowISO()
	rec := store.GameRecord{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		MazeID:      mazeID,
		MazeVersion: mazeVersion,
		State:       initial,
		Status:      store.StatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	const q = `INSERT INTO games (id, player_id, maze_id, maze_version, state_json, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(context.Background(), q,
		rec.ID, rec.PlayerID, rec.MazeID, rec.MazeVersion,
		string(raw), string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &rec, nil
}

// RecordScore appends one entry to the score ledger.
func (s *Store) RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics store.Metrics) error {
	const q = `INSERT INTO scores (player_id, game_id, maze_id, maze_version, elapsed_seconds, moves, puzzles_solved, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(context.Background(), q,
		playerID, gameID, mazeID, mazeVersion,
		metrics.ElapsedSeconds, metrics.Moves, metrics.PuzzlesSolved, store.NowISO(),
	)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// TopScores returns up to limit scores for mazeID, fewest moves first,
// ties broken by elapsed time.
func (s *Store) TopScores(mazeID string, limit int) ([]store.ScoreRecord, error) {
	const q = `SELECT player_id, game_id, maze_id, maze_version, elapsed_seconds, moves, puzzles_solved, recorded_at
FROM scores WHERE maze_id = ?
ORDER BY moves ASC, elapsed_seconds ASC
LIMIT ?`

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(context.Background(), q, mazeID, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	var out []store.ScoreRecord
	for rows.Next() {
		var sc store.ScoreRecord
		if err := rows.Scan(
			&sc.PlayerID, &sc.GameID, &sc.MazeID, &sc.MazeVersion,
			&sc.Metrics.ElapsedSeconds, &sc.Metrics.Moves, &sc.Metrics.PuzzlesSolved,
			&sc.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
