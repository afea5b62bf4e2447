// Package jsonfile implements the store contract on a single JSON file.
// It is the default backend for local play: one file holds the player
// registry, every game record, and the score ledger, rewritten in full on
// each mutation.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mazehack/quizmaze/game/store"
)

// fileData is the on-disk layout of the store file.
type fileData struct {
	Players []store.Player      `json:"players"`
	Games   []store.GameRecord  `json:"games"`
	Scores  []store.ScoreRecord `json:"scores"`
}

// Store is a file-backed store.Store. All operations are guarded by a
// single mutex; the file is rewritten on every mutation.
type Store struct {
	path string
	mu   sync.Mutex
	data fileData
}

// New opens (or creates) the store file at path.
func New(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
			return s, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("parse store file %s: %w", path, err)
		}
	}
	return s, nil
}

// flush rewrites the whole store file. Caller must hold the mutex.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

// GetGame returns the record for gameID, or store.ErrGameNotFound.
func (s *Store) GetGame(gameID string) (*store.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Games {
		if s.data.Games[i].ID == gameID {
			rec := s.data.Games[i]
			return &rec, nil
		}
	}
	return nil, store.ErrGameNotFound
}

// SaveGame overwrites the state and status of an existing game record.
func (s *Store) SaveGame(gameID string, state store.GameState, status store.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Games {
		if s.data.Games[i].ID == gameID {
			s.data.Games[i].State = state
			s.data.Games[i].Status = status
			s.data.Games[i].UpdatedAt = store.NowISO()
			return s.flush()
		}
	}
	return store.ErrGameNotFound
}

// GetOrCreatePlayer finds a player by handle (case-insensitive) or
// registers a new one.
func (s *Store) GetOrCreatePlayer(handle string) (*store.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Players {
		if strings.EqualFold(s.data.Players[i].Handle, handle) {
			p := s.data.Players[i]
			return &p, nil
		}
	}

	p := store.Player{
		ID:        uuid.NewString(),
		Handle:    handle,
		CreatedAt: store.NowISO(),
	}
	s.data.Players = append(s.data.Players, p)
	if err := s.flush(); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateGame appends a new game record with the given initial state.
func (s *Store) CreateGame(playerID, mazeID, mazeVersion string, initial store.GameState) (*store.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.data.Games = append(s.data.Games, rec)
	if err := s.flush(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordScore appends one entry to the score ledger.
func (s *Store) RecordScore(playerID, gameID, mazeID, mazeVersion string, metrics store.Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Scores = append(s.data.Scores, store.ScoreRecord{
		PlayerID:    playerID,
		GameID:      gameID,
		MazeID:      mazeID,
		MazeVersion: mazeVersion,
		Metrics:     metrics,
		RecordedAt:  store.NowISO(),
	})
	return s.flush()
}

// TopScores returns up to limit scores for mazeID, fewest moves first,
// ties broken by elapsed time.
func (s *Store) TopScores(mazeID string, limit int) ([]store.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.ScoreRecord
	for _, sc := range s.data.Scores {
		if sc.MazeID == mazeID {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Metrics.Moves != out[j].Metrics.Moves {
			return out[i].Metrics.Moves < out[j].Metrics.Moves
		}
		return out[i].Metrics.ElapsedSeconds < out[j].Metrics.ElapsedSeconds
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the file backend.
func (s *Store) Close() error { return nil }
