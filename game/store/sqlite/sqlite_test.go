package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mazehack/quizmaze/game/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quizmaze.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func initialState() store.GameState {
	return store.GameState{
		Pos:         store.Pos{Row: 0, Col: 0},
		SolvedGates: []string{},
		StartedAt:   "2026-02-13T00:00:00Z",
	}
}

func TestPlayerRoundTrip(t *testing.T) {
	s := newTestStore(t)

	p1, err := s.GetOrCreatePlayer("morpheus")
	if err != nil {
		t.Fatalf("GetOrCreatePlayer failed: %v", err)
	}
	p2, err := s.GetOrCreatePlayer("Morpheus")
	if err != nil {
		t.Fatalf("GetOrCreatePlayer failed: %v", err)
	}
	if p1.ID != p2.ID {
		t.Error("handle lookup should be case-insensitive")
	}
}

func TestGameLifecycle(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.GetOrCreatePlayer("neo")

	rec, err := s.CreateGame(p.ID, "datavault-3x3", "1", initialState())
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	st := initialState()
	st.Pos = store.Pos{Row: 2, Col: 2}
	st.MoveCount = 4
	st.SolvedGates = []string{"gate-go-basics-1", "gate-go-basics-3"}
	st.EndedAt = "2026-02-13T00:05:00Z"
	if err := s.SaveGame(rec.ID, st, store.StatusCompleted); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}

	got, err := s.GetGame(rec.ID)
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if got.Status != store.StatusCompleted {
		t.Errorf("expected completed status, got %s", got.Status)
	}
	if got.State.MoveCount != 4 || len(got.State.SolvedGates) != 2 {
		t.Errorf("state not round-tripped: %+v", got.State)
	}
	if got.State.EndedAt != "2026-02-13T00:05:00Z" {
		t.Errorf("ended_at not round-tripped: %q", got.State.EndedAt)
	}
}

func TestGetGameNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetGame("missing"); !errors.Is(err, store.ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
	if err := s.SaveGame("missing", initialState(), store.StatusInProgress); !errors.Is(err, store.ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound on save, got %v", err)
	}
}

func TestTopScoresOrderingAndLimit(t *testing.T) {
	s := newTestStore(t)

	add := func(moves, elapsed int) {
		if err := s.RecordScore("p", "g", "datavault-3x3", "1", store.Metrics{
			Moves: moves, ElapsedSeconds: elapsed, PuzzlesSolved: 1,
		}); err != nil {
			t.Fatalf("RecordScore failed: %v", err)
		}
	}
	add(9, 10)
	add(4, 70)
	add(4, 20)

	scores, err := s.TopScores("datavault-3x3", 2)
	if err != nil {
		t.Fatalf("TopScores failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0].Metrics.Moves != 4 || scores[0].Metrics.ElapsedSeconds != 20 {
		t.Errorf("unexpected first score %+v", scores[0].Metrics)
	}
	if scores[1].Metrics.ElapsedSeconds != 70 {
		t.Errorf("unexpected second score %+v", scores[1].Metrics)
	}
}
