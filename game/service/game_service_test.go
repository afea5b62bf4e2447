package service_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/puzzle"
	"github.com/mazehack/quizmaze/game/service"
	"github.com/mazehack/quizmaze/game/session"
	"github.com/mazehack/quizmaze/game/store/jsonfile"
)

func newTestService(t *testing.T) (service.GameService, *session.Manager) {
	t.Helper()
	st, err := jsonfile.New(t.TempDir() + "/games.json")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sessions := session.NewManager()
	mazes := config.NewManager(t.TempDir())
	svc := service.NewGameService(sessions, mazes, puzzle.NewRegistry(), st)
	return svc, sessions
}

func TestNewGameStartsAtMazeStart(t *testing.T) {
	svc, sessions := newTestService(t)

	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if info.GameID == "" {
		t.Fatal("empty game id")
	}
	if info.MazeID != "datavault-3x3" {
		t.Errorf("maze id = %q, want datavault-3x3", info.MazeID)
	}
	if info.View.Pos.Row != 0 || info.View.Pos.Col != 0 {
		t.Errorf("start pos = %+v, want 0,0", info.View.Pos)
	}
	if info.View.MoveCount != 0 || info.View.IsComplete {
		t.Errorf("fresh game view = %+v", info.View)
	}
	if sessions.Count() != 1 {
		t.Errorf("live sessions = %d, want 1", sessions.Count())
	}
}

func TestNewGameRequiresHandle(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.NewGame(context.Background(), "   ", ""); err == nil {
		t.Error("expected error for blank handle")
	}
}

func TestNewGameUnknownMaze(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.NewGame(context.Background(), "ada", "atlantis"); err == nil {
		t.Error("expected error for unknown maze")
	}
}

func TestCommandRoutesToEngine(t *testing.T) {
	svc, _ := newTestService(t)
	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	res, err := svc.Command(context.Background(), info.GameID, "go south")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if res.View.Pos.Row != 1 || res.View.Pos.Col != 0 {
		t.Errorf("pos after south = %+v, want 1,0", res.View.Pos)
	}
	if res.View.MoveCount != 1 {
		t.Errorf("move count = %d, want 1", res.View.MoveCount)
	}
	if !res.DidPersist {
		t.Error("movement should persist")
	}
}

func TestCommandUnknownGame(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Command(context.Background(), "no-such-game", "look")
	if !errors.Is(err, service.ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}

func TestCommandResumesEvictedSession(t *testing.T) {
	svc, sessions := newTestService(t)
	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := svc.Command(context.Background(), info.GameID, "s"); err != nil {
		t.Fatalf("Command: %v", err)
	}

	// Drop the live session; the next command must resume from the store.
	if err := sessions.Delete(info.GameID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	res, err := svc.Command(context.Background(), info.GameID, "look")
	if err != nil {
		t.Fatalf("Command after eviction: %v", err)
	}
	if res.View.Pos.Row != 1 || res.View.Pos.Col != 0 {
		t.Errorf("resumed pos = %+v, want 1,0", res.View.Pos)
	}
	if res.View.MoveCount != 1 {
		t.Errorf("resumed move count = %d, want 1", res.View.MoveCount)
	}
}

func TestViewDoesNotMutate(t *testing.T) {
	svc, _ := newTestService(t)
	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	v, err := svc.View(context.Background(), info.GameID)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if v.MoveCount != 0 {
		t.Errorf("move count = %d, want 0", v.MoveCount)
	}
	again, _ := svc.View(context.Background(), info.GameID)
	if again.MoveCount != 0 {
		t.Error("View mutated state")
	}
}

func TestGetGameReturnsInfo(t *testing.T) {
	svc, _ := newTestService(t)
	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	got, err := svc.GetGame(context.Background(), info.GameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.GameID != info.GameID || got.PlayerID != info.PlayerID {
		t.Errorf("GetGame = %+v, want ids from %+v", got, info)
	}
}

func TestListMazesIncludesDefault(t *testing.T) {
	svc, _ := newTestService(t)
	infos, err := svc.ListMazes(context.Background())
	if err != nil {
		t.Fatalf("ListMazes: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != config.DefaultMazeName {
		t.Errorf("infos = %+v, want only the default maze", infos)
	}
}

func TestTopScoresAfterCompletion(t *testing.T) {
	svc, _ := newTestService(t)
	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	// Walk the short path to the exit, answering each gate.
	script := []string{"e", "answer len", "e", "s", "s", "e", "answer break", "e"}
	var last *service.CommandResult
	for _, line := range script {
		last, err = svc.Command(context.Background(), info.GameID, line)
		if err != nil {
			t.Fatalf("Command(%q): %v", line, err)
		}
	}
	if !last.View.IsComplete {
		t.Fatalf("game not complete after script, view = %+v", last.View)
	}

	scores, err := svc.TopScores(context.Background(), info.MazeID, 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("len(scores) = %d, want 1", len(scores))
	}
	if scores[0].Metrics.Moves != 4 || scores[0].Metrics.PuzzlesSolved != 2 {
		t.Errorf("metrics = %+v, want 4 moves, 2 puzzles", scores[0].Metrics)
	}
}

func TestNewGamePersistsEmptySolvedGates(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/games.json"
	st, err := jsonfile.New(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := service.NewGameService(session.NewManager(), config.NewManager(dir), puzzle.NewRegistry(), st)

	info, err := svc.NewGame(context.Background(), "ada", "")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	rec, err := st.GetGame(info.GameID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if rec.State.SolvedGates == nil {
		t.Error("fresh record has nil solved gates, want empty list")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store file: %v", err)
	}
	if !strings.Contains(string(raw), `"solved_gates": []`) {
		t.Errorf("fresh record not persisted with an empty gate list:\n%s", raw)
	}
}
