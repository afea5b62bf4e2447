package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/engine"
	"github.com/mazehack/quizmaze/game/maze"
	"github.com/mazehack/quizmaze/game/puzzle"
	"github.com/mazehack/quizmaze/game/store"
	"github.com/mazehack/quizmaze/game/store/jsonfile"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		raw  string
		verb string
		args []string
	}{
		{"look", "look", nil},
		{"go east", "go", []string{"east"}},
		{"answer two words", "answer", []string{"two", "words"}},
		{"  n  ", "n", nil},
		{"", "", nil},
		{"   ", "", nil},
	}
	for _, tt := range tests {
		cmd := ParseInput(tt.raw)
		if cmd.Verb != tt.verb {
			t.Errorf("ParseInput(%q).Verb = %q, want %q", tt.raw, cmd.Verb, tt.verb)
		}
		if len(cmd.Args) != len(tt.args) {
			t.Errorf("ParseInput(%q).Args = %v, want %v", tt.raw, cmd.Args, tt.args)
			continue
		}
		for i := range tt.args {
			if cmd.Args[i] != tt.args[i] {
				t.Errorf("ParseInput(%q).Args = %v, want %v", tt.raw, cmd.Args, tt.args)
			}
		}
	}
}

func TestRenderViewBasics(t *testing.T) {
	v := engine.View{
		Pos:             store.Pos{Row: 1, Col: 2},
		CellTitle:       "Relay Junction",
		CellDescription: "Cables everywhere.",
		AvailableMoves:  []string{"E", "S"},
		MoveCount:       3,
	}
	got := RenderView(v, []string{"Blocked path."})

	for _, want := range []string{
		"--- Relay Junction ---",
		"Cables everywhere.",
		"Position: (1, 2)  |  Moves: 3",
		"Exits: E, S",
		"[Blocked path.]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered view missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "PUZZLE") || strings.Contains(got, "ACCESS GRANTED") {
		t.Error("view rendered puzzle or completion banners without cause")
	}
}

func TestRenderViewPuzzleAndCompletion(t *testing.T) {
	v := engine.View{
		CellTitle: "Firewall Checkpoint",
		PendingPuzzle: &engine.PendingPuzzle{
			PuzzleID: "gate-go-basics-1",
			Title:    "Length check",
			Prompt:   "Which builtin returns the length of a slice?",
		},
		IsComplete: true,
	}
	got := RenderView(v, nil)

	if !strings.Contains(got, ">> PUZZLE: Length check") {
		t.Errorf("missing puzzle header:\n%s", got)
	}
	if !strings.Contains(got, "answer <your answer>") {
		t.Errorf("missing answer hint:\n%s", got)
	}
	if !strings.Contains(got, "ACCESS GRANTED") {
		t.Errorf("missing completion banner:\n%s", got)
	}
}

func TestRenderMapMarkers(t *testing.T) {
	mz := maze.Builtin()
	got := RenderMap(mz, mz.Start())
	lines := strings.Split(got, "\n")

	// 3 cell rows with connector rows between them.
	if len(lines) != 5 {
		t.Fatalf("map has %d lines, want 5:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], " @ ") {
		t.Errorf("player marker missing at start: %q", lines[0])
	}
	if !strings.HasSuffix(lines[4], " X ") {
		t.Errorf("exit marker missing at bottom right: %q", lines[4])
	}
	if !strings.Contains(got, "--") || !strings.Contains(got, "|") {
		t.Errorf("map missing connectors:\n%s", got)
	}
}

func TestRenderMapAwayFromStart(t *testing.T) {
	mz := maze.Builtin()
	got := RenderMap(mz, maze.Position{Row: 1, Col: 1})
	lines := strings.Split(got, "\n")

	if !strings.HasPrefix(lines[0], " S ") {
		t.Errorf("start marker missing once player moved: %q", lines[0])
	}
	if !strings.Contains(lines[2], " @ ") {
		t.Errorf("player marker missing at 1,1: %q", lines[2])
	}
}

func runScripted(t *testing.T, script string) string {
	t.Helper()
	st, err := jsonfile.New(filepath.Join(t.TempDir(), "games.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	var out bytes.Buffer
	err = Run(Options{
		Store:   st,
		Mazes:   config.NewManager(t.TempDir()),
		Puzzles: puzzle.NewRegistry(),
		In:      strings.NewReader(script),
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestRunQuitSavesProgress(t *testing.T) {
	out := runScripted(t, "ada\nquit\n")

	if !strings.Contains(out, "HACK THE MAZE") {
		t.Errorf("missing banner:\n%s", out)
	}
	if !strings.Contains(out, "Enter your hacker handle:") {
		t.Errorf("missing handle prompt:\n%s", out)
	}
	if !strings.Contains(out, "Progress saved. Until next time, hacker.") {
		t.Errorf("missing quit message:\n%s", out)
	}
}

func TestRunHelpAndMap(t *testing.T) {
	out := runScripted(t, "ada\nhelp\nmap\nquit\n")

	if !strings.Contains(out, "show this help") {
		t.Errorf("help text not printed:\n%s", out)
	}
	if !strings.Contains(out, " @ ") {
		t.Errorf("map not printed:\n%s", out)
	}
}

func TestRunMoveAndEOF(t *testing.T) {
	// EOF without quit still auto-saves.
	out := runScripted(t, "ada\ns\n")

	if !strings.Contains(out, "Moves: 1") {
		t.Errorf("move not reflected:\n%s", out)
	}
	if !strings.Contains(out, "Session terminated. Progress auto-saved.") {
		t.Errorf("missing EOF message:\n%s", out)
	}
}

func TestRunScoresEmpty(t *testing.T) {
	out := runScripted(t, "ada\nscores\nquit\n")

	if !strings.Contains(out, "No scores recorded yet.") {
		t.Errorf("missing empty scores message:\n%s", out)
	}
}

func TestRunCompletion(t *testing.T) {
	script := strings.Join([]string{
		"ada", "e", "answer len", "e", "s", "s", "e", "answer break", "e", "scores", "quit",
	}, "\n") + "\n"
	out := runScripted(t, script)

	if !strings.Contains(out, "ACCESS GRANTED") {
		t.Errorf("missing completion banner:\n%s", out)
	}
	if !strings.Contains(out, "Final score recorded.") {
		t.Errorf("missing score notice:\n%s", out)
	}
	if !strings.Contains(out, "-- Top Scores --") {
		t.Errorf("missing leaderboard:\n%s", out)
	}
	if !strings.Contains(out, "4 moves") {
		t.Errorf("missing recorded move count:\n%s", out)
	}
}

// captureStore records the initial state handed to CreateGame.
type captureStore struct {
	store.Store
	initial *store.GameState
}

func (c *captureStore) CreateGame(playerID, mazeID, mazeVersion string, initial store.GameState) (*store.GameRecord, error) {
	c.initial = &initial
	return c.Store.CreateGame(playerID, mazeID, mazeVersion, initial)
}

func TestRunCreatesGameWithEmptySolvedGates(t *testing.T) {
	st, err := jsonfile.New(filepath.Join(t.TempDir(), "games.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	capture := &captureStore{Store: st}

	var out bytes.Buffer
	err = Run(Options{
		Store:   capture,
		Mazes:   config.NewManager(t.TempDir()),
		Puzzles: puzzle.NewRegistry(),
		In:      strings.NewReader("ada\nquit\n"),
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if capture.initial == nil {
		t.Fatal("CreateGame was never called")
	}
	if capture.initial.SolvedGates == nil {
		t.Error("initial state has nil solved gates, want empty list")
	}
}
