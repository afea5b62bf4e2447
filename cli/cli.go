package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/engine"
	"github.com/mazehack/quizmaze/game/maze"
	"github.com/mazehack/quizmaze/game/store"
)

const helpText = `Commands:
  n / s / e / w   - move in that direction
  go <dir>        - move (north, south, east, west, or N/S/E/W)
  look            - re-describe current cell
  map             - show a simple maze map
  answer <text>   - answer a pending puzzle
  save            - save progress
  scores          - show top scores
  help            - show this help
  quit            - exit the game
`

// Options configures one interactive game run.
type Options struct {
	Store    store.Store
	Mazes    *config.Manager
	Puzzles  engine.PuzzleLookup
	MazeName string

	In  io.Reader
	Out io.Writer
}

// Run drives one interactive game session: it prompts for a player
// handle, creates a game, and loops on commands until quit or EOF.
// Progress is auto-saved on exit.
func Run(opts Options) error {
	if opts.MazeName == "" {
		opts.MazeName = config.DefaultMazeName
	}
	out := opts.Out
	in := bufio.NewScanner(opts.In)

	banner := strings.Repeat("=", 50)
	fmt.Fprintln(out, banner)
	fmt.Fprintln(out, "  HACK THE MAZE  -  A Puzzle Adventure")
	fmt.Fprintln(out, banner)
	fmt.Fprintln(out)

	mz, err := opts.Mazes.Load(opts.MazeName)
	if err != nil {
		return fmt.Errorf("load maze: %w", err)
	}

	fmt.Fprint(out, "Enter your hacker handle: ")
	handle := ""
	if in.Scan() {
		handle = strings.TrimSpace(in.Text())
	}
	if handle == "" {
		handle = "anonymous"
	}

	player, err := opts.Store.GetOrCreatePlayer(handle)
	if err != nil {
		return fmt.Errorf("register player: %w", err)
	}

	start := mz.Start()
	initial := store.GameState{
		Pos:         store.Pos{Row: start.Row, Col: start.Col},
		SolvedGates: []string{},
		StartedAt:   store.NowISO(),
	}
	game, err := opts.Store.CreateGame(player.ID, mz.MazeID(), mz.MazeVersion(), initial)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	eng, err := engine.NewEngine(mz, opts.Puzzles, opts.Store, player.ID, game.ID)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}

	fmt.Fprintln(out, RenderView(eng.View(), nil))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Type 'help' for commands.")
	fmt.Fprintln(out)

	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out, "\nSession terminated. Progress auto-saved.")
			eng.Handle(engine.Command{Verb: "save"})
			return in.Err()
		}
		raw := strings.TrimSpace(in.Text())
		if raw == "" {
			continue
		}

		cmd := ParseInput(raw)
		switch strings.ToLower(cmd.Verb) {
		case "quit", "exit":
			if _, err := eng.Handle(engine.Command{Verb: "save"}); err != nil {
				return fmt.Errorf("save on quit: %w", err)
			}
			fmt.Fprintln(out, "Progress saved. Until next time, hacker.")
			return nil

		case "help":
			fmt.Fprint(out, helpText, "\n")
			continue

		case "scores":
			printScores(out, opts.Store, mz.MazeID())
			continue

		case "map":
			v := eng.View()
			fmt.Fprintln(out)
			fmt.Fprintln(out, RenderMap(mz, maze.Position{Row: v.Pos.Row, Col: v.Pos.Col}))
			fmt.Fprintln(out)
			continue
		}

		res, err := eng.Handle(cmd)
		if err != nil {
			return fmt.Errorf("command failed: %w", err)
		}
		fmt.Fprintln(out, RenderView(res.View, res.Messages))
		fmt.Fprintln(out)

		if res.View.IsComplete {
			fmt.Fprintln(out, "Final score recorded. Type 'scores' to see the leaderboard, or 'quit' to exit.")
			fmt.Fprintln(out)
		}
	}
}

func printScores(out io.Writer, st store.Store, mazeID string) {
	scores, err := st.TopScores(mazeID, 5)
	if err != nil {
		fmt.Fprintf(out, "  Could not load scores: %v\n", err)
		return
	}
	if len(scores) == 0 {
		fmt.Fprintln(out, "  No scores recorded yet.")
		return
	}
	fmt.Fprintln(out, "  -- Top Scores --")
	for i, s := range scores {
		fmt.Fprintf(out, "  %d. %d moves, %ds\n", i+1, s.Metrics.Moves, s.Metrics.ElapsedSeconds)
	}
	fmt.Fprintln(out)
}

// ParseInput splits a raw input line into a command for the engine.
func ParseInput(raw string) engine.Command {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return engine.Command{}
	}
	return engine.Command{Verb: tokens[0], Args: tokens[1:]}
}
