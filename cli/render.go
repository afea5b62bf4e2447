package cli

import (
	"fmt"
	"strings"

	"github.com/mazehack/quizmaze/game/engine"
	"github.com/mazehack/quizmaze/game/maze"
)

// RenderView formats an engine view plus messages for terminal display.
func RenderView(v engine.View, messages []string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("\n--- %s ---", v.CellTitle))
	parts = append(parts, v.CellDescription)
	parts = append(parts, fmt.Sprintf("Position: (%d, %d)  |  Moves: %d", v.Pos.Row, v.Pos.Col, v.MoveCount))
	parts = append(parts, fmt.Sprintf("Exits: %s", strings.Join(v.AvailableMoves, ", ")))

	if v.PendingPuzzle != nil {
		parts = append(parts, "")
		parts = append(parts, fmt.Sprintf(">> PUZZLE: %s", v.PendingPuzzle.Title))
		parts = append(parts, v.PendingPuzzle.Prompt)
		parts = append(parts, "  Use: answer <your answer>")
	}

	if v.IsComplete {
		parts = append(parts, "")
		parts = append(parts, "*** ACCESS GRANTED: you have reached root. Game complete! ***")
	}

	for _, msg := range messages {
		parts = append(parts, fmt.Sprintf("  [%s]", msg))
	}

	return strings.Join(parts, "\n")
}

// RenderMap draws the maze grid with the player marked. Cells show the
// player (@), the start (S), the exit (X), or a gated cell (?); open
// passages between adjacent cells are drawn as -- and | connectors.
func RenderMap(mz *maze.Maze, pos maze.Position) string {
	var lines []string

	for r := 0; r < mz.Height(); r++ {
		var row strings.Builder
		for c := 0; c < mz.Width(); c++ {
			p := maze.Position{Row: r, Col: c}
			switch {
			case p == pos:
				row.WriteString(" @ ")
			case p == mz.Start():
				row.WriteString(" S ")
			case p == mz.Exit():
				row.WriteString(" X ")
			case mz.Gated(p):
				row.WriteString(" ? ")
			default:
				row.WriteString(" . ")
			}
			if c < mz.Width()-1 {
				if openTo(mz, p, maze.East) {
					row.WriteString("--")
				} else {
					row.WriteString("  ")
				}
			}
		}
		lines = append(lines, row.String())

		if r < mz.Height()-1 {
			var vert strings.Builder
			for c := 0; c < mz.Width(); c++ {
				p := maze.Position{Row: r, Col: c}
				if openTo(mz, p, maze.South) {
					vert.WriteString(" | ")
				} else {
					vert.WriteString("   ")
				}
				if c < mz.Width()-1 {
					vert.WriteString("  ")
				}
			}
			lines = append(lines, vert.String())
		}
	}

	return strings.Join(lines, "\n")
}

func openTo(mz *maze.Maze, p maze.Position, d maze.Direction) bool {
	for _, m := range mz.AvailableMoves(p) {
		if m == d {
			return true
		}
	}
	return false
}
