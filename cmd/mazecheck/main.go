// Command mazecheck validates maze definition files. It checks:
//   - JSON/YAML structure and required fields
//   - Grid bounds for start, exit, cells, walls, and gates
//   - Direction tokens on walls and gates
//   - Reachability: the exit must be reachable from the start (gated
//     passages count as open, since puzzles can be solved)
//   - Gate puzzle ids: unknown ids are flagged, they fall back to a
//     generic puzzle at runtime
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mazehack/quizmaze/game/config"
	"github.com/mazehack/quizmaze/game/maze"
	"github.com/mazehack/quizmaze/game/puzzle"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes holds informational lines; otherwise it
// accumulates the errors that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

// validateMazeFile loads and validates one maze definition file.
func validateMazeFile(path string, puzzles *puzzle.Registry) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	def, err := config.DecodeDefinitionFile(path)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	mz, err := maze.FromDefinition(def)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	if !exitReachable(mz) {
		result.Valid = false
		result.Notes = append(result.Notes,
			fmt.Sprintf("exit %s is not reachable from start %s", mz.Exit(), mz.Start()))
	}

	unknown := unknownGatePuzzles(mz, puzzles)
	for _, id := range unknown {
		result.Notes = append(result.Notes,
			fmt.Sprintf("! gate puzzle %q is not in the catalogue (will use the fallback puzzle)", id))
	}

	if result.Valid {
		result.Notes = append(result.Notes, fmt.Sprintf("* Maze: %s (%s)", mz.MazeID(), mz.MazeVersion()))
		result.Notes = append(result.Notes, fmt.Sprintf("* Grid: %dx%d", mz.Height(), mz.Width()))
		result.Notes = append(result.Notes, fmt.Sprintf("* Start: %s  Exit: %s", mz.Start(), mz.Exit()))
		result.Notes = append(result.Notes, fmt.Sprintf("* Gates: %d", len(mz.GateIDs())))
	}

	return result
}

// exitReachable walks the maze from the start, treating gated passages
// as open, and reports whether the exit can be reached.
func exitReachable(mz *maze.Maze) bool {
	visited := map[maze.Position]bool{mz.Start(): true}
	queue := []maze.Position{mz.Start()}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == mz.Exit() {
			return true
		}
		for _, d := range mz.AvailableMoves(p) {
			next, ok := mz.NextPos(p, d)
			if !ok || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}

// unknownGatePuzzles returns the gate puzzle ids the catalogue does not
// know, sorted.
func unknownGatePuzzles(mz *maze.Maze, puzzles *puzzle.Registry) []string {
	var unknown []string
	for _, id := range mz.GateIDs() {
		if !puzzles.Known(id) {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// mazeFiles lists the definition files under dir.
func mazeFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func main() {
	dir := "mazes"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := mazeFiles(dir)
	if err != nil {
		fmt.Printf("Error finding maze files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No maze files found in %s\n", dir)
		os.Exit(1)
	}

	puzzles := puzzle.NewRegistry()

	allValid := true
	for _, file := range files {
		result := validateMazeFile(file, puzzles)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("VALID")
		} else {
			fmt.Println("INVALID")
			allValid = false
		}
		for _, note := range result.Notes {
			fmt.Println("  " + note)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("All maze definitions are valid.")
	} else {
		fmt.Println("Some maze definitions have errors.")
		os.Exit(1)
	}
}
