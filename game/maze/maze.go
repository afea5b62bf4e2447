package maze

import (
	"fmt"
	"sort"
	"strings"
)

// Direction is one of the four cardinal movement directions on the grid.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionTokens = map[Direction]string{
	North: "N",
	South: "S",
	East:  "E",
	West:  "W",
}

var directionNames = map[Direction]string{
	North: "North",
	South: "South",
	East:  "East",
	West:  "West",
}

// String returns the single-letter token for the direction (N/S/E/W).
func (d Direction) String() string {
	if t, ok := directionTokens[d]; ok {
		return t
	}
	return "?"
}

// Name returns the full cardinal name of the direction.
func (d Direction) Name() string {
	if n, ok := directionNames[d]; ok {
		return n
	}
	return "Unknown"
}

// Offset returns the row/col delta produced by moving one cell in d.
func (d Direction) Offset() (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// ParseDirection resolves a user token into a Direction. It accepts both
// single-letter codes and full cardinal names, case-insensitively.
func ParseDirection(token string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "N", "NORTH":
		return North, true
	case "S", "SOUTH":
		return South, true
	case "E", "EAST":
		return East, true
	case "W", "WEST":
		return West, true
	}
	return 0, false
}

// Directions lists all four directions in a stable order.
func Directions() []Direction {
	return []Direction{North, South, East, West}
}

// Position is a grid coordinate. Positions compare by value.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the neighboring position one cell away in d.
func (p Position) Step(d Direction) Position {
	dr, dc := d.Offset()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Cell is the static, maze-owned description of a single grid cell.
type Cell struct {
	Title       string
	Description string
}

type edge struct {
	pos Position
	dir Direction
}

// Maze is a fixed grid topology: cells, open passages between adjacent
// cells, and puzzle gates attached to specific outgoing edges. A Maze is
// immutable after construction and safe for concurrent reads.
type Maze struct {
	id      string
	version string
	width   int
	height  int
	start   Position
	exit    Position
	cells   map[Position]Cell
	walls   map[edge]bool
	gates   map[edge]string
}

// MazeID returns the stable identifier of this maze.
func (m *Maze) MazeID() string { return m.id }

// MazeVersion returns the version tag of this maze layout.
func (m *Maze) MazeVersion() string { return m.version }

// Width returns the number of columns.
func (m *Maze) Width() int { return m.width }

// Height returns the number of rows.
func (m *Maze) Height() int { return m.height }

// Start returns the cell the player begins in.
func (m *Maze) Start() Position { return m.start }

// Exit returns the designated exit cell; reaching it completes the game.
func (m *Maze) Exit() Position { return m.exit }

// InBounds reports whether p is a cell of this maze.
func (m *Maze) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < m.height && p.Col >= 0 && p.Col < m.width
}

// Cell returns the static cell data at p. Out-of-bounds positions yield a
// zero Cell.
func (m *Maze) Cell(p Position) Cell {
	return m.cells[p]
}

// NextPos returns the destination of moving from p in d, or false when the
// edge does not exist (wall or out of bounds).
func (m *Maze) NextPos(p Position, d Direction) (Position, bool) {
	if !m.InBounds(p) {
		return Position{}, false
	}
	next := p.Step(d)
	if !m.InBounds(next) {
		return Position{}, false
	}
	if m.walls[edge{pos: p, dir: d}] {
		return Position{}, false
	}
	return next, true
}

// AvailableMoves returns the directions with an open edge out of p, in a
// stable North/South/East/West order.
func (m *Maze) AvailableMoves(p Position) []Direction {
	var moves []Direction
	for _, d := range Directions() {
		if _, ok := m.NextPos(p, d); ok {
			moves = append(moves, d)
		}
	}
	return moves
}

// GateIDFor returns the gate id guarding the edge out of p in d, if any.
func (m *Maze) GateIDFor(p Position, d Direction) (string, bool) {
	id, ok := m.gates[edge{pos: p, dir: d}]
	return id, ok
}

// Gated reports whether any outgoing edge of p carries a gate. Used by map
// rendering to mark puzzle cells.
func (m *Maze) Gated(p Position) bool {
	for _, d := range Directions() {
		if _, ok := m.gates[edge{pos: p, dir: d}]; ok {
			return true
		}
	}
	return false
}

// GateIDs returns the ids of every gate in the maze, sorted and
// deduplicated.
func (m *Maze) GateIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range m.gates {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
