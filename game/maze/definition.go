package maze

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition = errors.New("invalid maze definition")
)

// PositionDef is a grid coordinate as it appears in a maze definition file.
type PositionDef struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// CellDef describes one cell in a maze definition file.
type CellDef struct {
	Row         int    `json:"row" yaml:"row"`
	Col         int    `json:"col" yaml:"col"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// EdgeDef names an outgoing edge of a cell by position and direction token.
type EdgeDef struct {
	Row int    `json:"row" yaml:"row"`
	Col int    `json:"col" yaml:"col"`
	Dir string `json:"dir" yaml:"dir"`
}

// GateDef attaches a puzzle gate to an outgoing edge.
type GateDef struct {
	Row      int    `json:"row" yaml:"row"`
	Col      int    `json:"col" yaml:"col"`
	Dir      string `json:"dir" yaml:"dir"`
	PuzzleID string `json:"puzzle_id" yaml:"puzzle_id"`
}

// Definition is the serializable form of a maze layout, loadable from JSON
// or YAML files. All grid-adjacent cell pairs are connected unless a wall
// is listed between them; walls and gates key off (position, direction).
type Definition struct {
	MazeID      string      `json:"maze_id" yaml:"maze_id"`
	Version     string      `json:"version" yaml:"version"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Width       int         `json:"width" yaml:"width"`
	Height      int         `json:"height" yaml:"height"`
	Start       PositionDef `json:"start" yaml:"start"`
	Exit        PositionDef `json:"exit" yaml:"exit"`
	Cells       []CellDef   `json:"cells" yaml:"cells"`
	Walls       []EdgeDef   `json:"walls" yaml:"walls"`
	Gates       []GateDef   `json:"gates" yaml:"gates"`
}

// Validate checks the structural consistency of a definition.
func (def *Definition) Validate() error {
	if def.MazeID == "" {
		return fmt.Errorf("%w: maze_id is required", ErrInvalidDefinition)
	}
	if def.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidDefinition)
	}
	if def.Width <= 0 || def.Height <= 0 {
		return fmt.Errorf("%w: width and height must be positive", ErrInvalidDefinition)
	}
	inBounds := func(row, col int) bool {
		return row >= 0 && row < def.Height && col >= 0 && col < def.Width
	}
	if !inBounds(def.Start.Row, def.Start.Col) {
		return fmt.Errorf("%w: start %d,%d out of bounds", ErrInvalidDefinition, def.Start.Row, def.Start.Col)
	}
	if !inBounds(def.Exit.Row, def.Exit.Col) {
		return fmt.Errorf("%w: exit %d,%d out of bounds", ErrInvalidDefinition, def.Exit.Row, def.Exit.Col)
	}
	for _, c := range def.Cells {
		if !inBounds(c.Row, c.Col) {
			return fmt.Errorf("%w: cell %d,%d out of bounds", ErrInvalidDefinition, c.Row, c.Col)
		}
	}
	for _, w := range def.Walls {
		if !inBounds(w.Row, w.Col) {
			return fmt.Errorf("%w: wall at %d,%d out of bounds", ErrInvalidDefinition, w.Row, w.Col)
		}
		if _, ok := ParseDirection(w.Dir); !ok {
			return fmt.Errorf("%w: wall at %d,%d has unknown direction %q", ErrInvalidDefinition, w.Row, w.Col, w.Dir)
		}
	}
	for _, g := range def.Gates {
		if !inBounds(g.Row, g.Col) {
			return fmt.Errorf("%w: gate at %d,%d out of bounds", ErrInvalidDefinition, g.Row, g.Col)
		}
		if _, ok := ParseDirection(g.Dir); !ok {
			return fmt.Errorf("%w: gate at %d,%d has unknown direction %q", ErrInvalidDefinition, g.Row, g.Col, g.Dir)
		}
		if g.PuzzleID == "" {
			return fmt.Errorf("%w: gate at %d,%d has no puzzle_id", ErrInvalidDefinition, g.Row, g.Col)
		}
	}
	return nil
}

// FromDefinition builds an immutable Maze from a validated definition.
// Walls are symmetric: listing the edge once in either direction blocks
// passage both ways. Gates are directional, exactly as listed.
func FromDefinition(def *Definition) (*Maze, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	m := &Maze{
		id:      def.MazeID,
		version: def.Version,
		width:   def.Width,
		height:  def.Height,
		start:   Position{Row: def.Start.Row, Col: def.Start.Col},
		exit:    Position{Row: def.Exit.Row, Col: def.Exit.Col},
		cells:   make(map[Position]Cell),
		walls:   make(map[edge]bool),
		gates:   make(map[edge]string),
	}

	for row := 0; row < def.Height; row++ {
		for col := 0; col < def.Width; col++ {
			p := Position{Row: row, Col: col}
			m.cells[p] = Cell{
				Title:       fmt.Sprintf("Sector %d-%d", row, col),
				Description: "An unremarkable stretch of corridor.",
			}
		}
	}
	for _, c := range def.Cells {
		m.cells[Position{Row: c.Row, Col: c.Col}] = Cell{Title: c.Title, Description: c.Description}
	}

	for _, w := range def.Walls {
		d, _ := ParseDirection(w.Dir)
		p := Position{Row: w.Row, Col: w.Col}
		m.walls[edge{pos: p, dir: d}] = true
		// Mirror so the wall blocks passage from the far side too.
		far := p.Step(d)
		if m.InBounds(far) {
			m.walls[edge{pos: far, dir: opposite(d)}] = true
		}
	}

	for _, g := range def.Gates {
		d, _ := ParseDirection(g.Dir)
		m.gates[edge{pos: Position{Row: g.Row, Col: g.Col}, dir: d}] = g.PuzzleID
	}

	return m, nil
}

func opposite(d Direction) Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}
