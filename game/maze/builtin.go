package maze

// BuiltinDefinition returns the definition of the default 3x3 maze that
// ships with the game: start at (0,0), exit at (2,2), and three puzzle
// gates along the way. The east edge out of the start cell is gated.
func BuiltinDefinition() *Definition {
	return &Definition{
		MazeID:      "datavault-3x3",
		Version:     "1",
		Name:        "The Data Vault",
		Description: "A small intrusion run through a corporate data vault.",
		Width:       3,
		Height:      3,
		Start:       PositionDef{Row: 0, Col: 0},
		Exit:        PositionDef{Row: 2, Col: 2},
		Cells: []CellDef{
			{Row: 0, Col: 0, Title: "Terminal Foyer", Description: "A dusty terminal blinks at the vault's outer shell. Cables snake into the dark."},
			{Row: 0, Col: 1, Title: "Firewall Checkpoint", Description: "Rows of rack units hum behind a mesh cage. The firewall watches."},
			{Row: 0, Col: 2, Title: "Archive Stack", Description: "Tape drives from another decade, still spinning. Nothing exits east of here."},
			{Row: 1, Col: 0, Title: "Proxy Closet", Description: "A cramped closet of proxy boxes. The south and east panels are welded shut."},
			{Row: 1, Col: 1, Title: "Relay Junction", Description: "Bundles of fiber converge here from every wall. A junction worth remembering."},
			{Row: 1, Col: 2, Title: "Cipher Annex", Description: "Chalked key schedules cover the walls. Something heavy guards the way down."},
			{Row: 2, Col: 0, Title: "Cold Storage", Description: "Powered-down drives in antistatic wrap. A dead end, or close to it."},
			{Row: 2, Col: 1, Title: "Daemon Hall", Description: "Background processes whisper in the vents. The east door is sealed by a gate."},
			{Row: 2, Col: 2, Title: "Root Shell", Description: "A single prompt glows on black glass: #. You have reached root."},
		},
		Walls: []EdgeDef{
			{Row: 0, Col: 1, Dir: "E"},
			{Row: 1, Col: 0, Dir: "E"},
			{Row: 1, Col: 0, Dir: "S"},
		},
		Gates: []GateDef{
			{Row: 0, Col: 0, Dir: "E", PuzzleID: "gate-go-basics-1"},
			{Row: 1, Col: 2, Dir: "S", PuzzleID: "gate-go-basics-2"},
			{Row: 2, Col: 1, Dir: "E", PuzzleID: "gate-go-basics-3"},
		},
	}
}

// Builtin builds the default maze. It panics only if the built-in
// definition itself is broken, which the maze tests guard against.
func Builtin() *Maze {
	m, err := FromDefinition(BuiltinDefinition())
	if err != nil {
		panic("maze: built-in definition invalid: " + err.Error())
	}
	return m
}
