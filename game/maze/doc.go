// Package maze models the fixed grid topology the game engine explores:
// positions, directions, cells, open passages, and puzzle gates attached
// to specific outgoing edges.
//
// A Maze is built once from a Definition (loaded from a JSON or YAML file,
// or the built-in layout) and is immutable afterwards. The engine consults
// it for movement legality, gate lookups, and the start/exit cells; it
// never mutates it.
//
// Coordinates are (row, col) with row 0 at the top. Directions map to unit
// offsets: North is row-1, South row+1, East col+1, West col-1. Walls are
// symmetric between the two cells they separate; gates are directional and
// belong to the (position, direction) edge they are declared on.
package maze
