// Package puzzle holds the puzzle catalogue and the answer-checking
// contract used by gate enforcement. Lookups never fail: unknown gate ids
// resolve to a fixed fallback puzzle so a maze referencing a missing
// puzzle stays playable.
package puzzle

import (
	"strings"

	"github.com/mazehack/quizmaze/game/store"
)

// Puzzle is one gate challenge. Check receives the serialized game state
// so that context-sensitive puzzles are possible; the shipped catalogue
// only does literal matching, case-insensitive and trimmed.
type Puzzle struct {
	ID     string
	Title  string
	Prompt string

	accept []string
}

// Check reports whether answer satisfies the puzzle.
func (p Puzzle) Check(answer string, state store.GameState) bool {
	got := strings.ToLower(strings.TrimSpace(answer))
	for _, want := range p.accept {
		if got == want {
			return true
		}
	}
	return false
}

// catalogue — add entries here to expand content.
var catalogue = []Puzzle{
	{
		ID:    "gate-go-basics-1",
		Title: "Firewall Lattice",
		Prompt: "The firewall demands proof you speak the language.\n\n" +
			"  What built-in function returns the number of elements in a slice?\n" +
			"  (one word)",
		accept: []string{"len", "len()"},
	},
	{
		ID:    "gate-go-basics-2",
		Title: "Cipher Node",
		Prompt: "A cipher panel blinks:\n\n" +
			"  What keyword declares a function?\n" +
			"  (one word)",
		accept: []string{"func"},
	},
	{
		ID:    "gate-go-basics-3",
		Title: "Memory Leak",
		Prompt: "The memory banks are leaking. Patch the loop:\n\n" +
			"  Which keyword exits a loop immediately?\n" +
			"  (one word)",
		accept: []string{"break"},
	},
}

// fallback keeps the game playable when a maze references a puzzle id that
// isn't in the catalogue.
var fallback = Puzzle{
	ID:    "__fallback__",
	Title: "Unknown Gate",
	Prompt: "An unrecognized security gate blocks your path.\n\n" +
		"  What is 1 + 1?\n" +
		"  (number)",
	accept: []string{"2"},
}

// Registry looks up puzzles by id.
type Registry struct {
	byID     map[string]Puzzle
	fallback Puzzle
}

// NewRegistry returns a registry loaded with the shipped catalogue.
func NewRegistry() *Registry {
	return NewRegistryWith(catalogue)
}

// NewRegistryWith builds a registry from an explicit puzzle list, keeping
// the standard fallback. Used by tests and custom catalogues.
func NewRegistryWith(puzzles []Puzzle) *Registry {
	r := &Registry{byID: make(map[string]Puzzle, len(puzzles)), fallback: fallback}
	for _, p := range puzzles {
		r.byID[p.ID] = p
	}
	return r
}

// New creates a puzzle with the given accepted answers. Answers are
// matched case-insensitively after trimming.
func New(id, title, prompt string, accept ...string) Puzzle {
	lowered := make([]string, len(accept))
	for i, a := range accept {
		lowered[i] = strings.ToLower(strings.TrimSpace(a))
	}
	return Puzzle{ID: id, Title: title, Prompt: prompt, accept: lowered}
}

// Get returns the puzzle for id, or the fallback when id is unknown. It
// never fails.
func (r *Registry) Get(id string) Puzzle {
	if p, ok := r.byID[id]; ok {
		return p
	}
	return r.fallback
}

// Known reports whether id is present in the catalogue (the fallback does
// not count). Used by maze validation tooling.
func (r *Registry) Known(id string) bool {
	_, ok := r.byID[id]
	return ok
}
