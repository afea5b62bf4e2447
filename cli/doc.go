// Package cli implements the interactive terminal front end: a banner,
// a handle prompt, and a read-eval-print loop over the game engine with
// local rendering of views, maps, and the leaderboard.
package cli
