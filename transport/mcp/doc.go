// Package mcp exposes the game as Model Context Protocol tools so an AI
// agent can play it.
//
// Tools:
//   - new_game: start a game for a player handle
//   - command: run one game command line (moves, look, answer, save)
//   - view: current view without running a command
//   - list_mazes: available maze layouts
//   - scores: per-maze leaderboard
//
// The adapter calls the game service directly, so stdio mode works
// without a running HTTP server; the same server can also be mounted on
// an HTTP endpoint via GetMCPServer().HandleMessage.
package mcp
