// Package service is the business logic layer between the presentation
// adapters (HTTP, WebSocket, MCP, CLI) and the game engine.
//
// GameService is the main interface: it creates games, routes command
// lines to the right live session, and exposes the maze catalogue and
// the leaderboard. Sessions are cached per game id; a game that is not
// live is resumed transparently from the persistent store, so a game id
// stays usable across process restarts and across transports.
//
// Usage:
//
//	sessions := session.NewManager()
//	mazes := config.NewManager("mazes")
//	svc := service.NewGameService(sessions, mazes, puzzle.NewRegistry(), st)
//
//	info, err := svc.NewGame(ctx, "ada", "default")
//	result, err := svc.Command(ctx, info.GameID, "go east")
package service
