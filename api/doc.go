// Package api exposes the game service over REST.
//
// Routes:
//
//	POST /api/games               create a game {player_handle, maze}
//	GET  /api/games/{id}          describe a game
//	POST /api/games/{id}/command  run one command line {line}
//	GET  /api/games/{id}/view     current view without running a command
//	GET  /api/mazes               maze catalogue
//	GET  /api/scores              leaderboard (?maze_id=...&limit=N)
//	GET  /ws                      WebSocket subscription (?gameId=...)
//
// Command results are also pushed to WebSocket watchers of the same
// game, so a browser can mirror a session driven from elsewhere.
package api
