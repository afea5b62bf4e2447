package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mazehack/quizmaze/game/service"
)

// Adapter exposes the game service as MCP tools so an LLM agent can play.
type Adapter struct {
	service   service.GameService
	mcpServer *server.MCPServer
}

// NewAdapter creates a new MCP adapter over the game service.
func NewAdapter(gameService service.GameService) *Adapter {
	a := &Adapter{
		service: gameService,
	}

	a.initMCPServer()
	return a
}

// initMCPServer initializes the MCP server with all tools
func (a *Adapter) initMCPServer() {
	a.mcpServer = server.NewMCPServer(
		"Quiz Maze",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Quiz Maze - MCP Interface

GAME OBJECTIVE:
Navigate a grid maze from the start cell to the exit. Some passages are
gated by quiz puzzles: moving through one presents a question you must
answer before the move is allowed. Fewest moves and fastest time win.

AVAILABLE TOOLS:
- new_game: Start a game for a player handle (returns the game_id)
- command: Run one game command against a game
- view: Get the current view of a game without running a command
- list_mazes: List available maze layouts
- scores: Show the leaderboard for a maze

COMMAND LANGUAGE (for the 'command' tool):
- n / s / e / w, or "go north" etc. - move
- look - re-describe the current cell
- answer <text> - answer the pending puzzle
- save - save progress

When a move hits a gate the result carries a pending_puzzle; answer it
with "answer <text>" and then repeat the move.`),
	)

	a.registerTools()
}

// registerTools registers all MCP tools
func (a *Adapter) registerTools() {
	a.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game and return its game_id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_handle": map[string]interface{}{
					"type":        "string",
					"description": "Player handle to register the game under",
				},
				"maze": map[string]interface{}{
					"type":        "string",
					"description": "Maze name to play (optional, defaults to the built-in maze)",
				},
			},
			Required: []string{"player_handle"},
		},
	}, a.handleNewGame)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Run one game command (move, look, answer, save) against a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID returned by new_game",
				},
				"line": map[string]interface{}{
					"type":        "string",
					"description": "Command line, e.g. 'go east', 'answer len', 'look'",
				},
			},
			Required: []string{"game_id", "line"},
		},
	}, a.handleCommand)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "view",
		Description: "Get the current view of a game without running a command",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, a.handleView)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "list_mazes",
		Description: "List the available maze layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, a.handleListMazes)

	a.mcpServer.AddTool(mcp.Tool{
		Name:        "scores",
		Description: "Show the leaderboard for a maze",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": map[string]interface{}{
					"type":        "string",
					"description": "Maze ID to list scores for",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum entries to return (default 10)",
				},
			},
			Required: []string{"maze_id"},
		},
	}, a.handleScores)
}

// GetMCPServer returns the underlying MCP server, for mounting on an
// HTTP endpoint.
func (a *Adapter) GetMCPServer() *server.MCPServer {
	return a.mcpServer
}

// ServeStdio runs the MCP server over stdin/stdout.
func (a *Adapter) ServeStdio() error {
	return server.ServeStdio(a.mcpServer)
}

// Tool handlers

func (a *Adapter) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	playerHandle, _ := args["player_handle"].(string)
	mazeName, _ := args["maze"].(string)

	info, err := a.service.NewGame(ctx, playerHandle, mazeName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Created game: %s\nMaze: %s (%s)\n\n", info.GameID, info.MazeID, info.MazeVersion)
	sb.WriteString(renderJSON(info.View))
	return mcp.NewToolResultText(sb.String()), nil
}

func (a *Adapter) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	line, _ := args["line"].(string)

	result, err := a.service.Command(ctx, gameID, line)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	for _, msg := range result.Messages {
		fmt.Fprintf(&sb, "[%s]\n", msg)
	}
	sb.WriteString(renderJSON(result.View))
	return mcp.NewToolResultText(sb.String()), nil
}

func (a *Adapter) handleView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	view, err := a.service.View(ctx, gameID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(renderJSON(view)), nil
}

func (a *Adapter) handleListMazes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := a.service.ListMazes(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(renderJSON(infos)), nil
}

func (a *Adapter) handleScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	mazeID, _ := args["maze_id"].(string)
	limit := 10
	if raw, ok := args["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}

	scores, err := a.service.TopScores(ctx, mazeID, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(scores) == 0 {
		return mcp.NewToolResultText("No scores recorded yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("Top Scores:\n")
	for i, s := range scores {
		fmt.Fprintf(&sb, "%d. %d moves, %ds (player %s)\n",
			i+1, s.Metrics.Moves, s.Metrics.ElapsedSeconds, s.PlayerID)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func renderJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
