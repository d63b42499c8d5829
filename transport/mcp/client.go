package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/chromamaze/chromamaze/game/scores"
	"github.com/chromamaze/chromamaze/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Chroma Maze",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Chroma Maze - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Guide the actor (@) from the start (S) to the goal (X). Colored ground kills
an actor of the same color, so use color changers (r/g/b) carefully. Collect
keys (K) for locked doors (D), answer math gates (M), and mind fragile tiles
(F) that collapse after one crossing.

AVAILABLE TOOLS:
- game_state: Get current game state with a grid rendering
- move: Single move (up/down/left/right) - requires intent explanation
- undo: Revert the last step
- answer_gate: Answer a pending math gate
- cancel_gate: Step back from a pending math gate
- reset_game: Reset the level to its initial state
- advance_level: Move on after completing a level
- move_history: View past steps
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_levels: List available levels
- leaderboard: Top scores for a level
- game_instructions: Get comprehensive game instructions and rules
- describe_tile: Get detailed info about a specific grid tile

NOTE: The 'intent' parameter on the move tool serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the level to play (optional, defaults to the first level)",
				},
				"player": map[string]interface{}{
					"type":        "string",
					"description": "Player name for the leaderboard (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the actor in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Revert the last committed step",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "answer_gate",
		Description: "Answer the math gate currently awaiting a response. A wrong answer is fatal; use cancel_gate to back off safely.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"answer": map[string]interface{}{
					"type":        "string",
					"description": "Answer to the gate's question",
				},
			},
			Required: []string{"session_id", "answer"},
		},
	}, c.handleAnswerGate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_gate",
		Description: "Step back from a pending math gate without answering. The triggering step is rolled back and the gate stays locked.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCancelGate)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the level to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_level",
		Description: "Advance a completed session to the next level in the sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the step history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels in sequence order",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Get the top recorded scores for a level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level identifier",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries (default 10)",
				},
			},
			Required: []string{"level_id"},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about a specific tile in the grid, including whether stepping on it is safe for the actor's current color.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the tile to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the tile to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)
	player, _ := args["player"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}
	if player != "" {
		body["player"] = player
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n", session.ID, session.LevelName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Level: %s, Created: %s)\n",
			s.ID, s.LevelName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"direction": direction,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.UndoResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/undo", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "✗ Nothing undone"
	if result.Undone {
		status = "✓ Step reverted"
	}
	response := fmt.Sprintf("%s\n%s\n\n%s", status, result.Message, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleAnswerGate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	answer, _ := args["answer"].(string)

	body := map[string]string{"answer": answer}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/answer", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleCancelGate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/cancel", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.AdvanceResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/advance", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status := "✗ Not advanced"
	if result.Advanced {
		status = fmt.Sprintf("✓ Advanced to %s (level %d)", result.LevelName, result.LevelIndex+1)
	}
	response := fmt.Sprintf("%s\n%s\n\n%s", status, result.Message, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	err := c.apiCall("GET", "/api/levels", nil, &levels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %dx%d, Target moves: %d\n\n",
			level.Name, level.LevelID, level.Description, level.Width, level.Height, level.TargetMoves)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	params := ""
	if limit, ok := args["limit"].(float64); ok {
		params = fmt.Sprintf("?limit=%d", int(limit))
	}

	var response struct {
		LevelID string          `json:"level_id"`
		Count   int             `json:"count"`
		Scores  []scores.Record `json:"scores"`
	}
	err := c.apiCall("GET", fmt.Sprintf("/api/levels/%s/scores%s", levelID, params), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Leaderboard for %s (%d entries):\n\n", response.LevelID, response.Count)
	for i, record := range response.Scores {
		result += fmt.Sprintf("%d. %s - %d moves, %s, %.1fs\n",
			i+1, record.Player, record.Moves, starString(record.Stars), float64(record.ElapsedMs)/1000)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎨 Chroma Maze - Complete Instructions

GAME OBJECTIVE:
Guide the actor from the start (S) to the goal (X) on a bounded grid, in as
few moves as possible.

GAME MECHANICS:
• Movement: one tile at a time, up/down/left/right only
• Color rule: ground tinted with the actor's OWN color is lethal; any other
  color (and neutral ground) is safe
• Color changers (r/g/b): stepping on one repaints the actor
• Keys and doors: each locked door (D) consumes exactly one held key (K);
  walking into a locked door without a key is fatal
• Math gates (M): stepping on a locked gate pauses the game and asks a
  question; a correct answer opens the gate permanently, a wrong answer is
  fatal, and cancelling rolls the step back safely
• Fragile tiles (F): safe once, fatal the second time
• Pits (.): always fatal
• Undo: reverts the last step's position, color, and key count, but does NOT
  repair tile state (collapsed fragile tiles stay collapsed)
• Death: the level resets automatically; the cumulative step journal and
  death count survive

GRID LEGEND:
• @ - the actor's current position
• S - start (neutral, safe)
• X - goal
• N - neutral ground (always safe)
• R/G/B - colored ground (fatal if it matches YOUR color)
• r/g/b - color changers (repaint the actor)
• # - obstacle (blocks the move, never fatal)
• . - pit (fatal)
• K - key, D - locked door, d - opened door
• M - locked math gate, m - opened gate
• F - fragile tile, f - collapsed fragile tile

STAR RATING:
• 3 stars: finish within the level's target move count
• 2 stars: finish within 130% of the target
• 1 star: anything slower

STRATEGY NOTES:
- Track your current color at every step; the same ground tile can be safe
  or fatal depending on it
- Plan fragile-tile crossings: an undo after crossing does not restore the
  tile, so a second crossing kills
- Blocked moves (obstacles, grid edge) cost nothing; lethal tiles do -
  the fatal step still counts against your move total
- Cancelling a math gate is free; answering wrongly is not

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 4-character ID
- Sessions maintain independent state and level progress

Good luck in the maze! 🎨`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	// Get the current game state to access the grid
	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Check bounds
	if y < 0 || y >= len(state.Grid) || x < 0 || x >= state.Width {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid is %dx%d (0-based)",
			x, y, state.Width, state.Height)), nil
	}

	tile := state.Grid[y][x]
	token := engine.TokenForTile(tile)
	kind, safety := describeTile(tile, state.ActorColor, state.Keys)

	result := fmt.Sprintf(`Tile at position (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Type: %s
%s`,
		x, y, token, kind, safety)

	if x == state.ActorPos.X && y == state.ActorPos.Y {
		result += "\n\n🧍 The actor is currently standing here."
	}

	return mcp.NewToolResultText(result), nil
}

// describeTile explains a tile's behavior relative to the actor's state
func describeTile(tile engine.Tile, actorColor engine.ColorTag, keys int) (string, string) {
	switch tile.Kind {
	case engine.Pit:
		return "Pit", "☠️ FATAL: stepping here kills the actor (the step still counts)."
	case engine.Ground:
		if tile.Tag == engine.ColorNeutral {
			return "Neutral ground", "✅ Always safe."
		}
		if tile.Tag == actorColor {
			return fmt.Sprintf("%s ground", tile.Tag), fmt.Sprintf("☠️ FATAL right now: the actor is %s and same-color ground is lethal.", actorColor)
		}
		return fmt.Sprintf("%s ground", tile.Tag), fmt.Sprintf("✅ Safe while the actor is %s. It becomes fatal if the actor turns %s.", actorColor, tile.Tag)
	case engine.Obstacle:
		return "Obstacle", "🧱 Blocks the move entirely; never fatal and never costs a move."
	case engine.ColorChanger:
		return fmt.Sprintf("Color changer (%s)", tile.Tag), fmt.Sprintf("🎨 Stepping here repaints the actor %s.", tile.Tag)
	case engine.Start:
		return "Start", "✅ Behaves as neutral ground."
	case engine.Goal:
		return "Goal", "🏁 Stepping here completes the level."
	case engine.KeyTile:
		if tile.Collected {
			return "Key (taken)", "✅ The key here was already collected; now plain safe ground."
		}
		return "Key", "🔑 Safe; picks up one key on first visit."
	case engine.Door:
		if !tile.Locked {
			return "Door (open)", "✅ Already unlocked; passes freely."
		}
		if keys > 0 {
			return "Door (locked)", fmt.Sprintf("🚪 Locked, but you hold %d key(s): entering consumes one and opens it.", keys)
		}
		return "Door (locked)", "☠️ FATAL right now: locked and you hold no key."
	case engine.MathGate:
		if !tile.Locked {
			return "Math gate (open)", "✅ Already answered; passes freely."
		}
		return "Math gate (locked)", "❓ Stepping here pauses the game and asks a question. Cancel is safe; a wrong answer is fatal."
	case engine.Fragile:
		if tile.Used {
			return "Fragile tile (collapsed)", "☠️ FATAL: this tile already collapsed."
		}
		return "Fragile tile", "⚠️ Safe exactly once; collapses behind you."
	default:
		return "Unknown", "Unknown tile type."
	}
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header (include cumulative step count across resets)
	result.WriteString(fmt.Sprintf("Position: (%d,%d) | Color: %s | Keys: %d | Moves: %d/%d target | Steps total: %d\n\n",
		state.ActorPos.X, state.ActorPos.Y,
		state.ActorColor, state.Keys, state.Moves, state.TargetMoves, state.TotalSteps))

	// Grid
	for y := 0; y < len(state.Grid); y++ {
		for x := 0; x < len(state.Grid[y]); x++ {
			if x == state.ActorPos.X && y == state.ActorPos.Y {
				result.WriteString("@")
			} else {
				result.WriteString(engine.TokenForTile(state.Grid[y][x]))
			}
		}
		result.WriteString("\n")
	}

	// Status
	switch state.Phase {
	case engine.PhaseWon:
		result.WriteString(fmt.Sprintf("\n🎉 LEVEL COMPLETE! %s\n", starString(engine.StarRating(state.Moves, state.TargetMoves))))
	case engine.PhaseDead:
		result.WriteString("\n💀 DEAD (reset pending)")
	case engine.PhaseAwaitingAnswer:
		result.WriteString("\n❓ A gate awaits your answer")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var response string
	switch result.Outcome.Kind {
	case engine.Blocked:
		response = fmt.Sprintf("✗ Blocked: %s\n", result.Outcome.Reason)
	case engine.Died:
		response = fmt.Sprintf("💀 Fatal: %s (level was reset)\n", result.Outcome.Reason)
	case engine.Resolving:
		response = fmt.Sprintf("❓ Gate question: %s\nAnswer with answer_gate or back off with cancel_gate.\n", result.Outcome.Prompt)
	case engine.Cancelled:
		response = "↩ Stepped back from the gate; the move was rolled back.\n"
	case engine.Completed:
		response = "🎉 Goal reached!\n"
		if result.Completion != nil {
			response += fmt.Sprintf("%s - %d moves (target %d), %.1fs\n",
				starString(result.Completion.Stars), result.Completion.Moves,
				result.Completion.TargetMoves, float64(result.Completion.ElapsedMs)/1000)
			if result.Completion.HasNext {
				response += "Use advance_level to continue.\n"
			}
		}
	default:
		response = "✓ Move successful\n"
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Step History (Page %d/%d) - Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalSteps)

	for _, step := range history.Steps {
		result += fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) %s",
			step.StepNumber, step.Action,
			step.From.X, step.From.Y, step.To.X, step.To.Y, step.Outcome)
		if step.Reason != "" {
			result += fmt.Sprintf(" (%s)", step.Reason)
		}
		result += "\n"
	}

	return result
}

func starString(stars int) string {
	if stars < 1 {
		stars = 1
	}
	if stars > 3 {
		stars = 3
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
}
