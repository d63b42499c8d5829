package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/chromamaze/chromamaze/game/service"
	"github.com/mark3labs/mcp-go/mcp"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func newMCPTestState(t *testing.T) *engine.GameState {
	t.Helper()
	state, err := engine.InitGameStateFromLevel(&engine.LevelConfig{
		Name:        "Test",
		Description: "mcp test level",
		Sequence:    1,
		Width:       3,
		Height:      2,
		TargetMoves: 2,
		Layout:      []string{"SNX", "NNN"},
	})
	if err != nil {
		t.Fatalf("failed to build test state: %v", err)
	}
	return state
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("unexpected base URL %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("http client not initialized")
	}
	if client.mcpServer == nil {
		t.Error("mcp server not initialized")
	}
	if client.GetMCPServer() != client.mcpServer {
		t.Error("GetMCPServer must return the underlying server")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result map[string]string
	if err := client.apiCall("GET", "/api/health", nil, &result); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("unexpected response: %v", result)
	}
}

func TestClient_apiCall_ConnectError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	if err := client.apiCall("GET", "/api/health", nil, nil); err == nil {
		t.Error("expected an error for an unreachable server")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/health", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/sessions/zz99", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if err.Error() != "session not found" {
		t.Errorf("expected the server's error message, got %q", err.Error())
	}
}

func TestClient_createSession(t *testing.T) {
	state := newMCPTestState(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:        "ab12",
			LevelName: "first-steps",
			GameState: state,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(t.Context(),
		toolRequest("create_session", map[string]interface{}{"level_id": "first-steps"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "ab12") {
		t.Errorf("response must mention the session ID, got %q", text)
	}
	if !strings.Contains(text, "first-steps") {
		t.Errorf("response must mention the level, got %q", text)
	}
}

func TestClient_handleGameState(t *testing.T) {
	state := newMCPTestState(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/state" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(state)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleGameState(t.Context(),
		toolRequest("game_state", map[string]interface{}{"session_id": "ab12"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Position: (0,0)") {
		t.Errorf("missing position header in %q", text)
	}
	if !strings.Contains(text, "@NX") {
		t.Errorf("actor marker missing from grid rendering in %q", text)
	}
}

func TestClient_handleDescribeTile(t *testing.T) {
	state := newMCPTestState(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(state)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleDescribeTile(t.Context(),
		toolRequest("describe_tile", map[string]interface{}{
			"session_id": "ab12", "x": float64(2), "y": float64(0),
		}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Goal") {
		t.Errorf("expected a goal description, got %q", text)
	}

	oob, err := client.handleDescribeTile(t.Context(),
		toolRequest("describe_tile", map[string]interface{}{
			"session_id": "ab12", "x": float64(9), "y": float64(0),
		}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !oob.IsError {
		t.Error("out-of-bounds coordinates must produce a tool error")
	}
}

func TestFormatGameState(t *testing.T) {
	state := newMCPTestState(t)

	text := formatGameState(state)

	if !strings.Contains(text, "Position: (0,0) | Color: neutral | Keys: 0 | Moves: 0/2 target") {
		t.Errorf("unexpected header in %q", text)
	}
	if !strings.Contains(text, "@NX\nNNN") {
		t.Errorf("unexpected grid rendering in %q", text)
	}
}

func TestFormatGameState_Victory(t *testing.T) {
	state := newMCPTestState(t)
	state.Phase = engine.PhaseWon
	state.Moves = 2

	text := formatGameState(state)

	if !strings.Contains(text, "LEVEL COMPLETE") {
		t.Errorf("missing victory banner in %q", text)
	}
	if !strings.Contains(text, "★★★") {
		t.Errorf("two moves at target two must show three stars, got %q", text)
	}
}

func TestFormatGameState_GameOver(t *testing.T) {
	state := newMCPTestState(t)
	state.Phase = engine.PhaseDead

	if text := formatGameState(state); !strings.Contains(text, "DEAD") {
		t.Errorf("missing death banner in %q", text)
	}
}

func TestFormatGameState_AwaitingAnswer(t *testing.T) {
	state := newMCPTestState(t)
	state.Phase = engine.PhaseAwaitingAnswer

	if text := formatGameState(state); !strings.Contains(text, "gate awaits") {
		t.Errorf("missing gate banner in %q", text)
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	if text := formatGameState(nil); text != "No game state available" {
		t.Errorf("unexpected nil rendering %q", text)
	}
}

func TestFormatMoveResult_Blocked(t *testing.T) {
	result := &service.MoveResult{
		Outcome:   engine.MoveOutcome{Kind: engine.Blocked, Reason: "edge of the grid"},
		GameState: newMCPTestState(t),
	}

	text := formatMoveResult(result)
	if !strings.Contains(text, "✗ Blocked: edge of the grid") {
		t.Errorf("unexpected blocked rendering %q", text)
	}
}

func TestFormatMoveResult_Fatal(t *testing.T) {
	result := &service.MoveResult{
		Outcome:   engine.MoveOutcome{Kind: engine.Died, Reason: "fell into a pit"},
		GameState: newMCPTestState(t),
	}

	text := formatMoveResult(result)
	if !strings.Contains(text, "💀 Fatal: fell into a pit (level was reset)") {
		t.Errorf("unexpected fatal rendering %q", text)
	}
}

func TestFormatMoveResult_GateQuestion(t *testing.T) {
	result := &service.MoveResult{
		Outcome:   engine.MoveOutcome{Kind: engine.Resolving, Prompt: "What is 2 + 2?"},
		GameState: newMCPTestState(t),
	}

	text := formatMoveResult(result)
	if !strings.Contains(text, "Gate question: What is 2 + 2?") {
		t.Errorf("unexpected gate rendering %q", text)
	}
	if !strings.Contains(text, "answer_gate") || !strings.Contains(text, "cancel_gate") {
		t.Errorf("gate rendering must name the follow-up tools, got %q", text)
	}
}

func TestFormatMoveResult_Completed(t *testing.T) {
	result := &service.MoveResult{
		Outcome:   engine.MoveOutcome{Kind: engine.Completed},
		GameState: newMCPTestState(t),
		Completion: &service.CompletionInfo{
			Moves:       3,
			TargetMoves: 2,
			Stars:       2,
			ElapsedMs:   4200,
			HasNext:     true,
		},
	}

	text := formatMoveResult(result)
	if !strings.Contains(text, "🎉 Goal reached!") {
		t.Errorf("missing victory line in %q", text)
	}
	if !strings.Contains(text, "★★☆ - 3 moves (target 2), 4.2s") {
		t.Errorf("unexpected completion summary in %q", text)
	}
	if !strings.Contains(text, "advance_level") {
		t.Errorf("completion with a next level must suggest advancing, got %q", text)
	}
}

func TestDescribeTileSafety(t *testing.T) {
	cases := []struct {
		name  string
		tile  engine.Tile
		color engine.ColorTag
		keys  int
		want  string
	}{
		{"same color ground", engine.Tile{Kind: engine.Ground, Tag: engine.ColorRed}, engine.ColorRed, 0, "FATAL"},
		{"other color ground", engine.Tile{Kind: engine.Ground, Tag: engine.ColorBlue}, engine.ColorRed, 0, "Safe while"},
		{"locked door with key", engine.Tile{Kind: engine.Door, Locked: true}, engine.ColorNeutral, 1, "consumes one"},
		{"locked door without key", engine.Tile{Kind: engine.Door, Locked: true}, engine.ColorNeutral, 0, "FATAL"},
		{"collapsed fragile", engine.Tile{Kind: engine.Fragile, Used: true}, engine.ColorNeutral, 0, "already collapsed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, safety := describeTile(tc.tile, tc.color, tc.keys)
			if !strings.Contains(safety, tc.want) {
				t.Errorf("expected %q in %q", tc.want, safety)
			}
		})
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(t.Context(),
		toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	text := resultText(t, result)
	for _, section := range []string{
		"GAME OBJECTIVE:",
		"GAME MECHANICS:",
		"GRID LEGEND:",
		"STAR RATING:",
		"SESSION MANAGEMENT:",
	} {
		if !strings.Contains(text, section) {
			t.Errorf("instructions missing section %q", section)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	history := &service.HistoryResponse{
		Steps: []engine.StepRecord{
			{
				StepNumber: 1,
				Action:     "move",
				From:       engine.Position{X: 0, Y: 0},
				To:         engine.Position{X: 1, Y: 0},
				Outcome:    string(engine.Continued),
			},
			{
				StepNumber: 2,
				Action:     "move",
				From:       engine.Position{X: 1, Y: 0},
				To:         engine.Position{X: 1, Y: 1},
				Outcome:    string(engine.Died),
				Reason:     "fell into a pit",
			},
		},
		TotalSteps: 2,
		Page:       1,
		TotalPages: 1,
	}

	text := formatHistory(history)
	if !strings.Contains(text, "Step History (Page 1/1)") {
		t.Errorf("unexpected header in %q", text)
	}
	if !strings.Contains(text, "2. move (1,0)→(1,1) died (fell into a pit)") {
		t.Errorf("unexpected step line in %q", text)
	}
}

func TestStarString(t *testing.T) {
	if s := starString(3); s != "★★★" {
		t.Errorf("unexpected 3-star string %q", s)
	}
	if s := starString(1); s != "★☆☆" {
		t.Errorf("unexpected 1-star string %q", s)
	}
	if s := starString(0); s != "★☆☆" {
		t.Errorf("out-of-range stars must clamp, got %q", s)
	}
}
