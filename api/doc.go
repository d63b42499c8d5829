// Package api provides HTTP REST API handlers for the Chroma Maze server.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Level listing, loading, and saving
//   - Leaderboard access per level
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - Move the actor one tile
//   - POST /api/sessions/{id}/undo - Revert the last step
//   - POST /api/sessions/{id}/answer - Answer a pending math gate
//   - POST /api/sessions/{id}/cancel - Back off a pending math gate
//   - POST /api/sessions/{id}/reset - Reset the level
//   - POST /api/sessions/{id}/advance - Advance to the next level
//   - GET /api/sessions/{id}/history - Get the step journal with pagination
//
// Levels and Scores:
//   - GET /api/levels - List available levels
//   - GET /api/levels/{name} - Get a level definition
//   - POST /api/levels - Save a level definition
//   - GET /api/levels/{name}/scores - Top recorded completions
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves are sent as POST with a JSON
// body:
//
//	{
//	  "direction": "up|down|left|right"
//	}
//
// Gameplay outcomes (blocked moves, deaths) are ordinary 200 responses
// carrying the outcome; HTTP error codes are reserved for transport problems
// such as unknown sessions or malformed bodies. State payloads are redacted
// snapshots: math-gate answers never appear in them.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message",
//	  "code": 404
//	}
package api
