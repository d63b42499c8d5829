// Package mcp provides the Model Context Protocol interface for the Chroma
// Maze server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for all game operations
//   - Text renderings of the grid and game state
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current game state with grid visualization
//   - move: Execute single directional movement with an intent note
//   - undo: Revert the last committed step
//   - answer_gate: Answer the math gate awaiting a response
//   - cancel_gate: Step back from a pending math gate
//   - reset_game: Reset the level to its initial state
//   - advance_level: Move on after completing a level
//   - move_history: Retrieve the step journal with pagination
//   - create_session: Create new game session with level selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_levels: List available levels
//   - leaderboard: Top recorded scores for a level
//   - game_instructions: Comprehensive game rules
//   - describe_tile: Detailed safety info for one grid tile
//
// Architecture:
//
// The client is a thin proxy: every tool call is translated into a REST
// request against the HTTP API and the JSON response is rendered as text.
// This keeps the MCP surface stateless and guarantees AI agents and web
// clients observe identical game state.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: /mcp endpoint on the game server for remote integration
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously solve levels
//   - Inspect tile safety before committing to a move
//   - Manage multiple game sessions
//   - Learn from the step journal and leaderboard
package mcp
