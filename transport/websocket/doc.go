// Package websocket provides WebSocket transport for the Chroma Maze server.
//
// The websocket package implements:
//   - Real-time state broadcasting to game observers
//   - Session-aware WebSocket connections
//   - Connection lifecycle management
//   - Keepalive via ping/pong
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a pair of
// goroutines pumping reads and writes.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded and carry the session ID, an event
// name, and optionally the resolution outcome and resulting game state:
//
//	{
//	  "session_id": "ab12",
//	  "event": "continued",
//	  "outcome": { "kind": "continued", "from": {...}, "to": {...} },
//	  "game_state": { ... }
//	}
//
// StateUpdate builds a plain state message for events like undo and reset;
// OutcomeUpdate attaches the move outcome and tags the event with the
// outcome kind. Broadcast payloads are marshaled once at broadcast time, so
// callers must hand the hub state snapshots rather than live engine state.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12) when
// establishing the connection. Updates are broadcast only to clients
// connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// After a mutating operation:
//	hub.BroadcastToSession(sessionID, websocket.OutcomeUpdate(outcome, state))
//
// Concurrency:
//
// Registration, unregistration, and event broadcasts flow through the hub's
// run loop. Clients with a full send buffer are disconnected rather than
// allowed to block the broadcast.
package websocket
