// Package session provides session management for the Chroma Maze server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - JSON file persistence across restarts
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session holds its own engine instance together with metadata such as
// the current level, the player name, and creation and last-access times.
//
// Session Identifiers:
//
// Sessions use 4-character lowercase hex IDs for easy reference. Lookups are
// case-insensitive. The manager ensures IDs are unique using cryptographic
// randomness.
//
// Persistence:
//
// With a SessionPersistence configured, every session is serialized to a
// JSON file after each mutating operation, full game state included, and
// restored on startup. Tile runtime flags (collapsed fragile tiles, opened
// doors and gates) survive a server restart this way.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Usage:
//
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	// Create a new session
//	sess, err := manager.Create("", level, "first-steps", 0, "ada")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve an existing session
//	sess, err = manager.Get(sessionID)
//
//	// List all active sessions
//	sessions := manager.List()
//
// Cleanup:
//
// CleanupExpiredSessions removes sessions idle beyond a given age, both from
// memory and from disk. The manager also supports pruning in-memory sessions
// whose persistence files were deleted externally.
package session
