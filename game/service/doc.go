// Package service provides the business logic layer for the Chroma Maze
// server.
//
// The service package implements:
//   - Multi-session game management
//   - Move, undo, and gate resolution orchestration
//   - Forced resets after fatal steps
//   - Level progression and star-rated completions
//   - Score recording with graceful degradation
//   - Step history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. LevelManager provides level loading and ordered sequence
// access.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine, providing session isolation, level management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state. Results carry sanitized state snapshots:
// math-gate answers are stripped and the payload is detached from the live
// engine state, so it is safe to hand to any client.
//
// Usage:
//
//	gameService := service.NewGameService(sessionMgr, levelMgr, scoreStore)
//
//	// Create a new session
//	info, err := gameService.CreateSession(ctx, "first-steps", "ada")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute a move
//	result, err := gameService.Move(ctx, info.ID, "up")
//
// Completion Handling:
//
// When a move completes a level the service computes the star rating from
// the move count and target, measures the elapsed time, and submits a score
// record. A failing score store logs a warning and never affects gameplay
// state. A fatal move triggers an automatic level reset so no session is
// left resting on a lethal tile; the cumulative step journal and death count
// survive the reset.
package service
