// Package engine provides the core game logic for Chroma Maze.
//
// The engine package implements the game mechanics including:
//   - Grid-based movement with tile interaction resolution
//   - Actor color state, keys, and single-step undo history
//   - Locked doors, fragile tiles, and answer-locked math gates
//   - Win/lose determination and star-rating progression
//   - Level descriptor loading and fail-closed validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the complete mutable state of
// one level session, while LevelConfig is the static descriptor loaded from
// JSON files.
//
// Usage:
//
//	level, err := engine.LoadLevelConfig("levels/first-steps.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome := eng.Move("right")
//	if outcome.Kind == engine.Died {
//		eng.Reset()
//	}
//
// Game Rules:
//
// The actor carries a color tag and moves one tile at a time. Colored ground
// is lethal when it matches the actor's own color; color changers overwrite
// the tag. Keys open locked doors, fragile tiles collapse after one use, and
// math gates pause resolution until an external answer arrives. Stepping
// into a pit, onto matching ground, onto a collapsed tile, into a locked
// door without a key, or answering a gate wrongly is fatal and forces a
// level-local reset. Reaching the goal completes the level and the move
// count is scored against the level's target.
package engine
