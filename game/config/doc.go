// Package config provides level configuration management for Chroma Maze.
//
// The config package handles:
//   - Loading level definitions from JSON files
//   - Level validation and verification
//   - Ordered level sequence access
//   - Default level management
//   - Level discovery and listing
//
// Level Format:
//
// Levels are stored as JSON files in the levels directory. Each level
// defines:
//   - Grid layout using character mapping (S=start, X=goal, N=neutral
//     ground, R/G/B=colored ground, r/g/b=color changers, #=obstacle,
//     .=pit, K=key, D=door, M=math gate, F=fragile tile)
//   - Gate bindings attaching a question and answer to each math gate
//   - A sequence number ordering the level progression
//   - A target move count driving the star rating
//
// Caching:
//
// Parsed levels are cached in memory. RefreshCache rescans the directory,
// drops levels whose files disappeared, and re-reads the rest. Malformed
// files are skipped in listings and rejected with a configuration error on
// load.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific level
//	level, err := manager.LoadLevel("first-steps")
//
//	// Ordered sequence access
//	level, levelID, err := manager.LevelAt(0)
//
//	// Get the default (first) level
//	defaultLevel := manager.GetDefault()
//
// Validation:
//
// All levels are validated for:
//   - Proper grid dimensions and row lengths
//   - Known layout tokens only
//   - Exactly one start and one goal
//   - Gate bindings addressing math-gate tiles
package config
