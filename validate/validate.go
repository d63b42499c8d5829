// Command validate provides a small CLI that validates level JSON files in
// the ../levels directory (or the directory given as the first argument).
// It checks:
//   - JSON structure and required fields
//   - Grid dimensions, allowed layout tokens, start/goal uniqueness
//   - Gate bindings (every M tile has a prompt and answer)
//   - Legend entries against the canonical token names
//   - Connectivity: the goal is reachable from the start via passable tiles
//   - Key supply: enough keys exist for the locked doors
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chromamaze/chromamaze/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateLevel loads and validates a single level JSON file. Structural
// rules are enforced by the engine's own validator; on top of that the tool
// runs reachability and key-supply heuristics the engine does not check.
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var cfg engine.LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateLevelConfig(&cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Count elements for the report and the key-supply check.
	keyCount := 0
	doorCount := 0
	gateCount := 0
	fragileCount := 0
	changerCount := 0
	for _, row := range cfg.Layout {
		for _, ch := range row {
			switch ch {
			case 'K':
				keyCount++
			case 'D':
				doorCount++
			case 'M':
				gateCount++
			case 'F':
				fragileCount++
			case 'r', 'g', 'b':
				changerCount++
			}
		}
	}

	if doorCount > keyCount {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Key supply failure: %d locked doors but only %d keys", doorCount, keyCount))
	}

	connectivity := validateConnectivity(cfg.Layout)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s (sequence %d)", cfg.Name, cfg.Sequence))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", cfg.Width, cfg.Height))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Target moves: %d", cfg.TargetMoves))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Keys/Doors: %d/%d", keyCount, doorCount))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Math gates: %d", gateCount))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Fragile tiles: %d", fragileCount))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Color changers: %d", changerCount))
	}

	return result
}

// validateConnectivity ensures the goal is reachable from the start using
// 4-directional movement over passable tiles. Only obstacles and pits are
// treated as impassable; colored ground is passable because the actor can
// repaint itself, and doors/gates are passable because keys and answers can
// open them. A level that fails this check is unwinnable regardless of play.
func validateConnectivity(layout []string) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if len(layout) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Cannot validate connectivity: empty layout")
		return result
	}

	height := len(layout)
	width := len(layout[0])

	var start, goal engine.Position
	foundStart := false
	foundGoal := false
	for y := 0; y < height; y++ {
		for x := 0; x < width && x < len(layout[y]); x++ {
			switch layout[y][x] {
			case 'S':
				start = engine.Position{X: x, Y: y}
				foundStart = true
			case 'X':
				goal = engine.Position{X: x, Y: y}
				foundGoal = true
			}
		}
	}

	if !foundStart || !foundGoal {
		result.Valid = false
		result.Errors = append(result.Errors, "No start or goal found for connectivity test")
		return result
	}

	isPassable := func(x, y int) bool {
		if x < 0 || y < 0 || y >= height || x >= len(layout[y]) {
			return false
		}
		ch := layout[y][x]
		return ch != '#' && ch != '.'
	}

	// Flood fill from the start.
	visited := make(map[engine.Position]bool)
	queue := []engine.Position{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		directions := []engine.Position{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}
		for _, dir := range directions {
			next := engine.Position{X: current.X + dir.X, Y: current.Y + dir.Y}
			if !visited[next] && isPassable(next.X, next.Y) {
				queue = append(queue, next)
			}
		}
	}

	if !visited[goal] {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: goal at (%d,%d) unreachable from start at (%d,%d)", goal.X, goal.Y, start.X, start.Y))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: goal reachable from start (%d passable tiles explored)", len(visited)))
	}

	return result
}

// main scans the level directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	levelDir := "../levels"
	if len(os.Args) > 1 {
		levelDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
