package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigurationError reports malformed level data. It is fatal at load time:
// the level is rejected and never partially constructed.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "level config: " + e.Detail
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Detail: fmt.Sprintf(format, args...)}
}

// tileForToken is the closed lookup table from layout shorthand to tile.
// Unknown tokens are a ConfigurationError, never a silent default.
func tileForToken(ch rune) (Tile, bool) {
	switch ch {
	case '.':
		return Tile{Kind: Pit}, true
	case 'N':
		return Tile{Kind: Ground, Tag: ColorNeutral}, true
	case 'R':
		return Tile{Kind: Ground, Tag: ColorRed}, true
	case 'G':
		return Tile{Kind: Ground, Tag: ColorGreen}, true
	case 'B':
		return Tile{Kind: Ground, Tag: ColorBlue}, true
	case 'r':
		return Tile{Kind: ColorChanger, Tag: ColorRed}, true
	case 'g':
		return Tile{Kind: ColorChanger, Tag: ColorGreen}, true
	case 'b':
		return Tile{Kind: ColorChanger, Tag: ColorBlue}, true
	case '#':
		return Tile{Kind: Obstacle}, true
	case 'S':
		return Tile{Kind: Start, Tag: ColorNeutral}, true
	case 'X':
		return Tile{Kind: Goal}, true
	case 'K':
		return Tile{Kind: KeyTile}, true
	case 'D':
		return Tile{Kind: Door, Locked: true}, true
	case 'M':
		return Tile{Kind: MathGate, Locked: true}, true
	case 'F':
		return Tile{Kind: Fragile}, true
	default:
		return Tile{}, false
	}
}

// canonicalLegend maps layout tokens to tile kind names for documentation
// inside level files. Entries in a level's legend must match.
var canonicalLegend = map[string]string{
	".": "pit",
	"N": "neutral_ground",
	"R": "red_ground",
	"G": "green_ground",
	"B": "blue_ground",
	"r": "red_changer",
	"g": "green_changer",
	"b": "blue_changer",
	"#": "obstacle",
	"S": "start",
	"X": "goal",
	"K": "key",
	"D": "door",
	"M": "math_gate",
	"F": "fragile",
}

// ValidateLevelConfig validates a level descriptor for correctness and
// playability before any tile is constructed.
func ValidateLevelConfig(cfg *LevelConfig) error {
	if cfg == nil {
		return configErrorf("level is nil")
	}
	if cfg.Name == "" {
		return configErrorf("name is required")
	}
	if cfg.Description == "" {
		return configErrorf("description is required")
	}

	if cfg.Width < MinGridDim || cfg.Width > MaxGridDim {
		return configErrorf("width must be between %d and %d, got %d", MinGridDim, MaxGridDim, cfg.Width)
	}
	if cfg.Height < MinGridDim || cfg.Height > MaxGridDim {
		return configErrorf("height must be between %d and %d, got %d", MinGridDim, MaxGridDim, cfg.Height)
	}
	if cfg.TargetMoves < MinTargetMoves {
		return configErrorf("target_moves must be at least %d, got %d", MinTargetMoves, cfg.TargetMoves)
	}

	if len(cfg.Layout) != cfg.Height {
		return configErrorf("layout must have %d rows to match height, got %d", cfg.Height, len(cfg.Layout))
	}

	startCount := 0
	goalCount := 0
	gateCoords := make(map[Position]bool)
	for y, row := range cfg.Layout {
		if len(row) != cfg.Width {
			return configErrorf("row %d must have %d characters to match width, got %d", y+1, cfg.Width, len(row))
		}
		for x, ch := range row {
			tile, ok := tileForToken(ch)
			if !ok {
				return configErrorf("unknown token %q at row %d, col %d", ch, y+1, x+1)
			}
			switch tile.Kind {
			case Start:
				startCount++
			case Goal:
				goalCount++
			case MathGate:
				gateCoords[Position{X: x, Y: y}] = false
			}
		}
	}

	if startCount != 1 {
		return configErrorf("layout must contain exactly one start (S), got %d", startCount)
	}
	if goalCount != 1 {
		return configErrorf("layout must contain exactly one goal (X), got %d", goalCount)
	}

	// Every gate binding must address a math gate, and every math gate must
	// be answerable.
	for i, gate := range cfg.Gates {
		pos := Position{X: gate.X, Y: gate.Y}
		bound, exists := gateCoords[pos]
		if !exists {
			return configErrorf("gate binding %d addresses (%d,%d) which is not a math gate", i+1, gate.X, gate.Y)
		}
		if bound {
			return configErrorf("gate binding %d duplicates (%d,%d)", i+1, gate.X, gate.Y)
		}
		if strings.TrimSpace(gate.Prompt) == "" {
			return configErrorf("gate binding at (%d,%d) has an empty prompt", gate.X, gate.Y)
		}
		if strings.TrimSpace(gate.Answer) == "" {
			return configErrorf("gate binding at (%d,%d) has an empty answer", gate.X, gate.Y)
		}
		gateCoords[pos] = true
	}
	for pos, bound := range gateCoords {
		if !bound {
			return configErrorf("math gate at (%d,%d) has no gate binding", pos.X, pos.Y)
		}
	}

	for token, name := range cfg.Legend {
		expected, ok := canonicalLegend[token]
		if !ok {
			return configErrorf("legend token %q is not a layout token", token)
		}
		if name != expected {
			return configErrorf("legend[%q] must be %q, got %q", token, expected, name)
		}
	}

	return nil
}

// InitGameStateFromLevel constructs a fresh game state from a validated
// level descriptor. All runtime tile flags start at their loaded values.
func InitGameStateFromLevel(cfg *LevelConfig) (*GameState, error) {
	if err := ValidateLevelConfig(cfg); err != nil {
		return nil, err
	}

	grid := make([][]Tile, cfg.Height)
	var startPos, goalPos Position
	for y := 0; y < cfg.Height; y++ {
		grid[y] = make([]Tile, cfg.Width)
		for x, ch := range cfg.Layout[y] {
			tile, _ := tileForToken(ch)
			switch tile.Kind {
			case Start:
				startPos = Position{X: x, Y: y}
			case Goal:
				goalPos = Position{X: x, Y: y}
			}
			grid[y][x] = tile
		}
	}

	for _, gate := range cfg.Gates {
		tile := &grid[gate.Y][gate.X]
		tile.Prompt = gate.Prompt
		tile.Answer = gate.Answer
	}

	return &GameState{
		Grid:        grid,
		Width:       cfg.Width,
		Height:      cfg.Height,
		StartPos:    startPos,
		GoalPos:     goalPos,
		ActorPos:    startPos,
		ActorColor:  ColorNeutral,
		Keys:        0,
		Moves:       0,
		Phase:       PhasePlaying,
		Message:     fmt.Sprintf("Level %s loaded. Reach the goal.", cfg.Name),
		LevelName:   cfg.Name,
		TargetMoves: cfg.TargetMoves,
		History:     []Snapshot{},
		Journal:     []StepRecord{},
	}, nil
}

// LoadLevelConfig loads a level descriptor from a JSON file.
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	path := filename
	if levelDir := os.Getenv("LEVEL_DIR"); levelDir != "" {
		if strings.HasPrefix(filename, "levels/") {
			path = filepath.Join(levelDir, strings.TrimPrefix(filename, "levels/"))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, configErrorf("parse %s: %v", filepath.Base(path), err)
	}

	if err := ValidateLevelConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
