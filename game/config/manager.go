package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/chromamaze/chromamaze/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level loading and caching
type Manager struct {
	levelDir     string
	defaultLevel *engine.LevelConfig
	defaultName  string
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelDir string) (*Manager, error) {
	// Ensure level directory exists
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	// Load default level
	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by name
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	m.mu.RLock()
	// Check cache first
	if level, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[name]; exists {
		return level, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelDir, filename)

	// Read level file
	data, err := os.ReadFile(levelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	// Parse level
	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	// Validate level
	if err := engine.ValidateLevelConfig(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	// Cache the level
	m.levels[name] = &level
	return &level, nil
}

// ListLevels returns information about all available levels, ordered by
// their sequence number.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []*service.LevelInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for level name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the level to get details
		level, err := m.LoadLevel(name)
		if err != nil {
			// Skip invalid levels
			continue
		}

		levels = append(levels, &service.LevelInfo{
			Filename:    entry.Name(),
			LevelID:     name, // This is the identifier to use for session creation
			Name:        level.Name,
			Description: level.Description,
			Sequence:    level.Sequence,
			Width:       level.Width,
			Height:      level.Height,
			TargetMoves: level.TargetMoves,
		})
	}

	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Sequence != levels[j].Sequence {
			return levels[i].Sequence < levels[j].Sequence
		}
		return levels[i].LevelID < levels[j].LevelID
	})

	return levels, nil
}

// LevelAt loads the level at the given position in the sequence. It returns
// the level together with its identifier.
func (m *Manager) LevelAt(index int) (*engine.LevelConfig, string, error) {
	levels, err := m.ListLevels()
	if err != nil {
		return nil, "", err
	}
	if index < 0 || index >= len(levels) {
		return nil, "", ErrLevelNotFound
	}

	level, err := m.LoadLevel(levels[index].LevelID)
	if err != nil {
		return nil, "", err
	}
	return level, levels[index].LevelID, nil
}

// IndexOf returns the position of a level in the sequence, or -1 when the
// level is not part of it.
func (m *Manager) IndexOf(name string) int {
	levels, err := m.ListLevels()
	if err != nil {
		return -1
	}
	for i, info := range levels {
		if info.LevelID == name {
			return i
		}
	}
	return -1
}

// Count returns the number of levels in the sequence
func (m *Manager) Count() int {
	levels, err := m.ListLevels()
	if err != nil {
		return 0
	}
	return len(levels)
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// DefaultName returns the identifier of the default level
func (m *Manager) DefaultName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	m.defaultName = name
	return nil
}

// RefreshCache reloads all cached levels from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	// Reload default level
	return m.loadDefaultLevel()
}

// loadDefaultLevel picks the first level of the sequence as the default
func (m *Manager) loadDefaultLevel() error {
	levels, err := m.ListLevels()
	if err != nil || len(levels) == 0 {
		m.mu.Lock()
		m.defaultLevel = m.createMinimalLevel()
		m.defaultName = "default"
		m.mu.Unlock()
		return nil
	}

	level, err := m.LoadLevel(levels[0].LevelID)
	if err != nil {
		m.mu.Lock()
		m.defaultLevel = m.createMinimalLevel()
		m.defaultName = "default"
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.defaultName = levels[0].LevelID
	m.mu.Unlock()
	return nil
}

// SaveLevel saves a level to disk
func (m *Manager) SaveLevel(name string, level *engine.LevelConfig) error {
	// Validate level before saving
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	levelPath := filepath.Join(m.levelDir, filename)

	// Marshal level to JSON with indentation
	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	// Write to file
	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.levels[name] = level
	m.mu.Unlock()

	return nil
}

// createMinimalLevel creates a minimal valid level
func (m *Manager) createMinimalLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "default",
		Description: "Default minimal level",
		Sequence:    0,
		Width:       3,
		Height:      3,
		TargetMoves: 4,
		Layout: []string{
			"SNN",
			"NNN",
			"NNX",
		},
	}
}
