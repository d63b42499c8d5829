package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chromamaze/chromamaze/game/engine"
)

func writeLevel(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write level file: %v", err)
	}
}

func testLevelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeLevel(t, dir, "second.json", `{
		"name": "Second",
		"description": "second in sequence",
		"sequence": 2,
		"width": 3,
		"height": 2,
		"target_moves": 3,
		"layout": ["SNX", "NNN"]
	}`)
	writeLevel(t, dir, "first.json", `{
		"name": "First",
		"description": "first in sequence",
		"sequence": 1,
		"width": 2,
		"height": 2,
		"target_moves": 1,
		"layout": ["SX", "NN"]
	}`)
	return dir
}

func TestManager_LoadLevel(t *testing.T) {
	manager, err := NewManager(testLevelDir(t))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	level, err := manager.LoadLevel("first")
	if err != nil {
		t.Fatalf("failed to load level: %v", err)
	}
	if level.Name != "First" {
		t.Errorf("expected level First, got %s", level.Name)
	}

	// Cached load returns the same instance.
	again, err := manager.LoadLevel("first")
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if again != level {
		t.Error("expected cached level instance")
	}
}

func TestManager_LoadLevelNotFound(t *testing.T) {
	manager, err := NewManager(testLevelDir(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := manager.LoadLevel("missing"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("expected ErrLevelNotFound, got %v", err)
	}
}

func TestManager_ListLevelsOrdering(t *testing.T) {
	manager, err := NewManager(testLevelDir(t))
	if err != nil {
		t.Fatal(err)
	}

	levels, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("failed to list levels: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].LevelID != "first" || levels[1].LevelID != "second" {
		t.Errorf("levels not ordered by sequence: %s, %s", levels[0].LevelID, levels[1].LevelID)
	}
}

func TestManager_SkipsInvalidLevels(t *testing.T) {
	dir := testLevelDir(t)
	writeLevel(t, dir, "broken.json", `{"name": "Broken"}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	levels, err := manager.ListLevels()
	if err != nil {
		t.Fatal(err)
	}
	if len(levels) != 2 {
		t.Errorf("invalid level must be skipped, got %d levels", len(levels))
	}
}

func TestManager_DefaultLevel(t *testing.T) {
	manager, err := NewManager(testLevelDir(t))
	if err != nil {
		t.Fatal(err)
	}
	if manager.DefaultName() != "first" {
		t.Errorf("default must be the first level of the sequence, got %s", manager.DefaultName())
	}
	if def := manager.GetDefault(); def == nil || def.Name != "First" {
		t.Errorf("unexpected default level: %+v", def)
	}

	if err := manager.SetDefault("second"); err != nil {
		t.Fatalf("failed to set default: %v", err)
	}
	if manager.DefaultName() != "second" {
		t.Errorf("expected default second, got %s", manager.DefaultName())
	}
}

func TestManager_DefaultFallback(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	def := manager.GetDefault()
	if def == nil {
		t.Fatal("empty directory must still yield a default level")
	}
	if err := engine.ValidateLevelConfig(def); err != nil {
		t.Errorf("fallback default must be valid: %v", err)
	}
}

func TestManager_LevelAt(t *testing.T) {
	manager, err := NewManager(testLevelDir(t))
	if err != nil {
		t.Fatal(err)
	}

	level, id, err := manager.LevelAt(1)
	if err != nil {
		t.Fatalf("failed to load level at index: %v", err)
	}
	if id != "second" || level.Name != "Second" {
		t.Errorf("unexpected level at index 1: %s (%s)", level.Name, id)
	}

	if _, _, err := manager.LevelAt(2); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("out of range index must return ErrLevelNotFound, got %v", err)
	}
}

func TestManager_IndexOf(t *testing.T) {
	manager, err := NewManager(testLevelDir(t))
	if err != nil {
		t.Fatal(err)
	}
	if idx := manager.IndexOf("second"); idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	if idx := manager.IndexOf("missing"); idx != -1 {
		t.Errorf("expected -1 for unknown level, got %d", idx)
	}
}

func TestManager_SaveAndRefresh(t *testing.T) {
	dir := testLevelDir(t)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	level := &engine.LevelConfig{
		Name:        "Third",
		Description: "saved level",
		Sequence:    3,
		Width:       2,
		Height:      2,
		TargetMoves: 1,
		Layout:      []string{"SX", "NN"},
	}
	if err := manager.SaveLevel("third", level); err != nil {
		t.Fatalf("failed to save level: %v", err)
	}
	if manager.Count() != 3 {
		t.Errorf("expected 3 levels after save, got %d", manager.Count())
	}

	invalid := &engine.LevelConfig{Name: "Nope"}
	if err := manager.SaveLevel("nope", invalid); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("invalid level must not be saved, got %v", err)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := manager.LoadLevel("third"); err != nil {
		t.Errorf("saved level must survive a cache refresh: %v", err)
	}
}

func TestNewManager_MissingDirectory(t *testing.T) {
	if _, err := NewManager(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing directory must be rejected")
	}
}
