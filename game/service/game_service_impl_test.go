package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/chromamaze/chromamaze/game/scores"
)

// memorySessions is a minimal in-memory SessionManager for tests.
type memorySessions struct {
	sessions map[string]*Session
	nextID   int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*Session)}
}

func (m *memorySessions) Create(id string, level *engine.LevelConfig, levelName string, levelIndex int, player string) (*Session, error) {
	if id == "" {
		m.nextID++
		id = fmt.Sprintf("s%03d", m.nextID)
	}
	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sess := &Session{
		ID:             id,
		Engine:         eng,
		Level:          level,
		LevelName:      levelName,
		LevelIndex:     levelIndex,
		Player:         player,
		CreatedAt:      now,
		LastAccessedAt: now,
		StartedAt:      now,
	}
	m.sessions[id] = sess
	return sess, nil
}

func (m *memorySessions) Get(id string) (*Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return sess, nil
}

func (m *memorySessions) GetOrCreate(id string, level *engine.LevelConfig, levelName string, levelIndex int, player string) (*Session, error) {
	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}
	return m.Create(id, level, levelName, levelIndex, player)
}

func (m *memorySessions) List() []*Session {
	var out []*Session
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

func (m *memorySessions) Delete(id string) error {
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s not found", id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) UpdateLastAccessed(id string) error { return nil }
func (m *memorySessions) Save(id string) error               { return nil }

// memoryLevels serves a fixed level sequence from memory.
type memoryLevels struct {
	order  []string
	levels map[string]*engine.LevelConfig
}

func newMemoryLevels(levels map[string]*engine.LevelConfig) *memoryLevels {
	m := &memoryLevels{levels: levels}
	for id := range levels {
		m.order = append(m.order, id)
	}
	sort.Slice(m.order, func(i, j int) bool {
		return levels[m.order[i]].Sequence < levels[m.order[j]].Sequence
	})
	return m
}

func (m *memoryLevels) LoadLevel(name string) (*engine.LevelConfig, error) {
	level, ok := m.levels[name]
	if !ok {
		return nil, fmt.Errorf("level not found")
	}
	return level, nil
}

func (m *memoryLevels) ListLevels() ([]*LevelInfo, error) {
	var out []*LevelInfo
	for _, id := range m.order {
		level := m.levels[id]
		out = append(out, &LevelInfo{
			LevelID:     id,
			Name:        level.Name,
			Sequence:    level.Sequence,
			Width:       level.Width,
			Height:      level.Height,
			TargetMoves: level.TargetMoves,
		})
	}
	return out, nil
}

func (m *memoryLevels) LevelAt(index int) (*engine.LevelConfig, string, error) {
	if index < 0 || index >= len(m.order) {
		return nil, "", fmt.Errorf("level not found")
	}
	return m.levels[m.order[index]], m.order[index], nil
}

func (m *memoryLevels) IndexOf(name string) int {
	for i, id := range m.order {
		if id == name {
			return i
		}
	}
	return -1
}

func (m *memoryLevels) Count() int { return len(m.order) }

func (m *memoryLevels) GetDefault() *engine.LevelConfig {
	return m.levels[m.order[0]]
}

func (m *memoryLevels) DefaultName() string { return m.order[0] }

func (m *memoryLevels) SaveLevel(name string, level *engine.LevelConfig) error {
	m.levels[name] = level
	return nil
}

func serviceLevel(name string, sequence int, layout []string) *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        name,
		Description: "service test level",
		Sequence:    sequence,
		Width:       len(layout[0]),
		Height:      len(layout),
		TargetMoves: 2,
		Layout:      layout,
	}
}

func newTestService(t *testing.T) (GameService, *memorySessions) {
	t.Helper()
	levels := newMemoryLevels(map[string]*engine.LevelConfig{
		"intro":  serviceLevel("Intro", 1, []string{"SNX", "NNN"}),
		"hazard": serviceLevel("Hazard", 2, []string{"S.X", "NNN"}),
	})
	sessions := newMemorySessions()
	store, err := scores.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create score store: %v", err)
	}
	return NewGameService(sessions, levels, store), sessions
}

func TestCreateSession_DefaultLevel(t *testing.T) {
	svc, _ := newTestService(t)

	info, err := svc.CreateSession(context.Background(), "", "ada")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if info.LevelName != "intro" || info.LevelIndex != 0 {
		t.Errorf("expected default level intro at index 0, got %s at %d", info.LevelName, info.LevelIndex)
	}
	if info.Player != "ada" {
		t.Errorf("expected player ada, got %s", info.Player)
	}
	if info.GameState == nil || info.GameState.Phase != engine.PhasePlaying {
		t.Error("fresh session must be playing")
	}
}

func TestCreateSession_UnknownLevel(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateSession(context.Background(), "nope", ""); err == nil {
		t.Error("unknown level must be rejected")
	}
}

func TestMove_CompletionRecordsScore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "intro", "ada")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Move(ctx, info.ID, "right"); err != nil {
		t.Fatal(err)
	}
	result, err := svc.Move(ctx, info.ID, "right")
	if err != nil {
		t.Fatal(err)
	}

	if result.Outcome.Kind != engine.Completed {
		t.Fatalf("expected completed outcome, got %s", result.Outcome.Kind)
	}
	if result.Completion == nil {
		t.Fatal("completion info must be set")
	}
	if result.Completion.Stars != 3 {
		t.Errorf("2 moves at target 2 must earn 3 stars, got %d", result.Completion.Stars)
	}
	if !result.Completion.HasNext {
		t.Error("intro has a next level")
	}

	top, err := svc.TopScores(ctx, "intro", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Player != "ada" || top[0].Moves != 2 {
		t.Errorf("unexpected leaderboard: %+v", top)
	}
}

func TestMove_DeathForcesReset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "hazard", "")
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Move(ctx, info.ID, "right") // steps into the pit
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome.Kind != engine.Died {
		t.Fatalf("expected died outcome, got %s", result.Outcome.Kind)
	}
	if !result.ResetForced {
		t.Error("a fatal step must force a reset")
	}
	if result.GameState.Phase != engine.PhasePlaying {
		t.Errorf("post-reset state must be playing, got %s", result.GameState.Phase)
	}
	if result.GameState.ActorPos != result.GameState.StartPos {
		t.Error("actor must be back at start after the forced reset")
	}
	if result.GameState.Deaths != 1 {
		t.Errorf("death count must survive the reset, got %d", result.GameState.Deaths)
	}
}

func TestAdvance(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "intro", "")
	if err != nil {
		t.Fatal(err)
	}

	// Not won yet.
	adv, err := svc.Advance(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if adv.Advanced {
		t.Error("advance before winning must be refused")
	}

	sess, _ := sessions.Get(info.ID)
	sess.Engine.Move("right")
	sess.Engine.Move("right")
	if !sess.Engine.IsWon() {
		t.Fatal("setup: expected win")
	}

	adv, err = svc.Advance(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !adv.Advanced || adv.LevelName != "hazard" || adv.LevelIndex != 1 {
		t.Errorf("unexpected advance result: %+v", adv)
	}
	if adv.HasNext {
		t.Error("hazard is the last level")
	}
	if adv.GameState.Moves != 0 || adv.GameState.Phase != engine.PhasePlaying {
		t.Error("next level must start fresh")
	}
}

func TestGateFlowThroughService(t *testing.T) {
	levels := newMemoryLevels(map[string]*engine.LevelConfig{
		"gated": {
			Name:        "Gated",
			Description: "gate test",
			Sequence:    1,
			Width:       3,
			Height:      2,
			TargetMoves: 2,
			Layout:      []string{"SMX", "NNN"},
			Gates:       []engine.GateBinding{{X: 1, Y: 0, Prompt: "What is 2+2?", Answer: "4"}},
		},
	})
	svc := NewGameService(newMemorySessions(), levels, nil)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "gated", "")
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Move(ctx, info.ID, "right")
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome.Kind != engine.Resolving || result.Prompt != "What is 2+2?" {
		t.Fatalf("expected resolving with prompt, got %+v", result)
	}

	cancel, err := svc.CancelGate(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cancel.Outcome.Kind != engine.Cancelled {
		t.Fatalf("expected cancelled outcome, got %s", cancel.Outcome.Kind)
	}
	if cancel.GameState.Moves != 0 {
		t.Errorf("cancel must roll back the step, got %d moves", cancel.GameState.Moves)
	}

	if _, err := svc.Move(ctx, info.ID, "right"); err != nil {
		t.Fatal(err)
	}
	answer, err := svc.AnswerGate(ctx, info.ID, "4")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Outcome.Kind != engine.Continued {
		t.Fatalf("expected continued after correct answer, got %s", answer.Outcome.Kind)
	}
}

func TestUndoThroughService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "intro", "")
	if err != nil {
		t.Fatal(err)
	}

	result, err := svc.Undo(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Undone {
		t.Error("nothing to undo on a fresh session")
	}

	if _, err := svc.Move(ctx, info.ID, "right"); err != nil {
		t.Fatal(err)
	}
	result, err = svc.Undo(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Undone || result.GameState.Moves != 0 {
		t.Errorf("undo must revert the step: %+v", result)
	}
}

func TestGetMoveHistoryPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "intro", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		svc.Move(ctx, info.ID, "right")
		svc.Undo(ctx, info.ID)
	}

	resp, err := svc.GetMoveHistory(ctx, info.ID, HistoryOptions{Page: 1, Limit: 4, Order: "asc"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalSteps != 10 {
		t.Errorf("expected 10 journal entries, got %d", resp.TotalSteps)
	}
	if len(resp.Steps) != 4 || resp.TotalPages != 3 || !resp.HasNext || resp.HasPrevious {
		t.Errorf("unexpected pagination: %+v", resp)
	}
	if resp.Steps[0].StepNumber != 1 {
		t.Errorf("ascending order must start at step 1, got %d", resp.Steps[0].StepNumber)
	}

	desc, err := svc.GetMoveHistory(ctx, info.ID, HistoryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Steps) == 0 || desc.Steps[0].StepNumber != 10 {
		t.Errorf("default order must be most recent first, got %+v", desc.Steps)
	}
}

func TestDeleteSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetGameState(ctx, info.ID); err == nil {
		t.Error("deleted session must be gone")
	}
}

func TestStatePayloadsHideGateAnswers(t *testing.T) {
	levels := newMemoryLevels(map[string]*engine.LevelConfig{
		"gated": {
			Name:        "Gated",
			Description: "gate test",
			Sequence:    1,
			Width:       3,
			Height:      2,
			TargetMoves: 2,
			Layout:      []string{"SMX", "NNN"},
			Gates:       []engine.GateBinding{{X: 1, Y: 0, Prompt: "What is 2+2?", Answer: "4"}},
		},
	})
	sessions := newMemorySessions()
	svc := NewGameService(sessions, levels, nil)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "gated", "")
	if err != nil {
		t.Fatal(err)
	}

	tile, ok := info.GameState.TileAt(1, 0)
	if !ok {
		t.Fatal("expected gate tile at (1,0)")
	}
	if tile.Answer != "" {
		t.Errorf("session payload must not carry the gate answer, got %q", tile.Answer)
	}
	if tile.Prompt != "What is 2+2?" {
		t.Errorf("session payload must keep the prompt, got %q", tile.Prompt)
	}
	if info.LevelConfig.Gates[0].Answer != "" {
		t.Errorf("level payload must not carry the gate answer, got %q", info.LevelConfig.Gates[0].Answer)
	}

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if tile, _ := state.TileAt(1, 0); tile.Answer != "" {
		t.Errorf("state payload must not carry the gate answer, got %q", tile.Answer)
	}

	level, err := svc.LoadLevel(ctx, "gated")
	if err != nil {
		t.Fatal(err)
	}
	if level.Gates[0].Answer != "" {
		t.Errorf("level listing must not carry the gate answer, got %q", level.Gates[0].Answer)
	}

	// The engine itself still knows the answer.
	result, err := svc.Move(ctx, info.ID, "right")
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome.Kind != engine.Resolving {
		t.Fatalf("expected resolving at the gate, got %s", result.Outcome.Kind)
	}
	answered, err := svc.AnswerGate(ctx, info.ID, "4")
	if err != nil {
		t.Fatal(err)
	}
	if answered.Outcome.Kind != engine.Continued {
		t.Errorf("gate must still accept the real answer, got %s", answered.Outcome.Kind)
	}
}

func TestMoveResultSnapshotIsDetached(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "intro", "")
	if err != nil {
		t.Fatal(err)
	}

	first, err := svc.Move(ctx, info.ID, "right")
	if err != nil {
		t.Fatal(err)
	}
	if first.GameState.Moves != 1 {
		t.Fatalf("expected 1 move in the first payload, got %d", first.GameState.Moves)
	}

	if _, err := svc.Move(ctx, info.ID, "right"); err != nil {
		t.Fatal(err)
	}

	// The first payload is a snapshot; later moves must not rewrite it.
	if first.GameState.Moves != 1 {
		t.Errorf("earlier payload changed after a later move, got %d moves", first.GameState.Moves)
	}
	sess, err := sessions.Get(info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.GameState == sess.Engine.GetState() {
		t.Error("move payload aliases the live engine state")
	}
}
