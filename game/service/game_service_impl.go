package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/chromamaze/chromamaze/game/scores"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	scores   scores.Store
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. The score store may be
// nil, in which case completions are not recorded.
func NewGameService(sessions SessionManager, levels LevelManager, scoreStore scores.Store) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		scores:   scoreStore,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelName, player string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load level
	var level *engine.LevelConfig
	var err error
	if levelName != "" {
		level, err = s.levels.LoadLevel(levelName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "level not found") {
				available, listErr := s.levels.ListLevels()
				if listErr == nil && len(available) > 0 {
					var levelIDs []string
					for _, info := range available {
						levelIDs = append(levelIDs, info.LevelID)
					}
					return nil, fmt.Errorf("level '%s' not found. Available levels: %v", levelName, levelIDs)
				}
				return nil, fmt.Errorf("level '%s' not found. Use /api/levels to list available levels", levelName)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", levelName, err)
		}
	} else {
		level = s.levels.GetDefault()
		levelName = s.levels.DefaultName()
	}

	levelIndex := s.levels.IndexOf(levelName)

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", level, levelName, levelIndex, player)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session. A fatal outcome is followed by
// an automatic level reset so no session is ever left resting on a lethal
// tile.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	outcome := sess.Engine.Move(direction)
	return s.finishAction(sess, sessionID, "move", outcome)
}

// Undo reverts the last committed step
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*UndoResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	undone := sess.Engine.Undo()
	message := "Nothing to undo"
	if undone {
		message = "Reverted the last step"
	} else if sess.Engine.IsAwaitingAnswer() {
		message = "Answer or cancel the pending puzzle first"
	}

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after undo: %v\n", sessionID, err)
	}

	return &UndoResult{
		Undone:    undone,
		GameState: sess.Engine.GetState().Sanitized(),
		Message:   message,
	}, nil
}

// AnswerGate resumes a pending puzzle gate with an answer
func (s *gameServiceImpl) AnswerGate(ctx context.Context, sessionID, answer string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	outcome := sess.Engine.AnswerGate(answer)
	return s.finishAction(sess, sessionID, "answer", outcome)
}

// CancelGate abandons a pending puzzle gate, rolling back the triggering step
func (s *gameServiceImpl) CancelGate(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	outcome := sess.Engine.CancelGate()
	return s.finishAction(sess, sessionID, "cancel", outcome)
}

// Reset resets a game session to the level's initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state.Sanitized(), nil
}

// Advance moves a completed session to the next level in the sequence
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string) (*AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if !sess.Engine.IsWon() {
		return &AdvanceResult{
			Advanced:   false,
			LevelName:  sess.LevelName,
			LevelIndex: sess.LevelIndex,
			HasNext:    engine.HasNext(sess.LevelIndex, s.levels.Count()),
			GameState:  sess.Engine.GetState().Sanitized(),
			Message:    "Complete the current level before advancing",
		}, nil
	}

	nextIndex, ok := engine.Advance(sess.LevelIndex, s.levels.Count())
	if !ok {
		return &AdvanceResult{
			Advanced:   false,
			LevelName:  sess.LevelName,
			LevelIndex: sess.LevelIndex,
			HasNext:    false,
			GameState:  sess.Engine.GetState().Sanitized(),
			Message:    "All levels completed",
		}, nil
	}

	level, levelID, err := s.levels.LevelAt(nextIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to load next level: %w", err)
	}
	if err := sess.Engine.SetLevel(level); err != nil {
		return nil, fmt.Errorf("failed to start next level: %w", err)
	}

	sess.Level = level
	sess.LevelName = levelID
	sess.LevelIndex = nextIndex
	sess.StartedAt = time.Now()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after advance: %v\n", sessionID, err)
	}

	return &AdvanceResult{
		Advanced:   true,
		LevelName:  levelID,
		LevelIndex: nextIndex,
		HasNext:    engine.HasNext(nextIndex, s.levels.Count()),
		GameState:  sess.Engine.GetState().Sanitized(),
		Message:    fmt.Sprintf("Advanced to level %s", level.Name),
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState().Sanitized(), nil
}

// GetMoveHistory returns a paginated slice of the cumulative step journal
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	journal := sess.Engine.GetJournal()
	total := len(journal)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var steps []engine.StepRecord
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			steps = append(steps, journal[i])
		}
	} else {
		if start < total {
			steps = journal[start:end]
		}
	}
	if steps == nil {
		steps = []engine.StepRecord{}
	}

	return &HistoryResponse{
		Steps:       steps,
		TotalSteps:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the available levels in sequence order
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level as a client view with gate answers
// stripped. Internal callers go through the level manager directly.
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error) {
	level, err := s.levels.LoadLevel(levelName)
	if err != nil {
		return nil, err
	}
	return level.Sanitized(), nil
}

// SaveLevel saves a level to disk
func (s *gameServiceImpl) SaveLevel(ctx context.Context, levelName string, level *engine.LevelConfig) error {
	return s.levels.SaveLevel(levelName, level)
}

// TopScores returns the best recorded completions for a level
func (s *gameServiceImpl) TopScores(ctx context.Context, levelID string, limit int) ([]scores.Record, error) {
	if s.scores == nil {
		return []scores.Record{}, nil
	}
	return s.scores.TopForLevel(levelID, limit)
}

// finishAction builds the MoveResult shared by move, answer, and cancel,
// applying the forced reset after a death and recording completions.
func (s *gameServiceImpl) finishAction(sess *Session, sessionID, action string, outcome engine.MoveOutcome) (*MoveResult, error) {
	state := sess.Engine.GetState()

	// Hand out a sanitized snapshot rather than the live state. Broadcast
	// and response payloads must not expose gate answers, and they must not
	// change under a concurrent request that mutates the same session.
	result := &MoveResult{
		Outcome:   outcome,
		GameState: state.Sanitized(),
		Message:   state.Message,
		Events:    s.extractEvents(sess, action, outcome),
	}

	switch outcome.Kind {
	case engine.Resolving:
		result.Prompt = outcome.Prompt

	case engine.Completed:
		completion := s.recordCompletion(sess)
		result.Completion = completion

	case engine.Died:
		// The fatal step is already journaled; put the board back in a
		// playable state.
		result.GameState = sess.Engine.Reset().Sanitized()
		result.ResetForced = true
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Level reset after a fatal step",
			Timestamp: time.Now(),
		})
	}

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after %s: %v\n", sessionID, action, err)
	}

	return result, nil
}

// recordCompletion computes the star rating and submits a score record.
// Score submission is best effort; a storage failure never fails the move.
func (s *gameServiceImpl) recordCompletion(sess *Session) *CompletionInfo {
	state := sess.Engine.GetState()
	elapsed := time.Since(sess.StartedAt).Milliseconds()

	completion := &CompletionInfo{
		LevelName:   sess.LevelName,
		Player:      sess.Player,
		Moves:       state.Moves,
		TargetMoves: state.TargetMoves,
		Stars:       engine.StarRating(state.Moves, state.TargetMoves),
		ElapsedMs:   elapsed,
		HasNext:     engine.HasNext(sess.LevelIndex, s.levels.Count()),
	}

	if s.scores != nil {
		record := scores.Record{
			Player:      sess.Player,
			LevelID:     sess.LevelName,
			Moves:       completion.Moves,
			Stars:       completion.Stars,
			ElapsedMs:   completion.ElapsedMs,
			CompletedAt: time.Now(),
		}
		if err := s.scores.Submit(record); err != nil {
			fmt.Printf("Warning: Failed to record score for session %s: %v\n", sess.ID, err)
		}
	}

	return completion
}

// extractEvents generates events from a resolved action
func (s *gameServiceImpl) extractEvents(sess *Session, action string, outcome engine.MoveOutcome) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	switch outcome.Kind {
	case engine.Blocked:
		events = append(events, GameEvent{
			Type:      "blocked",
			Message:   outcome.Reason,
			Timestamp: now,
			Position:  outcome.From,
		})

	case engine.Continued:
		events = append(events, s.arrivalEvent(sess, action, outcome, now))

	case engine.Resolving:
		events = append(events, GameEvent{
			Type:      "gate_prompt",
			Message:   outcome.Prompt,
			Timestamp: now,
			Position:  outcome.To,
		})

	case engine.Cancelled:
		events = append(events, GameEvent{
			Type:      "gate_cancelled",
			Message:   "Stepped back from the puzzle gate",
			Timestamp: now,
			Position:  outcome.To,
		})

	case engine.Died:
		events = append(events, GameEvent{
			Type:      "death",
			Message:   outcome.Reason,
			Timestamp: now,
			Position:  outcome.To,
		})

	case engine.Completed:
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   "Goal reached!",
			Timestamp: now,
			Position:  outcome.To,
		})
	}

	return events
}

// arrivalEvent picks the event type for an ordinary continued step
func (s *gameServiceImpl) arrivalEvent(sess *Session, action string, outcome engine.MoveOutcome, now time.Time) GameEvent {
	if action == "answer" {
		return GameEvent{
			Type:      "gate_unlocked",
			Message:   "Puzzle solved, gate unlocked",
			Timestamp: now,
			Position:  outcome.To,
		}
	}

	state := sess.Engine.GetState()
	if tile, ok := state.TileAt(outcome.To.X, outcome.To.Y); ok {
		switch tile.Kind {
		case engine.ColorChanger:
			return GameEvent{
				Type:      "color_change",
				Message:   fmt.Sprintf("Actor is now %s", state.ActorColor),
				Timestamp: now,
				Position:  outcome.To,
			}
		case engine.KeyTile:
			return GameEvent{
				Type:      "key",
				Message:   fmt.Sprintf("Picked up a key (%d held)", state.Keys),
				Timestamp: now,
				Position:  outcome.To,
			}
		case engine.Door:
			return GameEvent{
				Type:      "door",
				Message:   "Passed through a door",
				Timestamp: now,
				Position:  outcome.To,
			}
		}
	}

	return GameEvent{
		Type:      "move",
		Message:   fmt.Sprintf("Moved to (%d,%d)", outcome.To.X, outcome.To.Y),
		Timestamp: now,
		Position:  outcome.To,
	}
}

// sessionInfo builds the SessionInfo view of a session
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelName:      sess.LevelName,
		LevelIndex:     sess.LevelIndex,
		Player:         sess.Player,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Sanitized(),
		LevelConfig:    sess.Level.Sanitized(),
	}
}
