package service

import (
	"time"

	"github.com/chromamaze/chromamaze/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	LevelName      string              `json:"level_name"`
	LevelIndex     int                 `json:"level_index"`
	Player         string              `json:"player,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	LevelConfig    *engine.LevelConfig `json:"level_config"`
}

// MoveResult contains the result of a move, answer, or cancel operation
type MoveResult struct {
	Outcome   engine.MoveOutcome `json:"outcome"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
	// Prompt carries the pending puzzle question when the outcome is
	// "resolving".
	Prompt string `json:"prompt,omitempty"`
	// Completion is set when the outcome is "completed".
	Completion *CompletionInfo `json:"completion,omitempty"`
	// ResetForced reports that a fatal outcome was followed by an automatic
	// level reset. GameState then reflects the post-reset board.
	ResetForced bool `json:"reset_forced,omitempty"`
}

// UndoResult contains the result of an undo operation
type UndoResult struct {
	Undone    bool              `json:"undone"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message,omitempty"`
}

// AdvanceResult contains the result of a level advancement
type AdvanceResult struct {
	Advanced   bool              `json:"advanced"`
	LevelName  string            `json:"level_name"`
	LevelIndex int               `json:"level_index"`
	HasNext    bool              `json:"has_next"`
	GameState  *engine.GameState `json:"game_state"`
	Message    string            `json:"message,omitempty"`
}

// CompletionInfo summarizes a finished level
type CompletionInfo struct {
	LevelName   string `json:"level_name"`
	Player      string `json:"player,omitempty"`
	Moves       int    `json:"moves"`
	TargetMoves int    `json:"target_moves"`
	Stars       int    `json:"stars"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	HasNext     bool   `json:"has_next"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "death", "reset", "color_change", "key", "door", "gate_prompt", "gate_unlocked", "gate_cancelled", "undo", "victory"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures step journal retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a paginated slice of the step journal
type HistoryResponse struct {
	Steps       []engine.StepRecord `json:"steps"`
	TotalSteps  int                 `json:"total_steps"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// LevelInfo provides information about an available level
type LevelInfo struct {
	Filename    string `json:"filename"`
	LevelID     string `json:"level_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	Sequence    int    `json:"sequence"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TargetMoves int    `json:"target_moves"`
}
