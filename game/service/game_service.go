package service

import (
	"context"
	"time"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/chromamaze/chromamaze/game/scores"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelName, player string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	Undo(ctx context.Context, sessionID string) (*UndoResult, error)
	AnswerGate(ctx context.Context, sessionID, answer string) (*MoveResult, error)
	CancelGate(ctx context.Context, sessionID string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	Advance(ctx context.Context, sessionID string) (*AdvanceResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, levelName string) (*engine.LevelConfig, error)
	SaveLevel(ctx context.Context, levelName string, level *engine.LevelConfig) error

	// Leaderboard
	TopScores(ctx context.Context, levelID string, limit int) ([]scores.Record, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *engine.LevelConfig, levelName string, levelIndex int, player string) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, level *engine.LevelConfig, levelName string, levelIndex int, player string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager handles level loading and the level sequence
type LevelManager interface {
	LoadLevel(name string) (*engine.LevelConfig, error)
	ListLevels() ([]*LevelInfo, error)
	LevelAt(index int) (*engine.LevelConfig, string, error)
	IndexOf(name string) int
	Count() int
	GetDefault() *engine.LevelConfig
	DefaultName() string
	SaveLevel(name string, level *engine.LevelConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Level          *engine.LevelConfig
	LevelName      string
	LevelIndex     int
	Player         string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	// StartedAt is when play on the current level began. It moves forward on
	// level advancement but survives resets, so elapsed time covers retries.
	StartedAt time.Time
}
