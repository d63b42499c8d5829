package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsWon() bool
	IsDead() bool
	IsAwaitingAnswer() bool
	GetActorPosition() Position
	GetActorColor() ColorTag
	GetKeys() int
	GetMoves() int

	// Movement and resolution
	Move(direction string) MoveOutcome
	AttemptMove(dx, dy int) MoveOutcome
	Undo() bool
	AnswerGate(answer string) MoveOutcome
	CancelGate() MoveOutcome
	PossibleMoves() []string

	// Level
	GetLevel() *LevelConfig
	SetLevel(cfg *LevelConfig) error

	// History
	GetJournal() []StepRecord
	GetLastStep() *StepRecord
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state *GameState
	level *LevelConfig
}

// NewEngine creates a new game engine for the provided level
func NewEngine(level *LevelConfig) (*GameEngine, error) {
	state, err := InitGameStateFromLevel(level)
	if err != nil {
		return nil, err
	}
	return &GameEngine{level: level, state: state}, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// Reset performs the level-local reset: actor attributes return to their
// start values and tile runtime flags are re-parsed from the level
// descriptor. The cumulative journal and death count survive.
func (e *GameEngine) Reset() *GameState {
	prevJournal := e.state.Journal
	prevSteps := e.state.TotalSteps
	prevDeaths := e.state.Deaths

	fresh, err := InitGameStateFromLevel(e.level)
	if err != nil {
		// The level validated when the engine was built; a failure here
		// means the descriptor was mutated behind our back.
		panic(fmt.Sprintf("reset of validated level failed: %v", err))
	}

	fresh.Journal = prevJournal
	fresh.TotalSteps = prevSteps
	fresh.Deaths = prevDeaths
	e.state = fresh
	return e.state
}

// IsWon returns whether the goal has been reached
func (e *GameEngine) IsWon() bool {
	return e.state.Phase == PhaseWon
}

// IsDead returns whether the last outcome was fatal and a reset is pending
func (e *GameEngine) IsDead() bool {
	return e.state.Phase == PhaseDead
}

// IsAwaitingAnswer returns whether a gate prompt is pending
func (e *GameEngine) IsAwaitingAnswer() bool {
	return e.state.Phase == PhaseAwaitingAnswer
}

// GetActorPosition returns the current actor position
func (e *GameEngine) GetActorPosition() Position {
	return e.state.ActorPos
}

// GetActorColor returns the actor's current color tag
func (e *GameEngine) GetActorColor() ColorTag {
	return e.state.ActorColor
}

// GetKeys returns the number of keys held
func (e *GameEngine) GetKeys() int {
	return e.state.Keys
}

// GetMoves returns the current move count
func (e *GameEngine) GetMoves() int {
	return e.state.Moves
}

// Move resolves a move in the named direction
func (e *GameEngine) Move(direction string) MoveOutcome {
	dx, dy, ok := ParseDirection(direction)
	if !ok {
		pos := e.state.ActorPos
		return MoveOutcome{Kind: Blocked, Reason: fmt.Sprintf("unknown direction %q", direction), From: pos, To: pos}
	}
	return e.state.AttemptMove(dx, dy)
}

// AttemptMove resolves a move by unit step vector
func (e *GameEngine) AttemptMove(dx, dy int) MoveOutcome {
	return e.state.AttemptMove(dx, dy)
}

// Undo reverts the last committed step if one is available
func (e *GameEngine) Undo() bool {
	return e.state.Undo()
}

// AnswerGate resumes a pending gate with an answer
func (e *GameEngine) AnswerGate(answer string) MoveOutcome {
	return e.state.AnswerGate(answer)
}

// CancelGate abandons a pending gate prompt
func (e *GameEngine) CancelGate() MoveOutcome {
	return e.state.CancelGate()
}

// PossibleMoves returns the directions that would not be Blocked. A
// direction whose destination is lethal is still possible: lethality is an
// arrival consequence, not a movement restriction.
func (e *GameEngine) PossibleMoves() []string {
	if e.state.Phase != PhasePlaying {
		return nil
	}
	directions := []string{"up", "down", "left", "right"}
	var possible []string
	for _, dir := range directions {
		dx, dy, _ := ParseDirection(dir)
		target := Position{X: e.state.ActorPos.X + dx, Y: e.state.ActorPos.Y + dy}
		if e.state.IsWalkable(target.X, target.Y) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetLevel returns the level descriptor the engine was built from
func (e *GameEngine) GetLevel() *LevelConfig {
	return e.level
}

// SetLevel swaps in a new level and reinitializes the state. Journal and
// death count do not carry across levels.
func (e *GameEngine) SetLevel(cfg *LevelConfig) error {
	state, err := InitGameStateFromLevel(cfg)
	if err != nil {
		return err
	}
	e.level = cfg
	e.state = state
	return nil
}

// GetJournal returns the cumulative step journal
func (e *GameEngine) GetJournal() []StepRecord {
	return e.state.Journal
}

// GetLastStep returns the most recent journal entry, or nil if none
func (e *GameEngine) GetLastStep() *StepRecord {
	if len(e.state.Journal) == 0 {
		return nil
	}
	return &e.state.Journal[len(e.state.Journal)-1]
}
