package engine

// TileKind represents different types of grid tiles
type TileKind string

const (
	Pit          TileKind = "pit"
	Ground       TileKind = "ground"
	Obstacle     TileKind = "obstacle"
	ColorChanger TileKind = "color_changer"
	Start        TileKind = "start"
	Goal         TileKind = "goal"
	MathGate     TileKind = "math_gate"
	KeyTile      TileKind = "key"
	Door         TileKind = "door"
	Fragile      TileKind = "fragile"
)

// ColorTag is the color state carried by the actor and by colored tiles.
type ColorTag string

const (
	ColorRed     ColorTag = "red"
	ColorGreen   ColorTag = "green"
	ColorBlue    ColorTag = "blue"
	ColorNeutral ColorTag = "neutral"
)

// Validation constants
const (
	MinGridDim     = 2
	MaxGridDim     = 50
	MinTargetMoves = 1
)

// Tile is one grid cell. Kind and Tag are fixed for the lifetime of a level;
// Locked/Collected/Used are runtime flags reset only by a level reload.
type Tile struct {
	Kind      TileKind `json:"kind"`
	Tag       ColorTag `json:"tag,omitempty"`
	Locked    bool     `json:"locked,omitempty"`    // doors and math gates
	Collected bool     `json:"collected,omitempty"` // keys
	Used      bool     `json:"used,omitempty"`      // fragile tiles
	Prompt    string   `json:"prompt,omitempty"`    // math gates
	Answer    string   `json:"answer,omitempty"`    // math gates
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GateBinding attaches a puzzle prompt to a math gate tile by coordinate.
type GateBinding struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// LevelConfig is the static level descriptor loaded from JSON.
type LevelConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Sequence    int               `json:"sequence"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	TargetMoves int               `json:"target_moves"`
	Layout      []string          `json:"layout"`
	Gates       []GateBinding     `json:"gates,omitempty"`
	Legend      map[string]string `json:"legend,omitempty"`
}

// Phase is the lifecycle state of a level session.
type Phase string

const (
	PhasePlaying        Phase = "playing"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseDead           Phase = "dead"
	PhaseWon            Phase = "won"
)

// OutcomeKind classifies the result of a single resolution step.
type OutcomeKind string

const (
	Blocked   OutcomeKind = "blocked"
	Continued OutcomeKind = "continued"
	Died      OutcomeKind = "died"
	Completed OutcomeKind = "completed"
	Resolving OutcomeKind = "resolving"
	Cancelled OutcomeKind = "cancelled"
)

// MoveOutcome is the structured result of a move, answer, or cancel request.
// Blocked and Died are ordinary values, not errors.
type MoveOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"` // set for Died and Blocked
	Prompt string      `json:"prompt,omitempty"` // set for Resolving
	From   Position    `json:"from"`
	To     Position    `json:"to"`
}

// Snapshot is one undo-history entry: the actor attributes captured just
// before a committed step. Tile runtime flags are deliberately not included.
type Snapshot struct {
	Pos   Position `json:"pos"`
	Color ColorTag `json:"color"`
	Keys  int      `json:"keys"`
}

// StepRecord is one entry in the cumulative step journal.
type StepRecord struct {
	Action     string   `json:"action"`
	From       Position `json:"from"`
	To         Position `json:"to"`
	Outcome    string   `json:"outcome"`
	Reason     string   `json:"reason,omitempty"`
	Color      ColorTag `json:"color"`
	Keys       int      `json:"keys"`
	Timestamp  int64    `json:"timestamp"`
	StepNumber int      `json:"step_number"`
}

// GameState represents the complete state of one level session.
type GameState struct {
	Grid       [][]Tile `json:"grid"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	StartPos   Position `json:"start_pos"`
	GoalPos    Position `json:"goal_pos"`
	ActorPos   Position `json:"actor_pos"`
	ActorColor ColorTag `json:"actor_color"`
	Keys       int      `json:"keys"`
	Moves      int      `json:"moves"`
	Phase      Phase    `json:"phase"`
	// PendingGate is the coordinate of the locked math gate currently
	// awaiting an answer. Non-nil only while Phase is awaiting_answer.
	PendingGate *Position `json:"pending_gate,omitempty"`
	Message     string    `json:"message"`
	LevelName   string    `json:"level_name"`
	TargetMoves int       `json:"target_moves"`

	// History is the undo stack. Cleared on every reset.
	History []Snapshot `json:"history"`

	// Journal is cumulative across resets, mirroring every resolution step.
	Journal    []StepRecord `json:"journal"`
	TotalSteps int          `json:"total_steps"`
	Deaths     int          `json:"deaths"`
}
