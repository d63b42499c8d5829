package engine

import (
	"fmt"
	"strings"
	"time"
)

// ParseDirection maps a direction name to a unit step vector.
func ParseDirection(direction string) (dx, dy int, ok bool) {
	switch strings.ToLower(direction) {
	case "up":
		return 0, -1, true
	case "down":
		return 0, 1, true
	case "left":
		return -1, 0, true
	case "right":
		return 1, 0, true
	default:
		return 0, 0, false
	}
}

// TileAt returns the tile at (x,y), or ok=false when out of bounds.
// Callers bounds-check through this same query; out-of-range coordinates
// are rejected, never defaulted.
func (gs *GameState) TileAt(x, y int) (*Tile, bool) {
	if y < 0 || y >= len(gs.Grid) {
		return nil, false
	}
	if x < 0 || x >= len(gs.Grid[y]) {
		return nil, false
	}
	return &gs.Grid[y][x], true
}

// IsWalkable reports whether a move onto (x,y) is accepted at the
// movement-legality stage. Pits are walkable: their lethality is resolved
// on arrival, while obstacles block the move outright.
func (gs *GameState) IsWalkable(x, y int) bool {
	tile, ok := gs.TileAt(x, y)
	if !ok {
		return false
	}
	return tile.Kind != Obstacle
}

// AttemptMove resolves a single move request. Only unit 4-directional steps
// are valid; anything else is Blocked with no side effect. Once a step is
// accepted as not-blocked it is committed unconditionally, even when the
// destination kills the actor: the fatal step still counts.
func (gs *GameState) AttemptMove(dx, dy int) MoveOutcome {
	from := gs.ActorPos

	switch gs.Phase {
	case PhaseAwaitingAnswer:
		return gs.blocked(from, from, "a gate is awaiting an answer")
	case PhaseDead:
		return gs.blocked(from, from, "actor is dead, reset required")
	case PhaseWon:
		return gs.blocked(from, from, "level already completed")
	}

	if (dx == 0) == (dy == 0) || dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return gs.blocked(from, from, "moves must be single-step and 4-directional")
	}

	target := Position{X: from.X + dx, Y: from.Y + dy}
	if !gs.IsWalkable(target.X, target.Y) {
		reason := "grid boundary"
		if tile, ok := gs.TileAt(target.X, target.Y); ok {
			reason = string(tile.Kind)
		}
		return gs.blocked(from, target, fmt.Sprintf("blocked by %s at (%d,%d)", reason, target.X, target.Y))
	}

	gs.commitMove(target)

	tile, _ := gs.TileAt(target.X, target.Y)
	outcome := gs.resolveArrival(from, target, tile)
	gs.journal(actionForStep(dx, dy), from, target, outcome)
	return outcome
}

// resolveArrival dispatches on the destination tile kind after the step has
// been committed.
func (gs *GameState) resolveArrival(from, target Position, tile *Tile) MoveOutcome {
	switch tile.Kind {
	case Pit:
		return gs.died(from, target, "fell into a pit")

	case Ground:
		if tile.Tag == gs.ActorColor && tile.Tag != ColorNeutral {
			return gs.died(from, target, "wrong color ground")
		}
		return gs.continued(from, target, fmt.Sprintf("Moved to (%d,%d)", target.X, target.Y))

	case Start:
		// The start tile behaves as neutral ground.
		return gs.continued(from, target, "Back at the start")

	case Fragile:
		if tile.Used {
			return gs.died(from, target, "fragile tile collapsed")
		}
		tile.Used = true
		return gs.continued(from, target, "The tile cracks behind you")

	case ColorChanger:
		gs.ActorColor = tile.Tag
		return gs.continued(from, target, fmt.Sprintf("Color changed to %s", tile.Tag))

	case KeyTile:
		if !tile.Collected {
			tile.Collected = true
			gs.Keys++
			return gs.continued(from, target, fmt.Sprintf("Picked up a key (%d held)", gs.Keys))
		}
		return gs.continued(from, target, fmt.Sprintf("Moved to (%d,%d)", target.X, target.Y))

	case Door:
		if tile.Locked {
			if gs.Keys > 0 {
				gs.Keys--
				tile.Locked = false
				return gs.continued(from, target, fmt.Sprintf("Unlocked the door (%d keys left)", gs.Keys))
			}
			return gs.died(from, target, "no key for door")
		}
		return gs.continued(from, target, "Through the open door")

	case MathGate:
		if tile.Locked {
			gs.Phase = PhaseAwaitingAnswer
			gate := target
			gs.PendingGate = &gate
			gs.Message = tile.Prompt
			return MoveOutcome{Kind: Resolving, Prompt: tile.Prompt, From: from, To: target}
		}
		return gs.continued(from, target, "Through the open gate")

	case Goal:
		gs.Phase = PhaseWon
		gs.Message = fmt.Sprintf("Level complete in %d moves!", gs.Moves)
		return MoveOutcome{Kind: Completed, From: from, To: target}

	default:
		// Obstacles are unreachable past the walkability check.
		return gs.blocked(from, target, "unreachable tile kind")
	}
}

// AnswerGate resumes a paused resolution with an external answer. A correct
// answer unlocks the gate permanently; a wrong answer is lethal.
func (gs *GameState) AnswerGate(answer string) MoveOutcome {
	pos := gs.ActorPos
	if gs.Phase != PhaseAwaitingAnswer || gs.PendingGate == nil {
		return gs.blocked(pos, pos, "no gate is awaiting an answer")
	}

	gate := *gs.PendingGate
	tile, _ := gs.TileAt(gate.X, gate.Y)

	if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(tile.Answer)) {
		tile.Locked = false
		gs.Phase = PhasePlaying
		gs.PendingGate = nil
		outcome := gs.continued(gate, gate, "The gate accepts your answer")
		gs.journal("answer", gate, gate, outcome)
		return outcome
	}

	gs.PendingGate = nil
	outcome := gs.died(gate, gate, "wrong answer")
	gs.journal("answer", gate, gate, outcome)
	return outcome
}

// CancelGate abandons a pending gate prompt. The committed step is rolled
// back from the history snapshot and the gate stays locked, so cancelling
// is cheap while a wrong answer remains lethal.
func (gs *GameState) CancelGate() MoveOutcome {
	pos := gs.ActorPos
	if gs.Phase != PhaseAwaitingAnswer || gs.PendingGate == nil {
		return gs.blocked(pos, pos, "no gate is awaiting an answer")
	}

	gate := *gs.PendingGate
	gs.Phase = PhasePlaying
	gs.PendingGate = nil
	gs.restoreLastSnapshot()
	gs.Message = "Stepped back from the gate"

	outcome := MoveOutcome{Kind: Cancelled, From: gate, To: gs.ActorPos}
	gs.journal("cancel", gate, gs.ActorPos, outcome)
	return outcome
}

// Undo reverts the last committed step, restoring position, color, and key
// count. Returns false when no undo is available or the phase forbids it.
// Tile runtime flags are not restored; only a level reset re-parses them.
func (gs *GameState) Undo() bool {
	if gs.Phase != PhasePlaying {
		return false
	}
	if !gs.restoreLastSnapshot() {
		return false
	}
	gs.Message = "Undid last move"
	gs.journal("undo", gs.ActorPos, gs.ActorPos, MoveOutcome{Kind: Continued, From: gs.ActorPos, To: gs.ActorPos})
	return true
}

// commitMove pushes the pre-step actor attributes onto the undo stack, then
// applies the step. History growth is unbounded, as sessions are small and
// short-lived.
func (gs *GameState) commitMove(target Position) {
	gs.History = append(gs.History, Snapshot{
		Pos:   gs.ActorPos,
		Color: gs.ActorColor,
		Keys:  gs.Keys,
	})
	gs.ActorPos = target
	gs.Moves++
}

func (gs *GameState) restoreLastSnapshot() bool {
	if len(gs.History) == 0 {
		return false
	}
	last := gs.History[len(gs.History)-1]
	gs.History = gs.History[:len(gs.History)-1]
	gs.ActorPos = last.Pos
	gs.ActorColor = last.Color
	gs.Keys = last.Keys
	if gs.Moves > 0 {
		gs.Moves--
	}
	return true
}

func (gs *GameState) blocked(from, to Position, reason string) MoveOutcome {
	gs.Message = "Can't move: " + reason
	return MoveOutcome{Kind: Blocked, Reason: reason, From: from, To: to}
}

func (gs *GameState) continued(from, to Position, message string) MoveOutcome {
	gs.Message = message
	return MoveOutcome{Kind: Continued, From: from, To: to}
}

func (gs *GameState) died(from, to Position, reason string) MoveOutcome {
	gs.Phase = PhaseDead
	gs.Deaths++
	gs.Message = "You died: " + reason
	return MoveOutcome{Kind: Died, Reason: reason, From: from, To: to}
}

// journal appends a step record to the cumulative journal.
func (gs *GameState) journal(action string, from, to Position, outcome MoveOutcome) {
	gs.TotalSteps++
	gs.Journal = append(gs.Journal, StepRecord{
		Action:     action,
		From:       from,
		To:         to,
		Outcome:    string(outcome.Kind),
		Reason:     outcome.Reason,
		Color:      gs.ActorColor,
		Keys:       gs.Keys,
		Timestamp:  time.Now().Unix(),
		StepNumber: gs.TotalSteps,
	})
}

func actionForStep(dx, dy int) string {
	switch {
	case dy < 0:
		return "move_up"
	case dy > 0:
		return "move_down"
	case dx < 0:
		return "move_left"
	default:
		return "move_right"
	}
}
