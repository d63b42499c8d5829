package engine

// Sanitized returns a copy of the state for delivery to clients. Gate
// answers are stripped, and the grid, history, and journal are detached
// from the live state so a later move cannot mutate a payload that is
// already queued for a response or broadcast.
func (gs *GameState) Sanitized() *GameState {
	out := *gs

	out.Grid = make([][]Tile, len(gs.Grid))
	for y, row := range gs.Grid {
		out.Grid[y] = make([]Tile, len(row))
		copy(out.Grid[y], row)
		for x := range out.Grid[y] {
			out.Grid[y][x].Answer = ""
		}
	}

	out.History = append([]Snapshot(nil), gs.History...)
	out.Journal = append([]StepRecord(nil), gs.Journal...)

	if gs.PendingGate != nil {
		pending := *gs.PendingGate
		out.PendingGate = &pending
	}

	return &out
}

// Sanitized returns a copy of the level descriptor with gate answers
// stripped. Prompts are kept so clients can still describe the level.
func (cfg *LevelConfig) Sanitized() *LevelConfig {
	out := *cfg
	out.Gates = make([]GateBinding, len(cfg.Gates))
	copy(out.Gates, cfg.Gates)
	for i := range out.Gates {
		out.Gates[i].Answer = ""
	}
	return &out
}
