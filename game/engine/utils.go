package engine

// CountTileKind counts the tiles of a specific kind in the grid
func CountTileKind(grid [][]Tile, kind TileKind) int {
	count := 0
	for _, row := range grid {
		for _, tile := range row {
			if tile.Kind == kind {
				count++
			}
		}
	}
	return count
}

// CountUncollectedKeys counts key tiles not yet picked up
func CountUncollectedKeys(grid [][]Tile) int {
	count := 0
	for _, row := range grid {
		for _, tile := range row {
			if tile.Kind == KeyTile && !tile.Collected {
				count++
			}
		}
	}
	return count
}

// CountLockedDoors counts doors still locked
func CountLockedDoors(grid [][]Tile) int {
	count := 0
	for _, row := range grid {
		for _, tile := range row {
			if tile.Kind == Door && tile.Locked {
				count++
			}
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// TokenForTile returns the layout shorthand for a tile, with runtime flags
// folded in for display (collapsed fragile tiles, opened doors and gates,
// taken keys).
func TokenForTile(tile Tile) string {
	switch tile.Kind {
	case Pit:
		return "."
	case Ground:
		switch tile.Tag {
		case ColorRed:
			return "R"
		case ColorGreen:
			return "G"
		case ColorBlue:
			return "B"
		default:
			return "N"
		}
	case ColorChanger:
		switch tile.Tag {
		case ColorRed:
			return "r"
		case ColorGreen:
			return "g"
		default:
			return "b"
		}
	case Obstacle:
		return "#"
	case Start:
		return "S"
	case Goal:
		return "X"
	case KeyTile:
		if tile.Collected {
			return "N"
		}
		return "K"
	case Door:
		if !tile.Locked {
			return "d"
		}
		return "D"
	case MathGate:
		if !tile.Locked {
			return "m"
		}
		return "M"
	case Fragile:
		if tile.Used {
			return "f"
		}
		return "F"
	default:
		return "?"
	}
}
