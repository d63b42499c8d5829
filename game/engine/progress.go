package engine

import "math"

// StarRating scores move efficiency against the level's target. Boundaries
// are inclusive: hitting the target exactly is still three stars, and
// ceil(target*1.3) is still two.
func StarRating(moves, targetMoves int) int {
	if targetMoves < MinTargetMoves {
		return 1
	}
	if moves <= targetMoves {
		return 3
	}
	if moves <= int(math.Ceil(float64(targetMoves)*1.3)) {
		return 2
	}
	return 1
}

// HasNext reports whether another level follows levelIndex in a sequence of
// totalLevels.
func HasNext(levelIndex, totalLevels int) bool {
	return levelIndex >= 0 && levelIndex+1 < totalLevels
}

// Advance returns the next level index, or the current one with ok=false
// when the sequence is exhausted.
func Advance(levelIndex, totalLevels int) (int, bool) {
	if !HasNext(levelIndex, totalLevels) {
		return levelIndex, false
	}
	return levelIndex + 1, true
}
