package game

// EvaluateWindows tallies, for each player, the 2x2 windows of the global grid
// that only that player occupies, weighting near-complete windows heavily, to
// produce a relative score between -1 and 1 from the current player's
// perspective.
func EvaluateWindows(gs *GameState) float64 {
	if gs.Winner != NoPlayer {
		if gs.Winner == gs.CurrentPlayer {
			return 1
		}
		return -1
	}

	weights := [5]float64{0, 1, 3, 9, 0}
	scores := map[Player]float64{}
	b := &gs.Board
	for r := 0; r < GridSize-1; r++ {
		for c := 0; c < GridSize-1; c++ {
			owner, count, mixed := windowOwner(b, r, c)
			if mixed || owner == NoPlayer {
				continue
			}
			scores[owner] += weights[count]
		}
	}

	current := gs.CurrentPlayer
	return normalize(scores[current], scores[current.Opponent()])
}

// windowOwner reports the single owner of the 2x2 window anchored at (r, c),
// how many of its cells that owner holds, and whether both players appear.
func windowOwner(b *Board, r, c int) (owner Player, count int, mixed bool) {
	for _, cell := range [4]Player{b.At(r, c), b.At(r, c+1), b.At(r+1, c), b.At(r+1, c+1)} {
		if cell == NoPlayer {
			continue
		}
		if owner != NoPlayer && cell != owner {
			return NoPlayer, 0, true
		}
		owner = cell
		count++
	}
	return owner, count, false
}

// normalize converts two values into a single score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	// [a/(a+b)-0.5]*2 = (a-b)/(a+b)
	return (value - otherValue) / total
}
