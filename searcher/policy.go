package searcher

import "math"

// Hyperparameters for MCTS

const C_SQUARED = 2.0 // Exploration constant

// REUSE_DEPTH bounds how far below the previous root a reused tree is looked up
const REUSE_DEPTH = 4

// Rewards estimate the chance of winning for the searching player
const (
	WIN  = 1.0
	DRAW = 0.5
	LOSS = 0.0
)

// uct scores the children of a node visited N times.
type uct struct {
	numerator float64 // c^2*ln(N)
}

func newUCT(cSquared float64, N float64) uct {
	return uct{numerator: cSquared * math.Log(max(N, 1))}
}

// evaluate returns q/n + sqrt(c^2*ln(N)/n). Unvisited children score +Inf.
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	return q/n + math.Sqrt(u.numerator/n)
}
