package game

import "fmt"

const (
	FeatureCount    = NumSquares*SlotsPerSquare + 6
	PlaceActions    = NumSquares * SlotsPerSquare // 36 place actions
	ActionSpaceSize = PlaceActions + NumSquares  // plus 9 slide actions
)

// FeatureColumns names each entry of Features, in order. The names are the
// column headers of self-play datasets.
var FeatureColumns = func() []string {
	cols := make([]string, 0, FeatureCount)
	for i := 0; i < NumSquares*SlotsPerSquare; i++ {
		cols = append(cols, fmt.Sprintf("board_%d", i))
	}
	return append(cols,
		"current_player_is_b",
		"phase_placement",
		"phase_placement_slide",
		"phase_movement",
		"hole_square_index",
		"blocked_slide_square_index",
	)
}()

// Features encodes the state as a flat vector: board cells square-major (R=1,
// B=-1, empty=0), side to move, phase one-hot, hole and blocked indices.
func (gs *GameState) Features() []float32 {
	f := make([]float32, 0, FeatureCount)
	for _, square := range gs.Board {
		for _, slot := range square {
			switch slot {
			case Red:
				f = append(f, 1)
			case Blue:
				f = append(f, -1)
			default:
				f = append(f, 0)
			}
		}
	}
	f = append(f,
		boolFeature(gs.CurrentPlayer == Blue),
		boolFeature(gs.Phase == Placement),
		boolFeature(gs.Phase == PlacementSlide),
		boolFeature(gs.Phase == Movement),
		float32(gs.HoleSquareIndex),
		float32(gs.BlockedSlideSquareIndex),
	)
	return f
}

func boolFeature(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// ActionID maps a move onto the fixed 45-entry action space: placements take
// square*4+slot, slides take 36+square.
func (m Move) ActionID() int {
	if m.Action == SlideAction {
		return PlaceActions + m.Square
	}
	return m.Square*SlotsPerSquare + m.Slot
}

// MoveFromActionID is the inverse of Move.ActionID.
func MoveFromActionID(id int) (Move, error) {
	switch {
	case id >= 0 && id < PlaceActions:
		return PlaceMove(id/SlotsPerSquare, id%SlotsPerSquare), nil
	case id >= PlaceActions && id < ActionSpaceSize:
		return SlideMove(id - PlaceActions), nil
	default:
		return Move{}, fmt.Errorf("action id %d out of range [0,%d)", id, ActionSpaceSize)
	}
}
