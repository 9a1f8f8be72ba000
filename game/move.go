package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

type Action int

const (
	PlaceAction Action = iota
	SlideAction
)

func (a Action) String() string {
	switch a {
	case PlaceAction:
		return "place"
	case SlideAction:
		return "slide"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Move is one atomic engine transition. Slot is ignored for slides.
type Move struct {
	Action Action
	Square int
	Slot   int
}

func PlaceMove(square, slot int) Move {
	return Move{Action: PlaceAction, Square: square, Slot: slot}
}

func SlideMove(square int) Move {
	return Move{Action: SlideAction, Square: square}
}

func (m Move) String() string {
	if m.Action == PlaceAction {
		return fmt.Sprintf("place(%d,%d)", m.Square, m.Slot)
	}
	return fmt.Sprintf("%s(%d)", m.Action, m.Square)
}

// LegalMoves returns all legal moves for the current player, or nil once the
// game is over.
func (gs *GameState) LegalMoves() []Move {
	if gs.IsOver() {
		return nil
	}
	switch gs.Phase {
	case Placement:
		if gs.Remaining(gs.CurrentPlayer) == 0 {
			return nil
		}
		targets := gs.LegalPlaceTargets()
		moves := make([]Move, 0, len(targets))
		for _, t := range targets {
			moves = append(moves, PlaceMove(t.Square, t.Slot))
		}
		return moves
	case PlacementSlide, Movement:
		squares := gs.LegalSlideSquares()
		moves := make([]Move, 0, len(squares))
		for _, sq := range squares {
			moves = append(moves, SlideMove(sq))
		}
		return moves
	default:
		return nil
	}
}

// Apply plays m in place on behalf of the current player.
func (gs *GameState) Apply(m Move) error {
	switch m.Action {
	case PlaceAction:
		return gs.Place(m.Square, m.Slot, gs.CurrentPlayer)
	case SlideAction:
		return gs.Slide(m.Square, gs.CurrentPlayer)
	default:
		return illegal(ReasonUnknownAction)
	}
}

// Play returns a new state with m applied, leaving gs untouched.
func (gs *GameState) Play(m Move) (*GameState, error) {
	next := gs.Clone()
	if err := next.Apply(m); err != nil {
		return nil, err
	}
	return next, nil
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	for _, square := range gs.Board {
		for _, slot := range square {
			hasher.Write([]byte{byte(slot)})
		}
	}

	binary.Write(hasher, binary.LittleEndian, int64(gs.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(gs.CurrentPlayer))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Placed[Red]))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Placed[Blue]))
	binary.Write(hasher, binary.LittleEndian, int64(gs.PiecesPerPlayer))
	binary.Write(hasher, binary.LittleEndian, int64(gs.HoleSquareIndex))
	binary.Write(hasher, binary.LittleEndian, int64(gs.BlockedSlideSquareIndex))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Winner))
	hasher.Write([]byte(gs.DrawReason))

	return StateHash(hasher.Sum64())
}
