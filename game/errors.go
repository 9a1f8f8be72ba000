package game

import "errors"

var (
	// ErrIllegalMove is matched by every rejected Place or Slide.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidConfig is returned when a game cannot be constructed.
	ErrInvalidConfig = errors.New("invalid game configuration")
)

// IllegalMoveError carries the human-readable reason a move was rejected.
type IllegalMoveError struct {
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return "illegal move: " + e.Reason
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

func illegal(reason string) error {
	return &IllegalMoveError{Reason: reason}
}

// Reasons reported by IllegalMoveError.
const (
	ReasonFinished      = "game already finished"
	ReasonPlacePhase    = "cannot place in this phase"
	ReasonSlidePhase    = "cannot slide in this phase"
	ReasonNotYourTurn   = "not your turn"
	ReasonSquareBounds  = "squareIndex out of bounds"
	ReasonSlotBounds    = "slotIndex out of bounds"
	ReasonPlaceHole     = "cannot place into the hole square"
	ReasonSlideHole     = "cannot slide the hole"
	ReasonNoPiecesLeft  = "no pieces remaining to place"
	ReasonSlotOccupied  = "slot is occupied"
	ReasonBacktrack     = "cannot slide the same square as the previous slide"
	ReasonNotAdjacent   = "square is not adjacent to the hole"
	ReasonUnknownAction = "unknown action"
)
