package game

import (
	"fmt"

	"arba/utils"
)

// GameState is the whole mutable state of one game. It is owned by a single
// caller; Place and Slide mutate it in place and leave it untouched when they
// return an error.
type GameState struct {
	Board           Board          // Slot contents, square-major
	Phase           Phase          // Current phase of the turn cycle
	CurrentPlayer   Player         // Side to act
	Placed          map[Player]int // Pieces placed so far per player
	PiecesPerPlayer int            // Placement capacity per player
	HoleSquareIndex int            // The empty square every slide targets
	// The square moved by the previous slide, locked for the next slide
	// decision. NoSquare when unset.
	BlockedSlideSquareIndex int
	Winner                  Player     // NoPlayer until someone completes a 2x2
	DrawReason              DrawReason // NoDraw unless the game ended drawn
}

// NewGameState initializes and returns a fresh game: empty board, hole at the
// center square, Red to place.
func NewGameState(piecesPerPlayer int) (*GameState, error) {
	if piecesPerPlayer <= 0 {
		return nil, fmt.Errorf("%w: piecesPerPlayer must be positive, got %d", ErrInvalidConfig, piecesPerPlayer)
	}
	return &GameState{
		Phase:                   Placement,
		CurrentPlayer:           Red,
		Placed:                  map[Player]int{Red: 0, Blue: 0},
		PiecesPerPlayer:         piecesPerPlayer,
		HoleSquareIndex:         CenterSquare,
		BlockedSlideSquareIndex: NoSquare,
	}, nil
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	clone := *gs
	clone.Placed = make(map[Player]int, len(gs.Placed))
	for p, n := range gs.Placed {
		clone.Placed[p] = n
	}
	return &clone
}

// IsOver reports whether a winner or a draw has been recorded.
func (gs *GameState) IsOver() bool {
	return gs.Winner != NoPlayer || gs.DrawReason != NoDraw
}

// Remaining returns how many pieces p may still place.
func (gs *GameState) Remaining(p Player) int {
	return max(0, gs.PiecesPerPlayer-gs.Placed[p])
}

// LegalSlideSquares returns the squares that may slide into the hole: its
// orthogonal neighbours, minus the square locked by the previous slide.
func (gs *GameState) LegalSlideSquares() []int {
	out := neighbours(gs.HoleSquareIndex)
	if gs.BlockedSlideSquareIndex == NoSquare {
		return out
	}
	if i := utils.FindIndex(out, gs.BlockedSlideSquareIndex); i >= 0 {
		out = append(out[:i], out[i+1:]...)
	}
	return out
}

// LegalPlaceTargets returns every empty slot outside the hole square.
func (gs *GameState) LegalPlaceTargets() []Target {
	var out []Target
	for square := range gs.Board {
		if square == gs.HoleSquareIndex {
			continue
		}
		for slot, owner := range gs.Board[square] {
			if owner == NoPlayer {
				out = append(out, Target{Square: square, Slot: slot})
			}
		}
	}
	return out
}

// DetectWinner scans every 2x2 window of the 6x6 overlay, including windows
// straddling square boundaries, and returns the owner of the first full
// single-owner window in row-major order.
func (gs *GameState) DetectWinner() Player {
	b := &gs.Board
	for r := 0; r < GridSize-1; r++ {
		for c := 0; c < GridSize-1; c++ {
			a := b.At(r, c)
			if a == NoPlayer {
				continue
			}
			if b.At(r, c+1) == a && b.At(r+1, c) == a && b.At(r+1, c+1) == a {
				return a
			}
		}
	}
	return NoPlayer
}

// Place puts one of player's pieces into an empty slot. On success the same
// player must follow up with a slide, unless the placement won the game.
func (gs *GameState) Place(square, slot int, player Player) error {
	if gs.IsOver() {
		return illegal(ReasonFinished)
	}
	if gs.Phase != Placement {
		return illegal(ReasonPlacePhase)
	}
	if player != gs.CurrentPlayer {
		return illegal(ReasonNotYourTurn)
	}
	if square < 0 || square >= NumSquares {
		return illegal(ReasonSquareBounds)
	}
	if slot < 0 || slot >= SlotsPerSquare {
		return illegal(ReasonSlotBounds)
	}
	if square == gs.HoleSquareIndex {
		return illegal(ReasonPlaceHole)
	}
	if gs.Placed[player] >= gs.PiecesPerPlayer {
		return illegal(ReasonNoPiecesLeft)
	}
	if gs.Board[square][slot] != NoPlayer {
		return illegal(ReasonSlotOccupied)
	}

	gs.Board[square][slot] = player
	gs.Placed[player]++

	if w := gs.DetectWinner(); w != NoPlayer {
		gs.Winner = w
		return nil
	}
	gs.Phase = PlacementSlide
	return nil
}

// Slide moves square into the hole. The whole square travels with its pieces
// and the hole takes its former place.
func (gs *GameState) Slide(square int, player Player) error {
	if gs.IsOver() {
		return illegal(ReasonFinished)
	}
	if gs.Phase != PlacementSlide && gs.Phase != Movement {
		return illegal(ReasonSlidePhase)
	}
	if player != gs.CurrentPlayer {
		return illegal(ReasonNotYourTurn)
	}
	if square < 0 || square >= NumSquares {
		return illegal(ReasonSquareBounds)
	}
	if square == gs.HoleSquareIndex {
		return illegal(ReasonSlideHole)
	}
	if gs.BlockedSlideSquareIndex != NoSquare && square == gs.BlockedSlideSquareIndex {
		return illegal(ReasonBacktrack)
	}
	if utils.FindIndex(gs.LegalSlideSquares(), square) < 0 {
		return illegal(ReasonNotAdjacent)
	}

	hole := gs.HoleSquareIndex
	gs.Board[hole], gs.Board[square] = gs.Board[square], gs.Board[hole]
	gs.HoleSquareIndex = square
	// The moved square now rests on the old hole index.
	gs.BlockedSlideSquareIndex = hole

	if w := gs.DetectWinner(); w != NoPlayer {
		gs.Winner = w
		return nil
	}

	previous := gs.Phase
	gs.CurrentPlayer = gs.CurrentPlayer.Opponent()
	switch previous {
	case PlacementSlide:
		if gs.Placed[Red] >= gs.PiecesPerPlayer && gs.Placed[Blue] >= gs.PiecesPerPlayer {
			gs.Phase = Movement
		} else {
			gs.Phase = Placement
		}
	case Movement:
		if len(gs.LegalSlideSquares()) == 0 {
			gs.DrawReason = NoLegalSlides
		}
	}
	return nil
}
