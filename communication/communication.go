// Package communication holds the wire types shared by the HTTP server and
// its client.
package communication

import (
	"context"
	"errors"
	"fmt"

	"arba/game"
)

// ErrInvalidRequest marks payloads that are well-formed JSON but violate the
// request schema.
var ErrInvalidRequest = errors.New("invalid request")

const (
	ActionPlace = "place"
	ActionSlide = "slide"
)

// Communicator is the game API as seen by a remote participant.
type Communicator interface {
	Health(ctx context.Context) error
	CreateGame(ctx context.Context, req CreateGameRequest) (CreateGameResponse, error)
	GetGame(ctx context.Context, gameID string) (game.View, error)
	Move(ctx context.Context, gameID string, req MoveRequest) (game.View, error)
	Restart(ctx context.Context, gameID, playerToken string) (game.View, error)
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateGameRequest struct {
	PiecesPerPlayer *int   `json:"piecesPerPlayer,omitempty"`
	AIMode          string `json:"aiMode,omitempty"`
}

type CreateGameResponse struct {
	GameID      string    `json:"gameId"`
	PlayerToken string    `json:"playerToken"`
	State       game.View `json:"state"`
	AIMode      string    `json:"aiMode"`
}

type StateResponse struct {
	State game.View `json:"state"`
}

type RestartRequest struct {
	PlayerToken string `json:"playerToken"`
}

// MoveRequest is a human action. Placements use SquareIndex and SlotIndex and
// may carry SlideSquareIndex to slide in the same request. Slides accept three
// payload styles:
//   - FromSquareIndex with ToHoleSquareIndex, which must name the hole
//   - SquareIndex naming the hole with FromSquareIndex
//   - SquareIndex alone, naming the square to slide
type MoveRequest struct {
	Action            string `json:"action"`
	SquareIndex       *int   `json:"squareIndex,omitempty"`
	SlotIndex         *int   `json:"slotIndex,omitempty"`
	SlideSquareIndex  *int   `json:"slideSquareIndex,omitempty"`
	FromSquareIndex   *int   `json:"fromSquareIndex,omitempty"`
	ToHoleSquareIndex *int   `json:"toHoleSquareIndex,omitempty"`
	PlayerToken       string `json:"playerToken"`
}

// Int returns a pointer to v, for optional request fields.
func Int(v int) *int {
	return &v
}

func PlaceRequest(token string, square, slot int) MoveRequest {
	return MoveRequest{Action: ActionPlace, SquareIndex: Int(square), SlotIndex: Int(slot), PlayerToken: token}
}

// PlaceAndSlideRequest places and then slides slideSquare into the hole.
func PlaceAndSlideRequest(token string, square, slot, slideSquare int) MoveRequest {
	req := PlaceRequest(token, square, slot)
	req.SlideSquareIndex = Int(slideSquare)
	return req
}

func SlideRequest(token string, from, hole int) MoveRequest {
	return MoveRequest{Action: ActionSlide, FromSquareIndex: Int(from), ToHoleSquareIndex: Int(hole), PlayerToken: token}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func (r CreateGameRequest) Validate(maxPieces int) error {
	if r.PiecesPerPlayer != nil && (*r.PiecesPerPlayer < 1 || *r.PiecesPerPlayer > maxPieces) {
		return invalid("piecesPerPlayer must be between 1 and %d", maxPieces)
	}
	return nil
}

func (r RestartRequest) Validate() error {
	if r.PlayerToken == "" {
		return invalid("playerToken is required")
	}
	return nil
}

func (r MoveRequest) Validate() error {
	if r.PlayerToken == "" {
		return invalid("playerToken is required")
	}
	for _, f := range []struct {
		name  string
		value *int
		max   int
	}{
		{"squareIndex", r.SquareIndex, game.NumSquares - 1},
		{"slotIndex", r.SlotIndex, game.SlotsPerSquare - 1},
		{"slideSquareIndex", r.SlideSquareIndex, game.NumSquares - 1},
		{"fromSquareIndex", r.FromSquareIndex, game.NumSquares - 1},
		{"toHoleSquareIndex", r.ToHoleSquareIndex, game.NumSquares - 1},
	} {
		if f.value != nil && (*f.value < 0 || *f.value > f.max) {
			return invalid("%s must be between 0 and %d", f.name, f.max)
		}
	}

	switch r.Action {
	case ActionPlace:
		switch {
		case r.SquareIndex == nil:
			return invalid("squareIndex is required for place")
		case r.SlotIndex == nil:
			return invalid("slotIndex is required for place")
		case r.FromSquareIndex != nil:
			return invalid("fromSquareIndex must be omitted for place")
		case r.ToHoleSquareIndex != nil:
			return invalid("toHoleSquareIndex must be omitted for place")
		}
	case ActionSlide:
		switch {
		case r.SlotIndex != nil:
			return invalid("slotIndex must be omitted for slide")
		case r.SlideSquareIndex != nil:
			return invalid("slideSquareIndex must be omitted for slide")
		case r.ToHoleSquareIndex != nil && r.FromSquareIndex == nil:
			return invalid("fromSquareIndex is required when toHoleSquareIndex is provided")
		case r.ToHoleSquareIndex == nil && r.FromSquareIndex != nil && r.SquareIndex == nil:
			return invalid("squareIndex (hole) is required when using fromSquareIndex without toHoleSquareIndex")
		case r.ToHoleSquareIndex == nil && r.FromSquareIndex == nil && r.SquareIndex == nil:
			return invalid("squareIndex is required for slide or provide fromSquareIndex and toHoleSquareIndex")
		}
	default:
		return invalid("action must be %q or %q", ActionPlace, ActionSlide)
	}
	return nil
}

// Apply performs the request on gs as player. A placement whose follow-up
// slide fails keeps the placement.
func (r MoveRequest) Apply(gs *game.GameState, player game.Player) error {
	if r.Action == ActionPlace {
		if err := gs.Place(*r.SquareIndex, *r.SlotIndex, player); err != nil {
			return err
		}
		if r.SlideSquareIndex != nil && !gs.IsOver() {
			return gs.Slide(*r.SlideSquareIndex, player)
		}
		return nil
	}

	switch {
	case r.ToHoleSquareIndex != nil:
		if *r.ToHoleSquareIndex != gs.HoleSquareIndex {
			return &game.IllegalMoveError{Reason: "toHoleSquareIndex must equal the current holeSquareIndex"}
		}
		return gs.Slide(*r.FromSquareIndex, player)
	case r.FromSquareIndex != nil:
		if *r.SquareIndex != gs.HoleSquareIndex {
			return &game.IllegalMoveError{Reason: "squareIndex must equal the current holeSquareIndex when using fromSquareIndex"}
		}
		return gs.Slide(*r.FromSquareIndex, player)
	default:
		return gs.Slide(*r.SquareIndex, player)
	}
}
