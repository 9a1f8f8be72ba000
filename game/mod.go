package game

import (
	"encoding/json"
	"fmt"
)

// Player identifies a side. It doubles as the content of a board slot, where
// NoPlayer marks an empty slot.
type Player uint8

const (
	NoPlayer Player = iota
	Red
	Blue
)

func (p Player) String() string {
	switch p {
	case Red:
		return "R"
	case Blue:
		return "B"
	default:
		return ""
	}
}

// Opponent returns the other side. NoPlayer has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Blue
	case Blue:
		return Red
	}
	return NoPlayer
}

// ParsePlayer converts the wire form ("R" or "B") into a Player.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "R":
		return Red, nil
	case "B":
		return Blue, nil
	}
	return NoPlayer, fmt.Errorf("unknown player %q", s)
}

// MarshalJSON encodes empty slots and unset winners as null.
func (p Player) MarshalJSON() ([]byte, error) {
	if p == NoPlayer {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

func (p *Player) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPlayer
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePlayer(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Phase int

const (
	Placement Phase = iota
	PlacementSlide
	Movement
)

func (p Phase) String() string {
	switch p {
	case Placement:
		return "placement"
	case PlacementSlide:
		return "placementSlide"
	case Movement:
		return "movement"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "placement":
		*p = Placement
	case "placementSlide":
		*p = PlacementSlide
	case "movement":
		*p = Movement
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// DrawReason explains why a game ended without a winner. The empty value means
// the game is not drawn.
type DrawReason string

const (
	NoDraw        DrawReason = ""
	NoLegalSlides DrawReason = "noLegalSlides"
)

type StateHash uint64

// Evaluate scores a state between -1 and 1 from the perspective of the player
// to move: positive values favour that player.
type Evaluate func(*GameState) float64
