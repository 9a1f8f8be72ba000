package game

// View is the read-only projection of a GameState revealed to remote callers.
type View struct {
	Board                   [NumSquares][SlotsPerSquare]Player `json:"board"`
	Phase                   Phase                              `json:"phase"`
	CurrentPlayer           Player                             `json:"currentPlayer"`
	Placed                  map[string]int                     `json:"placed"`
	PiecesPerPlayer         int                                `json:"piecesPerPlayer"`
	HoleSquareIndex         int                                `json:"holeSquareIndex"`
	LegalSlides             []int                              `json:"legalSlides"`
	BlockedSlideSquareIndex *int                               `json:"blockedSlideSquareIndex"`
	Winner                  Player                             `json:"winner"`
	DrawReason              *string                            `json:"drawReason"`
}

// View builds the public projection of the state. It never mutates gs.
func (gs *GameState) View() View {
	v := View{
		Phase:         gs.Phase,
		CurrentPlayer: gs.CurrentPlayer,
		Placed: map[string]int{
			Red.String():  gs.Placed[Red],
			Blue.String(): gs.Placed[Blue],
		},
		PiecesPerPlayer: gs.PiecesPerPlayer,
		HoleSquareIndex: gs.HoleSquareIndex,
		LegalSlides:     gs.LegalSlideSquares(),
		Winner:          gs.Winner,
	}
	for i, square := range gs.Board {
		v.Board[i] = square
	}
	if gs.BlockedSlideSquareIndex != NoSquare {
		blocked := gs.BlockedSlideSquareIndex
		v.BlockedSlideSquareIndex = &blocked
	}
	if gs.DrawReason != NoDraw {
		reason := string(gs.DrawReason)
		v.DrawReason = &reason
	}
	return v
}
