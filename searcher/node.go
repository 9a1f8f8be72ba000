package searcher

import "arba/game"

// outcome is the result of one rollout: value is the reward of player, and
// the opponent receives the complement.
type outcome struct {
	player game.Player
	value  float64
}

// terminal scores a finished game. Draws are worth DRAW to both sides.
func terminal(state *game.GameState) outcome {
	if state.Winner == game.NoPlayer {
		return outcome{player: state.CurrentPlayer, value: DRAW}
	}
	return outcome{player: state.Winner, value: WIN}
}

// evaluated maps a heuristic score in [-1, 1] for the side to move onto a
// reward in [0, 1].
func evaluated(state *game.GameState, score float64) outcome {
	return outcome{player: state.CurrentPlayer, value: (max(-1, min(1, score)) + 1) / 2}
}

func (o outcome) rewardFor(player game.Player) float64 {
	if player == o.player {
		return o.value
	}
	return WIN - o.value
}
