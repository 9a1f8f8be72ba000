package engine

import (
	"fmt"
	"time"

	"arba/experiments/metrics"
	"arba/game"
	"arba/meta"
	"arba/player"

	"github.com/rs/zerolog/log"
)

// searching is implemented by selectors that report search metrics.
type searching interface {
	Search(state *game.GameState) (game.Move, metrics.SearchMetric, bool)
}

type LocalEngine struct {
	State      *game.GameState
	Selectors  map[game.Player]player.Selector
	MaxActions int
}

// NewLocalEngine sets up a fresh game between red and blue. A non-positive
// maxActions uses meta.MAX_ACTIONS.
func NewLocalEngine(red, blue player.Selector, piecesPerPlayer, maxActions int) (*LocalEngine, error) {
	state, err := game.NewGameState(piecesPerPlayer)
	if err != nil {
		return nil, err
	}
	if maxActions <= 0 {
		maxActions = meta.MAX_ACTIONS
	}
	return &LocalEngine{
		State:      state,
		Selectors:  map[game.Player]player.Selector{game.Red: red, game.Blue: blue},
		MaxActions: maxActions,
	}, nil
}

// Run executes the game loop, recording one sample per action taken.
func (e *LocalEngine) Run() (Result, error) {
	start := time.Now()
	result := Result{
		Game: metrics.GameMetric{StartingPlayer: e.State.CurrentPlayer, StartTime: start},
	}

	log.Debug().Msgf("player %s is starting", e.State.CurrentPlayer)

	actions := 0
	for !e.State.IsOver() && actions < e.MaxActions {
		current := e.State.CurrentPlayer
		features := e.State.Features()

		move, metric, ok := e.choose(current)
		if !ok {
			return result, fmt.Errorf("%s declined to move in %s", current, e.State.Phase)
		}
		if err := e.State.Apply(move); err != nil {
			return result, fmt.Errorf("%s chose %s: %w", current, move, err)
		}
		actions++

		result.Samples = append(result.Samples, metrics.Sample{
			Player:   current,
			Features: features,
			ActionID: move.ActionID(),
		})
		result.MoveMetrics = append(result.MoveMetrics, metrics.MoveMetric{
			Step:         actions,
			Player:       current,
			Action:       move,
			SearchMetric: metric,
		})
	}

	end := time.Now()
	result.Winner = e.State.Winner
	result.DrawReason = e.State.DrawReason
	result.Game.Winner = e.State.Winner
	result.Game.DrawReason = e.State.DrawReason
	result.Game.EndTime = end
	result.Game.Duration = end.Sub(start)
	result.Game.TotalActions = actions
	result.Game.Truncated = !e.State.IsOver()

	if result.Game.Truncated {
		log.Debug().Msgf("stopped after %d actions without a result", actions)
	}
	return result, nil
}

func (e *LocalEngine) choose(current game.Player) (game.Move, metrics.SearchMetric, bool) {
	selector, ok := e.Selectors[current]
	if !ok || selector == nil {
		return game.Move{}, metrics.SearchMetric{}, false
	}
	if s, ok := selector.(searching); ok {
		return s.Search(e.State)
	}

	start := time.Now()
	move, ok := selector.Choose(e.State)
	return move, metrics.SearchMetric{Duration: time.Since(start)}, ok
}
