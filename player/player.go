// Package player chooses actions for automated sides.
package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"arba/config"
	"arba/game"
	"arba/model"
	"arba/searcher"

	"golang.org/x/exp/rand"
)

var ErrUnknownMode = errors.New("unknown ai mode")

// Selector picks a legal action for the side to move, or declines.
type Selector interface {
	Choose(state *game.GameState) (game.Move, bool)
}

// TakeTurn plays side's complete turn: a placement followed by its slide, or a
// single slide in the movement phase. It does nothing when the game is over or
// side is not to move.
func TakeTurn(state *game.GameState, side game.Player, selector Selector) error {
	for !state.IsOver() && state.CurrentPlayer == side {
		move, ok := selector.Choose(state)
		if !ok {
			return nil
		}
		if err := state.Apply(move); err != nil {
			return fmt.Errorf("%s chose %s: %w", side, move, err)
		}
	}
	return nil
}

// RandomSelector picks uniformly among the legal actions.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(uint64(seed)))}
}

func (s *RandomSelector) Choose(state *game.GameState) (game.Move, bool) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return moves[s.rng.Intn(len(moves))], true
}

type Deps struct {
	// Scorer backs the learned selector. Nil makes it play randomly.
	Scorer model.Scorer
	// Sample draws learned actions in proportion to their scores.
	Sample bool
	Search []searcher.Option
	Seed   int64
}

// NewSelector builds the selector for an ai mode.
func NewSelector(mode string, deps Deps) (Selector, error) {
	seed := deps.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	switch mode {
	case config.ModeRandom:
		return NewRandomSelector(seed), nil
	case config.ModeAI:
		return NewLearnedSelector(deps.Scorer, deps.Sample, seed), nil
	case config.ModeSearch:
		return searcher.NewMCTS(append([]searcher.Option{searcher.WithSeed(seed)}, deps.Search...)...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
