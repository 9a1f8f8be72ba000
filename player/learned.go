package player

import (
	"sync"

	"arba/game"
	"arba/model"
	"arba/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// LearnedSelector ranks legal actions by a model's scores over the action
// space. Without a model, or when scoring fails, it plays randomly.
type LearnedSelector struct {
	scorer   model.Scorer
	sample   bool
	mu       sync.Mutex
	rng      *rand.Rand
	fallback *RandomSelector
}

func NewLearnedSelector(scorer model.Scorer, sample bool, seed int64) *LearnedSelector {
	return &LearnedSelector{
		scorer:   scorer,
		sample:   sample,
		rng:      rand.New(rand.NewSource(uint64(seed))),
		fallback: NewRandomSelector(seed + 1),
	}
}

func (s *LearnedSelector) Choose(state *game.GameState) (game.Move, bool) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, false
	}
	if s.scorer == nil {
		return s.fallback.Choose(state)
	}

	scores, err := s.scorer.Score(state.Features())
	if err != nil {
		log.Warn().Err(err).Msg("learned scorer failed, playing randomly")
		return s.fallback.Choose(state)
	}
	if len(scores) != game.ActionSpaceSize {
		log.Warn().Msgf("learned scorer returned %d scores, expected %d", len(scores), game.ActionSpaceSize)
		return s.fallback.Choose(state)
	}

	masked := make([]float64, len(moves))
	for i, move := range moves {
		masked[i] = float64(scores[move.ActionID()])
	}
	if !s.sample {
		return moves[utils.ArgMax(masked)], true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return moves[sample(masked, s.rng)], true
}

// sample draws an index in proportion to its weight, or uniformly when the
// weights carry no positive mass.
func sample(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}

	sampled := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative >= sampled {
			return i
		}
	}
	return len(weights) - 1 // Fallback in case of rounding errors
}
