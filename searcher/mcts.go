package searcher

import (
	"sync"
	"sync/atomic"
	"time"

	"arba/experiments/metrics"
	"arba/game"
	"arba/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a parallel Monte Carlo tree search with virtual loss. The tree of
// the previous search is reused when the new state lies a few moves below its
// root. Search calls on one MCTS are serialized.
type MCTS struct {
	mu          sync.Mutex
	root        *decision
	goroutines  int
	duration    time.Duration
	episodes    int
	cutoff      int
	seed        uint64
	evaluate    game.Evaluate
	withMetrics bool
	searches    atomic.Uint64
}

func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithSeed(seed int64) Option {
	return func(m *MCTS) {
		m.seed = uint64(seed)
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.withMetrics = true
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: meta.GO_ROUTINES,
		cutoff:     meta.WITH_CUTOFF,
		evaluate:   game.EvaluateWindows,
		seed:       uint64(time.Now().UnixNano()),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		m.episodes = meta.EPISODES
	}
	return m
}

// Choose returns the most visited root action, declining when the game is
// over.
func (m *MCTS) Choose(state *game.GameState) (game.Move, bool) {
	move, _, ok := m.Search(state)
	return move, ok
}

// Search runs the configured number of episodes, or until the duration
// elapses, and reports the chosen action with search metrics.
func (m *MCTS) Search(state *game.GameState) (game.Move, metrics.SearchMetric, bool) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, false
	}
	if len(moves) == 1 {
		return moves[0], metrics.SearchMetric{Arms: 1}, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seed := m.seed + m.searches.Add(1)*uint64(m.goroutines+1)
	root, reused := m.findRoot(state, rand.New(rand.NewSource(seed)))

	collector := metrics.NewDummyCollector()
	if m.withMetrics {
		collector = metrics.NewCollector()
	}
	collector.Start(m.goroutines, m.cutoff, len(moves))

	if m.episodes > 0 {
		m.iterate(state, root, seed+1, collector)
	} else {
		m.countdown(state, root, seed+1, collector)
	}
	metric := collector.Complete()
	if m.withMetrics {
		metric.TreeReused = reused
	}

	move, child := root.best()
	rewards, visits := child.stats()
	_, total := root.stats()
	log.Debug().Msgf("search chose %s after %.0f visits (%.0f on the move, value %.3f, reused %t)",
		move, total, visits, rewards/visits, reused)
	return move, metric, true
}

// findRoot reuses the node for state from the previous tree, or starts a new
// tree.
func (m *MCTS) findRoot(state *game.GameState, rng *rand.Rand) (*decision, bool) {
	if m.root != nil {
		if node := m.root.find(state.Hash(), REUSE_DEPTH); node != nil {
			node.Lock()
			node.parent = nil
			node.Unlock()
			m.root = node
			return node, true
		}
	}
	m.root = newDecision(nil, game.NoPlayer, state, rng)
	return m.root, false
}

func (m *MCTS) iterate(state *game.GameState, root *decision, seed uint64, collector metrics.Collector) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(seed + uint64(i)))
		go func() {
			defer wg.Done()

			for range task {
				m.simulate(state, root, rng, collector)
				collector.AddEpisode()
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(state *game.GameState, root *decision, seed uint64, collector metrics.Collector) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(seed + uint64(i)))
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(state, root, rng, collector)
					collector.AddEpisode()
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(state *game.GameState, root *decision, rng *rand.Rand, collector metrics.Collector) {
	node, leaf := selectThenExpand(root, state, rng)
	result := rollout(leaf, m.cutoff, m.evaluate, rng, collector)
	backup(node, result)
}

func selectThenExpand(root *decision, state *game.GameState, rng *rand.Rand) (*decision, *game.GameState) {
	node, state, selected := root.SelectOrExpand(state, rng)
	for selected {
		node, state, selected = node.SelectOrExpand(state, rng)
	}
	return node, state
}

// rollout plays random actions from state until the game ends or the cutoff
// depth is reached. state is not modified.
func rollout(state *game.GameState, cutoff int, evaluate game.Evaluate, rng *rand.Rand, collector metrics.Collector) outcome {
	state = state.Clone()

	depth := 0
	moves := state.LegalMoves()
	// Rollout till game over or for cutoff number of moves
	for len(moves) > 0 && depth < cutoff {
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		if err := state.Apply(move); err != nil {
			panic(err)
		}
		moves = state.LegalMoves()
		depth++
	}

	if len(moves) == 0 { // Game over before cutoff
		collector.AddFullPlayout()
		return terminal(state)
	}

	// At cutoff state, score from the side to move
	return evaluated(state, evaluate(state))
}

func backup(node *decision, result outcome) {
	for node != nil {
		node = node.Backup(result)
	}
}
