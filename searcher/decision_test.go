package searcher

import (
	"sync"
	"testing"

	"arba/experiments/metrics"
	"arba/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newRoot(t *testing.T, gs *game.GameState) *decision {
	t.Helper()
	return newDecision(nil, game.NoPlayer, gs, rand.New(rand.NewSource(1)))
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("expanding adds a child with a virtual loss", func(t *testing.T) {
		gs, err := game.NewGameState(4)
		require.NoError(t, err)
		node := newRoot(t, gs)
		legal := len(gs.LegalMoves())

		child, childState, selected := node.SelectOrExpand(gs, rand.New(rand.NewSource(2)))

		require.False(t, selected, "Expansion ends the descent")
		require.Same(t, node, child.parent)
		require.Equal(t, game.Red, child.player, "Child statistics belong to the side that moved")
		require.Equal(t, LOSS, child.rewards)
		require.Equal(t, 1.0, child.visits)
		require.Equal(t, childState.Hash(), child.hash)
		require.Len(t, node.children, 1)
		require.Len(t, node.unexplored, legal-1)
		require.Equal(t, game.Placement, gs.Phase, "Parent state is not modified")
		require.Equal(t, game.PlacementSlide, childState.Phase)
	})

	t.Run("selecting the fully expanded node picks the best child", func(t *testing.T) {
		gs, err := game.NewGameState(4)
		require.NoError(t, err)
		good := &decision{player: game.Red, rewards: 9, visits: 10}
		bad := &decision{player: game.Red, rewards: 1, visits: 10}
		node := &decision{
			explored: []game.Move{game.PlaceMove(0, 0), game.PlaceMove(1, 0)},
			children: []*decision{bad, good},
			visits:   20,
		}

		child, childState, selected := node.SelectOrExpand(gs, rand.New(rand.NewSource(2)))

		require.True(t, selected)
		require.Same(t, good, child)
		require.Equal(t, 11.0, good.visits, "Selected child carries a virtual loss")
		require.Equal(t, game.Red, childState.Board[1][0])
		require.Equal(t, 20.0, node.visits, "Node stats should not change")
	})

	t.Run("terminal node returns itself", func(t *testing.T) {
		gs, err := game.NewGameState(4)
		require.NoError(t, err)
		gs.Winner = game.Red
		node := newRoot(t, gs)

		child, childState, selected := node.SelectOrExpand(gs, rand.New(rand.NewSource(2)))

		require.Same(t, node, child)
		require.Same(t, gs, childState)
		require.False(t, selected)
	})
}

func TestDecisionBackup(t *testing.T) {
	root := &decision{player: game.NoPlayer}
	red := &decision{parent: root, player: game.Red}
	blue := &decision{parent: red, player: game.Blue}
	red.applyLoss()
	blue.applyLoss()

	backup(blue, outcome{player: game.Red, value: WIN})

	require.Equal(t, 1.0, blue.visits, "Virtual loss is reversed")
	require.Equal(t, LOSS, blue.rewards)
	require.Equal(t, 1.0, red.visits)
	require.Equal(t, WIN, red.rewards)
	require.Equal(t, 1.0, root.visits)
}

func TestDecisionConcurrentSimulations(t *testing.T) {
	gs, err := game.NewGameState(4)
	require.NoError(t, err)
	root := newRoot(t, gs)
	m := NewMCTS(WithCutoff(8))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		rng := rand.New(rand.NewSource(uint64(i)))
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.simulate(gs, root, rng, metrics.NewDummyCollector())
			}
		}()
	}
	wg.Wait()

	_, visits := root.stats()
	require.Equal(t, 400.0, visits)
	total := 0.0
	for _, child := range root.children {
		_, v := child.stats()
		total += v
	}
	require.Equal(t, visits, total, "Every visit is backed up and no virtual loss remains")
}

func TestDecisionBest(t *testing.T) {
	node := &decision{
		explored: []game.Move{game.PlaceMove(0, 0), game.PlaceMove(1, 0), game.PlaceMove(2, 0)},
		children: []*decision{
			{rewards: 2, visits: 5},
			{rewards: 4, visits: 5},
			{rewards: 1, visits: 3},
		},
	}

	move, child := node.best()

	require.Equal(t, game.PlaceMove(1, 0), move, "Ties on visits break by mean reward")
	require.Same(t, node.children[1], child)
}

func TestDecisionFind(t *testing.T) {
	gs, err := game.NewGameState(4)
	require.NoError(t, err)
	root := newRoot(t, gs)
	rng := rand.New(rand.NewSource(3))
	child, childState, _ := root.SelectOrExpand(gs, rng)
	grandChild, grandState, _ := child.SelectOrExpand(childState, rng)

	require.Same(t, root, root.find(gs.Hash(), 0))
	require.Same(t, grandChild, root.find(grandState.Hash(), 2))
	require.Nil(t, root.find(grandState.Hash(), 1), "Lookup depth is bounded")
	require.Equal(t, 3, root.size())
}
