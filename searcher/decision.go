package searcher

import (
	"sync"

	"arba/game"

	"golang.org/x/exp/rand"
)

// decision is a tree node for one game state. Its statistics are kept from
// the view of player, the side whose move led here, so a parent picks among
// its children by their mean reward directly.
type decision struct {
	sync.RWMutex
	parent     *decision
	player     game.Player
	hash       game.StateHash
	unexplored []game.Move
	explored   []game.Move
	children   []*decision
	rewards    float64
	visits     float64
}

// newDecision creates the node reached by player moving into state. Moves are
// expanded in random order.
func newDecision(parent *decision, player game.Player, state *game.GameState, rng *rand.Rand) *decision {
	moves := state.LegalMoves()
	rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	return &decision{
		parent:     parent,
		player:     player,
		hash:       state.Hash(),
		unexplored: moves,
		explored:   make([]game.Move, 0, len(moves)),
		children:   make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand descends one level. It expands an unexplored move when there
// is one, otherwise selects the child with the best UCT score. Either child
// carries a virtual loss until backup. A terminal node returns itself.
func (d *decision) SelectOrExpand(state *game.GameState, rng *rand.Rand) (*decision, *game.GameState, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.unexplored) == 0 && len(d.children) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.unexplored) > 0 { // Expandable node
		move := d.unexplored[len(d.unexplored)-1]
		d.unexplored = d.unexplored[:len(d.unexplored)-1]
		next := play(state, move)
		child := newDecision(d, state.CurrentPlayer, next, rng)
		child.applyLoss()
		d.explored = append(d.explored, move)
		d.children = append(d.children, child)
		return child, next, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, play(state, d.explored[ith]), true
}

func (d *decision) pickChild() int {
	policy := newUCT(C_SQUARED, d.visits)

	maxIndex := 0
	maxScore := policy.evaluate(d.children[0].stats())
	for i, child := range d.children[1:] {
		if score := policy.evaluate(child.stats()); score > maxScore {
			maxScore = score
			maxIndex = i + 1
		}
	}
	return maxIndex
}

func (d *decision) stats() (rewards float64, visits float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// applyLoss counts a pending visit so concurrent workers spread out.
func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

// Backup records o and returns the parent to continue with.
func (d *decision) Backup(o outcome) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}
	d.rewards += o.rewardFor(d.player)
	d.visits++

	return d.parent
}

// best returns the most visited move, breaking ties by mean reward.
func (d *decision) best() (game.Move, *decision) {
	d.RLock()
	defer d.RUnlock()

	if len(d.children) == 0 {
		panic("node has no children")
	}

	bestIndex := 0
	bestRewards, bestVisits := d.children[0].stats()
	for i, child := range d.children[1:] {
		rewards, visits := child.stats()
		if visits > bestVisits || (visits == bestVisits && rewards/visits > bestRewards/bestVisits) {
			bestIndex, bestRewards, bestVisits = i+1, rewards, visits
		}
	}
	return d.explored[bestIndex], d.children[bestIndex]
}

// find returns the node for the state with hash within depth levels below d.
func (d *decision) find(hash game.StateHash, depth int) *decision {
	d.RLock()
	defer d.RUnlock()

	if d.hash == hash {
		return d
	}
	if depth == 0 {
		return nil
	}
	for _, child := range d.children {
		if found := child.find(hash, depth-1); found != nil {
			return found
		}
	}
	return nil
}

func (d *decision) size() int {
	d.RLock()
	defer d.RUnlock()

	n := 1
	for _, child := range d.children {
		n += child.size()
	}
	return n
}

func play(state *game.GameState, move game.Move) *game.GameState {
	next, err := state.Play(move)
	if err != nil {
		panic(err) // Moves come from LegalMoves
	}
	return next
}
