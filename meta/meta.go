// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 400

// WITH_CUTOFF defines the rollout depth after which MCTS evaluates heuristically.
const WITH_CUTOFF = 60

// MAX_ACTIONS caps the number of moves in a self-play game.
const MAX_ACTIONS = 300

// DEFAULT_PIECES_PER_PLAYER defines the placement capacity of a new game.
const DEFAULT_PIECES_PER_PLAYER = 16

// MAX_PIECES_PER_PLAYER bounds the capacity a client may request.
const MAX_PIECES_PER_PLAYER = 16
