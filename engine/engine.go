// Package engine plays complete games between automated selectors.
package engine

import (
	"arba/experiments/metrics"
	"arba/game"
)

type Engine interface {
	// Run plays a game till there's a result or the action cap is reached
	Run() (Result, error)
}

type Result struct {
	Winner      game.Player
	DrawReason  game.DrawReason
	Samples     []metrics.Sample
	Game        metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}
