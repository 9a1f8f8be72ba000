// Package experiments runs batches of self-play games and stores them as
// training datasets.
package experiments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"arba/engine"
	"arba/experiments/metrics"
	"arba/game"
	"arba/meta"
	"arba/player"

	"github.com/rs/zerolog/log"
)

// SelectorFactory builds a selector for mode. Seeds differ per game and side.
type SelectorFactory func(mode string, seed int64) (player.Selector, error)

type SelfPlayConfig struct {
	Name            string `json:"name"`
	Games           int    `json:"games"`
	Workers         int    `json:"workers"`
	PiecesPerPlayer int    `json:"piecesPerPlayer"`
	MaxActions      int    `json:"maxActions"`
	Red             string `json:"red"`
	Blue            string `json:"blue"`
	Seed            int64  `json:"seed"`
	OutputDir       string `json:"outputDir"`
}

func (c SelfPlayConfig) withDefaults() SelfPlayConfig {
	if c.Name == "" {
		c.Name = "selfplay"
	}
	if c.Workers <= 0 {
		c.Workers = meta.GO_ROUTINES
	}
	if c.PiecesPerPlayer <= 0 {
		c.PiecesPerPlayer = meta.DEFAULT_PIECES_PER_PLAYER
	}
	if c.MaxActions <= 0 {
		c.MaxActions = meta.MAX_ACTIONS
	}
	if c.OutputDir == "" {
		c.OutputDir = "experiments"
	}
	return c
}

type Report struct {
	Dir     string
	Summary metrics.Summary
}

// RunSelfPlay plays cfg.Games games over a pool of workers and writes
// setup.json, one CSV of samples per game, games.csv, moves.csv and
// summary.json to a fresh directory.
func RunSelfPlay(ctx context.Context, cfg SelfPlayConfig, newSelector SelectorFactory) (Report, error) {
	cfg = cfg.withDefaults()
	if cfg.Games <= 0 {
		return Report{}, errors.New("number of games must be positive")
	}

	writer, err := metrics.NewWriter(cfg.OutputDir, cfg.Name)
	if err != nil {
		return Report{}, err
	}
	if err := writer.WriteSetup(cfg); err != nil {
		return Report{}, err
	}

	log.Info().Msgf("starting %s: %d games of %s vs %s on %d workers...", cfg.Name, cfg.Games, cfg.Red, cfg.Blue, cfg.Workers)

	task := make(chan int, cfg.Games)
	for i := 1; i <= cfg.Games; i++ {
		task <- i
	}
	close(task)

	var (
		tally       metrics.Tally
		mu          sync.Mutex
		firstErr    error
		gameRecords []metrics.GameRecord
		moveRecords []metrics.MoveRecord
		wg          sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	start := time.Now()
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for id := range task {
				if ctx.Err() != nil {
					fail(ctx.Err())
					return
				}
				result, err := playGame(cfg, id, newSelector)
				if err != nil {
					fail(fmt.Errorf("game %d: %w", id, err))
					return
				}
				if err := writer.WriteSamples(id, result.Samples); err != nil {
					fail(err)
					return
				}
				tally.Record(result.Game)

				mu.Lock()
				gameRecords = append(gameRecords, metrics.GameRecord{ID: id, Red: cfg.Red, Blue: cfg.Blue, GameMetric: result.Game})
				for _, mm := range result.MoveMetrics {
					moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, MoveMetric: mm})
				}
				mu.Unlock()

				log.Debug().Msgf("completed game %d: %s after %d actions", id, Outcome(result.Game), result.Game.TotalActions)
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return Report{Dir: writer.Dir(), Summary: tally.Summary()}, firstErr
	}

	sort.Slice(gameRecords, func(i, j int) bool { return gameRecords[i].ID < gameRecords[j].ID })
	sort.SliceStable(moveRecords, func(i, j int) bool { return moveRecords[i].Game < moveRecords[j].Game })
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return Report{}, err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return Report{}, err
	}
	summary := tally.Summary()
	if err := writer.WriteSummary(summary); err != nil {
		return Report{}, err
	}

	log.Info().Msgf("completed %s in %s: %+v, stored in %s", cfg.Name, time.Since(start).Round(time.Millisecond), summary, writer.Dir())
	return Report{Dir: writer.Dir(), Summary: summary}, nil
}

func playGame(cfg SelfPlayConfig, id int, newSelector SelectorFactory) (engine.Result, error) {
	seed := cfg.Seed + int64(id)*2
	red, err := newSelector(cfg.Red, seed)
	if err != nil {
		return engine.Result{}, err
	}
	blue, err := newSelector(cfg.Blue, seed+1)
	if err != nil {
		return engine.Result{}, err
	}
	e, err := engine.NewLocalEngine(red, blue, cfg.PiecesPerPlayer, cfg.MaxActions)
	if err != nil {
		return engine.Result{}, err
	}
	return e.Run()
}

// Outcome names a game result for logs.
func Outcome(g metrics.GameMetric) string {
	switch {
	case g.Winner != game.NoPlayer:
		return "winner " + g.Winner.String()
	case g.DrawReason != game.NoDraw:
		return "draw (" + string(g.DrawReason) + ")"
	default:
		return "unfinished"
	}
}
