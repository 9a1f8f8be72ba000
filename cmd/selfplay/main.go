package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"arba/config"
	"arba/experiments"
	"arba/meta"
	"arba/model"
	"arba/player"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	name := flag.String("name", "selfplay", "Experiment name")
	games := flag.Int("games", 100, "Number of games to play")
	workers := flag.Int("workers", meta.GO_ROUTINES, "Games played in parallel")
	red := flag.String("red", config.ModeSearch, "Selector mode for Red")
	blue := flag.String("blue", config.ModeRandom, "Selector mode for Blue")
	pieces := flag.Int("pieces", meta.DEFAULT_PIECES_PER_PLAYER, "Pieces per player")
	maxActions := flag.Int("max-actions", meta.MAX_ACTIONS, "Action cap per game")
	seed := flag.Int64("seed", 1, "Base seed")
	out := flag.String("out", "experiments", "Output directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if err := config.SetupLogging(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("invalid log config")
	}

	scorer, err := model.Load(model.Options{
		Path:        cfg.AI.ModelPath,
		OnnxLibrary: cfg.AI.OnnxLibrary,
		InputName:   cfg.AI.InputName,
		OutputName:  cfg.AI.OutputName,
	})
	switch {
	case errors.Is(err, model.ErrUnavailable):
		log.Warn().Err(err).Msg("no model loaded, ai mode plays randomly")
	case err != nil:
		log.Fatal().Err(err).Msg("failed to load model")
	default:
		defer scorer.Close()
		defer model.Shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := experiments.RunSelfPlay(ctx, experiments.SelfPlayConfig{
		Name:            *name,
		Games:           *games,
		Workers:         *workers,
		PiecesPerPlayer: *pieces,
		MaxActions:      *maxActions,
		Red:             *red,
		Blue:            *blue,
		Seed:            *seed,
		OutputDir:       *out,
	}, player.Factory(player.NewDeps(cfg, scorer)))
	if err != nil {
		log.Error().Err(err).Msgf("self-play stopped, partial results in %s", report.Dir)
		os.Exit(1)
	}
	s := report.Summary
	log.Info().Msgf("Red %d, Blue %d, draws %d, unfinished %d", s.RedWins, s.BlueWins, s.Draws, s.Unfinished)
}
