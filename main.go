package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arba/communication/server"
	"arba/config"
	"arba/gamemaster"
	"arba/model"
	"arba/player"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", os.Getenv("ARBA_CONFIG"), "Path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := config.SetupLogging(cfg.Log); err != nil {
		return err
	}

	scorer, err := loadScorer(cfg.AI)
	if err != nil {
		return err
	}
	if scorer != nil {
		defer scorer.Close()
		defer model.Shutdown()
	}

	deps := player.NewDeps(cfg, scorer)
	newSelector := player.Factory(deps)
	store := gamemaster.NewStore(func(mode string) (player.Selector, error) {
		return newSelector(mode, 0)
	})

	api := server.New(store, server.Options{
		DefaultPiecesPerPlayer: cfg.Game.DefaultPiecesPerPlayer,
		MaxPiecesPerPlayer:     cfg.Game.MaxPiecesPerPlayer,
		DefaultAIMode:          cfg.AI.Mode,
		AllowedOrigins:         cfg.Server.AllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s with default ai mode %q", cfg.Server.Addr, cfg.AI.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msgf("server closed with %d games in memory", store.Len())
	return nil
}

// loadScorer loads the configured model. A missing model is not fatal: the
// learned selector then plays randomly.
func loadScorer(ai config.AIConfig) (model.Scorer, error) {
	scorer, err := model.Load(model.Options{
		Path:        ai.ModelPath,
		OnnxLibrary: ai.OnnxLibrary,
		InputName:   ai.InputName,
		OutputName:  ai.OutputName,
	})
	if errors.Is(err, model.ErrUnavailable) {
		log.Warn().Err(err).Msg("no model loaded, ai mode plays randomly")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("loaded model from %s", ai.ModelPath)
	return scorer, nil
}
