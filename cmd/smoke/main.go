package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"arba/communication"
	"arba/communication/client"
	"arba/game"

	"github.com/rs/zerolog/log"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "Server base URL")
	aiMode := flag.String("ai-mode", "", "AI mode for the new game, server default when empty")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := smoke(ctx, client.New(*baseURL), *aiMode); err != nil {
		log.Error().Err(err).Msg("smoke test failed")
		os.Exit(1)
	}
	log.Info().Msg("smoke test passed")
}

// smoke plays the opening of a game as Red and restarts it.
func smoke(ctx context.Context, c *client.Client, aiMode string) error {
	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("health: %w", err)
	}

	created, err := c.CreateGame(ctx, communication.CreateGameRequest{PiecesPerPlayer: communication.Int(4), AIMode: aiMode})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	log.Info().Msgf("created game %s playing %q", created.GameID, created.AIMode)

	updates, err := c.Watch(ctx, created.GameID)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if _, ok := <-updates; !ok {
		return errors.New("watch: no initial state")
	}

	view, err := c.GetGame(ctx, created.GameID)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if view.Phase != game.Placement || view.CurrentPlayer != game.Red {
		return fmt.Errorf("unexpected initial state: %s to move in %s", view.CurrentPlayer, view.Phase)
	}

	view, err = c.Move(ctx, created.GameID, communication.PlaceAndSlideRequest(created.PlayerToken, 1, 0, 1))
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	if view.CurrentPlayer != game.Red || view.Placed[game.Blue.String()] != 1 {
		return fmt.Errorf("automated side did not answer: %s to move", view.CurrentPlayer)
	}
	log.Info().Msgf("Blue answered, board hole at %d", view.HoleSquareIndex)

	var apiErr *client.APIError
	_, err = c.Move(ctx, created.GameID, communication.SlideRequest("wrong-token", 1, view.HoleSquareIndex))
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		return fmt.Errorf("expected 401 for a bad token, got %v", err)
	}

	view, err = c.Restart(ctx, created.GameID, created.PlayerToken)
	if err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	if view.Placed[game.Red.String()] != 0 {
		return errors.New("restart kept placed pieces")
	}
	return nil
}
