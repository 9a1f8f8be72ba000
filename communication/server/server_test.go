package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arba/communication"
	"arba/communication/client"
	"arba/config"
	"arba/game"
	"arba/gamemaster"
	"arba/player"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *client.Client) {
	t.Helper()
	store := gamemaster.NewStore(func(mode string) (player.Selector, error) {
		return player.NewSelector(mode, player.Deps{Seed: 1})
	})
	srv := New(store, Options{
		DefaultPiecesPerPlayer: 16,
		MaxPiecesPerPlayer:     16,
		DefaultAIMode:          config.ModeRandom,
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, client.New(ts.URL)
}

func createGame(t *testing.T, c *client.Client, pieces int) communication.CreateGameResponse {
	t.Helper()
	resp, err := c.CreateGame(context.Background(), communication.CreateGameRequest{PiecesPerPlayer: communication.Int(pieces)})
	require.NoError(t, err)
	return resp
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.Status)
	if message != "" {
		require.Equal(t, message, apiErr.Message)
	}
}

func postRaw(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t)
	require.NoError(t, c.Health(context.Background()))
}

func TestCreateGame(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		_, c := newTestServer(t)

		resp, err := c.CreateGame(context.Background(), communication.CreateGameRequest{})

		require.NoError(t, err)
		require.NotEmpty(t, resp.GameID)
		require.NotEmpty(t, resp.PlayerToken)
		require.Equal(t, config.ModeRandom, resp.AIMode)
		require.Equal(t, 16, resp.State.PiecesPerPlayer)
		require.Equal(t, game.Placement, resp.State.Phase)
		require.Equal(t, game.Red, resp.State.CurrentPlayer)
		require.Equal(t, 4, resp.State.HoleSquareIndex)
	})

	t.Run("empty body", func(t *testing.T) {
		ts, _ := newTestServer(t)
		status, body := postRaw(t, ts.URL+"/games", "")
		require.Equal(t, http.StatusOK, status)
		require.Contains(t, body, `"gameId"`)
	})

	t.Run("explicit options", func(t *testing.T) {
		_, c := newTestServer(t)
		resp, err := c.CreateGame(context.Background(), communication.CreateGameRequest{
			PiecesPerPlayer: communication.Int(3),
			AIMode:          config.ModeAI,
		})
		require.NoError(t, err)
		require.Equal(t, 3, resp.State.PiecesPerPlayer)
		require.Equal(t, config.ModeAI, resp.AIMode)
	})

	t.Run("mode names are case-insensitive", func(t *testing.T) {
		_, c := newTestServer(t)
		resp, err := c.CreateGame(context.Background(), communication.CreateGameRequest{AIMode: " Search "})
		require.NoError(t, err)
		require.Equal(t, config.ModeSearch, resp.AIMode)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, c := newTestServer(t)
		for _, req := range []communication.CreateGameRequest{
			{PiecesPerPlayer: communication.Int(0)},
			{PiecesPerPlayer: communication.Int(17)},
			{AIMode: "oracle"},
		} {
			_, err := c.CreateGame(context.Background(), req)
			requireAPIError(t, err, http.StatusUnprocessableEntity, "")
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		ts, _ := newTestServer(t)
		status, _ := postRaw(t, ts.URL+"/games", `{"piecesPerPlayer": "many"}`)
		require.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestGetGame(t *testing.T) {
	_, c := newTestServer(t)
	created := createGame(t, c, 4)

	view, err := c.GetGame(context.Background(), created.GameID)
	require.NoError(t, err)
	require.Equal(t, created.State, view)

	_, err = c.GetGame(context.Background(), "missing")
	requireAPIError(t, err, http.StatusNotFound, "game not found")
}

func TestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("place with slide then automated reply", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)

		view, err := c.Move(ctx, g.GameID, communication.PlaceAndSlideRequest(g.PlayerToken, 1, 0, 1))

		require.NoError(t, err)
		require.Equal(t, game.Red, view.Board[4][0], "The placed piece moved with its square")
		require.Equal(t, 1, view.Placed["R"])
		require.Equal(t, 1, view.Placed["B"], "Blue answered with a placement and slide")
		require.Equal(t, game.Red, view.CurrentPlayer)
		require.Equal(t, game.Placement, view.Phase)
	})

	t.Run("place alone waits for the slide", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)

		view, err := c.Move(ctx, g.GameID, communication.PlaceRequest(g.PlayerToken, 0, 0))
		require.NoError(t, err)
		require.Equal(t, game.PlacementSlide, view.Phase)
		require.Equal(t, game.Red, view.CurrentPlayer)
		require.Equal(t, 0, view.Placed["B"])

		legacy := communication.MoveRequest{Action: communication.ActionSlide, SquareIndex: communication.Int(3), PlayerToken: g.PlayerToken}
		view, err = c.Move(ctx, g.GameID, legacy)
		require.NoError(t, err)
		require.Equal(t, 1, view.Placed["B"])
		require.Equal(t, game.Red, view.CurrentPlayer)
	})

	t.Run("slide payload styles", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)
		_, err := c.Move(ctx, g.GameID, communication.PlaceRequest(g.PlayerToken, 0, 0))
		require.NoError(t, err)

		_, err = c.Move(ctx, g.GameID, communication.SlideRequest(g.PlayerToken, 1, 7))
		requireAPIError(t, err, http.StatusBadRequest, "Invalid move: toHoleSquareIndex must equal the current holeSquareIndex")

		alt := communication.MoveRequest{
			Action:          communication.ActionSlide,
			SquareIndex:     communication.Int(0),
			FromSquareIndex: communication.Int(1),
			PlayerToken:     g.PlayerToken,
		}
		_, err = c.Move(ctx, g.GameID, alt)
		requireAPIError(t, err, http.StatusBadRequest,
			"Invalid move: squareIndex must equal the current holeSquareIndex when using fromSquareIndex")

		alt.SquareIndex = communication.Int(4)
		view, err := c.Move(ctx, g.GameID, alt)
		require.NoError(t, err)
		require.Equal(t, 1, view.Placed["B"])
	})

	t.Run("new style slide", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)
		_, err := c.Move(ctx, g.GameID, communication.PlaceRequest(g.PlayerToken, 2, 3))
		require.NoError(t, err)

		view, err := c.Move(ctx, g.GameID, communication.SlideRequest(g.PlayerToken, 5, 4))
		require.NoError(t, err)
		require.Equal(t, game.Red, view.CurrentPlayer)
	})

	t.Run("illegal move", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)

		_, err := c.Move(ctx, g.GameID, communication.PlaceRequest(g.PlayerToken, 4, 0))
		requireAPIError(t, err, http.StatusBadRequest, "Invalid move: cannot place into the hole square")

		_, err = c.Move(ctx, g.GameID, communication.MoveRequest{
			Action: communication.ActionSlide, SquareIndex: communication.Int(1), PlayerToken: g.PlayerToken,
		})
		requireAPIError(t, err, http.StatusBadRequest, "Invalid move: cannot slide in this phase")
	})

	t.Run("failed fused slide keeps the placement", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)

		_, err := c.Move(ctx, g.GameID, communication.PlaceAndSlideRequest(g.PlayerToken, 0, 0, 8))
		requireAPIError(t, err, http.StatusBadRequest, "Invalid move: square is not adjacent to the hole")

		view, err := c.GetGame(ctx, g.GameID)
		require.NoError(t, err)
		require.Equal(t, game.PlacementSlide, view.Phase)
		require.Equal(t, game.Red, view.Board[0][0])
	})

	t.Run("invalid token", func(t *testing.T) {
		_, c := newTestServer(t)
		g := createGame(t, c, 4)

		_, err := c.Move(ctx, g.GameID, communication.PlaceRequest("stolen", 0, 0))
		requireAPIError(t, err, http.StatusUnauthorized, "invalid playerToken")
	})

	t.Run("unknown game", func(t *testing.T) {
		_, c := newTestServer(t)
		_, err := c.Move(ctx, "missing", communication.PlaceRequest("token", 0, 0))
		requireAPIError(t, err, http.StatusNotFound, "game not found")
	})

	t.Run("schema errors", func(t *testing.T) {
		ts, c := newTestServer(t)
		g := createGame(t, c, 4)
		url := ts.URL + "/games/" + g.GameID + "/move"
		token := `"playerToken":"` + g.PlayerToken + `"`

		for _, body := range []string{
			`{"action":"place","squareIndex":0,` + token + `}`,
			`{"action":"place","slotIndex":0,` + token + `}`,
			`{"action":"place","squareIndex":0,"slotIndex":0,"fromSquareIndex":1,` + token + `}`,
			`{"action":"place","squareIndex":9,"slotIndex":0,` + token + `}`,
			`{"action":"place","squareIndex":0,"slotIndex":4,` + token + `}`,
			`{"action":"slide","squareIndex":1,"slotIndex":0,` + token + `}`,
			`{"action":"slide","squareIndex":1,"slideSquareIndex":0,` + token + `}`,
			`{"action":"slide","toHoleSquareIndex":4,` + token + `}`,
			`{"action":"slide","fromSquareIndex":1,` + token + `}`,
			`{"action":"slide",` + token + `}`,
			`{"action":"jump","squareIndex":1,` + token + `}`,
			`{"action":"place","squareIndex":0,"slotIndex":0}`,
			`{"action":"place","squareIndex":"zero","slotIndex":0,` + token + `}`,
			`not json`,
		} {
			status, _ := postRaw(t, url, body)
			require.Equal(t, http.StatusUnprocessableEntity, status, body)
		}
	})

	t.Run("schema errors precede lookup", func(t *testing.T) {
		ts, _ := newTestServer(t)
		status, _ := postRaw(t, ts.URL+"/games/missing/move", `{"action":"place","playerToken":"x"}`)
		require.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestRestart(t *testing.T) {
	ctx := context.Background()
	_, c := newTestServer(t)
	g := createGame(t, c, 5)
	_, err := c.Move(ctx, g.GameID, communication.PlaceAndSlideRequest(g.PlayerToken, 0, 0, 1))
	require.NoError(t, err)

	_, err = c.Restart(ctx, g.GameID, "stolen")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid playerToken")

	_, err = c.Restart(ctx, "missing", g.PlayerToken)
	requireAPIError(t, err, http.StatusNotFound, "game not found")

	view, err := c.Restart(ctx, g.GameID, g.PlayerToken)
	require.NoError(t, err)
	require.Equal(t, g.State, view)
	require.Equal(t, 5, view.PiecesPerPlayer)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, c := newTestServer(t)
	g := createGame(t, c, 4)

	views, err := c.Watch(ctx, g.GameID)
	require.NoError(t, err)

	initial := <-views
	require.Equal(t, g.State, initial)

	moved, err := c.Move(ctx, g.GameID, communication.PlaceAndSlideRequest(g.PlayerToken, 0, 0, 1))
	require.NoError(t, err)

	// The human turn and the automated reply arrive as one view.
	select {
	case view := <-views:
		require.Equal(t, moved, view)
		require.Equal(t, game.Red, view.CurrentPlayer)
		require.Equal(t, 1, view.Placed["B"])
	case <-ctx.Done():
		t.Fatal("timed out waiting for updates")
	}

	_, err = c.Watch(ctx, "missing")
	requireAPIError(t, err, http.StatusNotFound, "")
}
