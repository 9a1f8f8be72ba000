// Package client is a typed client for the game HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arba/communication"
	"arba/game"

	"github.com/gorilla/websocket"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ communication.Communicator = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Health(ctx context.Context) error {
	var resp communication.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("server reports unhealthy")
	}
	return nil
}

func (c *Client) CreateGame(ctx context.Context, req communication.CreateGameRequest) (communication.CreateGameResponse, error) {
	var resp communication.CreateGameResponse
	err := c.do(ctx, http.MethodPost, "/games", req, &resp)
	return resp, err
}

func (c *Client) GetGame(ctx context.Context, gameID string) (game.View, error) {
	var resp communication.StateResponse
	err := c.do(ctx, http.MethodGet, "/games/"+url.PathEscape(gameID), nil, &resp)
	return resp.State, err
}

func (c *Client) Move(ctx context.Context, gameID string, req communication.MoveRequest) (game.View, error) {
	var resp communication.StateResponse
	err := c.do(ctx, http.MethodPost, "/games/"+url.PathEscape(gameID)+"/move", req, &resp)
	return resp.State, err
}

func (c *Client) Restart(ctx context.Context, gameID, playerToken string) (game.View, error) {
	var resp communication.StateResponse
	body := communication.RestartRequest{PlayerToken: playerToken}
	err := c.do(ctx, http.MethodPost, "/games/"+url.PathEscape(gameID)+"/restart", body, &resp)
	return resp.State, err
}

// Watch opens the game's websocket and delivers every pushed view until ctx
// is cancelled or the connection drops. The channel is closed on return.
func (c *Client) Watch(ctx context.Context, gameID string) (<-chan game.View, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/games/" + url.PathEscape(gameID) + "/ws"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: err.Error()}
		}
		return nil, fmt.Errorf("dialing %s: %w", wsURL, err)
	}

	views := make(chan game.View)
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()
	go func() {
		defer close(views)
		defer close(done)
		for {
			var msg struct {
				Type  string     `json:"type"`
				State *game.View `json:"state"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type != "state" || msg.State == nil {
				continue
			}
			select {
			case views <- *msg.State:
			case <-ctx.Done():
				return
			}
		}
	}()
	return views, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
