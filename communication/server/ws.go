package server

import (
	"net/http"
	"time"

	"arba/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

const writeWait = 10 * time.Second

type wsMessage struct {
	Type  string     `json:"type"`
	State *game.View `json:"state,omitempty"`
}

func stateMessage(view game.View) wsMessage {
	return wsMessage{Type: "state", State: &view}
}

// watch streams the game's view to a websocket client: the current view on
// connect, then one message per transition.
func (s *Server) watch(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	logger := hlog.FromRequest(r).With().Str("game", session.ID).Logger()

	updates, cancel := session.Subscribe()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(stateMessage(session.View())); err != nil {
		cancel()
		conn.Close()
		return
	}
	logger.Debug().Msg("websocket subscribed")

	go func() {
		defer conn.Close()
		if err := writeWithHeartbeat(conn, updates, s.opts.PingInterval); err != nil {
			logger.Debug().Err(err).Msg("websocket write stopped")
		}
	}()

	// Incoming messages are ignored; reading detects the peer going away.
	conn.SetReadDeadline(time.Time{})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			logger.Debug().Msg("websocket closed")
			return
		}
	}
}

func writeWithHeartbeat(conn *websocket.Conn, updates <-chan game.View, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case view, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(stateMessage(view)); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsMessage{Type: "ping"}); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
