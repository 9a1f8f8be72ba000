package server

import (
	"errors"
	"net/http"

	"arba/communication"
	"arba/config"
	"arba/game"
	"arba/gamemaster"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, communication.HealthResponse{OK: true})
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req communication.CreateGameRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	if err := req.Validate(s.opts.MaxPiecesPerPlayer); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	pieces := s.opts.DefaultPiecesPerPlayer
	if req.PiecesPerPlayer != nil {
		pieces = *req.PiecesPerPlayer
	}
	mode := s.opts.DefaultAIMode
	if m := config.NormalizeMode(req.AIMode); m != "" {
		mode = m
	}
	if !config.ValidMode(mode) {
		writeError(w, http.StatusUnprocessableEntity, "aiMode must be one of random, ai, search")
		return
	}

	session, err := s.store.Create(pieces, mode)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to create game")
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	writeJSON(w, http.StatusOK, communication.CreateGameResponse{
		GameID:      session.ID,
		PlayerToken: session.Token,
		State:       session.View(),
		AIMode:      session.AIMode,
	})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*gamemaster.Session, bool) {
	session, err := s.store.Get(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return session, true
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, communication.StateResponse{State: session.View()})
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	var req communication.MoveRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := session.Authorize(req.PlayerToken); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid playerToken")
		return
	}

	view, err := session.Move(func(gs *game.GameState) error {
		return req.Apply(gs, gamemaster.Human)
	})
	var illegal *game.IllegalMoveError
	switch {
	case errors.Is(err, gamemaster.ErrAutomatedTurn):
		writeError(w, http.StatusInternalServerError, "automated player failed")
		return
	case errors.As(err, &illegal):
		writeError(w, http.StatusBadRequest, "Invalid move: "+illegal.Reason)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msgf("game %s: move failed", session.ID)
		writeError(w, http.StatusInternalServerError, "move failed")
		return
	}
	writeJSON(w, http.StatusOK, communication.StateResponse{State: view})
}

func (s *Server) restart(w http.ResponseWriter, r *http.Request) {
	var req communication.RestartRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := session.Authorize(req.PlayerToken); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid playerToken")
		return
	}
	writeJSON(w, http.StatusOK, communication.StateResponse{State: session.Restart()})
}
