// Package gamemaster keeps the live game sessions served over HTTP.
package gamemaster

import (
	"errors"
	"fmt"
	"sync"

	"arba/game"
	"arba/player"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidToken = errors.New("invalid playerToken")
	// ErrAutomatedTurn reports a selector that failed to play a legal reply.
	ErrAutomatedTurn = errors.New("automated turn failed")
)

// SelectorFactory builds the selector that plays the automated side for an
// ai mode.
type SelectorFactory func(mode string) (player.Selector, error)

// Store is the in-memory registry of sessions. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	newSelector SelectorFactory
}

func NewStore(newSelector SelectorFactory) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		newSelector: newSelector,
	}
}

// Create starts a game with the given placement capacity whose automated side
// plays in mode.
func (s *Store) Create(piecesPerPlayer int, mode string) (*Session, error) {
	state, err := game.NewGameState(piecesPerPlayer)
	if err != nil {
		return nil, err
	}
	selector, err := s.newSelector(mode)
	if err != nil {
		return nil, fmt.Errorf("creating %s selector: %w", mode, err)
	}

	session := newSession(uuid.NewString(), uuid.NewString(), mode, state, selector)

	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	log.Info().Msgf("created game %s (pieces=%d, ai=%s, live=%d)", session.ID, piecesPerPlayer, mode, count)
	return session, nil
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return session, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
