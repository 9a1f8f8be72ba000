package gamemaster

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"arba/game"
	"arba/player"

	"github.com/rs/zerolog/log"
)

const (
	// Human is the side played by the holder of the session token.
	Human = game.Red
	// Automated is the side played by the session's selector.
	Automated = game.Blue
)

// Session is one game in progress. Transitions are serialized by the session
// mutex and every change is published to subscribers.
type Session struct {
	ID     string
	Token  string
	AIMode string

	mu       sync.Mutex
	state    *game.GameState
	selector player.Selector

	subMu       sync.Mutex
	subscribers map[chan game.View]struct{}
}

func newSession(id, token, mode string, state *game.GameState, selector player.Selector) *Session {
	return &Session{
		ID:          id,
		Token:       token,
		AIMode:      mode,
		state:       state,
		selector:    selector,
		subscribers: make(map[chan game.View]struct{}),
	}
}

// Authorize checks a caller's token against the session token.
func (s *Session) Authorize(token string) error {
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

func (s *Session) View() game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View()
}

// Do runs fn against the live state under the session lock and returns the
// resulting view. Changes made before fn fails are kept and published.
func (s *Session) Do(fn func(*game.GameState) error) (game.View, error) {
	s.mu.Lock()
	before := s.state.Hash()
	err := fn(s.state)
	changed := s.state.Hash() != before
	view := s.state.View()
	if changed {
		s.publish(view)
	}
	s.mu.Unlock()

	return view, err
}

// Move applies the human transition fn and, if it succeeds, the automated
// side's reply, all under one lock with a single publish. An error from the
// reply wraps ErrAutomatedTurn. Changes made before fn fails are kept.
func (s *Session) Move(fn func(*game.GameState) error) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.Hash()
	err := fn(s.state)
	if err == nil {
		err = s.playAutomated(s.state)
	}
	view := s.state.View()
	if s.state.Hash() != before {
		s.publish(view)
	}
	return view, err
}

// PlayAutomated lets the selector play the automated side's turn, if it is
// that side's turn.
func (s *Session) PlayAutomated() (game.View, error) {
	return s.Do(s.playAutomated)
}

func (s *Session) playAutomated(gs *game.GameState) error {
	if err := player.TakeTurn(gs, Automated, s.selector); err != nil {
		log.Error().Err(err).Msgf("game %s: automated turn failed", s.ID)
		return fmt.Errorf("%w: %v", ErrAutomatedTurn, err)
	}
	return nil
}

// Restart replaces the state with a fresh game of the same capacity.
func (s *Session) Restart() game.View {
	s.mu.Lock()
	state, err := game.NewGameState(s.state.PiecesPerPlayer)
	if err != nil {
		s.mu.Unlock()
		panic(err) // The capacity was validated when the session was created
	}
	s.state = state
	view := state.View()
	s.publish(view)
	s.mu.Unlock()

	log.Info().Msgf("restarted game %s", s.ID)
	return view
}

// Subscribe returns a channel receiving the view after every transition and a
// function that cancels the subscription. Slow subscribers only see the most
// recent view.
func (s *Session) Subscribe() (<-chan game.View, func()) {
	ch := make(chan game.View, 1)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, ch)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) publish(view game.View) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Replace the stale view
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}
