package services

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdash/internal/shared"
	"golang.org/x/oauth2"
)

// refreshableTokenSource reports new access tokens to callback so they can be persisted.
type refreshableTokenSource struct {
	mu       sync.Mutex
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	last     string
	refresh  bool // whether the current token carries a refresh token
}

// Token implements [oauth2.TokenSource].
func (s *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		s.mu.Lock()
		refresh := s.refresh
		s.mu.Unlock()
		if !refresh {
			return nil, fmt.Errorf("%w: %w", shared.ErrTokenExpired, err)
		}
		return nil, err
	}

	s.mu.Lock()
	changed := token.AccessToken != s.last
	s.last = token.AccessToken
	s.refresh = token.RefreshToken != ""
	s.mu.Unlock()

	if changed && s.callback != nil {
		s.notify(token)
	}
	return token, nil
}

// notify runs the callback, containing panics so a failed save never breaks the request.
func (s *refreshableTokenSource) notify(token *oauth2.Token) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("token refresh callback panicked", "panic", r)
		}
	}()
	s.callback(token)
}
