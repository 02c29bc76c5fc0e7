// Package session holds the client-side token pair shared between an
// application and its API client.
package session

import (
	"sync"
	"time"
)

// Session is a concurrency-safe container for the access/refresh token
// pair held by an API client. The zero value is an empty, usable session.
type Session struct {
	mu sync.RWMutex

	accessToken        string
	accessTokenExpiry  time.Time
	refreshToken       string
	refreshTokenExpiry time.Time

	// OnClear, when set, runs after the session is cleared. It is the seam
	// for "send the user back to login" behavior. Called without the lock.
	OnClear func()
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// SetTokens replaces both tokens atomically.
func (s *Session) SetTokens(accessToken string, accessExpiry time.Time, refreshToken string, refreshExpiry time.Time) {
	s.mu.Lock()
	s.accessToken = accessToken
	s.accessTokenExpiry = accessExpiry
	s.refreshToken = refreshToken
	s.refreshTokenExpiry = refreshExpiry
	s.mu.Unlock()
}

// Clear drops both tokens and fires the OnClear hook if one is set.
func (s *Session) Clear() {
	s.mu.Lock()
	s.accessToken = ""
	s.accessTokenExpiry = time.Time{}
	s.refreshToken = ""
	s.refreshTokenExpiry = time.Time{}
	onClear := s.OnClear
	s.mu.Unlock()

	if onClear != nil {
		onClear()
	}
}

// AccessToken returns the current access token, empty when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, empty when logged out.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// AccessTokenExpiry returns the expiry of the current access token.
func (s *Session) AccessTokenExpiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessTokenExpiry
}
