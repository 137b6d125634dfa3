package sessions

import (
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/docflow-admin/storage"
)

// Session is the pair of tokens issued by the backend. It is created on login,
// replaced on refresh and destroyed on logout or when a refresh fails.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the session carries an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// OAuth2Token renders the session as a bearer token.
func (s Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, TokenType: "Bearer"}
}

// Store serializes session reads and writes on top of the persisted state.
type Store struct {
	mu      sync.RWMutex
	storage storage.Store
}

func NewStore(st storage.Store) *Store {
	return &Store{storage: st}
}

// Get returns the current session. A missing key yields an empty field.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	access, _ := s.storage.Get(storage.KeyAccessToken)
	refresh, _ := s.storage.Get(storage.KeyRefreshToken)
	return Session{AccessToken: access, RefreshToken: refresh}
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (s *Store) AccessToken() string {
	return s.Get().AccessToken
}

// Save replaces both tokens.
func (s *Store) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(storage.KeyAccessToken, session.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := s.storage.Set(storage.KeyRefreshToken, session.RefreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Clear destroys the session. Preferences stored next to it are kept.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(storage.KeyAccessToken, storage.KeyRefreshToken)
}
