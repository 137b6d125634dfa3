package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const tokenLength = 32

var ErrTokenExpired = errors.New("refresh token expired")

// Manager creates, validates and rotates refresh tokens
type Manager struct {
	repo   Repo
	expiry time.Duration
}

func NewManager(repo Repo, expiry time.Duration) *Manager {
	return &Manager{
		repo:   repo,
		expiry: expiry,
	}
}

// Create generates a new refresh token for userID, replacing any previous one.
func (m *Manager) Create(userID string) (string, error) {
	if existing, err := m.repo.GetByUserID(userID); err == nil && existing != nil {
		if err := m.repo.Delete(existing.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

// Rotate consumes token and issues its replacement. The returned user id is
// the owner of the token.
func (m *Manager) Rotate(token string) (newToken, userID string, err error) {
	stored, err := m.repo.Get(token)
	if err != nil {
		return "", "", err
	}
	if m.IsExpired(stored) {
		_ = m.repo.Delete(token)
		return "", "", ErrTokenExpired
	}
	newToken, err = m.Create(stored.UserID)
	if err != nil {
		return "", "", err
	}
	return newToken, stored.UserID, nil
}

// Revoke removes the token of userID, if any.
func (m *Manager) Revoke(userID string) {
	if existing, err := m.repo.GetByUserID(userID); err == nil && existing != nil {
		_ = m.repo.Delete(existing.Token)
	}
}

func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return m.expiry > 0 && NowTimeFunc().Sub(rt.Iat) > m.expiry
}
