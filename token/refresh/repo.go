package refresh

import (
	"errors"
	"time"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// StoredRefreshToken is the server side record of an opaque refresh token.
type StoredRefreshToken struct {
	Token  string
	UserID string
	Iat    time.Time
}

// Repo stores refresh tokens keyed by the token string. A user holds at most
// one token at a time.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID string) (*StoredRefreshToken, error)
}
