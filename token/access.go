package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/docflow-admin/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrMissingSubject = errors.New("token has no subject")

// AccessClaims identify the user behind an access token.
type AccessClaims struct {
	UserID   string
	Username string
	Role     users.RoleType
}

// Creator issues and verifies access tokens.
type Creator struct {
	signer Signer
	expiry time.Duration
}

func NewCreator(signer Signer, expiry time.Duration) *Creator {
	return &Creator{signer: signer, expiry: expiry}
}

// CreateAccessToken signs a token for user carrying its role.
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwt.MapClaims{
		"sub":      string(user.ID),
		"username": user.Username,
		"role":     string(user.Role),
		"roles":    []string{string(user.Role)},
		"iat":      now.Unix(),
		"exp":      now.Add(c.expiry).Unix(),
		"jti":      uuid.New().String(),
	}
	return c.signer.Sign(claims)
}

// Verify checks raw and returns who it was issued to.
func (c *Creator) Verify(raw string) (AccessClaims, error) {
	claims, err := c.signer.Verify(raw, NowTimeFunc)
	if err != nil {
		return AccessClaims{}, err
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return AccessClaims{}, ErrMissingSubject
	}
	ac := AccessClaims{UserID: sub}
	ac.Username, _ = claims["username"].(string)
	if role, ok := claims["role"].(string); ok {
		ac.Role = users.RoleType(role)
	}
	return ac, nil
}

// Expiry is the lifetime of issued access tokens.
func (c *Creator) Expiry() time.Duration {
	return c.expiry
}
