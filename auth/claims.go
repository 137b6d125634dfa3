package auth

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/docflow-admin/internal/utils"
	"github.com/jrsteele09/docflow-admin/users"
)

// Claims are the fields the client reads from an access token. The token is
// not verified; the backend does that on every call.
type Claims struct {
	Subject   string
	Username  string
	Role      users.RoleType
	Roles     []string
	ExpiresAt time.Time
}

// Expired reports whether the token has expired at now. A token without an
// expiry never expires.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims reads the claims of raw without verifying its signature.
func ParseClaims(raw string) (Claims, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, errors.Wrap(InvalidAccessTokenErr, err.Error())
	}
	mc, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, InvalidAccessTokenErr
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	c.Username, _ = mc["username"].(string)
	if role, ok := mc["role"].(string); ok {
		c.Role = users.RoleType(role)
	}
	for _, key := range []string{"roles", "authorities"} {
		if list, ok := mc[key].([]any); ok {
			c.Roles = append(c.Roles, utils.ToStringSlice(list)...)
		}
	}
	if c.Role == "" && len(c.Roles) > 0 {
		c.Role = users.RoleType(c.Roles[0])
	}
	return c, nil
}
