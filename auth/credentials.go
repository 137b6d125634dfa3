package auth

import (
	"net/url"
	"strings"
)

// Credentials are sent to the login endpoint as query parameters.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return MissingCredentialsErr
	}
	return nil
}

func (c Credentials) Params() url.Values {
	return url.Values{
		"username": {strings.TrimSpace(c.Username)},
		"password": {c.Password},
	}
}
