package auth

import "errors"

var (
	MissingCredentialsErr = errors.New("username and password are required")
	InvalidAccessTokenErr = errors.New("invalid access token")
	NotAuthenticatedErr   = errors.New("not authenticated")
)
