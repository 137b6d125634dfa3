package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error values for the admin client
var (
	// Session errors
	ErrNoSession       = errors.New("no active session")
	ErrNoRefreshToken  = errors.New("no refresh token")
	ErrRefreshFailed   = errors.New("token refresh failed")
	ErrInvalidResponse = errors.New("invalid response from server")

	// Store errors
	ErrBusy     = errors.New("operation already in progress")
	ErrNotFound = errors.New("not found")

	// Input errors
	ErrMissingID      = errors.New("identifier is required")
	ErrMissingPayload = errors.New("payload is required")
)

// Kind classifies a failed call.
type Kind string

const (
	KindNetwork    Kind = "network_failure"  // no response from the backend
	KindClient     Kind = "client_error"     // 4xx other than 401
	KindAuth       Kind = "auth_error"       // 401
	KindServer     Kind = "server_error"     // 5xx
	KindValidation Kind = "validation_error" // rejected before any network call
)

// APIError is returned for every failed backend call and for rejected preconditions.
type APIError struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when there was no response
	Message string // user facing message
	Cause   error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// FromStatus builds the error for a non-2xx response. An empty message is
// replaced with the default message for the status.
func FromStatus(status int, message string) *APIError {
	if message == "" {
		message = StatusMessage(status)
	}
	return &APIError{Kind: KindForStatus(status), Status: status, Message: message}
}

// Network wraps a transport level failure where no response was received.
func Network(cause error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "network failure", Cause: cause}
}

// Validation rejects a call before it reaches the network.
func Validation(cause error, message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Cause: cause}
}

// KindForStatus maps an HTTP status to its error kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindClient
	}
}

// StatusMessage is the fallback message shown when the backend sends none.
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "authorization error"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "invalid data"
	case http.StatusInternalServerError:
		return "server error"
	default:
		return "an error occurred"
	}
}

// KindOf returns the kind of err, or "" when err is not an *APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// MessageOf returns the user facing message carried by err.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
