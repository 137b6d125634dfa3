package notify

import (
	"context"

	"github.com/rs/zerolog"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
)

// Type of a user notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// Navigation targets used by the client.
const (
	LoginPath       = "/auth/login"
	DashboardPath   = "/dashboard"
	ServerErrorPath = "/500"
	NotFoundPath    = "/404"
)

// Sink receives user facing notifications and navigation requests.
type Sink interface {
	Notify(t Type, message string)
	Redirect(path string)
}

// SessionClearer destroys the current session.
type SessionClearer interface {
	Clear() error
}

// Reporter turns failed calls into notifications and redirects.
type Reporter struct {
	sink     Sink
	sessions SessionClearer
	logger   zerolog.Logger
}

func NewReporter(sink Sink, sessions SessionClearer, logger zerolog.Logger) *Reporter {
	return &Reporter{sink: sink, sessions: sessions, logger: logger}
}

// Report maps err to the sink: server errors go to the error page, auth
// errors force a logout and everything else is shown as an error message.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	// The refresh coordinator has already logged the user out.
	if apperrors.Is(err, apperrors.ErrRefreshFailed) {
		return
	}
	// Cancelled by the caller, nothing to tell the user.
	if apperrors.Is(err, context.Canceled) {
		r.logger.Debug().Err(err).Msg("request cancelled")
		return
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindServer:
		r.logger.Err(err).Msg("server error")
		r.sink.Redirect(ServerErrorPath)
	case apperrors.KindAuth:
		r.Logout()
	default:
		r.logger.Debug().Err(err).Msg("request failed")
		r.sink.Notify(TypeError, apperrors.MessageOf(err))
	}
}

// Success shows a success message.
func (r *Reporter) Success(message string) {
	r.sink.Notify(TypeSuccess, message)
}

// Logout clears the session and sends the user to the login entry point.
func (r *Reporter) Logout() {
	if r.sessions != nil {
		if err := r.sessions.Clear(); err != nil {
			r.logger.Err(err).Msg("failed to clear session")
		}
	}
	r.sink.Redirect(LoginPath)
}

// Sink returns the sink the reporter writes to.
func (r *Reporter) Sink() Sink {
	return r.sink
}
