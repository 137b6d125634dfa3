package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/sessions"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
	"github.com/jrsteele09/docflow-admin/users"
)

const (
	loginPath           = "auth/login"
	loginSuccessMessage = "login successful"
)

// SessionStore holds the current token pair.
type SessionStore interface {
	Get() sessions.Session
	Save(sessions.Session) error
	Clear() error
}

// ProfileFetcher loads the signed in user.
type ProfileFetcher interface {
	Me(ctx context.Context) (users.User, error)
}

// Deps holds the collaborators of the Service
type Deps struct {
	Doer     store.Doer
	Sessions SessionStore
	Sink     notify.Sink
	Profile  ProfileFetcher
}

// Service signs users in and out and tracks who is signed in.
type Service struct {
	deps    Deps
	logger  zerolog.Logger
	nowTime func() time.Time // injectable for testing

	mu   sync.RWMutex
	user *users.User
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(deps Deps, opts ...ServiceOption) *Service {
	s := &Service{
		deps:    deps,
		logger:  zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type loginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         *users.User `json:"user"`
}

// Login exchanges credentials for a session. On success the user is sent to
// the dashboard; on failure the backend message is shown and no session is
// stored.
func (s *Service) Login(ctx context.Context, creds Credentials) (*users.User, error) {
	if err := creds.Validate(); err != nil {
		s.deps.Sink.Notify(notify.TypeError, err.Error())
		return nil, apperrors.Validation(err, err.Error())
	}

	resp, err := s.deps.Doer.Do(ctx, transport.Request{
		Path:   loginPath,
		Method: http.MethodPost,
		Params: creds.Params(),
		Open:   true,
	})
	if err != nil {
		s.deps.Sink.Notify(notify.TypeError, apperrors.MessageOf(err))
		return nil, errors.Wrap(err, "[Service.Login] login request failed")
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil || body.Token == "" {
		s.deps.Sink.Notify(notify.TypeError, apperrors.ErrInvalidResponse.Error())
		return nil, errors.Wrap(apperrors.ErrInvalidResponse, "[Service.Login] no token in response")
	}
	if body.RefreshToken == "" {
		body.RefreshToken = body.Token
	}
	if err := s.deps.Sessions.Save(sessions.Session{AccessToken: body.Token, RefreshToken: body.RefreshToken}); err != nil {
		s.deps.Sink.Notify(notify.TypeError, err.Error())
		return nil, errors.Wrap(err, "[Service.Login] failed to store session")
	}

	s.setUser(body.User)
	s.logger.Info().Str("username", creds.Username).Msg("signed in")
	s.deps.Sink.Notify(notify.TypeSuccess, loginSuccessMessage)
	s.deps.Sink.Redirect(notify.DashboardPath)
	return body.User, nil
}

// Logout destroys the session and returns to the login entry point.
func (s *Service) Logout() error {
	err := s.deps.Sessions.Clear()
	s.setUser(nil)
	s.deps.Sink.Redirect(notify.LoginPath)
	if err != nil {
		return errors.Wrap(err, "[Service.Logout] failed to clear session")
	}
	return nil
}

// CheckAuth reports whether an access token is stored.
func (s *Service) CheckAuth() bool {
	return s.deps.Sessions.Get().Authenticated()
}

// Me loads and caches the signed in user.
func (s *Service) Me(ctx context.Context) (users.User, error) {
	if !s.CheckAuth() {
		return users.User{}, NotAuthenticatedErr
	}
	u, err := s.deps.Profile.Me(ctx)
	if err != nil {
		s.setUser(nil)
		return users.User{}, errors.Wrap(err, "[Service.Me] failed to load profile")
	}
	s.setUser(&u)
	return u, nil
}

// User returns the cached user, if any.
func (s *Service) User() (users.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return users.User{}, false
	}
	return *s.user, true
}

// Role returns the cached user's role, or "" when unknown.
func (s *Service) Role() users.RoleType {
	u, _ := s.User()
	return u.Role
}

// Claims reads the claims of the current access token.
func (s *Service) Claims() (Claims, error) {
	session := s.deps.Sessions.Get()
	if !session.Authenticated() {
		return Claims{}, NotAuthenticatedErr
	}
	return ParseClaims(session.AccessToken)
}

// TokenExpired reports whether the stored access token has expired. Tokens
// that cannot be read are treated as not expired and left to the backend.
func (s *Service) TokenExpired() bool {
	c, err := s.Claims()
	if err != nil {
		return false
	}
	return c.Expired(s.nowTime())
}

func (s *Service) setUser(u *users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	copied := *u
	s.user = &copied
}
