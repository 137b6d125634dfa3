package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/downloads"
	"github.com/jrsteele09/docflow-admin/internal/config"
	"github.com/jrsteele09/docflow-admin/organizations"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/templates"
	"github.com/jrsteele09/docflow-admin/token"
	"github.com/jrsteele09/docflow-admin/token/refresh"
	refreshrepofake "github.com/jrsteele09/docflow-admin/token/refresh/repofake"
	"github.com/jrsteele09/docflow-admin/users"
)

// Config is what the mock backend reads from the environment.
type Config interface {
	config.EnvConfig
	config.MockConfig
	GetAPIVersion() string
}

// Server is an in-memory backend speaking the admin API, used for local
// development and end-to-end tests.
type Server struct {
	env    string
	prefix string
	mux    *http.ServeMux
	routes []string
	config Config
	logger zerolog.Logger

	users   users.Repo
	access  *token.Creator
	refresh *refresh.Manager
	orgs    *Collection[organizations.Organization]
	samples *Collection[templates.Template]
	docs    *Collection[contracts.Contract]
	jobs    *Collection[downloads.Job]
	files   *blobs
	grants  *grants
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRefreshRepo replaces the in-memory refresh token store.
func WithRefreshRepo(repo refresh.Repo) Option {
	return func(s *Server) {
		s.refresh = refresh.NewManager(repo, s.config.GetRefreshTokenExpiry())
	}
}

func New(cfg Config, userRepo users.Repo, opts ...Option) (*Server, error) {
	s := &Server{
		env:     cfg.GetEnv(),
		prefix:  "/" + strings.Trim(cfg.GetAPIVersion(), "/"),
		mux:     http.NewServeMux(),
		config:  cfg,
		logger:  zerolog.Nop(),
		users:   userRepo,
		access:  token.NewCreator(token.NewHMACSigner(cfg.GetJWTSecret()), cfg.GetAccessTokenExpiry()),
		refresh: refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg.GetRefreshTokenExpiry()),
		orgs:    NewCollection(organizations.Organization.Key, func(o *organizations.Organization, id string) { o.ID = store.ID(id) }),
		samples: NewCollection(templates.Template.Key, func(t *templates.Template, id string) { t.ID = store.ID(id) }),
		docs:    NewCollection(contracts.Contract.Key, func(c *contracts.Contract, id string) { c.ID = store.ID(id) }),
		jobs:    NewCollection(downloads.Job.Key, func(j *downloads.Job, id string) { j.ID = store.ID(id) }),
		files:   newBlobs(),
		grants:  newGrants(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.InitialiseSystem(); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RegisterRouteFunc registers handler for "METHOD /path" under the API version prefix.
func (s *Server) RegisterRouteFunc(method, path string, handler http.HandlerFunc) {
	pattern := method + " " + s.prefix + path
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, _ := strings.Cut(route, " ")
		s.logger.Info().Msgf("[%-19s] %s", colourMethod(method), path)
	}
}
