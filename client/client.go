package client

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/jrsteele09/docflow-admin/auth"
	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/download"
	"github.com/jrsteele09/docflow-admin/downloads"
	"github.com/jrsteele09/docflow-admin/internal/config"
	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/organizations"
	"github.com/jrsteele09/docflow-admin/permissions"
	"github.com/jrsteele09/docflow-admin/refresh"
	"github.com/jrsteele09/docflow-admin/sessions"
	"github.com/jrsteele09/docflow-admin/storage"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/templates"
	"github.com/jrsteele09/docflow-admin/transport"
	"github.com/jrsteele09/docflow-admin/users"
)

// Client is the admin dashboard's view of the backend: the session, the
// transport and one service per entity.
type Client struct {
	Storage     storage.Store
	Preferences *storage.Preferences
	Sessions    *sessions.Store
	Transport   *transport.Client
	Refresh     *refresh.Coordinator
	Reporter    *notify.Reporter
	Fs          afero.Fs
	Saver       *download.Saver

	Auth          *auth.Service
	Guard         *auth.Guard
	Users         *users.Service
	Organizations *organizations.Service
	Templates     *templates.Service
	Contracts     *contracts.Service
	Downloads     *downloads.Service
	Permissions   *permissions.Service
}

type options struct {
	httpClient *http.Client
	storage    storage.Store
	sink       notify.Sink
	fs         afero.Fs
	logger     zerolog.Logger
}

type Option func(*options)

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithStorage replaces the file backed state store.
func WithStorage(st storage.Store) Option {
	return func(o *options) {
		o.storage = st
	}
}

// WithSink sets where notifications and redirects go. Defaults to the logger.
func WithSink(sink notify.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithFs sets the filesystem used for state and downloads.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New wires the client from cfg.
func New(cfg config.Config, opts ...Option) (*Client, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.sink == nil {
		o.sink = notify.LogSink{Logger: o.logger}
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.GetTimeout()}
	}
	if o.storage == nil {
		fileStore, err := storage.OpenFileStore(o.fs, cfg.GetStateFile())
		if err != nil {
			return nil, errors.Wrap(err, "[client.New] failed to open state")
		}
		o.storage = fileStore
	}

	c := &Client{Storage: o.storage, Fs: o.fs, Saver: download.NewSaver(o.fs, cfg.GetDownloadDir())}
	c.Preferences = storage.NewPreferences(o.storage, cfg.GetDefaultLocale())
	c.Sessions = sessions.NewStore(o.storage)
	c.Transport = transport.New(cfg.GetBaseURL(), cfg.GetAPIVersion(), c.Sessions,
		transport.WithHTTPClient(o.httpClient),
		transport.WithLocale(c.Preferences, cfg.GetLocaleMap(), cfg.GetDefaultLocale()),
		transport.WithLogger(o.logger),
	)
	c.Refresh = refresh.NewCoordinator(c.Sessions, refresh.NewHTTPExchanger(c.Transport), o.sink, refresh.WithLogger(o.logger))
	c.Transport.SetRefresher(c.Refresh)
	c.Reporter = notify.NewReporter(o.sink, c.Sessions, o.logger)

	storeOpts := []store.Option{store.WithReporter(c.Reporter), store.WithLogger(o.logger)}
	c.Users = users.NewService(c.Transport, storeOpts...)
	c.Organizations = organizations.NewService(c.Transport, storeOpts...)
	c.Templates = templates.NewService(c.Transport, storeOpts...)
	c.Contracts = contracts.NewService(c.Transport, storeOpts...)
	c.Downloads = downloads.NewService(c.Transport, c.Saver, storeOpts...)
	c.Permissions = permissions.NewService(c.Transport, storeOpts...)

	c.Auth = auth.NewService(auth.Deps{
		Doer:     c.Transport,
		Sessions: c.Sessions,
		Sink:     o.sink,
		Profile:  c.Users,
	}, auth.WithLogger(o.logger))
	c.Guard = auth.NewGuard(c.Auth, c.Preferences)
	return c, nil
}
