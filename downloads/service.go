package downloads

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/download"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
)

const (
	path       = "download-info"
	createPath = "download-info/create"
)

// NowTimeFunc is used to name downloaded files without a Content-Disposition.
var NowTimeFunc = time.Now

// ErrInProgress is returned when the same job is already being downloaded.
var ErrInProgress = errors.New("download already in progress")

type Service struct {
	jobs   *store.Store[Job]
	call   store.Caller
	saver  *download.Saver
	logger zerolog.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

func NewService(doer store.Doer, saver *download.Saver, opts ...store.Option) *Service {
	return &Service{
		jobs:   store.New("downloads", doer, store.Endpoints{List: path, Create: createPath}, Job.Key, opts...),
		call:   store.NewCaller(doer, opts...),
		saver:  saver,
		logger: store.LoggerOf(opts...).With().Str("service", "downloads").Logger(),
		active: make(map[string]struct{}),
	}
}

func (s *Service) Jobs() *store.Store[Job] {
	return s.jobs
}

// List loads a page of jobs, optionally only those in status.
func (s *Service) List(ctx context.Context, page, size int, status string) (store.Page[Job], error) {
	return s.jobs.List(ctx, store.Query{Page: page, Size: size, Filters: map[string]string{"status": status}})
}

// Create starts packaging the given contracts and reloads the page.
func (s *Service) Create(ctx context.Context, req Request) error {
	if len(req.DocumentationIDs) == 0 {
		return apperrors.Validation(apperrors.ErrMissingID, "document ids are required")
	}
	if _, err := s.call.Do(ctx, transport.Request{Path: createPath, Method: http.MethodPost, Data: req}); err != nil {
		return err
	}
	if _, err := s.jobs.Reload(ctx); err != nil && !apperrors.Is(err, apperrors.ErrBusy) {
		return err
	}
	return nil
}

// Downloading reports whether job id is being downloaded.
func (s *Service) Downloading(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[id]
	return ok
}

func (s *Service) begin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[id]; ok {
		return false
	}
	s.active[id] = struct{}{}
	return true
}

func (s *Service) end(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}

// Download fetches the archive of job id and saves it as a zip. It returns
// the path of the saved file.
func (s *Service) Download(ctx context.Context, id, format string) (string, error) {
	if id == "" || format == "" {
		return "", apperrors.Validation(apperrors.ErrMissingID, "document id and format are required")
	}
	if !s.begin(id) {
		return "", ErrInProgress
	}
	defer s.end(id)

	resp, err := s.call.Do(ctx, transport.Request{
		Path:         path + "/" + url.PathEscape(id) + "/download",
		Method:       http.MethodGet,
		ResponseType: transport.ResponseBinary,
	})
	if err != nil {
		return "", err
	}
	obj, err := download.FromResponse(resp, format, ZipMimeType, NowTimeFunc())
	if err != nil {
		return "", errors.Wrapf(err, "download %s", id)
	}
	obj.Name = download.ZipName(obj.Name)
	obj.MimeType = ZipMimeType

	saved, err := s.saver.Save(obj)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("id", id).Str("file", saved).Msg("download saved")
	return saved, nil
}

// Documents lists the contracts packaged by job id.
func (s *Service) Documents(ctx context.Context, id string) ([]Document, error) {
	if id == "" {
		return nil, apperrors.Validation(apperrors.ErrMissingID, "download id is required")
	}
	var page store.Page[Document]
	if err := s.call.Into(ctx, transport.Request{Path: path + "/" + url.PathEscape(id) + "/documents", Method: http.MethodGet}, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []Document{}, nil
	}
	return page.Items, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.jobs.Remove(ctx, id)
}

// Clear drops the cached page.
func (s *Service) Clear() {
	s.jobs.Reset()
}

// CancelAll forgets every download in flight; their results are still saved.
func (s *Service) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = make(map[string]struct{})
}
