package store

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/transport"
)

// Doer executes backend requests.
type Doer interface {
	Do(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Reporter receives failed calls.
type Reporter interface {
	Report(err error)
}

// Endpoints are the collection paths of one entity. Update and Remove address
// a single item by appending its id.
type Endpoints struct {
	List         string
	Create       string
	Update       string
	Remove       string
	UpdateMethod string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.Create == "" {
		e.Create = e.List
	}
	if e.Update == "" {
		e.Update = e.List
	}
	if e.Remove == "" {
		e.Remove = e.List
	}
	if e.UpdateMethod == "" {
		e.UpdateMethod = http.MethodPut
	}
	return e
}

type options struct {
	reporter Reporter
	logger   zerolog.Logger
}

type Option func(*options)

// ReporterOf returns the reporter set by opts, if any.
func ReporterOf(opts ...Option) Reporter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o.reporter
}

// LoggerOf returns the logger set by opts, or a no-op logger.
func LoggerOf(opts ...Option) zerolog.Logger {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o.logger
}

func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Store caches one page of a backend collection.
type Store[T any] struct {
	name      string
	doer      Doer
	endpoints Endpoints
	idOf      func(T) string
	reporter  Reporter
	logger    zerolog.Logger

	mu        sync.RWMutex
	page      Page[T]
	lastQuery Query
	inflight  int
	busyKey   string

	group singleflight.Group
}

// New creates a store. idOf returns the identity of an item, "" when unknown.
func New[T any](name string, doer Doer, endpoints Endpoints, idOf func(T) string, opts ...Option) *Store[T] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		name:      name,
		doer:      doer,
		endpoints: endpoints.withDefaults(),
		idOf:      idOf,
		reporter:  o.reporter,
		logger:    o.logger.With().Str("store", name).Logger(),
		page:      Page[T]{Items: []T{}, Size: DefaultPageSize},
		lastQuery: Query{Size: DefaultPageSize},
	}
}

// List loads a page. Identical queries in flight share one request; a
// different query while busy returns the current page and ErrBusy.
func (s *Store[T]) List(ctx context.Context, q Query) (Page[T], error) {
	q = q.normalize()
	key := q.Key()

	s.mu.Lock()
	if s.inflight > 0 && s.busyKey != key {
		current := s.page.clone()
		s.mu.Unlock()
		return current, apperrors.ErrBusy
	}
	s.inflight++
	s.busyKey = key
	s.mu.Unlock()

	// The shared fetch is detached from any one caller; each caller waits on
	// its own ctx.
	ch := s.group.DoChan(key, func() (any, error) {
		page, err := s.fetch(context.WithoutCancel(ctx), q)
		if err != nil {
			s.report(err)
			return nil, err
		}
		s.mu.Lock()
		s.page = page
		s.lastQuery = q
		s.mu.Unlock()
		return page, nil
	})

	select {
	case res := <-ch:
		s.leave()
		if res.Shared {
			s.logger.Debug().Str("query", key).Msg("joined in-flight list")
		}
		if res.Err != nil {
			return s.Snapshot(), res.Err
		}
		return res.Val.(Page[T]).clone(), nil
	case <-ctx.Done():
		// Stay busy until the fetch lands so a different query cannot race it.
		go func() {
			<-ch
			s.leave()
		}()
		return s.Snapshot(), ctx.Err()
	}
}

func (s *Store[T]) leave() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

func (s *Store[T]) fetch(ctx context.Context, q Query) (Page[T], error) {
	resp, err := s.doer.Do(ctx, transport.Request{Path: s.endpoints.List, Method: http.MethodGet, Params: q.Params()})
	if err != nil {
		return Page[T]{}, err
	}
	var page Page[T]
	if err := resp.Decode(&page); err != nil {
		return Page[T]{}, apperrors.Wrapf(apperrors.ErrInvalidResponse, "list %s", s.name)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if page.Size == 0 {
		page.Size = q.Size
	}
	return page, nil
}

// Reload lists the last successful query again.
func (s *Store[T]) Reload(ctx context.Context) (Page[T], error) {
	s.mu.RLock()
	q := s.lastQuery
	s.mu.RUnlock()
	return s.List(ctx, q)
}

// Get fetches one item without touching the cached page.
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if id == "" {
		return item, apperrors.Validation(apperrors.ErrMissingID, s.name+" id is required")
	}
	resp, err := s.doer.Do(ctx, transport.Request{Path: s.endpoints.List, Method: http.MethodGet, ResourceID: id})
	if err != nil {
		s.report(err)
		return item, err
	}
	if err := resp.Decode(&item); err != nil {
		return item, err
	}
	return item, nil
}

// Create posts payload. The created item is put at the head of the page; when
// the response carries no identity the current page is reloaded instead.
func (s *Store[T]) Create(ctx context.Context, payload any) (T, error) {
	var item T
	if payload == nil {
		return item, apperrors.Validation(apperrors.ErrMissingPayload, s.name+" payload is required")
	}
	resp, err := s.doer.Do(ctx, transport.Request{Path: s.endpoints.Create, Method: http.MethodPost, Data: payload})
	if err != nil {
		s.report(err)
		return item, err
	}
	// A body that is not an item (or is empty) is treated as missing identity.
	_ = resp.Decode(&item)

	if s.idOf(item) == "" {
		if _, err := s.Reload(ctx); err != nil && !apperrors.Is(err, apperrors.ErrBusy) {
			return item, err
		}
		return item, nil
	}
	s.Insert(item)
	return item, nil
}

// Update applies patch to the cached item, sends it and restores the item
// if the call fails.
func (s *Store[T]) Update(ctx context.Context, id string, patch Patch) (T, error) {
	var zero T
	if id == "" {
		return zero, apperrors.Validation(apperrors.ErrMissingID, s.name+" id is required")
	}
	if len(patch) == 0 {
		return zero, apperrors.Validation(apperrors.ErrMissingPayload, s.name+" patch is required")
	}

	original, found := s.Find(id)
	updated, err := applyPatch(original, patch)
	if err != nil {
		return zero, apperrors.Validation(err, "invalid patch")
	}
	if found {
		s.Replace(id, updated)
	}

	resp, err := s.doer.Do(ctx, transport.Request{
		Path:       s.endpoints.Update,
		Method:     s.endpoints.UpdateMethod,
		ResourceID: id,
		Data:       patch.Coerce(),
	})
	if err != nil {
		if found {
			s.Replace(id, original)
		}
		s.report(err)
		return zero, err
	}

	// The backend's copy wins when it sends one.
	var saved T
	if resp != nil && resp.Decode(&saved) == nil && s.idOf(saved) != "" {
		updated = saved
		if found {
			s.Replace(id, updated)
		}
	}
	return updated, nil
}

// Remove deletes the item and drops it from the page.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation(apperrors.ErrMissingID, s.name+" id is required")
	}
	if _, err := s.doer.Do(ctx, transport.Request{Path: s.endpoints.Remove, Method: http.MethodDelete, ResourceID: id}); err != nil {
		s.report(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, 0, len(s.page.Items))
	for _, item := range s.page.Items {
		if s.idOf(item) != id {
			items = append(items, item)
		}
	}
	s.page.Items = items
	s.page.TotalElements = max(0, s.page.TotalElements-1)
	return nil
}

// Insert puts item at the head of the page.
func (s *Store[T]) Insert(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Items = append([]T{item}, s.page.Items...)
	s.page.TotalElements++
}

// Modify applies fn to the cached item with the given id. It reports whether
// the item was cached.
func (s *Store[T]) Modify(id string, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.page.Items {
		if s.idOf(s.page.Items[i]) == id {
			fn(&s.page.Items[i])
			return true
		}
	}
	return false
}

// Merge overwrites the fields present in patch on the cached item with the
// given id and returns the merged item.
func (s *Store[T]) Merge(id string, patch Patch) (T, bool, error) {
	original, ok := s.Find(id)
	if !ok {
		var zero T
		return zero, false, nil
	}
	merged, err := applyPatch(original, patch)
	if err != nil {
		return original, true, err
	}
	return merged, s.Replace(id, merged), nil
}

// Find returns the cached item with the given id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.page.Items {
		if s.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the cached item with the given id. It reports whether the
// item was cached.
func (s *Store[T]) Replace(id string, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.page.Items {
		if s.idOf(s.page.Items[i]) == id {
			s.page.Items[i] = item
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the cached page.
func (s *Store[T]) Snapshot() Page[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page.clone()
}

// Busy reports whether a list call is in flight.
func (s *Store[T]) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// LastQuery returns the query of the last successful list call.
func (s *Store[T]) LastQuery() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuery
}

// Reset empties the cache.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = Page[T]{Items: []T{}, Size: DefaultPageSize}
	s.lastQuery = Query{Size: DefaultPageSize}
}

func (s *Store[T]) report(err error) {
	s.logger.Debug().Err(err).Msg("call failed")
	if s.reporter != nil {
		s.reporter.Report(err)
	}
}
