package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
)

type member struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

func memberID(m member) string { return m.ID }

type fakeDoer struct {
	mu       sync.Mutex
	requests []transport.Request
	calls    int32
	handle   func(req transport.Request) (*transport.Response, error)
}

func (f *fakeDoer) Do(_ context.Context, req transport.Request) (*transport.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.handle(req)
}

func (f *fakeDoer) last() transport.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) Report(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func jsonResponse(t *testing.T, v any) *transport.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return &transport.Response{Status: http.StatusOK, Body: body}
}

func pageOf(items ...member) map[string]any {
	return map[string]any{"content": items, "page": 0, "size": 10, "totalElements": len(items), "totalPages": 1}
}

func newStore(doer *fakeDoer, reporter store.Reporter) *store.Store[member] {
	return store.New("members", doer, store.Endpoints{List: "users"}, memberID, store.WithReporter(reporter))
}

// seeded returns a store holding the given members.
func seeded(t *testing.T, reporter store.Reporter, items ...member) (*store.Store[member], *fakeDoer) {
	t.Helper()
	doer := &fakeDoer{handle: func(transport.Request) (*transport.Response, error) {
		return jsonResponse(t, pageOf(items...)), nil
	}}
	s := newStore(doer, reporter)
	_, err := s.List(context.Background(), store.Query{})
	require.NoError(t, err)
	return s, doer
}

func TestListReplacesPage(t *testing.T) {
	s, doer := seeded(t, nil, member{ID: "1", FullName: "Ann"}, member{ID: "2", FullName: "Bob"})

	page := s.Snapshot()
	require.Len(t, page.Items, 2)
	require.Equal(t, 2, page.TotalElements)
	require.Equal(t, "users", doer.last().Path)
	require.Equal(t, "0", doer.last().Params.Get("page"))
	require.Equal(t, "10", doer.last().Params.Get("size"))
	require.False(t, s.Busy())
}

func TestListFailureKeepsPageAndReports(t *testing.T) {
	reporter := &recordingReporter{}
	s, doer := seeded(t, reporter, member{ID: "1"})
	doer.handle = func(transport.Request) (*transport.Response, error) {
		return nil, apperrors.FromStatus(http.StatusForbidden, "")
	}

	_, err := s.List(context.Background(), store.Query{Page: 1})
	require.Equal(t, apperrors.KindClient, apperrors.KindOf(err))
	require.Len(t, s.Snapshot().Items, 1)
	require.Equal(t, 1, reporter.count())
	require.False(t, s.Busy())
}

func TestIdenticalListsShareOneRequest(t *testing.T) {
	release := make(chan struct{})
	doer := &fakeDoer{handle: func(transport.Request) (*transport.Response, error) {
		<-release
		return jsonResponse(t, pageOf(member{ID: "1"})), nil
	}}
	s := newStore(doer, nil)
	q := store.Query{Page: 0, Size: 10, Filters: map[string]string{"search": "ann"}}

	const callers = 3
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := s.List(context.Background(), q)
			assert.NoError(t, err)
			assert.Len(t, page.Items, 1)
		}()
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&doer.calls) == 1 }, time.Second, time.Millisecond)
	require.True(t, s.Busy())

	// Give the other callers time to join the flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&doer.calls))
	require.False(t, s.Busy())
}

func TestDifferentListWhileBusyIsNoop(t *testing.T) {
	release := make(chan struct{})
	doer := &fakeDoer{handle: func(transport.Request) (*transport.Response, error) {
		<-release
		return jsonResponse(t, pageOf(member{ID: "1"})), nil
	}}
	s := newStore(doer, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.List(context.Background(), store.Query{Page: 0})
		done <- err
	}()
	require.Eventually(t, s.Busy, time.Second, time.Millisecond)

	page, err := s.List(context.Background(), store.Query{Page: 3})
	require.ErrorIs(t, err, apperrors.ErrBusy)
	require.Empty(t, page.Items)

	close(release)
	require.NoError(t, <-done)
	require.EqualValues(t, 1, atomic.LoadInt32(&doer.calls))
}

func TestCreateInsertsAtHead(t *testing.T) {
	s, doer := seeded(t, nil, member{ID: "1"})
	doer.handle = func(req transport.Request) (*transport.Response, error) {
		require.Equal(t, http.MethodPost, req.Method)
		return jsonResponse(t, member{ID: "9", FullName: "New"}), nil
	}

	created, err := s.Create(context.Background(), map[string]string{"fullName": "New"})
	require.NoError(t, err)
	require.Equal(t, "9", created.ID)

	page := s.Snapshot()
	require.Equal(t, "9", page.Items[0].ID)
	require.Equal(t, 2, page.TotalElements)
}

func TestCreateWithoutIdentityReloads(t *testing.T) {
	s, doer := seeded(t, nil, member{ID: "1"})
	doer.handle = func(req transport.Request) (*transport.Response, error) {
		if req.Method == http.MethodPost {
			return &transport.Response{Status: http.StatusCreated}, nil
		}
		return jsonResponse(t, pageOf(member{ID: "2"}, member{ID: "1"})), nil
	}

	_, err := s.Create(context.Background(), map[string]string{"fullName": "New"})
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, doer.last().Method)
	require.Len(t, s.Snapshot().Items, 2)
}

func TestUpdateCoercesStatus(t *testing.T) {
	s, doer := seeded(t, nil, member{ID: "1", FullName: "Ann", Status: store.StatusActive})
	doer.handle = func(req transport.Request) (*transport.Response, error) {
		return &transport.Response{Status: http.StatusOK}, nil
	}

	updated, err := s.Update(context.Background(), "1", store.Patch{"status": false})
	require.NoError(t, err)
	require.Equal(t, store.StatusInactive, updated.Status)
	require.Equal(t, "Ann", updated.FullName)

	req := doer.last()
	require.Equal(t, http.MethodPut, req.Method)
	require.Equal(t, "1", req.ResourceID)
	require.Equal(t, store.Patch{"status": store.StatusInactive}, req.Data)

	cached, ok := s.Find("1")
	require.True(t, ok)
	require.Equal(t, store.StatusInactive, cached.Status)
}

func TestUpdateFailureRestoresItem(t *testing.T) {
	reporter := &recordingReporter{}
	original := member{ID: "1", FullName: "Ann", Status: store.StatusActive}
	s, doer := seeded(t, reporter, original, member{ID: "2", FullName: "Bob"})
	before := s.Snapshot()

	doer.handle = func(req transport.Request) (*transport.Response, error) {
		cached, _ := s.Find("1")
		require.Equal(t, "Anna", cached.FullName)
		return nil, apperrors.FromStatus(http.StatusUnprocessableEntity, "")
	}

	_, err := s.Update(context.Background(), "1", store.Patch{"fullName": "Anna", "status": false})
	require.Error(t, err)
	require.Equal(t, before, s.Snapshot())
	require.Equal(t, 1, reporter.count())
}

func TestRemove(t *testing.T) {
	s, doer := seeded(t, nil, member{ID: "1"}, member{ID: "2"})
	doer.handle = func(req transport.Request) (*transport.Response, error) {
		require.Equal(t, http.MethodDelete, req.Method)
		return &transport.Response{Status: http.StatusNoContent}, nil
	}

	require.NoError(t, s.Remove(context.Background(), "1"))
	page := s.Snapshot()
	require.Equal(t, []member{{ID: "2"}}, page.Items)
	require.Equal(t, 1, page.TotalElements)

	require.NoError(t, s.Remove(context.Background(), "2"))
	require.NoError(t, s.Remove(context.Background(), "3"))
	require.Zero(t, s.Snapshot().TotalElements)
}

func TestRemoveFailureKeepsItem(t *testing.T) {
	s, doer := seeded(t, &recordingReporter{}, member{ID: "1"})
	doer.handle = func(transport.Request) (*transport.Response, error) {
		return nil, apperrors.FromStatus(http.StatusInternalServerError, "")
	}

	require.Error(t, s.Remove(context.Background(), "1"))
	require.Len(t, s.Snapshot().Items, 1)
	require.Equal(t, 1, s.Snapshot().TotalElements)
}

func TestPreconditionsRejectedBeforeNetwork(t *testing.T) {
	doer := &fakeDoer{handle: func(transport.Request) (*transport.Response, error) {
		t.Fatal("unexpected call")
		return nil, nil
	}}
	s := newStore(doer, nil)

	_, err := s.Create(context.Background(), nil)
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = s.Update(context.Background(), "", store.Patch{"a": 1})
	require.ErrorIs(t, err, apperrors.ErrMissingID)
	require.ErrorIs(t, s.Remove(context.Background(), ""), apperrors.ErrMissingID)
	_, err = s.Get(context.Background(), "")
	require.ErrorIs(t, err, apperrors.ErrMissingID)
	require.Zero(t, atomic.LoadInt32(&doer.calls))
}

func TestReset(t *testing.T) {
	s, _ := seeded(t, nil, member{ID: "1"})
	s.Reset()
	require.Empty(t, s.Snapshot().Items)
	require.Zero(t, s.Snapshot().TotalElements)
}

func TestCreateThenListCountsInsertOnce(t *testing.T) {
	serverItems := []member{{ID: "1"}}
	doer := &fakeDoer{}
	doer.handle = func(req transport.Request) (*transport.Response, error) {
		if req.Method == http.MethodPost {
			created := member{ID: "2"}
			serverItems = append([]member{created}, serverItems...)
			return jsonResponse(t, created), nil
		}
		return jsonResponse(t, pageOf(serverItems...)), nil
	}
	s := newStore(doer, nil)
	_, err := s.List(context.Background(), store.Query{})
	require.NoError(t, err)

	_, err = s.Create(context.Background(), map[string]string{"fullName": "New"})
	require.NoError(t, err)
	require.Equal(t, 2, s.Snapshot().TotalElements)

	_, err = s.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, s.Snapshot().TotalElements)
	require.Len(t, s.Snapshot().Items, 2)
}

func TestUpdateUncachedReturnsSavedItem(t *testing.T) {
	doer := &fakeDoer{handle: func(req transport.Request) (*transport.Response, error) {
		return jsonResponse(t, member{ID: "7", FullName: "Gus", Status: store.StatusActive}), nil
	}}
	s := newStore(doer, nil)

	updated, err := s.Update(context.Background(), "7", store.Patch{"status": true})
	require.NoError(t, err)
	require.Equal(t, member{ID: "7", FullName: "Gus", Status: store.StatusActive}, updated)
	require.Equal(t, "7", doer.last().ResourceID)
	require.Empty(t, s.Snapshot().Items)
}

func TestUpdateUncachedWithoutBodyReturnsPatch(t *testing.T) {
	doer := &fakeDoer{handle: func(req transport.Request) (*transport.Response, error) {
		return &transport.Response{Status: http.StatusOK}, nil
	}}
	s := newStore(doer, nil)

	updated, err := s.Update(context.Background(), "7", store.Patch{"fullName": "Gus"})
	require.NoError(t, err)
	require.Equal(t, "Gus", updated.FullName)
}

func TestUpdateCachedTakesBackendCopy(t *testing.T) {
	s, doer := seeded(t, nil, member{ID: "1", FullName: "Ann", Status: store.StatusActive})
	doer.handle = func(req transport.Request) (*transport.Response, error) {
		return jsonResponse(t, member{ID: "1", FullName: "Ann Lee", Status: store.StatusInactive}), nil
	}

	updated, err := s.Update(context.Background(), "1", store.Patch{"status": false})
	require.NoError(t, err)
	require.Equal(t, "Ann Lee", updated.FullName)

	cached, ok := s.Find("1")
	require.True(t, ok)
	require.Equal(t, updated, cached)
}

type gatedDoer struct {
	release chan struct{}
	calls   int32
}

func (d *gatedDoer) Do(ctx context.Context, req transport.Request) (*transport.Response, error) {
	atomic.AddInt32(&d.calls, 1)
	select {
	case <-d.release:
	case <-ctx.Done():
		return nil, apperrors.Network(ctx.Err())
	}
	body, err := json.Marshal(pageOf(member{ID: "1"}))
	if err != nil {
		return nil, err
	}
	return &transport.Response{Status: http.StatusOK, Body: body}, nil
}

func TestCancelledListDoesNotFailJoinedCallers(t *testing.T) {
	reporter := &recordingReporter{}
	doer := &gatedDoer{release: make(chan struct{})}
	s := store.New("members", doer, store.Endpoints{List: "users"}, memberID, store.WithReporter(reporter))

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.List(ctx, store.Query{})
		first <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&doer.calls) == 1 }, time.Second, time.Millisecond)

	joined := make(chan store.Page[member], 1)
	go func() {
		page, err := s.List(context.Background(), store.Query{})
		assert.NoError(t, err)
		joined <- page
	}()

	cancel()
	require.ErrorIs(t, <-first, context.Canceled)
	require.True(t, s.Busy())
	_, err := s.List(context.Background(), store.Query{Page: 2})
	require.ErrorIs(t, err, apperrors.ErrBusy)

	// Give the second caller time to join the flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(doer.release)
	page := <-joined
	require.Len(t, page.Items, 1)
	require.EqualValues(t, 1, atomic.LoadInt32(&doer.calls))
	require.Equal(t, 0, reporter.count())
	require.Eventually(t, func() bool { return !s.Busy() }, time.Second, time.Millisecond)
}
