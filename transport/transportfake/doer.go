package transportfake

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/transport"
)

// Handler answers one fake request.
type Handler func(req transport.Request) (*transport.Response, error)

// Doer routes requests to handlers by method and path and records them.
// Unrouted requests fail with a 404.
type Doer struct {
	mu       sync.Mutex
	routes   map[string]Handler
	requests []transport.Request
}

func New() *Doer {
	return &Doer{routes: make(map[string]Handler)}
}

// Key is the route key of a request: method, path and resource id.
func Key(method, path string) string {
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + strings.Trim(path, "/")
}

func requestKey(req transport.Request) string {
	path := strings.Trim(req.Path, "/")
	if req.ResourceID != "" {
		path += "/" + req.ResourceID
	}
	return Key(req.Method, path)
}

// On registers h for method and path.
func (d *Doer) On(method, path string, h Handler) *Doer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[Key(method, path)] = h
	return d
}

func (d *Doer) Do(_ context.Context, req transport.Request) (*transport.Response, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	h, ok := d.routes[requestKey(req)]
	d.mu.Unlock()

	if !ok {
		return nil, apperrors.FromStatus(http.StatusNotFound, "")
	}
	return h(req)
}

func (d *Doer) Requests() []transport.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]transport.Request(nil), d.requests...)
}

// Last returns the most recent request.
func (d *Doer) Last() transport.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.requests) == 0 {
		return transport.Request{}
	}
	return d.requests[len(d.requests)-1]
}

// Calls counts the requests sent to method and path.
func (d *Doer) Calls(method, path string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := Key(method, path)
	n := 0
	for _, req := range d.requests {
		if requestKey(req) == key {
			n++
		}
	}
	return n
}

// JSON answers with v encoded as JSON.
func JSON(status int, v any) Handler {
	return func(transport.Request) (*transport.Response, error) {
		body, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return &transport.Response{Status: status, Header: http.Header{"Content-Type": {"application/json"}}, Body: body}, nil
	}
}

// Binary answers with raw content and headers.
func Binary(header http.Header, body []byte) Handler {
	return func(transport.Request) (*transport.Response, error) {
		return &transport.Response{Status: http.StatusOK, Header: header, Body: body}, nil
	}
}

// Status answers with an empty body.
func Status(status int) Handler {
	return func(transport.Request) (*transport.Response, error) {
		if status >= 300 {
			return nil, apperrors.FromStatus(status, "")
		}
		return &transport.Response{Status: status, Header: http.Header{}}, nil
	}
}

// Fail answers with err.
func Fail(err error) Handler {
	return func(transport.Request) (*transport.Response, error) {
		return nil, err
	}
}
