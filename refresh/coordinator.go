package refresh

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/sessions"
)

// State of the coordinator.
type State int

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// SessionStore is the subset of sessions.Store the coordinator needs.
type SessionStore interface {
	Get() sessions.Session
	Save(sessions.Session) error
	Clear() error
}

// pending is a request waiting for the outcome of the current refresh.
type pending struct {
	done  chan struct{}
	token string
	err   error
}

// Coordinator performs at most one token exchange at a time. Every caller
// that hits a 401 while an exchange is running waits for that exchange and
// is released in arrival order once the new tokens are stored.
type Coordinator struct {
	mu        sync.Mutex
	state     State
	queue     []*pending
	refreshes int

	sessions  SessionStore
	exchanger Exchanger
	sink      notify.Sink
	logger    zerolog.Logger
}

type Option func(*Coordinator)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func NewCoordinator(store SessionStore, exchanger Exchanger, sink notify.Sink, opts ...Option) *Coordinator {
	c := &Coordinator{
		sessions:  store,
		exchanger: exchanger,
		sink:      sink,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Await returns a fresh access token. The first caller starts the exchange;
// callers arriving while it runs are queued behind it.
func (c *Coordinator) Await(ctx context.Context) (string, error) {
	p := &pending{done: make(chan struct{})}

	c.mu.Lock()
	c.queue = append(c.queue, p)
	start := c.state == Idle
	if start {
		c.state = Refreshing
		c.refreshes++
	}
	c.mu.Unlock()

	if start {
		// The exchange outlives the initiator so queued callers are never stranded.
		go c.run(context.WithoutCancel(ctx))
	}

	select {
	case <-p.done:
		return p.token, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refreshes returns the number of exchanges started.
func (c *Coordinator) Refreshes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}

// Pending returns the number of callers waiting on the current exchange.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Coordinator) run(ctx context.Context) {
	current := c.sessions.Get()
	if current.RefreshToken == "" {
		c.fail(apperrors.ErrNoRefreshToken)
		return
	}

	next, err := c.exchanger.Exchange(ctx, current.RefreshToken)
	if err != nil {
		c.fail(err)
		return
	}
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}
	if err := c.sessions.Save(next); err != nil {
		c.fail(err)
		return
	}

	c.logger.Debug().Msg("session refreshed")
	for _, p := range c.drain() {
		p.token = next.AccessToken
		close(p.done)
	}
}

// fail logs the user out and rejects every queued caller.
func (c *Coordinator) fail(cause error) {
	c.logger.Warn().Err(cause).Msg("session refresh failed")
	if err := c.sessions.Clear(); err != nil {
		c.logger.Err(err).Msg("failed to clear session")
	}
	if c.sink != nil {
		c.sink.Notify(notify.TypeError, apperrors.StatusMessage(401))
		c.sink.Redirect(notify.LoginPath)
	}

	err := fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, cause)
	for _, p := range c.drain() {
		p.err = err
		close(p.done)
	}
}

// drain empties the queue and returns to Idle.
func (c *Coordinator) drain() []*pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	queue := c.queue
	c.queue = nil
	c.state = Idle
	return queue
}
