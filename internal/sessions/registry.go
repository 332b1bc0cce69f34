// Package sessions keeps the live region sessions of the HTTP service.
package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/search"
)

var ErrNotFound = errors.New("region session not found")

const closeTimeout = 5 * time.Second

type Starter interface {
	StartFindRegions(sessionID string) *search.RegionSession
}

// entry serializes steps of one session; closed is set once its set is released.
type entry struct {
	mu     sync.Mutex
	sess   *search.RegionSession
	closed bool
}

// Registry holds at most max sessions, each dropped after ttl without a step.
// Dropped sessions release their processed set in the background.
type Registry struct {
	logger  *slog.Logger
	starter Starter
	lru     *expirable.LRU[string, *entry]
	pending sync.WaitGroup
	newID   func() string // for tests
}

func New(logger *slog.Logger, starter Starter, maxSessions int, ttl time.Duration) *Registry {
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	r := &Registry{
		logger:  logger.With("component", "sessions"),
		starter: starter,
		newID:   uuid.NewString,
	}
	// the callback runs under the cache lock, so release elsewhere
	r.lru = expirable.NewLRU[string, *entry](maxSessions, func(id string, e *entry) {
		r.pending.Add(1)
		go r.release(id, e)
	}, ttl)
	return r
}

func (r *Registry) release(id string, e *entry) {
	defer r.pending.Done()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := e.sess.Close(ctx); err != nil {
		r.logger.Warn("release session failed", "session_id", id, "err", err)
		return
	}
	r.logger.Debug("session released", "session_id", id)
}

// Create starts a session and returns its id.
func (r *Registry) Create(ctx context.Context) string {
	id := r.newID()
	r.lru.Add(id, &entry{sess: r.starter.StartFindRegions(id)})
	observability.SetActiveSessions(r.lru.Len())
	r.logger.InfoContext(ctx, "session created", "session_id", id)
	return id
}

// Step runs one region step in the session and refreshes its ttl.
func (r *Registry) Step(ctx context.Context, id string, bbox model.BBox, prefs model.RegionPreferences) ([]model.PlaceInfo, error) {
	e, ok := r.lru.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrNotFound
	}
	places := e.sess.Step(ctx, bbox, prefs)
	if r.lru.Contains(id) {
		r.lru.Add(id, e)
	}
	return places, nil
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	if !r.lru.Remove(id) {
		return ErrNotFound
	}
	observability.SetActiveSessions(r.lru.Len())
	r.logger.InfoContext(ctx, "session deleted", "session_id", id)
	return nil
}

func (r *Registry) Len() int { return r.lru.Len() }

// Close drops every session and waits for their sets to be released.
func (r *Registry) Close() {
	r.lru.Purge()
	r.pending.Wait()
	observability.SetActiveSessions(0)
}
