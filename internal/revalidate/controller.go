// Package revalidate tracks per-resource freshness and re-fetches resources
// through the request executor when they go stale.
package revalidate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vietddude/remindd/internal/core/domain"
	"github.com/vietddude/remindd/internal/metrics"
)

// Prober detects backend reachability before a re-fetch. The request
// executor's Revalidate method satisfies it.
type Prober interface {
	Revalidate(ctx context.Context) error
}

// FetchFunc re-issues the underlying fetch for one resource.
type FetchFunc func(ctx context.Context) error

type resource struct {
	ttl   time.Duration
	fetch FetchFunc

	mu        sync.RWMutex
	state     domain.Freshness
	fetchedAt time.Time
	lastErr   error
}

// Controller holds the freshness state of every tracked resource. Concurrent
// refetches of the same resource coalesce onto the in-flight one.
type Controller struct {
	prober Prober

	mu        sync.RWMutex
	resources map[string]*resource

	group singleflight.Group
}

// NewController creates a Controller probing through the given Prober.
func NewController(prober Prober) *Controller {
	return &Controller{
		prober:    prober,
		resources: make(map[string]*resource),
	}
}

// Track registers a resource. It starts in the loading state; the first
// Refetch or EnsureFresh populates it.
func (c *Controller) Track(name string, ttl time.Duration, fetch FetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources[name] = &resource{
		ttl:   ttl,
		fetch: fetch,
		state: domain.FreshnessLoading,
	}
}

func (c *Controller) get(name string) (*resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resources[name]
	return r, ok
}

// State returns the resource's current freshness, accounting for TTL elapse.
func (c *Controller) State(name string) domain.Freshness {
	r, ok := c.get(name)
	if !ok {
		return domain.FreshnessError
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == domain.FreshnessFresh && time.Since(r.fetchedAt) > r.ttl {
		return domain.FreshnessStale
	}
	return r.state
}

// LastError returns the error recorded by the most recent failed refetch.
func (c *Controller) LastError(name string) error {
	r, ok := c.get(name)
	if !ok {
		return fmt.Errorf("unknown resource %q", name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Invalidate marks a fresh resource stale, e.g. on an external invalidation
// signal.
func (c *Controller) Invalidate(name string) {
	r, ok := c.get(name)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == domain.FreshnessFresh {
		r.transition(name, domain.FreshnessStale)
	}
}

// Refetch probes backend reachability, then re-issues the resource's fetch.
// Concurrent calls for the same resource coalesce onto the in-flight attempt
// and share its result. State is only mutated while the caller context is
// still live; a result arriving after cancellation is discarded.
func (c *Controller) Refetch(ctx context.Context, name string) error {
	r, ok := c.get(name)
	if !ok {
		return fmt.Errorf("unknown resource %q", name)
	}

	_, err, _ := c.group.Do(name, func() (any, error) {
		return nil, c.refetch(ctx, name, r)
	})
	return err
}

func (c *Controller) refetch(ctx context.Context, name string, r *resource) error {
	r.mu.Lock()
	if r.state == domain.FreshnessFresh {
		// An explicit refetch of a fresh resource invalidates it first.
		r.transition(name, domain.FreshnessStale)
	}
	if r.state != domain.FreshnessLoading {
		r.transition(name, domain.FreshnessLoading)
	}
	r.mu.Unlock()

	err := c.prober.Revalidate(ctx)
	if err == nil {
		err = r.fetch(ctx)
	}

	if ctx.Err() != nil {
		// The caller went away; leave state for the next refetch to settle.
		return ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.lastErr = err
		r.transition(name, domain.FreshnessError)
		metrics.RevalidationsTotal.WithLabelValues(name, "failure").Inc()
		return err
	}

	r.lastErr = nil
	r.fetchedAt = time.Now()
	r.transition(name, domain.FreshnessFresh)
	metrics.RevalidationsTotal.WithLabelValues(name, "success").Inc()
	return nil
}

// EnsureFresh refetches the resource only when it is not currently fresh.
// The agent's refresh loop calls this on every tick.
func (c *Controller) EnsureFresh(ctx context.Context, name string) error {
	switch c.State(name) {
	case domain.FreshnessFresh:
		return nil
	default:
		return c.Refetch(ctx, name)
	}
}

// transition moves the resource to a new state, logging transitions that the
// lifecycle map does not allow. Caller holds r.mu.
func (r *resource) transition(name string, to domain.Freshness) {
	if !domain.CanTransition(r.state, to) {
		slog.Debug("Unexpected freshness transition",
			"resource", name, "from", string(r.state), "to", string(to))
	}
	r.state = to
}
