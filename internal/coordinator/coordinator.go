// Package coordinator wraps the persistent reminder store with an in-memory
// mirror that UI-layer callers read, applying deletes optimistically with
// rollback on failure.
package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vietddude/remindd/internal/core/domain"
	"github.com/vietddude/remindd/internal/store"
)

// Coordinator serializes structural mutations against the store and keeps a
// mirror of the collection snapshot. The mirror may disagree with durable
// storage only while a single optimistic delete is pending; durable storage
// itself is only ever mutated by the awaited store call.
type Coordinator struct {
	store *store.Store

	// opMu serializes structural mutations end to end: each create, update
	// or delete (including its async confirmation) completes before the next
	// one starts, preventing lost-update races on the mirror.
	opMu sync.Mutex

	// mu guards mirror reads against in-place updates.
	mu     sync.RWMutex
	mirror []domain.Reminder
}

// New creates a Coordinator with an empty mirror. Call Refresh to populate it
// from durable storage.
func New(s *store.Store) *Coordinator {
	return &Coordinator{store: s, mirror: []domain.Reminder{}}
}

// Snapshot returns a copy of the mirror.
func (c *Coordinator) Snapshot() []domain.Reminder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Reminder, len(c.mirror))
	copy(out, c.mirror)
	return out
}

func (c *Coordinator) setMirror(reminders []domain.Reminder) {
	c.mu.Lock()
	c.mirror = reminders
	c.mu.Unlock()
}

// Refresh reconciles the mirror from durable storage. Any divergence left by
// a failed or in-flight optimistic operation is resolved in favor of the
// store.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	reminders, err := c.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	c.setMirror(reminders)
	return nil
}

// Create persists the reminder first and updates the mirror from the
// confirmed result, so a failure surfaces before the mirror changes.
func (c *Coordinator) Create(ctx context.Context, r domain.Reminder) (domain.Reminder, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	created, err := c.store.Create(ctx, r)
	if err != nil {
		return domain.Reminder{}, err
	}

	c.mu.Lock()
	c.mirror = append([]domain.Reminder{created}, c.mirror...)
	c.mu.Unlock()
	return created, nil
}

// Update persists the patch first and updates the mirror from the confirmed
// result. The bool reports whether the id was found.
func (c *Coordinator) Update(ctx context.Context, id string, patch domain.ReminderPatch) (domain.Reminder, bool, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	updated, found, err := c.store.Update(ctx, id, patch)
	if err != nil || !found {
		return domain.Reminder{}, found, err
	}

	c.mu.Lock()
	for i, r := range c.mirror {
		if r.ID == id {
			c.mirror[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return updated, true, nil
}

// Delete removes the reminder from the mirror immediately and returns; the
// store delete runs asynchronously. The returned channel receives nil on
// confirmation, or the store error after the mirror has been restored to its
// exact pre-delete snapshot.
func (c *Coordinator) Delete(ctx context.Context, id string) <-chan error {
	done := make(chan error, 1)

	c.opMu.Lock()

	c.mu.Lock()
	prev := make([]domain.Reminder, len(c.mirror))
	copy(prev, c.mirror)

	next := make([]domain.Reminder, 0, len(c.mirror))
	for _, r := range c.mirror {
		if r.ID != id {
			next = append(next, r)
		}
	}
	c.mirror = next
	c.mu.Unlock()

	// opMu is held until the delete is confirmed or rolled back, so the next
	// structural mutation waits for this one.
	go func() {
		defer c.opMu.Unlock()

		if err := c.store.Delete(ctx, id); err != nil {
			slog.Warn("Optimistic delete failed, rolling back mirror",
				"reminder_id", id, "error", err)
			c.setMirror(prev)
			done <- err
			return
		}
		done <- nil
	}()

	return done
}
