// Package store implements the persistent reminder collection: the full
// ordered snapshot serialized as JSON under a single key of a durable
// key-value backing store.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vietddude/remindd/internal/core/domain"
	"github.com/vietddude/remindd/internal/infra/storage"
	"github.com/vietddude/remindd/internal/metrics"
)

// Store is the single source of truth for the reminder collection. All
// operations serialize on an internal mutex, so each read-modify-write cycle
// is atomic with respect to the store's own access.
type Store struct {
	kv  storage.KV
	key string

	mu sync.Mutex
}

// New creates a Store persisting under the given key.
func New(kv storage.KV, key string) *Store {
	return &Store{kv: kv, key: key}
}

// ReadAll returns the current snapshot, newest-created-first. A missing key
// yields an empty snapshot. Malformed stored data is preserved under
// "<key>:corrupt" for diagnostics before being discarded; ReadAll then
// returns an empty snapshot rather than an error.
func (s *Store) ReadAll(ctx context.Context) ([]domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(ctx)
}

func (s *Store) readAll(ctx context.Context) ([]domain.Reminder, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("read", "failure").Inc()
		return nil, err
	}
	if !ok || raw == "" {
		metrics.StoreOpsTotal.WithLabelValues("read", "success").Inc()
		return []domain.Reminder{}, nil
	}

	var reminders []domain.Reminder
	if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
		slog.Warn("Malformed reminder snapshot, discarding",
			"key", s.key, "error", err)
		if cerr := s.kv.Set(ctx, s.key+":corrupt", raw); cerr != nil {
			slog.Warn("Failed to preserve corrupt snapshot", "error", cerr)
		}
		if cerr := s.kv.Set(ctx, s.key, "[]"); cerr != nil {
			slog.Warn("Failed to clear corrupt snapshot", "error", cerr)
		}
		metrics.StoreOpsTotal.WithLabelValues("read", "corrupt").Inc()
		return []domain.Reminder{}, nil
	}

	for i := range reminders {
		reminders[i] = reminders[i].Normalize()
	}
	metrics.StoreOpsTotal.WithLabelValues("read", "success").Inc()
	return reminders, nil
}

// WriteAll replaces the durable snapshot. The single KV Set keeps the
// replacement atomic from a concurrent reader's point of view.
func (s *Store) WriteAll(ctx context.Context, reminders []domain.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(ctx, reminders)
}

func (s *Store) writeAll(ctx context.Context, reminders []domain.Reminder) error {
	normalized := make([]domain.Reminder, len(reminders))
	for i, r := range reminders {
		normalized[i] = r.Normalize()
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("write", "failure").Inc()
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		metrics.StoreOpsTotal.WithLabelValues("write", "failure").Inc()
		return err
	}
	metrics.StoreOpsTotal.WithLabelValues("write", "success").Inc()
	return nil
}

// Create assigns a fresh id, prepends the reminder and persists the snapshot.
// The stored record is returned.
func (s *Store) Create(ctx context.Context, r domain.Reminder) (domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readAll(ctx)
	if err != nil {
		return domain.Reminder{}, err
	}

	r.ID = uuid.New().String()
	r = r.Normalize()

	next := append([]domain.Reminder{r}, current...)
	if err := s.writeAll(ctx, next); err != nil {
		return domain.Reminder{}, err
	}
	return r, nil
}

// Update merges the patch into the matching record and persists. The bool
// reports whether the id was found; an absent id is not an error and leaves
// the snapshot untouched.
func (s *Store) Update(ctx context.Context, id string, patch domain.ReminderPatch) (domain.Reminder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readAll(ctx)
	if err != nil {
		return domain.Reminder{}, false, err
	}

	for i, r := range current {
		if r.ID != id {
			continue
		}
		updated := patch.Apply(r)
		current[i] = updated
		if err := s.writeAll(ctx, current); err != nil {
			return domain.Reminder{}, false, err
		}
		return updated, true, nil
	}

	return domain.Reminder{}, false, nil
}

// Delete removes the matching record and persists. A no-op if the id is
// absent.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readAll(ctx)
	if err != nil {
		return err
	}

	next := make([]domain.Reminder, 0, len(current))
	found := false
	for _, r := range current {
		if r.ID == id {
			found = true
			continue
		}
		next = append(next, r)
	}
	if !found {
		return nil
	}
	return s.writeAll(ctx, next)
}
