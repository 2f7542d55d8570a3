// Package control wires the agent together and manages its lifecycle.
package control

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/remindd/internal/api"
	"github.com/vietddude/remindd/internal/coordinator"
	"github.com/vietddude/remindd/internal/core/config"
	"github.com/vietddude/remindd/internal/core/domain"
	"github.com/vietddude/remindd/internal/health"
	"github.com/vietddude/remindd/internal/infra/credstore"
	redisclient "github.com/vietddude/remindd/internal/infra/redis"
	"github.com/vietddude/remindd/internal/infra/storage"
	"github.com/vietddude/remindd/internal/infra/storage/memory"
	"github.com/vietddude/remindd/internal/infra/storage/postgres"
	"github.com/vietddude/remindd/internal/revalidate"
	"github.com/vietddude/remindd/internal/store"
	"github.com/vietddude/remindd/internal/transport"
)

// ResourceReminders is the revalidation controller's name for the reminder
// collection.
const ResourceReminders = "reminders"

// Agent is the main application struct that manages the sync lifecycle.
type Agent struct {
	cfg *config.AppConfig

	executor     *transport.Executor
	apiClient    *api.Client
	store        *store.Store
	coordinator  *coordinator.Coordinator
	revalidation *revalidate.Controller
	healthServer *health.Server

	kv       storage.KV
	kvCloser io.Closer

	cancel context.CancelFunc
	doneCh chan struct{}
}

// NewAgent creates an Agent with all dependencies initialized.
func NewAgent(cfg *config.AppConfig) (*Agent, error) {
	// 1. Credential store
	var creds credstore.Store
	if cfg.Credentials.Path != "" {
		creds = credstore.NewFile(cfg.Credentials.Path)
	} else {
		creds = credstore.NewMemory()
	}

	// 2. Request executor; base URL is resolved once, here.
	baseURL := config.ResolveBaseURL(config.Environment{
		OverrideURL: cfg.API.OverrideURL,
		DevHost:     cfg.API.DevHost,
		Platform:    cfg.API.Platform,
	})
	slog.Info("Resolved API base URL", "base_url", baseURL)

	executor := transport.NewExecutor(transport.Config{
		BaseURL:    baseURL,
		HealthPath: cfg.API.HealthPath,
		Timeout:    cfg.API.Timeout,
		MaxRetries: cfg.API.MaxRetries,
		Backoff: transport.Backoff{
			Base:       cfg.API.BackoffBase,
			JitterSpan: cfg.API.BackoffJitter,
		},
	}, creds)

	// 3. Durable key-value backing store
	var kv storage.KV
	var kvCloser io.Closer
	switch cfg.Storage.Backend {
	case "redis":
		client, err := redisclient.NewClient(cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		kv = client
		kvCloser = client
		slog.Info("Using Redis storage")
	case "postgres":
		pg, err := postgres.NewStore(cfg.Storage.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		kv = pg
		kvCloser = pg
		slog.Info("Using PostgreSQL storage")
	case "memory", "":
		kv = memory.NewStore()
		slog.Info("Using Memory storage")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// 4. Collection store and mutation coordinator
	collection := store.New(kv, cfg.Storage.Key)
	coord := coordinator.New(collection)

	// 5. Revalidation controller: reminders resource fetches from the
	// backend, reconciles durable storage, then refreshes the mirror.
	apiClient := api.NewClient(executor)
	reval := revalidate.NewController(executor)
	reval.Track(ResourceReminders, cfg.Sync.TTL, func(ctx context.Context) error {
		reminders, err := apiClient.List(ctx)
		if err != nil {
			return err
		}
		if err := collection.WriteAll(ctx, reminders); err != nil {
			return err
		}
		return coord.Refresh(ctx)
	})

	// 6. Health monitoring
	monitor := health.NewMonitor()
	monitor.Register(storageCheck(kv))
	monitor.Register(backendCheck(reval))
	healthServer := health.NewServer(monitor, cfg.Server.Port)

	return &Agent{
		cfg:          cfg,
		executor:     executor,
		apiClient:    apiClient,
		store:        collection,
		coordinator:  coord,
		revalidation: reval,
		healthServer: healthServer,
		kv:           kv,
		kvCloser:     kvCloser,
		doneCh:       make(chan struct{}),
	}, nil
}

// Coordinator exposes the mutation coordinator to embedding callers.
func (a *Agent) Coordinator() *coordinator.Coordinator {
	return a.coordinator
}

// Revalidation exposes the revalidation controller to embedding callers.
func (a *Agent) Revalidation() *revalidate.Controller {
	return a.revalidation
}

// Start populates the mirror from durable storage and launches the health
// server and the refresh loop.
func (a *Agent) Start(ctx context.Context) error {
	if err := a.coordinator.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load local snapshot: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go func() {
		if err := a.healthServer.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server failed", "error", err)
		}
	}()

	go a.runRefreshLoop(runCtx)

	return nil
}

// runRefreshLoop keeps the reminders resource fresh on a fixed interval.
func (a *Agent) runRefreshLoop(ctx context.Context) {
	defer close(a.doneCh)

	ticker := time.NewTicker(a.cfg.Sync.RefreshInterval)
	defer ticker.Stop()

	// First fetch immediately rather than waiting a full interval.
	a.refreshOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.refreshOnce(ctx)
		}
	}
}

func (a *Agent) refreshOnce(ctx context.Context) {
	if err := a.revalidation.EnsureFresh(ctx, ResourceReminders); err != nil && ctx.Err() == nil {
		slog.Warn("Reminder refresh failed", "error", err)
	}
}

// Stop shuts the agent down gracefully.
func (a *Agent) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
		select {
		case <-a.doneCh:
		case <-ctx.Done():
		}
	}

	if err := a.healthServer.Stop(ctx); err != nil {
		return err
	}
	if a.kvCloser != nil {
		return a.kvCloser.Close()
	}
	return nil
}

func storageCheck(kv storage.KV) health.Check {
	return func(ctx context.Context) health.ComponentHealth {
		ch := health.ComponentHealth{Name: "storage", Status: health.StatusHealthy}
		if pinger, ok := kv.(storage.Pinger); ok {
			if err := pinger.Ping(ctx); err != nil {
				ch.Status = health.StatusCritical
				ch.Detail = err.Error()
			}
		}
		return ch
	}
}

func backendCheck(reval *revalidate.Controller) health.Check {
	return func(ctx context.Context) health.ComponentHealth {
		ch := health.ComponentHealth{Name: "backend", Status: health.StatusHealthy}
		switch reval.State(ResourceReminders) {
		case domain.FreshnessError:
			ch.Status = health.StatusCritical
			if err := reval.LastError(ResourceReminders); err != nil {
				ch.Detail = err.Error()
			}
		case domain.FreshnessStale, domain.FreshnessLoading:
			ch.Status = health.StatusDegraded
		}
		return ch
	}
}
