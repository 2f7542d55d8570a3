package revalidate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vietddude/remindd/internal/core/domain"
)

type fakeProber struct {
	err   error
	calls atomic.Int32
}

func (p *fakeProber) Revalidate(ctx context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestRefetchSuccess(t *testing.T) {
	prober := &fakeProber{}
	c := NewController(prober)

	var fetched atomic.Int32
	c.Track("reminders", time.Minute, func(ctx context.Context) error {
		fetched.Add(1)
		return nil
	})

	if got := c.State("reminders"); got != domain.FreshnessLoading {
		t.Errorf("initial state = %s, want loading", got)
	}

	if err := c.Refetch(context.Background(), "reminders"); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	if got := c.State("reminders"); got != domain.FreshnessFresh {
		t.Errorf("state = %s, want fresh", got)
	}
	if prober.calls.Load() != 1 || fetched.Load() != 1 {
		t.Errorf("probe=%d fetch=%d, want 1/1", prober.calls.Load(), fetched.Load())
	}
}

func TestProbeFailureSkipsFetch(t *testing.T) {
	prober := &fakeProber{err: errors.New("unreachable")}
	c := NewController(prober)

	var fetched atomic.Int32
	c.Track("reminders", time.Minute, func(ctx context.Context) error {
		fetched.Add(1)
		return nil
	})

	err := c.Refetch(context.Background(), "reminders")
	if err == nil {
		t.Fatal("expected refetch to fail")
	}
	if fetched.Load() != 0 {
		t.Error("fetch must not run when the probe fails")
	}
	if got := c.State("reminders"); got != domain.FreshnessError {
		t.Errorf("state = %s, want error", got)
	}
	if c.LastError("reminders") == nil {
		t.Error("last error not recorded")
	}
}

func TestTTLElapseMakesStale(t *testing.T) {
	c := NewController(&fakeProber{})
	c.Track("reminders", 10*time.Millisecond, func(ctx context.Context) error { return nil })

	if err := c.Refetch(context.Background(), "reminders"); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if got := c.State("reminders"); got != domain.FreshnessStale {
		t.Errorf("state = %s, want stale after TTL", got)
	}
}

func TestInvalidateMarksStale(t *testing.T) {
	c := NewController(&fakeProber{})
	c.Track("reminders", time.Minute, func(ctx context.Context) error { return nil })

	if err := c.Refetch(context.Background(), "reminders"); err != nil {
		t.Fatalf("Refetch failed: %v", err)
	}
	c.Invalidate("reminders")

	if got := c.State("reminders"); got != domain.FreshnessStale {
		t.Errorf("state = %s, want stale", got)
	}
}

func TestConcurrentRefetchesCoalesce(t *testing.T) {
	c := NewController(&fakeProber{})

	var fetches atomic.Int32
	release := make(chan struct{})
	c.Track("reminders", time.Minute, func(ctx context.Context) error {
		fetches.Add(1)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Refetch(context.Background(), "reminders")
		}()
	}

	// Let the goroutines pile onto the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := fetches.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1 coalesced attempt", got)
	}
}

func TestEnsureFreshSkipsFreshResource(t *testing.T) {
	c := NewController(&fakeProber{})

	var fetches atomic.Int32
	c.Track("reminders", time.Minute, func(ctx context.Context) error {
		fetches.Add(1)
		return nil
	})

	ctx := context.Background()
	if err := c.EnsureFresh(ctx, "reminders"); err != nil {
		t.Fatalf("EnsureFresh failed: %v", err)
	}
	if err := c.EnsureFresh(ctx, "reminders"); err != nil {
		t.Fatalf("EnsureFresh failed: %v", err)
	}

	if got := fetches.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1 (second call sees fresh)", got)
	}
}

func TestRefetchUnknownResource(t *testing.T) {
	c := NewController(&fakeProber{})
	if err := c.Refetch(context.Background(), "ghost"); err == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestCanceledCallerDoesNotSettleState(t *testing.T) {
	c := NewController(&fakeProber{})

	started := make(chan struct{})
	release := make(chan struct{})
	c.Track("reminders", time.Minute, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Refetch(ctx, "reminders") }()

	<-started
	cancel()
	close(release)

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	// State stays loading for the next refetch to settle.
	if got := c.State("reminders"); got != domain.FreshnessLoading {
		t.Errorf("state = %s, want loading", got)
	}
}
