package authstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dropDatabas3/dartsstats/internal/cache"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	return New(cache.NewMemory("test", 0), ttl)
}

func TestSaveTakeRoundtrip(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Save(ctx, "st1", Entry{Verifier: "v1", ReturnURL: "/management"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	e, err := s.Take(ctx, "st1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if e.Verifier != "v1" || e.ReturnURL != "/management" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestTakeIsSingleUse(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Save(ctx, "st1", Entry{Verifier: "v1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Take(ctx, "st1"); err != nil {
		t.Fatalf("first take: %v", err)
	}
	if _, err := s.Take(ctx, "st1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second take should fail with ErrNotFound, got %v", err)
	}
}

func TestTakeUnknownState(t *testing.T) {
	s := newTestStore(t, time.Minute)
	if _, err := s.Take(context.Background(), "never-saved"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEntryExpires(t *testing.T) {
	s := newTestStore(t, 10*time.Millisecond)
	ctx := context.Background()

	if err := s.Save(ctx, "st1", Entry{Verifier: "v1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := s.Take(ctx, "st1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestEmptyReturnURLDefaultsToRoot(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Save(ctx, "st1", Entry{Verifier: "v1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	e, err := s.Take(ctx, "st1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if e.ReturnURL != "/" {
		t.Fatalf("expected default return URL /, got %q", e.ReturnURL)
	}
}

func TestConcurrentTakeOnlyOneWins(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Save(ctx, "st1", Entry{Verifier: "v1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "st1"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}
