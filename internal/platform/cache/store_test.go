package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStoreExpiresEntries(t *testing.T) {
	t.Parallel()

	s := NewStore[string](time.Minute)
	current := time.Now()
	s.now = func() time.Time { return current }

	ctx := context.Background()
	s.Set(ctx, "k", "v")

	if got, ok := s.Get(ctx, "k"); !ok || got != "v" {
		t.Fatalf("expected hit, got %q ok=%v", got, ok)
	}

	current = current.Add(2 * time.Minute)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected entry to be expired")
	}
	if s.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", s.Len())
	}
}

func TestStoreGetOrLoad(t *testing.T) {
	t.Parallel()

	s := NewStore[int](time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func() (int, error) {
		loads++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatalf("GetOrLoad error: %v", err)
		}
		if got != 7 {
			t.Fatalf("unexpected value %d", got)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}

	if _, err := s.GetOrLoad(ctx, "other", func() (int, error) {
		return 0, errors.New("boom")
	}); err == nil {
		t.Fatal("expected loader error to propagate")
	}
}
