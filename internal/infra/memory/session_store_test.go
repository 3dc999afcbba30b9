package memory

import (
	"context"
	"testing"
	"time"
)

func TestSessionStoreLifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	if _, ok, _ := store.Current(ctx, 1); ok {
		t.Fatalf("expected no session")
	}

	_ = store.Put(ctx, 1, "a", time.Minute)
	_ = store.Put(ctx, 1, "b", time.Minute)
	tokenID, ok, _ := store.Current(ctx, 1)
	if !ok || tokenID != "b" {
		t.Fatalf("expected latest token id, got %q ok=%v", tokenID, ok)
	}

	now = now.Add(time.Minute)
	if _, ok, _ := store.Current(ctx, 1); ok {
		t.Fatalf("expected session expired")
	}
}
