package cache

import (
	"context"
	"testing"
	"time"

	"github.com/smartequiz/verger"
)

func TestMemoryCacheHitMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(time.Minute))

	access := &verger.Access{
		TenantID:    "t1",
		Role:        "question_manager",
		Permissions: []string{"questions.read"},
		Source:      verger.SourceBase,
	}

	// Miss
	_, ok := c.Get(ctx, "t1", "question_manager")
	if ok {
		t.Fatal("expected cache miss")
	}

	// Set + Hit
	c.Set(ctx, "t1", "question_manager", access)
	got, ok := c.Get(ctx, "t1", "question_manager")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Role != "question_manager" {
		t.Fatalf("expected cached role, got %q", got.Role)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithTTL(1 * time.Millisecond))

	c.Set(ctx, "t1", "scorekeeper", &verger.Access{Role: "scorekeeper"})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "t1", "scorekeeper")
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestMemoryCacheInvalidateRole(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "t1", "question_manager", &verger.Access{Role: "question_manager"})
	c.Set(ctx, "t1", "scorekeeper", &verger.Access{Role: "scorekeeper"})

	c.InvalidateRole(ctx, "t1", "question_manager")

	if _, ok := c.Get(ctx, "t1", "question_manager"); ok {
		t.Fatal("question_manager should be invalidated")
	}
	if _, ok := c.Get(ctx, "t1", "scorekeeper"); !ok {
		t.Fatal("scorekeeper should still be cached")
	}
}

func TestMemoryCacheInvalidateTenant(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "t1", "question_manager", &verger.Access{})
	c.Set(ctx, "t1", "scorekeeper", &verger.Access{})
	c.Set(ctx, "t2", "question_manager", &verger.Access{})

	c.InvalidateTenant(ctx, "t1")

	if _, ok := c.Get(ctx, "t1", "question_manager"); ok {
		t.Fatal("t1 question_manager should be invalidated")
	}
	if _, ok := c.Get(ctx, "t1", "scorekeeper"); ok {
		t.Fatal("t1 scorekeeper should be invalidated")
	}
	if _, ok := c.Get(ctx, "t2", "question_manager"); !ok {
		t.Fatal("t2 question_manager should still be cached")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(WithMaxSize(2))

	for i := 0; i < 5; i++ {
		c.Set(ctx, "t1", string(rune('a'+i)), &verger.Access{})
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected max 2 entries, got %d", size)
	}
}
