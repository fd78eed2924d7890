package inmemory

import (
	"context"
	"testing"
	"time"

	catalogdomain "dna-clinic-go/internal/domain/catalog"
)

func TestCatalogCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	cache := NewInMemoryCatalogCache()
	cache.now = func() time.Time { return now }

	cache.SetAll(ctx, []catalogdomain.Offering{{ID: "S001", Name: "ADN cha con"}}, time.Minute)

	got, ok := cache.GetAll(ctx)
	if !ok || len(got) != 1 || got[0].ID != "S001" {
		t.Fatalf("expected cached offering, got %v %v", got, ok)
	}

	got[0].Name = "changed"
	again, _ := cache.GetAll(ctx)
	if again[0].Name != "ADN cha con" {
		t.Fatalf("expected cache to hand out copies, got %q", again[0].Name)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.GetAll(ctx); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCatalogCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCatalogCache()
	cache.SetAll(ctx, []catalogdomain.Offering{{ID: "S001"}}, time.Hour)
	cache.Invalidate(ctx)

	if _, ok := cache.GetAll(ctx); ok {
		t.Fatalf("expected miss after invalidate")
	}

	cache.SetAll(ctx, []catalogdomain.Offering{{ID: "S001"}}, 0)
	if _, ok := cache.GetAll(ctx); ok {
		t.Fatalf("expected zero ttl to skip caching")
	}
}
