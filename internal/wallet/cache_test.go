package wallet

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kantor-pay/kantor_pay/internal/balance"
	"github.com/kantor-pay/kantor_pay/internal/logging"
	"github.com/kantor-pay/kantor_pay/internal/money"
)

func setupSnapshotCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSnapshotCache(client, time.Minute, logging.Discard())
	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return cache, mr, cleanup
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Balances: map[string]money.Money{"EUR": money.MustParse("100.00"), "PLN": money.Zero()},
		Values:   map[string]money.Money{"EUR": money.MustParse("450.00"), "PLN": money.Zero()},
		Total:    money.MustParse("450.00"),
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache, _, cleanup := setupSnapshotCache(t)
	defer cleanup()
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Fatal("expected cache miss on empty cache")
	}

	cache.Set(ctx, "user-1", sampleSnapshot())

	snap, ok := cache.Get(ctx, "user-1")
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if got := snap.Values["EUR"].String(); got != "450.00" {
		t.Errorf("EUR value = %s, want 450.00", got)
	}
	if got := snap.Total.String(); got != "450.00" {
		t.Errorf("total = %s, want 450.00", got)
	}
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	cache, _, cleanup := setupSnapshotCache(t)
	defer cleanup()
	ctx := context.Background()

	cache.Set(ctx, "user-1", sampleSnapshot())
	cache.Invalidate(ctx, "user-1")

	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestSnapshotCacheExpires(t *testing.T) {
	cache, mr, cleanup := setupSnapshotCache(t)
	defer cleanup()
	ctx := context.Background()

	cache.Set(ctx, "user-1", sampleSnapshot())
	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestSnapshotCacheNilReceiver(t *testing.T) {
	var cache *SnapshotCache
	ctx := context.Background()

	// All operations are no-ops without a backing client.
	cache.Set(ctx, "user-1", sampleSnapshot())
	cache.Invalidate(ctx, "user-1")
	if _, ok := cache.Get(ctx, "user-1"); ok {
		t.Fatal("nil cache must always miss")
	}
}

func TestSnapshotKeyIsStable(t *testing.T) {
	if snapshotKey("abc") != "wallet:snapshot:v1:abc" {
		t.Fatalf("unexpected key %s", snapshotKey("abc"))
	}
}

func TestServiceUsesSnapshotCacheAndInvalidatesOnMutation(t *testing.T) {
	cache, _, cleanup := setupSnapshotCache(t)
	defer cleanup()

	store := balance.NewMemoryStore()
	svc := NewService(store, testRates(), cache, nil, "PLN")
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.Deposit(ctx, userID, "EUR", money.MustParse("100.00")); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// Prime the cache, then mutate the store behind the service's back: the
	// cached snapshot keeps being served until invalidation.
	if _, err := svc.Snapshot(ctx, userID); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	balance.SeedBalance(store, userID, "EUR", money.MustParse("999.00"))

	snap, err := svc.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("cached snapshot: %v", err)
	}
	if got := snap.Balances["EUR"].String(); got != "100.00" {
		t.Fatalf("expected cached balance 100.00, got %s", got)
	}

	// A mutation invalidates the cache, so the next snapshot is fresh.
	snap, err = svc.Deposit(ctx, userID, "EUR", money.MustParse("1.00"))
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if got := snap.Balances["EUR"].String(); got != "1000.00" {
		t.Fatalf("expected fresh balance 1000.00 after invalidation, got %s", got)
	}
}
