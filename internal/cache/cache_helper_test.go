package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:"), mr
}

func TestCacheHelperSetAndGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "key1", payload{Name: "algebra", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "key1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "algebra" || got.Count != 3 {
		t.Errorf("Got %+v, want {algebra 3}", got)
	}
}

func TestCacheHelperGetMissing(t *testing.T) {
	helper, _ := newTestHelper(t)

	var dest string
	err := helper.Get(context.Background(), "absent", &dest)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelperStringRoundTrip(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.SetString(ctx, "token", "revoked", time.Hour); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	got, err := helper.GetString(ctx, "token")
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if got != "revoked" {
		t.Errorf("Got %q, want revoked", got)
	}

	// Entries expire with their TTL
	mr.FastForward(2 * time.Hour)
	if _, err := helper.GetString(ctx, "token"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound after expiry, got %v", err)
	}
}

func TestCacheHelperDelete(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	if err := helper.SetString(ctx, "a", "1", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := helper.SetString(ctx, "b", "2", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	if err := helper.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if exists, err := helper.Exists(ctx, "a"); err != nil || exists {
		t.Errorf("Key a should be gone, exists=%v err=%v", exists, err)
	}
}

func TestCacheHelperCacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"value": 7}, nil
	}

	var first map[string]int
	if err := helper.CacheOrExecute(ctx, "stats", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if first["value"] != 7 {
		t.Errorf("Got %v, want value 7", first)
	}
	if calls != 1 {
		t.Errorf("Expected 1 fetch call, got %d", calls)
	}

	// The write-back is asynchronous, give it a moment before the hit check
	deadline := time.Now().Add(2 * time.Second)
	for {
		if exists, _ := helper.Exists(ctx, "stats"); exists || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second map[string]int
	if err := helper.CacheOrExecute(ctx, "stats", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed on second call: %v", err)
	}
	if second["value"] != 7 {
		t.Errorf("Got %v, want value 7", second)
	}
	if calls != 1 {
		t.Errorf("Expected the second call to hit the cache, fetch ran %d times", calls)
	}
}

func TestCacheHelperNilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set on nil client should be a no-op, got %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on nil client should be a no-op, got %v", err)
	}

	var dest string
	if err := helper.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}

	// CacheOrExecute still serves from the fetch function
	calls := 0
	var got int
	err := helper.CacheOrExecute(ctx, "k", &got, time.Minute, func() (interface{}, error) {
		calls++
		return 9, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if got != 9 || calls != 1 {
		t.Errorf("Expected fetched value 9 from 1 call, got %d from %d calls", got, calls)
	}
}

func TestNewCacheManagerWithNilClient(t *testing.T) {
	cm := NewCacheManager(nil)

	if cm.Quiz == nil || cm.User == nil || cm.Stats == nil || cm.Session == nil || cm.Fast == nil {
		t.Fatal("All helpers should be constructed even without a client")
	}
	if err := cm.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestUserSummaryKey(t *testing.T) {
	if got := UserSummaryKey(12); got != "user_summary:12" {
		t.Errorf("UserSummaryKey(12) = %q", got)
	}
}
