package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/quizdesk/quiz-service/internal/cache"
)

func newSessionTestService(t *testing.T) *authService {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &authService{
		logger:       slog.New(slog.NewTextHandler(os.Stdout, nil)),
		cacheManager: cache.NewCacheManager(client),
	}
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	service := newSessionTestService(t)
	ctx := context.Background()

	tokenID := "session-token-1"
	if revoked, err := service.IsTokenRevoked(ctx, tokenID); err != nil || revoked {
		t.Fatalf("Fresh token should not be revoked, revoked=%v err=%v", revoked, err)
	}

	if err := service.Logout(ctx, tokenID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	revoked, err := service.IsTokenRevoked(ctx, tokenID)
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if !revoked {
		t.Error("Token should be revoked after logout")
	}

	// Other sessions stay valid
	if revoked, err := service.IsTokenRevoked(ctx, "session-token-2"); err != nil || revoked {
		t.Errorf("Unrelated token should not be revoked, revoked=%v err=%v", revoked, err)
	}
}

func TestAuthServiceLogoutExpiredTokenIsNoOp(t *testing.T) {
	service := newSessionTestService(t)
	ctx := context.Background()

	if err := service.Logout(ctx, "stale-token", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Logout of an expired token should succeed: %v", err)
	}

	// Nothing to deny, the token is already past its expiry
	if revoked, err := service.IsTokenRevoked(ctx, "stale-token"); err != nil || revoked {
		t.Errorf("Expired token needs no denylist entry, revoked=%v err=%v", revoked, err)
	}
}

func TestAuthServiceRevocationWithoutRedis(t *testing.T) {
	service := &authService{
		logger:       slog.New(slog.NewTextHandler(os.Stdout, nil)),
		cacheManager: cache.NewCacheManager(nil),
	}
	ctx := context.Background()

	// Without a denylist tokens stay valid until their natural expiry
	revoked, err := service.IsTokenRevoked(ctx, "any-token")
	if err != nil {
		t.Fatalf("IsTokenRevoked should degrade gracefully: %v", err)
	}
	if revoked {
		t.Error("Token cannot be revoked without a denylist")
	}

	if err := service.Logout(ctx, "any-token", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Logout without Redis should be a no-op, got %v", err)
	}
}
