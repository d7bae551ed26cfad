package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateUserCaches drops a user's cached summary and profile entries after
// an attempt or profile write.
func InvalidateUserCaches(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
	SafeDelete(ctx, cm.Stats, UserSummaryKey(userID))
}
