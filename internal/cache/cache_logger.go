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

// InvalidateSnackCache invalidates all snack-related caches after an
// inventory mutation (listings, the snack record, and shop stats)
func InvalidateSnackCache(ctx context.Context, cm *CacheManager, snackID uint) {
	SafeDelete(ctx, cm.Snack, fmt.Sprintf("id:%d", snackID))
	SafeInvalidatePattern(ctx, cm.Snack, "list:*")
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("snack:%d*", snackID))
	SafeInvalidatePattern(ctx, cm.Stats, "shop:*")
}

// InvalidateOrderCache invalidates order caches after placement or completion
func InvalidateOrderCache(ctx context.Context, cm *CacheManager, orderID, userID uint) {
	SafeDelete(ctx, cm.Order, fmt.Sprintf("id:%d", orderID))
	SafeInvalidatePattern(ctx, cm.Order, fmt.Sprintf("user:%d:*", userID))
	SafeInvalidatePattern(ctx, cm.Order, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "shop:*")
}
