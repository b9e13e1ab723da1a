package cache

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/ports"
)

// InvalidatingWriter wraps a mutating call. After the call succeeds every
// configured key pattern is deleted from the cache; a failed call leaves the
// cache untouched.
type InvalidatingWriter[A, R any] struct {
	cache    ports.Cache
	patterns []string
	write    LoadFunc[A, R]
	logger   *logrus.Logger
}

// NewInvalidatingWriter wraps write with the given glob patterns.
func NewInvalidatingWriter[A, R any](cache ports.Cache, patterns []string, write LoadFunc[A, R], logger *logrus.Logger) *InvalidatingWriter[A, R] {
	return &InvalidatingWriter[A, R]{
		cache:    cache,
		patterns: append([]string(nil), patterns...),
		write:    write,
		logger:   logger,
	}
}

// Patterns returns the patterns invalidated after each successful write.
func (w *InvalidatingWriter[A, R]) Patterns() []string {
	return append([]string(nil), w.patterns...)
}

// Write runs the wrapped call and invalidates on success.
func (w *InvalidatingWriter[A, R]) Write(ctx context.Context, args A) (R, error) {
	res, err := w.write(ctx, args)
	if err != nil {
		return res, err
	}
	w.Invalidate(ctx)
	return res, nil
}

// Invalidate deletes every pattern and returns the total number of keys removed.
// It runs even if ctx was cancelled after the write committed.
func (w *InvalidatingWriter[A, R]) Invalidate(ctx context.Context) int {
	if w.cache == nil {
		return 0
	}
	ctx = context.WithoutCancel(ctx)
	total := 0
	for _, pattern := range w.patterns {
		total += w.cache.DeletePattern(ctx, pattern)
	}
	if w.logger != nil && total > 0 {
		w.logger.WithFields(logrus.Fields{"patterns": w.patterns, "deleted": total}).Debug("cache: invalidated")
	}
	return total
}
