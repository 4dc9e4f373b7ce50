// Package views signals that cached renderings of a page are stale.
package views

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/anonto42/connectly/backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Pages whose renderings depend on domain state
const (
	PageFeed          = "/"
	PageNetwork       = "/my-network"
	PageMessaging     = "/messaging"
	PageNotifications = "/notifications"
)

// StaleChannel is the pub/sub channel invalidated paths are published on.
const StaleChannel = "views:stale"

// Invalidator is told which pages became stale after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// RedisInvalidator bumps a per-path version key and publishes the path, so
// renderers can compare versions or listen for changes.
type RedisInvalidator struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisInvalidator creates a new RedisInvalidator
func NewRedisInvalidator(client *redis.Client, logger *slog.Logger) *RedisInvalidator {
	return &RedisInvalidator{client: client, logger: logger}
}

// VersionKey is the counter key for path.
func VersionKey(path string) string {
	return "views:version:" + strings.TrimSpace(path)
}

// Invalidate never fails the caller; errors are logged and counted.
func (r *RedisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range paths {
			pipe.Incr(ctx, VersionKey(p))
			pipe.Publish(ctx, StaleChannel, p)
		}
		return nil
	})
	if err != nil {
		metrics.ViewInvalidations.WithLabelValues("error").Inc()
		r.logger.WarnContext(ctx, "view invalidation failed",
			slog.Any("paths", paths),
			slog.Any("error", err),
		)
		return
	}
	metrics.ViewInvalidations.WithLabelValues("ok").Inc()
}

// Noop drops every signal. Used when Redis is not configured.
type Noop struct{}

func (Noop) Invalidate(context.Context, ...string) {}
