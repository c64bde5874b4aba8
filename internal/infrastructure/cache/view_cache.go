package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tourops/backend/internal/application/reconcile"
	"github.com/tourops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const viewKey = "reconcile:view:latest"

// RedisViewMirror copies each published aggregate view into Redis so that
// sibling services (exports, notification jobs) can read the latest numbers
// without talking to this process. The in-process ViewPublisher remains the
// source of truth; a mirror write failure is logged and the next publication
// retries.
type RedisViewMirror struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisViewMirror connects to Redis and verifies the connection
func NewRedisViewMirror(cfg config.RedisConfig, logger *zap.Logger) (*RedisViewMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisViewMirror{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// NewRedisViewMirrorWithClient creates a mirror around an existing client.
// Useful for tests sharing one client across components.
func NewRedisViewMirrorWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisViewMirror {
	return &RedisViewMirror{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Mirror writes a published view to Redis. It runs on the scheduler's
// publish path, so it bounds its own wait instead of inheriting a caller
// deadline.
func (m *RedisViewMirror) Mirror(view *reconcile.AggregateView) {
	if view == nil {
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		m.logger.Error("failed to marshal view for mirror", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.client.Set(ctx, viewKey, payload, m.ttl).Err(); err != nil {
		m.logger.Warn("failed to mirror view to redis",
			zap.Time("computed_at", view.ComputedAt),
			zap.Error(err))
		return
	}

	m.logger.Debug("mirrored view to redis",
		zap.Time("computed_at", view.ComputedAt),
		zap.Int("bytes", len(payload)))
}

// Latest reads the most recently mirrored view, or nil if none is cached
func (m *RedisViewMirror) Latest(ctx context.Context) (*reconcile.AggregateView, error) {
	payload, err := m.client.Get(ctx, viewKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read mirrored view: %w", err)
	}

	var view reconcile.AggregateView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, fmt.Errorf("failed to decode mirrored view: %w", err)
	}
	return &view, nil
}

// Close closes the Redis client
func (m *RedisViewMirror) Close() error {
	return m.client.Close()
}
