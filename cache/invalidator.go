package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InvoicesViewPath is the listing view refreshed after every invoice write.
const InvoicesViewPath = "/dashboard/invoices"

// Invalidator tells the presentation layer that a cached view is stale.
type Invalidator interface {
	Invalidate(ctx context.Context, viewPath string) error
}

// ViewKey is the Redis key under which a rendered view is cached.
func ViewKey(viewPath string) string {
	return "view:" + viewPath
}

// RedisInvalidator drops the cached render and announces the path on a
// Pub/Sub channel so every dashboard instance can drop its own copy.
type RedisInvalidator struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisInvalidator uses client without taking ownership of it.
func NewRedisInvalidator(client *redis.Client, channel string, logger *zap.Logger) *RedisInvalidator {
	return &RedisInvalidator{
		client:  client,
		channel: channel,
		logger:  logger.Named("invalidator"),
	}
}

func (i *RedisInvalidator) Invalidate(ctx context.Context, viewPath string) error {
	pipe := i.client.TxPipeline()
	pipe.Del(ctx, ViewKey(viewPath))
	pipe.Publish(ctx, i.channel, viewPath)
	if _, err := pipe.Exec(ctx); err != nil {
		i.logger.Error("Failed to invalidate view",
			zap.String("path", viewPath),
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to invalidate %s: %w", viewPath, err)
	}

	i.logger.Debug("Invalidated view", zap.String("path", viewPath))
	return nil
}

// MemoryInvalidator records invalidations in process. It is used when Redis
// is disabled.
type MemoryInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func NewMemoryInvalidator() *MemoryInvalidator {
	return &MemoryInvalidator{}
}

func (m *MemoryInvalidator) Invalidate(_ context.Context, viewPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, viewPath)
	return nil
}

// Paths returns the invalidated paths in call order.
func (m *MemoryInvalidator) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}
