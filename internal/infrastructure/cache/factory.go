package cache

import (
	"context"
	"fmt"
	"time"

	appnumbering "github.com/erp/backoffice/internal/application/numbering"
	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Coordination bundles the cross-request state the server shares between
// instances: the sequence guard and the idempotency store.
type Coordination struct {
	Guard       appnumbering.SequenceGuard
	Idempotency appshared.IdempotencyStore
	client      *redis.Client
}

// Close releases the idempotency store and the Redis client
func (c *Coordination) Close() error {
	err := c.Idempotency.Close()
	if c.client != nil {
		if cerr := c.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Distributed reports whether the guard and store are backed by Redis
func (c *Coordination) Distributed() bool {
	return c.client != nil
}

// FactoryOption configures NewCoordination
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-process coordination. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCoordination connects to Redis when it is enabled. Without Redis the
// guard is a no-op and idempotency keys live in process memory, which is
// only safe for a single instance.
func NewCoordination(ctx context.Context, cfg config.RedisConfig, guardTTL time.Duration, opts ...FactoryOption) (*Coordination, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if !cfg.Enabled {
		f.logger.Info("Redis disabled, using in-process coordination")
		return local(), nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for coordination but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-process coordination. "+
			"Idempotency keys are not shared between instances.",
			zap.Error(err),
		)
		return local(), nil
	}

	f.logger.Info("Using Redis sequence guard and idempotency store", zap.String("addr", cfg.Addr()))
	return &Coordination{
		Guard:       NewRedisSequenceGuard(client, guardTTL, f.logger),
		Idempotency: NewRedisIdempotencyStore(client, ""),
		client:      client,
	}, nil
}

func local() *Coordination {
	return &Coordination{
		Guard:       appnumbering.LocalGuard{},
		Idempotency: NewInMemoryIdempotencyStore(),
	}
}
