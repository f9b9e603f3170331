package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	appnumbering "github.com/erp/backoffice/internal/application/numbering"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const guardRetryInterval = 20 * time.Millisecond

// RedisSequenceGuard serializes number requests for one sequence across
// server instances with a Redis lock on seq:{tenant}:{type}:{fy}.
type RedisSequenceGuard struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisSequenceGuard creates a guard. ttl bounds how long a crashed holder
// blocks the sequence; callers wait at most ttl for the lock.
func NewRedisSequenceGuard(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisSequenceGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSequenceGuard{
		locker: redislock.New(client),
		ttl:    ttl,
		wait:   ttl,
		logger: logger,
	}
}

// Acquire blocks until the lock is held, the wait expires or ctx is done.
func (g *RedisSequenceGuard) Acquire(ctx context.Context, key numbering.Key) (func(), error) {
	name := appnumbering.GuardKey(key)

	waitCtx, cancel := context.WithTimeout(ctx, g.wait)
	defer cancel()

	lock, err := g.locker.Obtain(waitCtx, name, g.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(guardRetryInterval),
	})
	switch {
	case errors.Is(err, redislock.ErrNotObtained), errors.Is(err, context.DeadlineExceeded):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, shared.NewDomainError(shared.CodeConcurrencyConflict,
			fmt.Sprintf("sequence %s is busy, retry shortly", key))
	case err != nil:
		return nil, fmt.Errorf("obtain sequence lock: %w", err)
	}

	return func() {
		// release outlives a cancelled request context
		relCtx, relCancel := context.WithTimeout(context.Background(), pingTimeout)
		defer relCancel()
		if err := lock.Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.logger.Warn("Failed to release sequence lock", zap.String("lock", name), zap.Error(err))
		}
	}, nil
}

var _ appnumbering.SequenceGuard = (*RedisSequenceGuard)(nil)
