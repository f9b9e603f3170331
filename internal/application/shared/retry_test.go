package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestRetryOnConflict(t *testing.T) {
	t.Run("retries conflicts until success", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), 3, func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("increment: %w", domain.ErrConcurrencyConflict)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(context.Background(), 2, func() error {
			calls++
			return domain.ErrConcurrencyConflict
		})
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := RetryOnConflict(context.Background(), 5, func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := RetryOnConflict(ctx, 5, func() error {
			calls++
			return domain.ErrConcurrencyConflict
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
