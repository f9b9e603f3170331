package shared

import (
	"context"
	"errors"

	domain "github.com/erp/backoffice/internal/domain/shared"
)

// RetryOnConflict runs fn and reruns it while it fails with a concurrency
// conflict (serialization failure or deadlock), at most retries extra times.
// Each attempt must be a complete unit of work.
func RetryOnConflict(ctx context.Context, retries int, fn func() error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = fn(); err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
