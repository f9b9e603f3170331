package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, shared.CodeConcurrencyConflict},
		{"deadlock", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), shared.CodeConcurrencyConflict},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, shared.CodeConcurrencyConflict},
		{"unique violation", &pgconn.PgError{Code: "23505", Detail: "Key (tenant_id, order_number) already exists"}, shared.CodeAlreadyExists},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "deals_agent_id_fkey"}, shared.CodeInvalidState},
		{"translated duplicate", gorm.ErrDuplicatedKey, shared.CodeAlreadyExists},
		{"record not found", gorm.ErrRecordNotFound, shared.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *shared.DomainError
			if assert.ErrorAs(t, translateError(tt.err), &domainErr) {
				assert.Equal(t, tt.code, domainErr.Code)
			}
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, translateError(boom))
		assert.NoError(t, translateError(nil))
	})
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError("save deal", nil))

	err := wrapError("save deal", errors.New("connection reset"))
	assert.EqualError(t, err, "save deal: connection reset")

	// domain errors keep their message
	err = wrapError("find deal", gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, shared.ErrNotFound.Error(), err.Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: pgSerializationFailure}))
	assert.True(t, IsRetryable(fmt.Errorf("commit: %w", &pgconn.PgError{Code: pgDeadlockDetected})))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.False(t, IsRetryable(errors.New("connection reset")))
	assert.False(t, IsRetryable(nil))
}
