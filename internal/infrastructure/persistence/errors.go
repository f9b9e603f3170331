package persistence

import (
	"errors"
	"fmt"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
)

// translateError maps driver errors onto domain errors. Serialization
// failures and deadlocks become concurrency conflicts so callers can rerun
// the unit of work.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return shared.NewDomainError(shared.CodeConcurrencyConflict, pgErr.Message)
		case pgUniqueViolation:
			return shared.NewDomainError(shared.CodeAlreadyExists, pgErr.Detail)
		case pgForeignKeyViolation:
			return shared.NewDomainError(shared.CodeInvalidState, "row is still referenced: "+pgErr.ConstraintName)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeAlreadyExists, err.Error())
	}
	return err
}

// wrapError translates err and adds the failing operation
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	translated := translateError(err)
	var domainErr *shared.DomainError
	if errors.As(translated, &domainErr) {
		return translated
	}
	return fmt.Errorf("%s: %w", op, translated)
}

// IsRetryable reports driver errors the unit of work reruns on
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}
