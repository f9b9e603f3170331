package numbering

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// SequenceRepository persists document sequences.
type SequenceRepository interface {
	// IncrementAndGet resolves the sequence for key, creating it with defaults
	// when missing, and advances it while holding an exclusive lock on the row.
	// The returned sequence's CurrentNumber is the number issued to this caller.
	IncrementAndGet(ctx context.Context, key Key, defaults Settings) (*DocumentSequence, error)

	// FindByKey returns the sequence or shared.ErrNotFound
	FindByKey(ctx context.Context, key Key) (*DocumentSequence, error)

	// FindAllForTenant lists a tenant's sequences
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]DocumentSequence, int64, error)

	// Mutate locks the sequence row (creating it with defaults when missing),
	// applies fn and persists the result.
	Mutate(ctx context.Context, key Key, defaults Settings, fn func(*DocumentSequence) error) (*DocumentSequence, error)
}

// TenantDirectory resolves the short code substituted for {TENANT_CODE}.
type TenantDirectory interface {
	TenantCode(ctx context.Context, tenantID uuid.UUID) (string, error)
}
