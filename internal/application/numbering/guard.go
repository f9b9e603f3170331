package numbering

import (
	"context"

	"github.com/erp/backoffice/internal/domain/numbering"
)

// SequenceGuard serializes number requests for one sequence across
// instances before they reach the row lock. The row lock stays authoritative;
// the guard only sheds contention.
type SequenceGuard interface {
	Acquire(ctx context.Context, key numbering.Key) (release func(), err error)
}

// LocalGuard is used when no distributed lock is configured.
type LocalGuard struct{}

func (LocalGuard) Acquire(context.Context, numbering.Key) (func(), error) {
	return func() {}, nil
}

// GuardKey is the lock name for a sequence: seq:{tenant}:{type}:{fy}.
func GuardKey(key numbering.Key) string {
	return "seq:" + key.TenantID.String() + ":" + key.DocumentType.String() + ":" + key.FiscalYear.String()
}
