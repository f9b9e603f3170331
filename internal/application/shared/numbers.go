package shared

import (
	"context"

	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/google/uuid"
)

// NumberIssuer issues document numbers inside a caller's transaction so the
// document and its number commit or roll back together.
type NumberIssuer interface {
	IssueWithin(ctx context.Context, repos Repositories, tenantID uuid.UUID, docType numbering.DocumentType) (string, error)
}
