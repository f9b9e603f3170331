package crm

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentRepository persists agents. Reads use the active view.
type AgentRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Agent, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Agent, int64, error)
	Save(ctx context.Context, agent *Agent) error
}

// DealFilter narrows deal listings
type DealFilter struct {
	shared.Filter
	Status  DealStatus
	AgentID *uuid.UUID
}

// DealRepository persists deals. Reads use the active view.
type DealRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Deal, error)
	// FindByIDForUpdate reads the persisted deal and locks its row until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Deal, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter DealFilter) ([]Deal, int64, error)
	Save(ctx context.Context, deal *Deal) error
}
