package asset

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AssetRepository persists assets
type AssetRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Asset, int64, error)
	Save(ctx context.Context, a *Asset) error
}

// DisposalRepository persists asset disposals
type DisposalRepository interface {
	FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) (*Disposal, error)
	Save(ctx context.Context, d *Disposal) error
}
