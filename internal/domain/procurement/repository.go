package procurement

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// PartyRepository persists parties with their locations. Reads use the active view.
type PartyRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Party, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Party, int64, error)
	Save(ctx context.Context, party *Party) error
}

// PurchaseOrderFilter narrows purchase order listings
type PurchaseOrderFilter struct {
	shared.Filter
	Status  PurchaseOrderStatus
	PartyID *uuid.UUID
}

// PurchaseOrderRepository persists purchase orders with their items.
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	// FindByIDForUpdate reads the persisted order and locks its row.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderFilter) ([]PurchaseOrder, int64, error)
	Save(ctx context.Context, po *PurchaseOrder) error
}

// GRNRepository persists goods received notes.
type GRNRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*GRN, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*GRN, error)
	// FindByPurchaseOrder returns the order's GRN, including a soft deleted one.
	FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*GRN, error)
	Save(ctx context.Context, grn *GRN) error
}
