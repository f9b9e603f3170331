package billing

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ClientRepository persists clients with their locations
type ClientRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, int64, error)
	Save(ctx context.Context, client *Client) error
}

// QuotationRepository persists quotations with their items
type QuotationRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)
	Save(ctx context.Context, q *Quotation) error
}

// InvoiceRepository persists GST invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*GSTInvoice, error)
	FindByQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*GSTInvoice, error)
	Save(ctx context.Context, inv *GSTInvoice) error
}

// ReceiptRepository persists receipts
type ReceiptRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Receipt, error)
	Save(ctx context.Context, r *Receipt) error
}

// SupplierRegistry resolves the tenant's own GST registration
type SupplierRegistry interface {
	SupplierGSTIN(ctx context.Context, tenantID uuid.UUID) (valueobject.GSTIN, error)
}
