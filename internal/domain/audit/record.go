// Package audit holds the snapshots taken when tracked entities are soft deleted.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EntityType tags the kind of entity an audit record was taken from.
type EntityType string

const (
	EntityParty              EntityType = "party"
	EntityPartyLocation      EntityType = "party_location"
	EntityClient             EntityType = "client"
	EntityClientLocation     EntityType = "client_location"
	EntityAgent              EntityType = "agent"
	EntityDeal               EntityType = "deal"
	EntityPurchaseOrder      EntityType = "purchase_order"
	EntityPurchaseOrderItem  EntityType = "purchase_order_item"
	EntityGRN                EntityType = "grn"
	EntityQuotation          EntityType = "quotation"
	EntityQuotationItem      EntityType = "quotation_item"
	EntityInvoice            EntityType = "gst_invoice"
	EntityReceipt            EntityType = "receipt"
	EntityEmployee           EntityType = "employee"
	EntitySalarySlip         EntityType = "salary_slip"
	EntityAdvance            EntityType = "advance_request"
	EntityAdvanceInstallment EntityType = "advance_installment"
	EntityAsset              EntityType = "asset"
	EntityAssetDisposal      EntityType = "asset_disposal"
)

// IsValid checks if the entity type is known
func (t EntityType) IsValid() bool {
	switch t {
	case EntityParty, EntityPartyLocation, EntityClient, EntityClientLocation,
		EntityAgent, EntityDeal, EntityPurchaseOrder, EntityPurchaseOrderItem,
		EntityGRN, EntityQuotation, EntityQuotationItem, EntityInvoice,
		EntityReceipt, EntityEmployee, EntitySalarySlip, EntityAdvance,
		EntityAdvanceInstallment, EntityAsset, EntityAssetDisposal:
		return true
	}
	return false
}

// String returns the string representation
func (t EntityType) String() string {
	return string(t)
}

var acronyms = map[string]string{"grn": "GRN", "gst": "GST"}

// Label is the display name, e.g. "Purchase Order Item" or "GST Invoice".
func (t EntityType) Label() string {
	caser := cases.Title(language.English)
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// AuditRecord is an immutable snapshot of an entity taken when it was soft deleted.
// Snapshot maps column names to the persisted values at deletion time.
type AuditRecord struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Snapshot   map[string]any
	DeletedBy  *uuid.UUID
	DeletedAt  time.Time
}

// Ledger performs deletions of tracked entities. Callers never remove tracked
// rows any other way.
type Ledger interface {
	// SoftDelete snapshots the entity (children first), then flags it deleted.
	// Deleting an already deleted entity is a no-op.
	SoftDelete(ctx context.Context, tenantID uuid.UUID, entityType EntityType, id uuid.UUID, actor shared.Actor) error

	// HardDelete physically removes the entity, its children and their audit records.
	HardDelete(ctx context.Context, tenantID uuid.UUID, entityType EntityType, id uuid.UUID) error
}

// RecordRepository reads audit records for the recycle bin.
type RecordRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, entityType EntityType, filter shared.Filter) ([]AuditRecord, int64, error)
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType EntityType, entityID uuid.UUID) (*AuditRecord, error)
}
