package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// trackedEntity describes how the ledger reaches one entity type's rows and
// the rows it owns.
type trackedEntity struct {
	model    func() any
	children []ownedRows
}

// ownedRows names a child entity type and its column pointing at the owner.
type ownedRows struct {
	entityType audit.EntityType
	foreignKey string
}

var trackedEntities = map[audit.EntityType]trackedEntity{
	audit.EntityParty: {
		model:    func() any { return &models.PartyModel{} },
		children: []ownedRows{{audit.EntityPartyLocation, "party_id"}},
	},
	audit.EntityPartyLocation: {model: func() any { return &models.PartyLocationModel{} }},
	audit.EntityClient: {
		model:    func() any { return &models.ClientModel{} },
		children: []ownedRows{{audit.EntityClientLocation, "client_id"}},
	},
	audit.EntityClientLocation: {model: func() any { return &models.ClientLocationModel{} }},
	audit.EntityAgent:          {model: func() any { return &models.AgentModel{} }},
	audit.EntityDeal:           {model: func() any { return &models.DealModel{} }},
	audit.EntityPurchaseOrder: {
		model:    func() any { return &models.PurchaseOrderModel{} },
		children: []ownedRows{{audit.EntityPurchaseOrderItem, "purchase_order_id"}},
	},
	audit.EntityPurchaseOrderItem: {model: func() any { return &models.PurchaseOrderItemModel{} }},
	audit.EntityGRN:               {model: func() any { return &models.GRNModel{} }},
	audit.EntityQuotation: {
		model:    func() any { return &models.QuotationModel{} },
		children: []ownedRows{{audit.EntityQuotationItem, "quotation_id"}},
	},
	audit.EntityQuotationItem: {model: func() any { return &models.QuotationItemModel{} }},
	audit.EntityInvoice:       {model: func() any { return &models.GSTInvoiceModel{} }},
	audit.EntityReceipt:       {model: func() any { return &models.ReceiptModel{} }},
	audit.EntityEmployee: {
		model: func() any { return &models.EmployeeModel{} },
		children: []ownedRows{
			{audit.EntitySalarySlip, "employee_id"},
			{audit.EntityAdvance, "employee_id"},
		},
	},
	audit.EntitySalarySlip: {model: func() any { return &models.SalarySlipModel{} }},
	audit.EntityAdvance: {
		model:    func() any { return &models.AdvanceRequestModel{} },
		children: []ownedRows{{audit.EntityAdvanceInstallment, "advance_id"}},
	},
	audit.EntityAdvanceInstallment: {model: func() any { return &models.AdvanceInstallmentModel{} }},
	audit.EntityAsset: {
		model:    func() any { return &models.AssetModel{} },
		children: []ownedRows{{audit.EntityAssetDisposal, "asset_id"}},
	},
	audit.EntityAssetDisposal: {model: func() any { return &models.AssetDisposalModel{} }},
}

type softDeletableRow interface {
	IsSoftDeleted() bool
}

// GormLedger implements audit.Ledger on the tracked tables. It must run on a
// transaction handle so the row lock, children and audit record commit together.
type GormLedger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormLedger creates a new GormLedger
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db, now: time.Now}
}

// SoftDelete locks the row, cascades to owned rows, snapshots the columns into
// an audit record and sets is_deleted/deleted_at. Already deleted rows are left
// alone.
func (l *GormLedger) SoftDelete(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, id uuid.UUID, actor shared.Actor) error {
	entry, err := lookupTracked(entityType)
	if err != nil {
		return err
	}

	db := l.db.WithContext(ctx)
	row := entry.model()
	if err := db.Unscoped().
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(row).Error; err != nil {
		return wrapError("lock "+entityType.String(), err)
	}
	if row.(softDeletableRow).IsSoftDeleted() {
		return nil
	}

	for _, child := range entry.children {
		ids, err := l.childIDs(ctx, child, id, false)
		if err != nil {
			return err
		}
		for _, childID := range ids {
			if err := l.SoftDelete(ctx, tenantID, child.entityType, childID, actor); err != nil {
				return err
			}
		}
	}

	snapshot, err := l.snapshot(ctx, row)
	if err != nil {
		return fmt.Errorf("snapshot %s %s: %w", entityType, id, err)
	}
	now := l.now().UTC()
	record := models.AuditRecordModel{
		ID:         uuid.New(),
		TenantID:   tenantID,
		EntityType: entityType,
		EntityID:   id,
		Snapshot:   snapshot,
		DeletedBy:  actor.UserID,
		DeletedAt:  now,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return wrapError("create audit record", err)
	}

	if err := db.Model(entry.model()).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"is_deleted": true, "deleted_at": now}).Error; err != nil {
		return wrapError("flag "+entityType.String()+" deleted", err)
	}
	return nil
}

// HardDelete removes owned rows first, then the entity's audit record and the
// row itself. Deleted and active rows are both removed.
func (l *GormLedger) HardDelete(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, id uuid.UUID) error {
	entry, err := lookupTracked(entityType)
	if err != nil {
		return err
	}

	db := l.db.WithContext(ctx)
	row := entry.model()
	if err := db.Unscoped().
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(row).Error; err != nil {
		return wrapError("lock "+entityType.String(), err)
	}

	for _, child := range entry.children {
		ids, err := l.childIDs(ctx, child, id, true)
		if err != nil {
			return err
		}
		for _, childID := range ids {
			if err := l.HardDelete(ctx, tenantID, child.entityType, childID); err != nil {
				return err
			}
		}
	}

	if err := db.Where("entity_type = ? AND entity_id = ?", entityType, id).
		Delete(&models.AuditRecordModel{}).Error; err != nil {
		return wrapError("delete audit record", err)
	}
	if err := db.Unscoped().Where("id = ?", id).Delete(entry.model()).Error; err != nil {
		return wrapError("delete "+entityType.String(), err)
	}
	return nil
}

// childIDs lists owned row ids; unscoped includes already deleted rows.
func (l *GormLedger) childIDs(ctx context.Context, child ownedRows, ownerID uuid.UUID, unscoped bool) ([]uuid.UUID, error) {
	entry, err := lookupTracked(child.entityType)
	if err != nil {
		return nil, err
	}
	query := l.db.WithContext(ctx).Model(entry.model())
	if unscoped {
		query = query.Unscoped()
	}
	var ids []uuid.UUID
	if err := query.Where(child.foreignKey+" = ?", ownerID).Pluck("id", &ids).Error; err != nil {
		return nil, wrapError("list "+child.entityType.String(), err)
	}
	return ids, nil
}

// snapshot reads every persisted column of row through the gorm schema and
// normalises the values through JSON so the map matches what is stored.
func (l *GormLedger) snapshot(ctx context.Context, row any) (map[string]any, error) {
	stmt := &gorm.Statement{DB: l.db}
	if err := stmt.Parse(row); err != nil {
		return nil, err
	}
	rv := reflect.Indirect(reflect.ValueOf(row))
	columns := make(map[string]any, len(stmt.Schema.DBNames))
	for _, name := range stmt.Schema.DBNames {
		field := stmt.Schema.LookUpField(name)
		if field == nil {
			continue
		}
		value, _ := field.ValueOf(ctx, rv)
		columns[name] = value
	}

	raw, err := json.Marshal(columns)
	if err != nil {
		return nil, err
	}
	var normalised map[string]any
	if err := json.Unmarshal(raw, &normalised); err != nil {
		return nil, err
	}
	return normalised, nil
}

func lookupTracked(entityType audit.EntityType) (trackedEntity, error) {
	entry, ok := trackedEntities[entityType]
	if !ok {
		return trackedEntity{}, shared.NewValidationError("entity_type", fmt.Sprintf("%q is not a tracked entity", entityType))
	}
	return entry, nil
}

// Ensure GormLedger implements audit.Ledger
var _ audit.Ledger = (*GormLedger)(nil)
