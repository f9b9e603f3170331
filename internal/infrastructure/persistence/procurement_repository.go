package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartyRepository implements procurement.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds an active party with its active locations
func (r *GormPartyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Party, error) {
	var model models.PartyModel
	if err := r.db.WithContext(ctx).
		Preload("Locations").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find party", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active parties of a tenant
func (r *GormPartyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Party, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PartyModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "gstin", "contact_person")
	return findPage(query, filter, PartySortFields, "name ASC",
		func(m *models.PartyModel) procurement.Party { return *m.ToDomain() }, "Locations")
}

// Save creates or updates a party and its locations
func (r *GormPartyRepository) Save(ctx context.Context, party *procurement.Party) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Locations").Save(models.PartyModelFromDomain(party)).Error; err != nil {
		return wrapError("save party", err)
	}
	for i := range party.Locations {
		party.Locations[i].PartyID = party.ID
		if err := db.Save(models.PartyLocationModelFromDomain(party.TenantID, &party.Locations[i])).Error; err != nil {
			return wrapError("save party location", err)
		}
	}
	return nil
}

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds an active purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds the order and locks its row
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), tenantID, id)
}

func (r *GormPurchaseOrderRepository) find(db *gorm.DB, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := db.Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find purchase order", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active purchase orders of a tenant
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter procurement.PurchaseOrderFilter) ([]procurement.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "order_number", "notes")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PartyID != nil {
		query = query.Where("party_id = ?", *filter.PartyID)
	}
	return findPage(query, filter.Filter, PurchaseOrderSortFields, "order_date DESC",
		func(m *models.PurchaseOrderModel) procurement.PurchaseOrder { return *m.ToDomain() }, "Items")
}

// Save creates or updates an order. Active items missing from po.Items were
// replaced by a draft edit and are removed.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Save(models.PurchaseOrderModelFromDomain(po)).Error; err != nil {
		return wrapError("save purchase order", err)
	}

	keep := make([]uuid.UUID, len(po.Items))
	for i := range po.Items {
		keep[i] = po.Items[i].ID
	}
	if err := removeReplacedRows(db, &models.PurchaseOrderItemModel{}, "purchase_order_id", po.ID, keep); err != nil {
		return wrapError("remove purchase order items", err)
	}

	for i := range po.Items {
		po.Items[i].PurchaseOrderID = po.ID
		if err := db.Save(models.PurchaseOrderItemModelFromDomain(po.TenantID, &po.Items[i])).Error; err != nil {
			return wrapError("save purchase order item", err)
		}
	}
	return nil
}

// removeReplacedRows physically deletes active owned rows whose ids are not
// in keep. Soft deleted rows are left to the ledger.
func removeReplacedRows(db *gorm.DB, model any, foreignKey string, ownerID uuid.UUID, keep []uuid.UUID) error {
	query := db.Unscoped().Where(foreignKey+" = ? AND is_deleted = ?", ownerID, false)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}

// GormGRNRepository implements procurement.GRNRepository using GORM
type GormGRNRepository struct {
	db *gorm.DB
}

// NewGormGRNRepository creates a new GormGRNRepository
func NewGormGRNRepository(db *gorm.DB) *GormGRNRepository {
	return &GormGRNRepository{db: db}
}

// FindByID finds an active GRN
func (r *GormGRNRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.GRN, error) {
	return r.find(r.db.WithContext(ctx), tenantID, "id = ?", id)
}

// FindByIDForUpdate finds the GRN and locks its row
func (r *GormGRNRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*procurement.GRN, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), tenantID, "id = ?", id)
}

// FindByPurchaseOrder returns the order's GRN. Soft deleted GRNs count, an
// order never gets a second one.
func (r *GormGRNRepository) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*procurement.GRN, error) {
	return r.find(r.db.WithContext(ctx).Unscoped(), tenantID, "purchase_order_id = ?", purchaseOrderID)
}

func (r *GormGRNRepository) find(db *gorm.DB, tenantID uuid.UUID, cond string, arg any) (*procurement.GRN, error) {
	var model models.GRNModel
	if err := db.Where("tenant_id = ?", tenantID).Where(cond, arg).First(&model).Error; err != nil {
		return nil, wrapError("find grn", err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a GRN
func (r *GormGRNRepository) Save(ctx context.Context, grn *procurement.GRN) error {
	return wrapError("save grn", r.db.WithContext(ctx).Save(models.GRNModelFromDomain(grn)).Error)
}

var (
	_ procurement.PartyRepository         = (*GormPartyRepository)(nil)
	_ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
	_ procurement.GRNRepository           = (*GormGRNRepository)(nil)
)
