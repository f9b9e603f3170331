package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements billing.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds an active client with its active locations
func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Preload("Locations").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find client", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active clients of a tenant
func (r *GormClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "gstin", "email")
	return findPage(query, filter, ClientSortFields, "name ASC",
		func(m *models.ClientModel) billing.Client { return *m.ToDomain() }, "Locations")
}

// Save creates or updates a client and its locations
func (r *GormClientRepository) Save(ctx context.Context, client *billing.Client) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Locations").Save(models.ClientModelFromDomain(client)).Error; err != nil {
		return wrapError("save client", err)
	}
	for i := range client.Locations {
		client.Locations[i].ClientID = client.ID
		if err := db.Save(models.ClientLocationModelFromDomain(client.TenantID, &client.Locations[i])).Error; err != nil {
			return wrapError("save client location", err)
		}
	}
	return nil
}

// GormQuotationRepository implements billing.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds an active quotation with its items
func (r *GormQuotationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find quotation", err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a quotation and its items
func (r *GormQuotationRepository) Save(ctx context.Context, q *billing.Quotation) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Save(models.QuotationModelFromDomain(q)).Error; err != nil {
		return wrapError("save quotation", err)
	}
	keep := make([]uuid.UUID, len(q.Items))
	for i := range q.Items {
		keep[i] = q.Items[i].ID
	}
	if err := removeReplacedRows(db, &models.QuotationItemModel{}, "quotation_id", q.ID, keep); err != nil {
		return wrapError("remove quotation items", err)
	}
	for i := range q.Items {
		q.Items[i].QuotationID = q.ID
		if err := db.Save(models.QuotationItemModelFromDomain(q.TenantID, &q.Items[i])).Error; err != nil {
			return wrapError("save quotation item", err)
		}
	}
	return nil
}

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an active invoice
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.GSTInvoice, error) {
	return r.find(ctx, tenantID, "id = ?", id)
}

// FindByQuotation finds the active invoice raised from a quotation
func (r *GormInvoiceRepository) FindByQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*billing.GSTInvoice, error) {
	return r.find(ctx, tenantID, "quotation_id = ?", quotationID)
}

func (r *GormInvoiceRepository) find(ctx context.Context, tenantID uuid.UUID, cond string, arg any) (*billing.GSTInvoice, error) {
	var model models.GSTInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where(cond, arg).
		First(&model).Error; err != nil {
		return nil, wrapError("find invoice", err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.GSTInvoice) error {
	return wrapError("save invoice", r.db.WithContext(ctx).Save(models.GSTInvoiceModelFromDomain(inv)).Error)
}

// GormReceiptRepository implements billing.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds an active receipt
func (r *GormReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find receipt", err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *billing.Receipt) error {
	return wrapError("save receipt", r.db.WithContext(ctx).Save(models.ReceiptModelFromDomain(receipt)).Error)
}

var (
	_ billing.ClientRepository    = (*GormClientRepository)(nil)
	_ billing.QuotationRepository = (*GormQuotationRepository)(nil)
	_ billing.InvoiceRepository   = (*GormInvoiceRepository)(nil)
	_ billing.ReceiptRepository   = (*GormReceiptRepository)(nil)
)
