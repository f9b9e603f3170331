package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository reads per-tenant settings. It backs the tenant code
// lookups of the numbering templates and the supplier GSTIN of invoices.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.TenantModel, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, wrapError("find tenant", err)
	}
	return &model, nil
}

// FindByCode finds a tenant by its unique code, ignoring case
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*models.TenantModel, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		return nil, wrapError("find tenant", err)
	}
	return &model, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *models.TenantModel) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	tenant.Code = strings.ToUpper(strings.TrimSpace(tenant.Code))
	return wrapError("save tenant", r.db.WithContext(ctx).Save(tenant).Error)
}

// TenantCode returns the code substituted for {TENANT_CODE}
func (r *GormTenantRepository) TenantCode(ctx context.Context, tenantID uuid.UUID) (string, error) {
	tenant, err := r.FindByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return tenant.Code, nil
}

// SupplierGSTIN returns the tenant's GST registration. Unknown tenants and
// unregistered ones both yield the zero GSTIN, which bills intra-state.
func (r *GormTenantRepository) SupplierGSTIN(ctx context.Context, tenantID uuid.UUID) (valueobject.GSTIN, error) {
	tenant, err := r.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return valueobject.GSTIN{}, nil
		}
		return valueobject.GSTIN{}, err
	}
	return tenant.SupplierGSTIN(), nil
}

var (
	_ numbering.TenantDirectory = (*GormTenantRepository)(nil)
	_ billing.SupplierRegistry  = (*GormTenantRepository)(nil)
)
