package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetRepository implements asset.AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an active asset
func (r *GormAssetRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find asset", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active assets of a tenant
func (r *GormAssetRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]asset.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AssetModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "category")
	if category := filter.Attr("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	return findPage(query, filter, AssetSortFields, "purchase_date DESC",
		func(m *models.AssetModel) asset.Asset { return *m.ToDomain() })
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	return wrapError("save asset", r.db.WithContext(ctx).Save(models.AssetModelFromDomain(a)).Error)
}

// GormDisposalRepository implements asset.DisposalRepository using GORM
type GormDisposalRepository struct {
	db *gorm.DB
}

// NewGormDisposalRepository creates a new GormDisposalRepository
func NewGormDisposalRepository(db *gorm.DB) *GormDisposalRepository {
	return &GormDisposalRepository{db: db}
}

// FindByAsset finds the asset's active disposal
func (r *GormDisposalRepository) FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) (*asset.Disposal, error) {
	var model models.AssetDisposalModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		First(&model).Error; err != nil {
		return nil, wrapError("find asset disposal", err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a disposal
func (r *GormDisposalRepository) Save(ctx context.Context, d *asset.Disposal) error {
	return wrapError("save asset disposal", r.db.WithContext(ctx).Save(models.AssetDisposalModelFromDomain(d)).Error)
}

var (
	_ asset.AssetRepository    = (*GormAssetRepository)(nil)
	_ asset.DisposalRepository = (*GormDisposalRepository)(nil)
)
