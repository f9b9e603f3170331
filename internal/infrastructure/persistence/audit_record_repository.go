package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRecordRepository implements audit.RecordRepository
type GormAuditRecordRepository struct {
	db *gorm.DB
}

// NewGormAuditRecordRepository creates a new GormAuditRecordRepository
func NewGormAuditRecordRepository(db *gorm.DB) *GormAuditRecordRepository {
	return &GormAuditRecordRepository{db: db}
}

// FindAllForTenant lists a tenant's audit records, optionally of one entity
// type, most recent deletion first.
func (r *GormAuditRecordRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, filter shared.Filter) ([]audit.AuditRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditRecordModel{}).Where("tenant_id = ?", tenantID)
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	return findPage(query, filter, AuditRecordSortFields, "deleted_at DESC",
		func(m *models.AuditRecordModel) audit.AuditRecord { return *m.ToDomain() })
}

// FindByEntity returns the record taken when the entity was soft deleted
func (r *GormAuditRecordRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, entityID uuid.UUID) (*audit.AuditRecord, error) {
	var model models.AuditRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND entity_type = ? AND entity_id = ?", tenantID, entityType, entityID).
		First(&model).Error; err != nil {
		return nil, wrapError("find audit record", err)
	}
	return model.ToDomain(), nil
}

// Ensure GormAuditRecordRepository implements audit.RecordRepository
var _ audit.RecordRepository = (*GormAuditRecordRepository)(nil)
