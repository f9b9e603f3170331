package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAgentRepository implements crm.AgentRepository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

// FindByID finds an active agent of a tenant
func (r *GormAgentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Agent, error) {
	var model models.AgentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find agent", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active agents of a tenant
func (r *GormAgentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Agent, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AgentModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "email", "phone")
	if agentType := filter.Attr("agent_type"); agentType != "" {
		query = query.Where("agent_type = ?", agentType)
	}
	return findPage(query, filter, AgentSortFields, "created_at DESC",
		func(m *models.AgentModel) crm.Agent { return *m.ToDomain() })
}

// Save creates or updates an agent
func (r *GormAgentRepository) Save(ctx context.Context, agent *crm.Agent) error {
	return wrapError("save agent", r.db.WithContext(ctx).Save(models.AgentModelFromDomain(agent)).Error)
}

// GormDealRepository implements crm.DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds an active deal of a tenant
func (r *GormDealRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Deal, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds the deal and holds its row lock until the
// transaction ends.
func (r *GormDealRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*crm.Deal, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), tenantID, id)
}

func (r *GormDealRepository) find(db *gorm.DB, tenantID, id uuid.UUID) (*crm.Deal, error) {
	var model models.DealModel
	if err := db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		return nil, wrapError("find deal", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active deals of a tenant
func (r *GormDealRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.DealFilter) ([]crm.Deal, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DealModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "title")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	return findPage(query, filter.Filter, DealSortFields, "created_at DESC",
		func(m *models.DealModel) crm.Deal { return *m.ToDomain() })
}

// Save creates or updates a deal
func (r *GormDealRepository) Save(ctx context.Context, deal *crm.Deal) error {
	return wrapError("save deal", r.db.WithContext(ctx).Save(models.DealModelFromDomain(deal)).Error)
}

var (
	_ crm.AgentRepository = (*GormAgentRepository)(nil)
	_ crm.DealRepository  = (*GormDealRepository)(nil)
)
