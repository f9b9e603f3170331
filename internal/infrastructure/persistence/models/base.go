package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel holds the id and timestamp columns every table has
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// AggregateModel adds the optimistic-lock version column
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

func (m *AggregateModel) toDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.ToDomain(), Version: m.Version}
}

// TenantAggregateModel is the column set of a tenant-owned aggregate. The
// tenant callback keys off the tenant_id column declared here.
type TenantAggregateModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TenantID, m.CreatedBy = t.TenantID, t.CreatedBy
}

func (m *TenantAggregateModel) ToDomainTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.toDomainAggregateRoot(),
		TenantID:          m.TenantID,
		CreatedBy:         m.CreatedBy,
	}
}

// SoftDeleteModel carries the logical deletion columns. DeletedAt is gorm's
// soft delete type, so default queries only see active rows and Unscoped
// gives the all view.
type SoftDeleteModel struct {
	IsDeleted bool           `gorm:"not null;default:false;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (m *SoftDeleteModel) ToDomainSoftDelete() shared.SoftDelete {
	sd := shared.SoftDelete{Deleted: m.IsDeleted}
	if m.DeletedAt.Valid {
		at := m.DeletedAt.Time
		sd.DeletedAt = &at
	}
	return sd
}

func (m *SoftDeleteModel) FromDomainSoftDelete(s shared.SoftDelete) {
	m.IsDeleted = s.Deleted
	m.DeletedAt = gorm.DeletedAt{}
	if s.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	}
}

// IsSoftDeleted lets the ledger skip rows that are already in the bin
func (m *SoftDeleteModel) IsSoftDeleted() bool {
	return m.IsDeleted
}

// ChildModel is the base for rows owned by an aggregate (locations, items).
// The owner's tenant is copied onto the row so the ledger can scope it.
type ChildModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	SoftDeleteModel
}
