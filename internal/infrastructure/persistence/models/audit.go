package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditRecordModel stores the snapshot taken when an entity was soft deleted.
// There is at most one record per entity.
type AuditRecordModel struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	EntityType audit.EntityType `gorm:"type:varchar(30);not null;uniqueIndex:idx_audit_record_entity,priority:1"`
	EntityID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_audit_record_entity,priority:2"`
	Snapshot   map[string]any   `gorm:"type:jsonb;serializer:json;not null"`
	DeletedBy  *uuid.UUID       `gorm:"type:uuid"`
	DeletedAt  time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditRecordModel) TableName() string {
	return "audit_records"
}

// ToDomain converts the persistence model to a domain AuditRecord.
func (m *AuditRecordModel) ToDomain() *audit.AuditRecord {
	return &audit.AuditRecord{
		ID:         m.ID,
		TenantID:   m.TenantID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Snapshot:   m.Snapshot,
		DeletedBy:  m.DeletedBy,
		DeletedAt:  m.DeletedAt,
	}
}
