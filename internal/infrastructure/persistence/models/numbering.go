package models

import (
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DocumentSequenceModel is the persistence model for the DocumentSequence aggregate.
// One row per (tenant, document type, fiscal year).
type DocumentSequenceModel struct {
	AggregateModel
	TenantID       uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_document_sequence_key,priority:1"`
	CreatedBy      *uuid.UUID             `gorm:"type:uuid"`
	DocumentType   numbering.DocumentType `gorm:"type:varchar(30);not null;uniqueIndex:idx_document_sequence_key,priority:2"`
	FiscalYear     numbering.FiscalYear   `gorm:"type:varchar(9);not null;uniqueIndex:idx_document_sequence_key,priority:3"`
	PrefixTemplate string                 `gorm:"type:varchar(50);not null;default:''"`
	SuffixTemplate string                 `gorm:"type:varchar(50);not null;default:''"`
	Separator      string                 `gorm:"type:varchar(3);not null;default:'/'"`
	StartNumber    int64                  `gorm:"not null;default:1"`
	CurrentNumber  int64                  `gorm:"not null;default:0"`
	Padding        int                    `gorm:"column:number_padding;not null;default:4"`
	Locked         bool                   `gorm:"column:is_locked;not null;default:false"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

// ToDomain converts the persistence model to a domain DocumentSequence.
func (m *DocumentSequenceModel) ToDomain() *numbering.DocumentSequence {
	return &numbering.DocumentSequence{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: m.toDomainAggregateRoot(),
			TenantID:          m.TenantID,
			CreatedBy:         m.CreatedBy,
		},
		DocumentType:   m.DocumentType,
		FiscalYear:     m.FiscalYear,
		PrefixTemplate: m.PrefixTemplate,
		SuffixTemplate: m.SuffixTemplate,
		Separator:      m.Separator,
		StartNumber:    m.StartNumber,
		CurrentNumber:  m.CurrentNumber,
		Padding:        m.Padding,
		Locked:         m.Locked,
	}
}

// DocumentSequenceModelFromDomain creates a persistence model from a domain DocumentSequence.
func DocumentSequenceModelFromDomain(s *numbering.DocumentSequence) *DocumentSequenceModel {
	m := &DocumentSequenceModel{
		DocumentType:   s.DocumentType,
		FiscalYear:     s.FiscalYear,
		PrefixTemplate: s.PrefixTemplate,
		SuffixTemplate: s.SuffixTemplate,
		Separator:      s.Separator,
		StartNumber:    s.StartNumber,
		CurrentNumber:  s.CurrentNumber,
		Padding:        s.Padding,
		Locked:         s.Locked,
		TenantID:       s.TenantID,
		CreatedBy:      s.CreatedBy,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// TenantModel holds the per-tenant settings the core modules read: the code
// substituted into number templates and the tenant's own GST registration.
type TenantModel struct {
	BaseModel
	Code  string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name  string `gorm:"type:varchar(200);not null"`
	GSTIN string `gorm:"column:gstin;type:varchar(15)"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// SupplierGSTIN returns the tenant's registration, zero when unregistered
func (m *TenantModel) SupplierGSTIN() valueobject.GSTIN {
	return valueobject.RestoreGSTIN(m.GSTIN)
}
