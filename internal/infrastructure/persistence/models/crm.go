package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgentModel is the persistence model for the Agent aggregate root.
type AgentModel struct {
	TenantAggregateModel
	SoftDeleteModel
	Name              string                `gorm:"type:varchar(200);not null"`
	AgentType         crm.AgentType         `gorm:"type:varchar(20);not null"`
	EmployeeID        *uuid.UUID            `gorm:"type:uuid;index"`
	OtherAgentType    string                `gorm:"type:varchar(100)"`
	Phone             string                `gorm:"type:varchar(20)"`
	Email             string                `gorm:"type:varchar(100)"`
	CommissionType    crm.CommissionType    `gorm:"type:varchar(20);not null"`
	CommissionValue   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	CommissionTrigger crm.CommissionTrigger `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (AgentModel) TableName() string {
	return "agents"
}

// ToDomain converts the persistence model to a domain Agent entity.
func (m *AgentModel) ToDomain() *crm.Agent {
	return &crm.Agent{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Name:                m.Name,
		AgentType:           m.AgentType,
		EmployeeID:          m.EmployeeID,
		OtherAgentType:      m.OtherAgentType,
		Phone:               m.Phone,
		Email:               m.Email,
		Commission: crm.CommissionPlan{
			Type:    m.CommissionType,
			Value:   m.CommissionValue,
			Trigger: m.CommissionTrigger,
		},
	}
}

// AgentModelFromDomain creates a persistence model from a domain Agent entity.
func AgentModelFromDomain(a *crm.Agent) *AgentModel {
	m := &AgentModel{
		Name:              a.Name,
		AgentType:         a.AgentType,
		EmployeeID:        a.EmployeeID,
		OtherAgentType:    a.OtherAgentType,
		Phone:             a.Phone,
		Email:             a.Email,
		CommissionType:    a.Commission.Type,
		CommissionValue:   a.Commission.Value,
		CommissionTrigger: a.Commission.Trigger,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.FromDomainSoftDelete(a.SoftDelete)
	return m
}

// DealModel is the persistence model for the Deal aggregate root.
type DealModel struct {
	TenantAggregateModel
	SoftDeleteModel
	Title                string          `gorm:"type:varchar(200);not null"`
	ClientID             *uuid.UUID      `gorm:"type:uuid;index"`
	AgentID              *uuid.UUID      `gorm:"type:uuid;index"`
	DealValue            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status               crm.DealStatus  `gorm:"type:varchar(30);not null;default:'lead';index"`
	CommissionAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CommissionCalculated bool            `gorm:"not null;default:false"`
	ClosedAt             *time.Time
	Notes                string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the persistence model to a domain Deal entity.
func (m *DealModel) ToDomain() *crm.Deal {
	return &crm.Deal{
		TenantAggregateRoot:  m.ToDomainTenantAggregateRoot(),
		SoftDelete:           m.ToDomainSoftDelete(),
		Title:                m.Title,
		ClientID:             m.ClientID,
		AgentID:              m.AgentID,
		DealValue:            m.DealValue,
		Status:               m.Status,
		CommissionAmount:     m.CommissionAmount,
		CommissionCalculated: m.CommissionCalculated,
		ClosedAt:             m.ClosedAt,
		Notes:                m.Notes,
	}
}

// DealModelFromDomain creates a persistence model from a domain Deal entity.
func DealModelFromDomain(d *crm.Deal) *DealModel {
	m := &DealModel{
		Title:                d.Title,
		ClientID:             d.ClientID,
		AgentID:              d.AgentID,
		DealValue:            d.DealValue,
		Status:               d.Status,
		CommissionAmount:     d.CommissionAmount,
		CommissionCalculated: d.CommissionCalculated,
		ClosedAt:             d.ClosedAt,
		Notes:                d.Notes,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.FromDomainSoftDelete(d.SoftDelete)
	return m
}
