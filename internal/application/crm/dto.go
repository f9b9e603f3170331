package crm

import (
	"time"

	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Agent DTOs ====================

// CreateAgentRequest represents a request to create an agent
type CreateAgentRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	AgentType         string          `json:"agent_type" binding:"required,oneof=employee individual freelancer other"`
	EmployeeID        *uuid.UUID      `json:"employee_id"`
	OtherAgentType    string          `json:"other_agent_type" binding:"max=100"`
	Phone             string          `json:"phone" binding:"max=20"`
	Email             string          `json:"email" binding:"omitempty,email"`
	CommissionType    string          `json:"commission_type" binding:"required,oneof=percentage flat"`
	CommissionValue   decimal.Decimal `json:"commission_value" binding:"required"`
	CommissionTrigger string          `json:"commission_trigger" binding:"required,oneof=deal_closure on_payment_received"`
}

// AgentResponse represents an agent in API responses
type AgentResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	AgentType         string          `json:"agent_type"`
	EmployeeID        *uuid.UUID      `json:"employee_id,omitempty"`
	OtherAgentType    string          `json:"other_agent_type,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Email             string          `json:"email,omitempty"`
	CommissionType    string          `json:"commission_type"`
	CommissionValue   decimal.Decimal `json:"commission_value"`
	CommissionTrigger string          `json:"commission_trigger"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAgentResponse converts a domain Agent to AgentResponse
func ToAgentResponse(a *crm.Agent) AgentResponse {
	return AgentResponse{
		ID:                a.ID,
		Name:              a.Name,
		AgentType:         string(a.AgentType),
		EmployeeID:        a.EmployeeID,
		OtherAgentType:    a.OtherAgentType,
		Phone:             a.Phone,
		Email:             a.Email,
		CommissionType:    string(a.Commission.Type),
		CommissionValue:   a.Commission.Value,
		CommissionTrigger: string(a.Commission.Trigger),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ==================== Deal DTOs ====================

// CreateDealRequest represents a request to create a deal. Deals start as leads.
type CreateDealRequest struct {
	Title     string          `json:"title" binding:"required,min=1,max=200"`
	ClientID  *uuid.UUID      `json:"client_id"`
	AgentID   *uuid.UUID      `json:"agent_id"`
	DealValue decimal.Decimal `json:"deal_value" binding:"required"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// UpdateDealRequest edits a deal. Status, when set, is validated against the
// persisted status.
type UpdateDealRequest struct {
	Title     *string          `json:"title" binding:"omitempty,min=1,max=200"`
	AgentID   *uuid.UUID       `json:"agent_id"`
	DealValue *decimal.Decimal `json:"deal_value"`
	Notes     *string          `json:"notes" binding:"omitempty,max=2000"`
	Status    *string          `json:"status"`
}

// ChangeDealStatusRequest moves a deal to another status
type ChangeDealStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DealListFilter narrows deal listings
type DealListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	AgentID  *uuid.UUID `form:"-"`
}

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Title                string          `json:"title"`
	ClientID             *uuid.UUID      `json:"client_id,omitempty"`
	AgentID              *uuid.UUID      `json:"agent_id,omitempty"`
	DealValue            decimal.Decimal `json:"deal_value"`
	Status               string          `json:"status"`
	AllowedTransitions   []string        `json:"allowed_transitions"`
	CommissionAmount     decimal.Decimal `json:"commission_amount"`
	CommissionCalculated bool            `json:"commission_calculated"`
	ClosedAt             *time.Time      `json:"closed_at,omitempty"`
	Notes                string          `json:"notes,omitempty"`
	Version              int             `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToDealResponse converts a domain Deal to DealResponse
func ToDealResponse(d *crm.Deal) DealResponse {
	allowed := crm.DealStates().AllowedFrom(d.Status)
	next := make([]string, len(allowed))
	for i, s := range allowed {
		next[i] = string(s)
	}
	return DealResponse{
		ID:                   d.ID,
		Title:                d.Title,
		ClientID:             d.ClientID,
		AgentID:              d.AgentID,
		DealValue:            d.DealValue,
		Status:               string(d.Status),
		AllowedTransitions:   next,
		CommissionAmount:     d.CommissionAmount,
		CommissionCalculated: d.CommissionCalculated,
		ClosedAt:             d.ClosedAt,
		Notes:                d.Notes,
		Version:              d.Version,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}
