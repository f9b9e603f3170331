package crm

import (
	"fmt"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentType classifies who an agent is.
type AgentType string

const (
	AgentTypeEmployee   AgentType = "employee"
	AgentTypeIndividual AgentType = "individual"
	AgentTypeFreelancer AgentType = "freelancer"
	AgentTypeOther      AgentType = "other"
)

// IsValid checks if the agent type is known
func (t AgentType) IsValid() bool {
	switch t {
	case AgentTypeEmployee, AgentTypeIndividual, AgentTypeFreelancer, AgentTypeOther:
		return true
	}
	return false
}

// requiresEmployee reports whether the agent must be linked to an employee record
func (t AgentType) requiresEmployee() bool {
	return t == AgentTypeEmployee || t == AgentTypeIndividual || t == AgentTypeFreelancer
}

// Agent earns commission on the deals assigned to them.
type Agent struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Name           string
	AgentType      AgentType
	EmployeeID     *uuid.UUID
	OtherAgentType string
	Phone          string
	Email          string
	Commission     CommissionPlan
}

// NewAgent creates a validated agent
func NewAgent(tenantID uuid.UUID, name string, agentType AgentType, employeeID *uuid.UUID, otherAgentType string, plan CommissionPlan) (*Agent, error) {
	a := &Agent{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		AgentType:           agentType,
		EmployeeID:          employeeID,
		OtherAgentType:      strings.TrimSpace(otherAgentType),
		Commission:          plan,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the agent's invariants
func (a *Agent) Validate() error {
	if a.Name == "" {
		return shared.NewValidationError("name", "is required")
	}
	if len(a.Name) > 200 {
		return shared.NewValidationError("name", "cannot exceed 200 characters")
	}
	if !a.AgentType.IsValid() {
		return shared.NewValidationError("agent_type", fmt.Sprintf("unknown agent type %q", a.AgentType))
	}
	if a.AgentType.requiresEmployee() && (a.EmployeeID == nil || *a.EmployeeID == uuid.Nil) {
		return shared.NewValidationError("employee_id", fmt.Sprintf("is required for %s agents", a.AgentType))
	}
	if a.AgentType == AgentTypeOther && a.OtherAgentType == "" {
		return shared.NewValidationError("other_agent_type", "is required when agent type is other")
	}
	return a.Commission.Validate()
}

// SetContact updates the agent's phone and email
func (a *Agent) SetContact(phone, email string) {
	a.Phone = strings.TrimSpace(phone)
	a.Email = strings.TrimSpace(email)
	a.IncrementVersion()
}
