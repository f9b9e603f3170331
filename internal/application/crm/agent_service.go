// Package crm manages sales agents and the deals they bring in.
package crm

import (
	"context"
	"errors"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AgentService handles agent operations
type AgentService struct {
	scope   appshared.TransactionScope
	metrics *telemetry.CoreMetrics
}

// NewAgentService creates a new AgentService
func NewAgentService(scope appshared.TransactionScope) *AgentService {
	return &AgentService{scope: scope}
}

// SetCoreMetrics sets the metrics collector
func (s *AgentService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// Create creates an agent. Employee-backed agents must reference an active employee.
func (s *AgentService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateAgentRequest) (*AgentResponse, error) {
	plan := crm.CommissionPlan{
		Type:    crm.CommissionType(req.CommissionType),
		Value:   req.CommissionValue,
		Trigger: crm.CommissionTrigger(req.CommissionTrigger),
	}
	agent, err := crm.NewAgent(tenantID, req.Name, crm.AgentType(req.AgentType), req.EmployeeID, req.OtherAgentType, plan)
	if err != nil {
		return nil, err
	}
	agent.SetContact(req.Phone, req.Email)
	agent.CreatedBy = actor.UserID

	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if agent.EmployeeID != nil {
			if _, err := repos.Employees().FindByID(ctx, tenantID, *agent.EmployeeID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewValidationError("employee_id", "employee does not exist")
				}
				return err
			}
		}
		return repos.Agents().Save(ctx, agent)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Agent created", zap.String("agent_id", agent.ID.String()))
	resp := ToAgentResponse(agent)
	return &resp, nil
}

// GetByID returns an active agent
func (s *AgentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AgentResponse, error) {
	agent, err := s.scope.Repositories().Agents().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAgentResponse(agent)
	return &resp, nil
}

// List returns active agents
func (s *AgentService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[AgentResponse], error) {
	agents, total, err := s.scope.Repositories().Agents().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]AgentResponse, len(agents))
	for i := range agents {
		items[i] = ToAgentResponse(&agents[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Delete moves the agent to the recycle bin. Deals keep their agent reference.
func (s *AgentService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityAgent, id, actor)
	})
	if err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityAgent.String())
	return nil
}
