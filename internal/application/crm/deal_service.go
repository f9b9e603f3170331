package crm

import (
	"context"
	"errors"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DealService handles deal lifecycle and commission calculation
type DealService struct {
	scope   appshared.TransactionScope
	now     func() time.Time
	metrics *telemetry.CoreMetrics
}

// NewDealService creates a new DealService
func NewDealService(scope appshared.TransactionScope) *DealService {
	return &DealService{scope: scope, now: time.Now}
}

// SetCoreMetrics sets the metrics collector
func (s *DealService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for closing dates
func (s *DealService) SetClock(now func() time.Time) {
	s.now = now
}

// Create creates a deal in the lead state
func (s *DealService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateDealRequest) (*DealResponse, error) {
	deal, err := crm.NewDeal(tenantID, req.Title, req.DealValue, req.ClientID, req.AgentID)
	if err != nil {
		return nil, err
	}
	deal.Notes = req.Notes
	deal.CreatedBy = actor.UserID

	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if err := checkReferences(ctx, repos, tenantID, req.ClientID, req.AgentID); err != nil {
			return err
		}
		return repos.Deals().Save(ctx, deal)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Deal created", zap.String("deal_id", deal.ID.String()))
	resp := ToDealResponse(deal)
	return &resp, nil
}

func checkReferences(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, clientID, agentID *uuid.UUID) error {
	if clientID != nil {
		if _, err := repos.Clients().FindByID(ctx, tenantID, *clientID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewValidationError("client_id", "client does not exist")
			}
			return err
		}
	}
	if agentID != nil {
		if _, err := repos.Agents().FindByID(ctx, tenantID, *agentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewValidationError("agent_id", "agent does not exist")
			}
			return err
		}
	}
	return nil
}

// GetByID returns an active deal
func (s *DealService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DealResponse, error) {
	deal, err := s.scope.Repositories().Deals().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDealResponse(deal)
	return &resp, nil
}

// List returns active deals
func (s *DealService) List(ctx context.Context, tenantID uuid.UUID, f DealListFilter) (*shared.Paginated[DealResponse], error) {
	filter := crm.DealFilter{
		Filter:  shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search, OrderBy: "created_at", OrderDir: "desc"},
		Status:  crm.DealStatus(f.Status),
		AgentID: f.AgentID,
	}
	deals, total, err := s.scope.Repositories().Deals().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]DealResponse, len(deals))
	for i := range deals {
		items[i] = ToDealResponse(&deals[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Update edits a deal and optionally moves its status. The persisted deal is
// re-read under a row lock so the transition is checked against stored state.
func (s *DealService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	return s.withLockedDeal(ctx, tenantID, id, "update", func(repos appshared.Repositories, deal *crm.Deal) error {
		title, value, agentID, notes := deal.Title, deal.DealValue, deal.AgentID, deal.Notes
		if req.Title != nil {
			title = *req.Title
		}
		if req.DealValue != nil {
			value = *req.DealValue
		}
		if req.AgentID != nil {
			agentID = req.AgentID
			if err := checkReferences(ctx, repos, tenantID, nil, agentID); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := deal.UpdateDetails(title, value, agentID, notes); err != nil {
			return err
		}
		if req.Status != nil {
			return s.changeStatus(ctx, repos, deal, crm.DealStatus(*req.Status))
		}
		return nil
	})
}

// ChangeStatus moves a deal along its lifecycle, calculating the agent's
// commission once when the transition matches the agent's trigger.
func (s *DealService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeDealStatusRequest) (*DealResponse, error) {
	return s.withLockedDeal(ctx, tenantID, id, "change_status", func(repos appshared.Repositories, deal *crm.Deal) error {
		return s.changeStatus(ctx, repos, deal, crm.DealStatus(req.Status))
	})
}

func (s *DealService) changeStatus(ctx context.Context, repos appshared.Repositories, deal *crm.Deal, to crm.DealStatus) error {
	var agent *crm.Agent
	if deal.AgentID != nil {
		found, err := repos.Agents().FindByID(ctx, deal.TenantID, *deal.AgentID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			logger.L(ctx).Warn("Assigned agent is deleted, no commission will be calculated",
				zap.String("deal_id", deal.ID.String()))
		case err != nil:
			return err
		default:
			agent = found
		}
	}

	from, hadCommission := deal.Status, deal.CommissionCalculated
	if err := deal.ChangeStatus(to, agent, s.now()); err != nil {
		var invalid *shared.InvalidTransitionError
		if errors.As(err, &invalid) {
			s.metrics.RecordInvalidTransition(ctx, crm.EntityDeal, string(from), string(to))
		}
		return err
	}
	if !hadCommission && deal.CommissionCalculated {
		s.metrics.RecordCommission(ctx, deal.TenantID)
		logger.L(ctx).Info("Commission calculated",
			zap.String("deal_id", deal.ID.String()),
			zap.String("amount", deal.CommissionAmount.StringFixed(2)),
		)
	}
	return nil
}

func (s *DealService) withLockedDeal(ctx context.Context, tenantID, id uuid.UUID, op string, fn func(appshared.Repositories, *crm.Deal) error) (*DealResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "deal", op, telemetry.TenantAttr(tenantID))
	defer span.End()

	var deal *crm.Deal
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		if deal, err = repos.Deals().FindByIDForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		if err := fn(repos, deal); err != nil {
			return err
		}
		return repos.Deals().Save(ctx, deal)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToDealResponse(deal)
	return &resp, nil
}

// Delete moves the deal to the recycle bin
func (s *DealService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityDeal, id, actor)
	})
	if err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityDeal.String())
	return nil
}

// HardDelete permanently removes the deal and its audit record
func (s *DealService) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().HardDelete(ctx, tenantID, audit.EntityDeal, id)
	})
	if err != nil {
		return err
	}
	s.metrics.RecordHardDelete(ctx, tenantID, audit.EntityDeal.String())
	return nil
}
