package hr

import (
	"context"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAdvance lends money to an active employee
func (s *EmployeeService) CreateAdvance(ctx context.Context, tenantID, employeeID uuid.UUID, actor shared.Actor, req CreateAdvanceRequest) (*AdvanceResponse, error) {
	var adv *hr.AdvanceRequest
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		e, err := repos.Employees().FindByID(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		adv, err = hr.NewAdvanceRequest(e, req.Date, req.Amount, req.Purpose, hr.RepaymentTerms(req.RepaymentTerms), req.Approver)
		if err != nil {
			return err
		}
		adv.CreatedBy = actor.UserID
		return repos.Advances().Save(ctx, adv)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Advance created",
		zap.String("advance_id", adv.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("amount", adv.Amount.StringFixed(2)),
	)
	resp := ToAdvanceResponse(adv)
	return &resp, nil
}

// GetAdvance returns an active advance with its installments
func (s *EmployeeService) GetAdvance(ctx context.Context, tenantID, id uuid.UUID) (*AdvanceResponse, error) {
	adv, err := s.scope.Repositories().Advances().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdvanceResponse(adv)
	return &resp, nil
}

// ListAdvances returns the employee's active advances
func (s *EmployeeService) ListAdvances(ctx context.Context, tenantID, employeeID uuid.UUID) ([]AdvanceResponse, error) {
	advances, err := s.scope.Repositories().Advances().FindByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]AdvanceResponse, len(advances))
	for i := range advances {
		out[i] = ToAdvanceResponse(&advances[i])
	}
	return out, nil
}

// RecordInstallment adds a repayment under the advance's row lock so two
// repayments cannot both fit the same outstanding amount.
func (s *EmployeeService) RecordInstallment(ctx context.Context, tenantID, advanceID uuid.UUID, req RecordInstallmentRequest) (*AdvanceResponse, error) {
	payslip := true
	if req.PayslipDeduction != nil {
		payslip = *req.PayslipDeduction
	}

	var adv *hr.AdvanceRequest
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		if adv, err = repos.Advances().FindByIDForUpdate(ctx, tenantID, advanceID); err != nil {
			return err
		}
		if _, err := adv.RecordInstallment(req.DueDate, req.Amount, payslip); err != nil {
			return err
		}
		return repos.Advances().Save(ctx, adv)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Advance installment recorded",
		zap.String("advance_id", advanceID.String()),
		zap.String("outstanding", adv.Outstanding().StringFixed(2)),
		zap.String("status", string(adv.Status)),
	)
	resp := ToAdvanceResponse(adv)
	return &resp, nil
}

// DeleteAdvance soft deletes the advance together with its installments
func (s *EmployeeService) DeleteAdvance(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityAdvance, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityAdvance.String())
	return nil
}
