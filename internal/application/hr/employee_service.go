// Package hr manages employees and monthly payroll.
package hr

import (
	"context"
	"errors"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService handles employees and their salary slips
type EmployeeService struct {
	scope      appshared.TransactionScope
	numbers    appshared.NumberIssuer
	maxRetries int
	now        func() time.Time
	metrics    *telemetry.CoreMetrics
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(scope appshared.TransactionScope, numbers appshared.NumberIssuer, maxRetries int) *EmployeeService {
	return &EmployeeService{scope: scope, numbers: numbers, maxRetries: maxRetries, now: time.Now}
}

// SetCoreMetrics sets the metrics collector
func (s *EmployeeService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for default joining dates
func (s *EmployeeService) SetClock(now func() time.Time) {
	s.now = now
}

// Create onboards an employee with a code from the employee sequence
func (s *EmployeeService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	joining := req.JoiningDate
	if joining.IsZero() {
		joining = s.now()
	}

	var e *hr.Employee
	err := appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		var err error
		if e, err = hr.NewEmployee(tenantID, req.Name, req.Department, req.Designation, joining, req.GrossSalary); err != nil {
			return err
		}
		e.Email = req.Email
		e.Phone = req.Phone
		e.CreatedBy = actor.UserID

		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			code, err := s.numbers.IssueWithin(ctx, repos, tenantID, numbering.DocumentTypeEmployee)
			if err != nil {
				return err
			}
			if err := e.AssignCode(code); err != nil {
				return err
			}
			return repos.Employees().Save(ctx, e)
		})
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("employee_code", e.EmployeeCode),
	)
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// GetByID returns an active employee
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.scope.Repositories().Employees().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(e)
	return &resp, nil
}

// List returns active employees
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[EmployeeResponse], error) {
	employees, total, err := s.scope.Repositories().Employees().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]EmployeeResponse, len(employees))
	for i := range employees {
		items[i] = ToEmployeeResponse(&employees[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Delete soft deletes the employee together with their salary slips and advances
func (s *EmployeeService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityEmployee, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityEmployee.String())
	return nil
}

// CreateSalarySlip computes and stores the employee's slip for a month.
// A month can only be paid once.
func (s *EmployeeService) CreateSalarySlip(ctx context.Context, tenantID, employeeID uuid.UUID, actor shared.Actor, req CreateSalarySlipRequest) (*SalarySlipResponse, error) {
	var slip *hr.SalarySlip
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		e, err := repos.Employees().FindByID(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		month := hr.SalaryMonthOf(req.SalaryMonth)
		existing, err := repos.SalarySlips().FindByEmployeeMonth(ctx, tenantID, employeeID, month)
		switch {
		case err == nil && existing != nil:
			return shared.NewDomainError(shared.CodeAlreadyExists,
				"salary slip for "+month.Format("January 2006")+" already exists for "+e.EmployeeCode)
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return err
		}

		if slip, err = hr.NewSalarySlip(e, month, req.inputs()); err != nil {
			return err
		}
		slip.CreatedBy = actor.UserID
		return repos.SalarySlips().Save(ctx, slip)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Salary slip created",
		zap.String("employee_id", employeeID.String()),
		zap.String("salary_month", slip.SalaryMonth.Format("2006-01")),
	)
	resp := ToSalarySlipResponse(slip)
	return &resp, nil
}

// ListSalarySlips returns the employee's active slips
func (s *EmployeeService) ListSalarySlips(ctx context.Context, tenantID, employeeID uuid.UUID) ([]SalarySlipResponse, error) {
	slips, err := s.scope.Repositories().SalarySlips().FindByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]SalarySlipResponse, len(slips))
	for i := range slips {
		out[i] = ToSalarySlipResponse(&slips[i])
	}
	return out, nil
}
