package hr

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository persists employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, int64, error)
	Save(ctx context.Context, e *Employee) error
}

// SalarySlipRepository persists salary slips
type SalarySlipRepository interface {
	FindByEmployeeMonth(ctx context.Context, tenantID, employeeID uuid.UUID, month time.Time) (*SalarySlip, error)
	FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]SalarySlip, error)
	Save(ctx context.Context, slip *SalarySlip) error
}

// AdvanceRepository persists advances with their installments
type AdvanceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AdvanceRequest, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*AdvanceRequest, error)
	FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]AdvanceRequest, error)
	Save(ctx context.Context, a *AdvanceRequest) error
}
