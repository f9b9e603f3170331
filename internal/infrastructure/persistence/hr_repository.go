package persistence

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEmployeeRepository implements hr.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an active employee
func (r *GormEmployeeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find employee", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists active employees of a tenant
func (r *GormEmployeeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "name", "employee_code", "email")
	if dept := filter.Attr("department"); dept != "" {
		query = query.Where("department = ?", dept)
	}
	return findPage(query, filter, EmployeeSortFields, "employee_code ASC",
		func(m *models.EmployeeModel) hr.Employee { return *m.ToDomain() })
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	return wrapError("save employee", r.db.WithContext(ctx).Save(models.EmployeeModelFromDomain(e)).Error)
}

// GormSalarySlipRepository implements hr.SalarySlipRepository using GORM
type GormSalarySlipRepository struct {
	db *gorm.DB
}

// NewGormSalarySlipRepository creates a new GormSalarySlipRepository
func NewGormSalarySlipRepository(db *gorm.DB) *GormSalarySlipRepository {
	return &GormSalarySlipRepository{db: db}
}

// FindByEmployeeMonth finds the employee's active slip for the month of month
func (r *GormSalarySlipRepository) FindByEmployeeMonth(ctx context.Context, tenantID, employeeID uuid.UUID, month time.Time) (*hr.SalarySlip, error) {
	var model models.SalarySlipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND salary_month = ?", tenantID, employeeID, hr.SalaryMonthOf(month)).
		First(&model).Error; err != nil {
		return nil, wrapError("find salary slip", err)
	}
	return model.ToDomain(), nil
}

// FindByEmployee lists the employee's active slips, latest month first
func (r *GormSalarySlipRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.SalarySlip, error) {
	var rows []models.SalarySlipModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Order("salary_month DESC").
		Find(&rows).Error; err != nil {
		return nil, wrapError("list salary slips", err)
	}
	slips := make([]hr.SalarySlip, len(rows))
	for i := range rows {
		slips[i] = *rows[i].ToDomain()
	}
	return slips, nil
}

// Save creates or updates a salary slip
func (r *GormSalarySlipRepository) Save(ctx context.Context, slip *hr.SalarySlip) error {
	return wrapError("save salary slip", r.db.WithContext(ctx).Save(models.SalarySlipModelFromDomain(slip)).Error)
}

// GormAdvanceRepository implements hr.AdvanceRepository using GORM
type GormAdvanceRepository struct {
	db *gorm.DB
}

// NewGormAdvanceRepository creates a new GormAdvanceRepository
func NewGormAdvanceRepository(db *gorm.DB) *GormAdvanceRepository {
	return &GormAdvanceRepository{db: db}
}

// FindByID finds an active advance with its installments
func (r *GormAdvanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.AdvanceRequest, error) {
	return r.find(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds the advance and locks its row
func (r *GormAdvanceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*hr.AdvanceRequest, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), tenantID, id)
}

func (r *GormAdvanceRepository) find(db *gorm.DB, tenantID, id uuid.UUID) (*hr.AdvanceRequest, error) {
	var model models.AdvanceRequestModel
	if err := db.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installment_no ASC")
	}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, wrapError("find advance", err)
	}
	return model.ToDomain(), nil
}

// FindByEmployee lists the employee's active advances, latest first
func (r *GormAdvanceRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.AdvanceRequest, error) {
	var rows []models.AdvanceRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_no ASC")
		}).
		Where("tenant_id = ? AND employee_id = ?", tenantID, employeeID).
		Order("request_date DESC").
		Find(&rows).Error; err != nil {
		return nil, wrapError("list advances", err)
	}
	advances := make([]hr.AdvanceRequest, len(rows))
	for i := range rows {
		advances[i] = *rows[i].ToDomain()
	}
	return advances, nil
}

// Save creates or updates an advance and its installments. Installments are
// append-only; removing one goes through the ledger.
func (r *GormAdvanceRepository) Save(ctx context.Context, a *hr.AdvanceRequest) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Installments").Save(models.AdvanceRequestModelFromDomain(a)).Error; err != nil {
		return wrapError("save advance", err)
	}
	for i := range a.Installments {
		a.Installments[i].AdvanceID = a.ID
		if err := db.Save(models.AdvanceInstallmentModelFromDomain(a.TenantID, &a.Installments[i])).Error; err != nil {
			return wrapError("save advance installment", err)
		}
	}
	return nil
}

var (
	_ hr.EmployeeRepository   = (*GormEmployeeRepository)(nil)
	_ hr.SalarySlipRepository = (*GormSalarySlipRepository)(nil)
	_ hr.AdvanceRepository    = (*GormAdvanceRepository)(nil)
)
