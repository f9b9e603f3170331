package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for the Employee aggregate root.
type EmployeeModel struct {
	TenantAggregateModel
	SoftDeleteModel
	EmployeeCode string          `gorm:"type:varchar(50);not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Email        string          `gorm:"type:varchar(100)"`
	Phone        string          `gorm:"type:varchar(20)"`
	Department   string          `gorm:"type:varchar(100)"`
	Designation  string          `gorm:"type:varchar(100)"`
	JoiningDate  time.Time       `gorm:"not null"`
	GrossSalary  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee entity.
func (m *EmployeeModel) ToDomain() *hr.Employee {
	return &hr.Employee{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		EmployeeCode:        m.EmployeeCode,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Department:          m.Department,
		Designation:         m.Designation,
		JoiningDate:         m.JoiningDate,
		GrossSalary:         m.GrossSalary,
		IsActive:            m.IsActive,
	}
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee entity.
func EmployeeModelFromDomain(e *hr.Employee) *EmployeeModel {
	m := &EmployeeModel{
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		Department:   e.Department,
		Designation:  e.Designation,
		JoiningDate:  e.JoiningDate,
		GrossSalary:  e.GrossSalary,
		IsActive:     e.IsActive,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.FromDomainSoftDelete(e.SoftDelete)
	return m
}

// SalarySlipModel is the persistence model for a monthly salary slip.
// An employee has one active slip per month.
type SalarySlipModel struct {
	TenantAggregateModel
	SoftDeleteModel
	EmployeeID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_salary_slip_month,priority:1,where:is_deleted = false"`
	SalaryMonth       time.Time       `gorm:"type:date;not null;uniqueIndex:idx_salary_slip_month,priority:2,where:is_deleted = false"`
	Gross             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Basic             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	HRA               decimal.Decimal `gorm:"column:hra;type:decimal(18,2);not null"`
	DearnessAllowance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Allowance         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Overtime          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PF                decimal.Decimal `gorm:"column:pf;type:decimal(18,2);not null;default:0"`
	ESI               decimal.Decimal `gorm:"column:esi;type:decimal(18,2);not null;default:0"`
	ProfessionalTax   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TDS               decimal.Decimal `gorm:"column:tds;type:decimal(18,2);not null;default:0"`
	LeaveDeduction    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AdvanceDeduction  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	NetSalary         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SalarySlipModel) TableName() string {
	return "salary_slips"
}

// ToDomain converts the persistence model to a domain SalarySlip entity.
func (m *SalarySlipModel) ToDomain() *hr.SalarySlip {
	return &hr.SalarySlip{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		EmployeeID:          m.EmployeeID,
		SalaryMonth:         hr.SalaryMonthOf(m.SalaryMonth),
		Gross:               m.Gross,
		Earnings: hr.Earnings{
			Basic:             m.Basic,
			HRA:               m.HRA,
			DearnessAllowance: m.DearnessAllowance,
			Allowance:         m.Allowance,
			Overtime:          m.Overtime,
		},
		Deductions: hr.Deductions{
			PF:               m.PF,
			ESI:              m.ESI,
			ProfessionalTax:  m.ProfessionalTax,
			TDS:              m.TDS,
			LeaveDeduction:   m.LeaveDeduction,
			AdvanceDeduction: m.AdvanceDeduction,
		},
		NetSalary: m.NetSalary,
	}
}

// SalarySlipModelFromDomain creates a persistence model from a domain SalarySlip entity.
func SalarySlipModelFromDomain(s *hr.SalarySlip) *SalarySlipModel {
	m := &SalarySlipModel{
		EmployeeID:        s.EmployeeID,
		SalaryMonth:       s.SalaryMonth,
		Gross:             s.Gross,
		Basic:             s.Earnings.Basic,
		HRA:               s.Earnings.HRA,
		DearnessAllowance: s.Earnings.DearnessAllowance,
		Allowance:         s.Earnings.Allowance,
		Overtime:          s.Earnings.Overtime,
		PF:                s.Deductions.PF,
		ESI:               s.Deductions.ESI,
		ProfessionalTax:   s.Deductions.ProfessionalTax,
		TDS:               s.Deductions.TDS,
		LeaveDeduction:    s.Deductions.LeaveDeduction,
		AdvanceDeduction:  s.Deductions.AdvanceDeduction,
		NetSalary:         s.NetSalary,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.FromDomainSoftDelete(s.SoftDelete)
	return m
}

// AdvanceRequestModel is the persistence model for the AdvanceRequest aggregate root.
type AdvanceRequestModel struct {
	TenantAggregateModel
	SoftDeleteModel
	EmployeeID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Approver     string                    `gorm:"type:varchar(150)"`
	RequestDate  time.Time                 `gorm:"type:date;not null"`
	Amount       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Purpose      string                    `gorm:"type:varchar(255);not null"`
	Terms        hr.RepaymentTerms         `gorm:"column:repayment_terms;type:varchar(10);not null"`
	Status       hr.AdvanceStatus          `gorm:"type:varchar(20);not null;default:'active'"`
	Installments []AdvanceInstallmentModel `gorm:"foreignKey:AdvanceID;references:ID"`
}

// TableName returns the table name for GORM
func (AdvanceRequestModel) TableName() string {
	return "advance_requests"
}

// ToDomain converts the persistence model to a domain AdvanceRequest entity.
func (m *AdvanceRequestModel) ToDomain() *hr.AdvanceRequest {
	a := &hr.AdvanceRequest{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		EmployeeID:          m.EmployeeID,
		Approver:            m.Approver,
		RequestDate:         m.RequestDate,
		Amount:              m.Amount,
		Purpose:             m.Purpose,
		Terms:               m.Terms,
		Status:              m.Status,
		Installments:        make([]hr.AdvanceInstallment, len(m.Installments)),
	}
	for i := range m.Installments {
		a.Installments[i] = m.Installments[i].ToDomain()
	}
	return a
}

// AdvanceRequestModelFromDomain creates a persistence model from a domain
// AdvanceRequest entity. Installments are saved separately.
func AdvanceRequestModelFromDomain(a *hr.AdvanceRequest) *AdvanceRequestModel {
	m := &AdvanceRequestModel{
		EmployeeID:  a.EmployeeID,
		Approver:    a.Approver,
		RequestDate: a.RequestDate,
		Amount:      a.Amount,
		Purpose:     a.Purpose,
		Terms:       a.Terms,
		Status:      a.Status,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.FromDomainSoftDelete(a.SoftDelete)
	return m
}

// AdvanceInstallmentModel is the persistence model for one advance repayment.
// Numbers are unique within an advance.
type AdvanceInstallmentModel struct {
	ChildModel
	AdvanceID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_advance_installment_no,priority:1"`
	InstallmentNo    int             `gorm:"not null;uniqueIndex:idx_advance_installment_no,priority:2"`
	DueDate          time.Time       `gorm:"type:date;not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PayslipDeduction bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdvanceInstallmentModel) TableName() string {
	return "advance_installments"
}

// ToDomain converts the persistence model to a domain AdvanceInstallment.
func (m *AdvanceInstallmentModel) ToDomain() hr.AdvanceInstallment {
	return hr.AdvanceInstallment{
		BaseEntity:       m.BaseModel.ToDomain(),
		SoftDelete:       m.ToDomainSoftDelete(),
		AdvanceID:        m.AdvanceID,
		InstallmentNo:    m.InstallmentNo,
		DueDate:          m.DueDate,
		Amount:           m.Amount,
		PayslipDeduction: m.PayslipDeduction,
	}
}

// AdvanceInstallmentModelFromDomain creates a persistence model for one installment.
func AdvanceInstallmentModelFromDomain(tenantID uuid.UUID, inst *hr.AdvanceInstallment) *AdvanceInstallmentModel {
	m := &AdvanceInstallmentModel{
		AdvanceID:        inst.AdvanceID,
		InstallmentNo:    inst.InstallmentNo,
		DueDate:          inst.DueDate,
		Amount:           inst.Amount,
		PayslipDeduction: inst.PayslipDeduction,
	}
	m.FromDomainBaseEntity(inst.BaseEntity)
	m.TenantID = tenantID
	m.FromDomainSoftDelete(inst.SoftDelete)
	return m
}
