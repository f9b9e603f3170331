package hr

import (
	"time"

	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest represents a request to onboard an employee
type CreateEmployeeRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Email       string          `json:"email" binding:"omitempty,email"`
	Phone       string          `json:"phone" binding:"max=20"`
	Department  string          `json:"department" binding:"max=100"`
	Designation string          `json:"designation" binding:"max=100"`
	JoiningDate time.Time       `json:"joining_date"`
	GrossSalary decimal.Decimal `json:"gross_salary"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID           uuid.UUID       `json:"id"`
	EmployeeCode string          `json:"employee_code"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Department   string          `json:"department,omitempty"`
	Designation  string          `json:"designation,omitempty"`
	JoiningDate  time.Time       `json:"joining_date"`
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	IsActive     bool            `json:"is_active"`
}

// ToEmployeeResponse converts a domain Employee to EmployeeResponse
func ToEmployeeResponse(e *hr.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
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
}

// CreateSalarySlipRequest generates a month's slip for an employee
type CreateSalarySlipRequest struct {
	SalaryMonth       time.Time       `json:"salary_month" binding:"required"`
	DearnessAllowance decimal.Decimal `json:"da"`
	Overtime          decimal.Decimal `json:"overtime"`
	ProfessionalTax   decimal.Decimal `json:"professional_tax"`
	TDS               decimal.Decimal `json:"tds"`
	LeaveDeduction    decimal.Decimal `json:"leave_deduction"`
	AdvanceDeduction  decimal.Decimal `json:"advance_deduction"`
}

func (r CreateSalarySlipRequest) inputs() hr.PayrollInputs {
	return hr.PayrollInputs{
		DearnessAllowance: r.DearnessAllowance,
		Overtime:          r.Overtime,
		ProfessionalTax:   r.ProfessionalTax,
		TDS:               r.TDS,
		LeaveDeduction:    r.LeaveDeduction,
		AdvanceDeduction:  r.AdvanceDeduction,
	}
}

// SalarySlipResponse represents a salary slip in API responses
type SalarySlipResponse struct {
	ID               uuid.UUID       `json:"id"`
	EmployeeID       uuid.UUID       `json:"employee_id"`
	SalaryMonth      string          `json:"salary_month"`
	Gross            decimal.Decimal `json:"gross_salary"`
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	DA               decimal.Decimal `json:"da"`
	Allowance        decimal.Decimal `json:"allowance"`
	Overtime         decimal.Decimal `json:"overtime"`
	PF               decimal.Decimal `json:"pf"`
	ESI              decimal.Decimal `json:"esi"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	TDS              decimal.Decimal `json:"tds"`
	LeaveDeduction   decimal.Decimal `json:"leave_deduction"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
}

// ToSalarySlipResponse converts a domain SalarySlip to SalarySlipResponse
func ToSalarySlipResponse(s *hr.SalarySlip) SalarySlipResponse {
	return SalarySlipResponse{
		ID:               s.ID,
		EmployeeID:       s.EmployeeID,
		SalaryMonth:      s.SalaryMonth.Format("2006-01"),
		Gross:            s.Gross,
		Basic:            s.Earnings.Basic,
		HRA:              s.Earnings.HRA,
		DA:               s.Earnings.DearnessAllowance,
		Allowance:        s.Earnings.Allowance,
		Overtime:         s.Earnings.Overtime,
		PF:               s.Deductions.PF,
		ESI:              s.Deductions.ESI,
		ProfessionalTax:  s.Deductions.ProfessionalTax,
		TDS:              s.Deductions.TDS,
		LeaveDeduction:   s.Deductions.LeaveDeduction,
		AdvanceDeduction: s.Deductions.AdvanceDeduction,
		TotalEarnings:    s.Earnings.Total(),
		TotalDeductions:  s.Deductions.Total(),
		NetSalary:        s.NetSalary,
	}
}

// CreateAdvanceRequest lends money to an employee
type CreateAdvanceRequest struct {
	Date           time.Time       `json:"date" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Purpose        string          `json:"purpose" binding:"required,min=1,max=255"`
	RepaymentTerms string          `json:"repayment_terms" binding:"required,oneof=3 6 12 custom"`
	Approver       string          `json:"approver" binding:"max=150"`
}

// RecordInstallmentRequest records a repayment. PayslipDeduction defaults to true.
type RecordInstallmentRequest struct {
	DueDate          time.Time       `json:"due_date" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	PayslipDeduction *bool           `json:"payslip_deduction"`
}

// InstallmentResponse is one repayment of an advance
type InstallmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	InstallmentNo    int             `json:"installment_no"`
	DueDate          time.Time       `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	PayslipDeduction bool            `json:"payslip_deduction"`
}

// AdvanceResponse represents an advance in API responses
type AdvanceResponse struct {
	ID                   uuid.UUID             `json:"id"`
	EmployeeID           uuid.UUID             `json:"employee_id"`
	Date                 time.Time             `json:"date"`
	Amount               decimal.Decimal       `json:"amount"`
	Purpose              string                `json:"purpose"`
	RepaymentTerms       string                `json:"repayment_terms"`
	Approver             string                `json:"approver,omitempty"`
	Status               string                `json:"status"`
	SuggestedInstallment decimal.Decimal       `json:"suggested_installment"`
	TotalRepaid          decimal.Decimal       `json:"total_installment_amount"`
	OutstandingAmount    decimal.Decimal       `json:"outstanding_amount"`
	Installments         []InstallmentResponse `json:"installments"`
}

// ToAdvanceResponse converts a domain AdvanceRequest to AdvanceResponse
func ToAdvanceResponse(a *hr.AdvanceRequest) AdvanceResponse {
	resp := AdvanceResponse{
		ID:                   a.ID,
		EmployeeID:           a.EmployeeID,
		Date:                 a.RequestDate,
		Amount:               a.Amount,
		Purpose:              a.Purpose,
		RepaymentTerms:       string(a.Terms),
		Approver:             a.Approver,
		Status:               string(a.Status),
		SuggestedInstallment: a.SuggestedInstallment(),
		TotalRepaid:          a.TotalRepaid(),
		OutstandingAmount:    a.Outstanding(),
		Installments:         make([]InstallmentResponse, 0, len(a.Installments)),
	}
	for _, inst := range a.Installments {
		if inst.IsDeleted() {
			continue
		}
		resp.Installments = append(resp.Installments, InstallmentResponse{
			ID:               inst.ID,
			InstallmentNo:    inst.InstallmentNo,
			DueDate:          inst.DueDate,
			Amount:           inst.Amount,
			PayslipDeduction: inst.PayslipDeduction,
		})
	}
	return resp
}
