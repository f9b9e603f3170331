package hr

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statutory payroll constants
var (
	BasicShare      = decimal.RequireFromString("0.5")
	HRAShareOfBasic = decimal.RequireFromString("0.5")
	PFRate          = decimal.RequireFromString("0.12")
	PFWageCeiling   = decimal.NewFromInt(15000)
	PFCappedAmount  = decimal.NewFromInt(1800)
	ESIRate         = decimal.RequireFromString("0.0075")
	ESIGrossCeiling = decimal.NewFromInt(21000)
)

// PayrollInputs are the month's variable components supplied by the caller.
type PayrollInputs struct {
	DearnessAllowance decimal.Decimal
	Overtime          decimal.Decimal
	ProfessionalTax   decimal.Decimal
	TDS               decimal.Decimal
	LeaveDeduction    decimal.Decimal
	AdvanceDeduction  decimal.Decimal
}

// Earnings is the earnings side of a salary slip
type Earnings struct {
	Basic             decimal.Decimal
	HRA               decimal.Decimal
	DearnessAllowance decimal.Decimal
	Allowance         decimal.Decimal
	Overtime          decimal.Decimal
}

// Total sums every earning
func (e Earnings) Total() decimal.Decimal {
	return e.Basic.Add(e.HRA).Add(e.DearnessAllowance).Add(e.Allowance).Add(e.Overtime)
}

// Deductions is the deductions side of a salary slip
type Deductions struct {
	PF               decimal.Decimal
	ESI              decimal.Decimal
	ProfessionalTax  decimal.Decimal
	TDS              decimal.Decimal
	LeaveDeduction   decimal.Decimal
	AdvanceDeduction decimal.Decimal
}

// Total sums every deduction
func (d Deductions) Total() decimal.Decimal {
	return d.PF.Add(d.ESI).Add(d.ProfessionalTax).Add(d.TDS).Add(d.LeaveDeduction).Add(d.AdvanceDeduction)
}

// ComputePayroll splits gross into basic, HRA and allowance and derives PF and ESI.
//
//	basic = gross * 0.5, hra = basic * 0.5, allowance = gross - basic - hra
//	pf    = 1800 when basic >= 15000, else basic * 0.12
//	esi   = gross * 0.0075 when gross <= 21000, else 0
func ComputePayroll(gross decimal.Decimal, in PayrollInputs) (Earnings, Deductions) {
	basic := gross.Mul(BasicShare).Round(2)
	hra := basic.Mul(HRAShareOfBasic).Round(2)
	allowance := gross.Sub(basic).Sub(hra)

	pf := basic.Mul(PFRate).Round(2)
	if basic.GreaterThanOrEqual(PFWageCeiling) {
		pf = PFCappedAmount
	}
	esi := decimal.Zero
	if gross.LessThanOrEqual(ESIGrossCeiling) {
		esi = gross.Mul(ESIRate).Round(2)
	}

	return Earnings{
			Basic:             basic,
			HRA:               hra,
			DearnessAllowance: in.DearnessAllowance,
			Allowance:         allowance,
			Overtime:          in.Overtime,
		}, Deductions{
			PF:               pf,
			ESI:              esi,
			ProfessionalTax:  in.ProfessionalTax,
			TDS:              in.TDS,
			LeaveDeduction:   in.LeaveDeduction,
			AdvanceDeduction: in.AdvanceDeduction,
		}
}

// SalarySlip is one month's pay for an employee. There is at most one per
// employee per salary month.
type SalarySlip struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	EmployeeID  uuid.UUID
	SalaryMonth time.Time
	Gross       decimal.Decimal
	Earnings    Earnings
	Deductions  Deductions
	NetSalary   decimal.Decimal
}

// SalaryMonthOf normalises t to the first day of its month
func SalaryMonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NewSalarySlip computes the slip for employee for the month containing month.
func NewSalarySlip(employee *Employee, month time.Time, in PayrollInputs) (*SalarySlip, error) {
	if employee == nil {
		return nil, shared.NewValidationError("employee_id", "is required")
	}
	if !employee.GrossSalary.IsPositive() {
		return nil, shared.NewValidationError("gross_salary", "employee has no gross salary")
	}
	for field, v := range map[string]decimal.Decimal{
		"da":                in.DearnessAllowance,
		"overtime":          in.Overtime,
		"professional_tax":  in.ProfessionalTax,
		"tds":               in.TDS,
		"leave_deduction":   in.LeaveDeduction,
		"advance_deduction": in.AdvanceDeduction,
	} {
		if v.IsNegative() {
			return nil, shared.NewValidationError(field, "cannot be negative")
		}
	}

	earnings, deductions := ComputePayroll(employee.GrossSalary, in)
	return &SalarySlip{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(employee.TenantID),
		EmployeeID:          employee.ID,
		SalaryMonth:         SalaryMonthOf(month),
		Gross:               employee.GrossSalary,
		Earnings:            earnings,
		Deductions:          deductions,
		NetSalary:           earnings.Total().Sub(deductions.Total()),
	}, nil
}
