package hr

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RepaymentTerms is the agreed repayment period of an advance
type RepaymentTerms string

const (
	Terms3Months  RepaymentTerms = "3"
	Terms6Months  RepaymentTerms = "6"
	Terms12Months RepaymentTerms = "12"
	TermsCustom   RepaymentTerms = "custom"
)

// Months returns the number of monthly installments, 0 for custom terms
func (t RepaymentTerms) Months() int {
	switch t {
	case Terms3Months:
		return 3
	case Terms6Months:
		return 6
	case Terms12Months:
		return 12
	}
	return 0
}

// IsValid checks if the terms are known
func (t RepaymentTerms) IsValid() bool {
	return t == TermsCustom || t.Months() > 0
}

// AdvanceStatus is the lifecycle state of an advance
type AdvanceStatus string

const (
	AdvanceStatusActive AdvanceStatus = "active"
	AdvanceStatusClosed AdvanceStatus = "closed"
)

// EntityAdvance names advances in transition errors
const EntityAdvance = "advance_request"

var advanceStates = shared.MustStateMachine(EntityAdvance, AdvanceStatusActive, map[AdvanceStatus][]AdvanceStatus{
	AdvanceStatusActive: {AdvanceStatusClosed},
	AdvanceStatusClosed: {},
})

// AdvanceStates returns the advance transition graph
func AdvanceStates() *shared.StateMachine[AdvanceStatus] {
	return advanceStates
}

// AdvanceInstallment is one repayment against an advance
type AdvanceInstallment struct {
	shared.BaseEntity
	shared.SoftDelete
	AdvanceID        uuid.UUID
	InstallmentNo    int
	DueDate          time.Time
	Amount           decimal.Decimal
	PayslipDeduction bool
}

// AdvanceRequest is money lent to an employee and repaid in installments.
// It closes once the installments cover the amount.
type AdvanceRequest struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	EmployeeID   uuid.UUID
	Approver     string
	RequestDate  time.Time
	Amount       decimal.Decimal
	Purpose      string
	Terms        RepaymentTerms
	Status       AdvanceStatus
	Installments []AdvanceInstallment
}

// NewAdvanceRequest creates an active advance for employee
func NewAdvanceRequest(employee *Employee, date time.Time, amount decimal.Decimal, purpose string, terms RepaymentTerms, approver string) (*AdvanceRequest, error) {
	if employee == nil {
		return nil, shared.NewValidationError("employee_id", "is required")
	}
	a := &AdvanceRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(employee.TenantID),
		EmployeeID:          employee.ID,
		Approver:            strings.TrimSpace(approver),
		RequestDate:         date,
		Amount:              amount,
		Purpose:             strings.TrimSpace(purpose),
		Terms:               terms,
		Status:              advanceStates.Initial(),
	}
	switch {
	case !employee.IsActive:
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("employee %s is not active", employee.EmployeeCode))
	case date.IsZero():
		return nil, shared.NewValidationError("date", "is required")
	case !amount.IsPositive():
		return nil, shared.NewValidationError("amount", "must be greater than zero")
	case a.Purpose == "":
		return nil, shared.NewValidationError("purpose", "is required")
	case !terms.IsValid():
		return nil, shared.NewValidationError("repayment_terms", fmt.Sprintf("unknown terms %q", terms))
	}
	return a, nil
}

// TotalRepaid sums the live installments
func (a *AdvanceRequest) TotalRepaid() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range a.Installments {
		if !inst.IsDeleted() {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// Outstanding is the amount still to be repaid
func (a *AdvanceRequest) Outstanding() decimal.Decimal {
	return a.Amount.Sub(a.TotalRepaid())
}

// SuggestedInstallment splits the amount evenly over the terms. Custom terms
// have no suggestion.
func (a *AdvanceRequest) SuggestedInstallment() decimal.Decimal {
	months := a.Terms.Months()
	if months == 0 {
		return decimal.Zero
	}
	return a.Amount.Div(decimal.NewFromInt(int64(months))).Round(2)
}

// RecordInstallment adds the next repayment. An installment may not exceed
// the outstanding amount; the one that clears it closes the advance.
func (a *AdvanceRequest) RecordInstallment(due time.Time, amount decimal.Decimal, payslipDeduction bool) (*AdvanceInstallment, error) {
	if a.Status != AdvanceStatusActive {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("installments can only be recorded on active advances, advance is %s", a.Status))
	}
	outstanding := a.Outstanding()
	switch {
	case due.IsZero():
		return nil, shared.NewValidationError("due_date", "is required")
	case !amount.IsPositive():
		return nil, shared.NewValidationError("amount", "must be greater than zero")
	case amount.GreaterThan(outstanding):
		return nil, shared.NewValidationError("amount",
			fmt.Sprintf("exceeds the outstanding amount %s", outstanding.StringFixed(2)))
	}

	a.Installments = append(a.Installments, AdvanceInstallment{
		BaseEntity:       shared.NewBaseEntity(),
		AdvanceID:        a.ID,
		InstallmentNo:    a.nextInstallmentNo(),
		DueDate:          due,
		Amount:           amount,
		PayslipDeduction: payslipDeduction,
	})
	if a.Outstanding().IsZero() {
		if err := a.Close(); err != nil {
			return nil, err
		}
	}
	a.IncrementVersion()
	return &a.Installments[len(a.Installments)-1], nil
}

// Close marks the advance settled
func (a *AdvanceRequest) Close() error {
	if a.Status == AdvanceStatusClosed {
		return shared.NewDomainError(shared.CodeInvalidState, "advance is already closed")
	}
	if err := advanceStates.Validate(a.Status, AdvanceStatusClosed); err != nil {
		return err
	}
	a.Status = AdvanceStatusClosed
	return nil
}

// nextInstallmentNo follows the highest number already on the advance
func (a *AdvanceRequest) nextInstallmentNo() int {
	highest := 0
	for _, inst := range a.Installments {
		highest = max(highest, inst.InstallmentNo)
	}
	return highest + 1
}
