package crm

import (
	"fmt"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CodeCommissionExceedsDealValue is the DomainError code for CommissionExceedsDealValueError
const CodeCommissionExceedsDealValue = "COMMISSION_EXCEEDS_DEAL_VALUE"

// CommissionType selects how a commission is derived from the deal value.
type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFlat       CommissionType = "flat"
)

// IsValid checks if the commission type is known
func (t CommissionType) IsValid() bool {
	return t == CommissionTypePercentage || t == CommissionTypeFlat
}

// CommissionTrigger is the deal lifecycle event at which commission is computed.
type CommissionTrigger string

const (
	TriggerDealClosure       CommissionTrigger = "deal_closure"
	TriggerOnPaymentReceived CommissionTrigger = "on_payment_received"
)

// IsValid checks if the trigger is known
func (t CommissionTrigger) IsValid() bool {
	return t == TriggerDealClosure || t == TriggerOnPaymentReceived
}

// FiresOn reports whether moving a deal into status fires this trigger.
func (t CommissionTrigger) FiresOn(status DealStatus) bool {
	switch t {
	case TriggerDealClosure:
		return status == DealStatusConverted
	case TriggerOnPaymentReceived:
		return status == DealStatusPaymentReceived
	}
	return false
}

// CommissionExceedsDealValueError is returned when a flat commission is larger
// than the deal it is paid on.
type CommissionExceedsDealValueError struct {
	Commission decimal.Decimal
	DealValue  decimal.Decimal
}

func (e *CommissionExceedsDealValueError) Error() string {
	return fmt.Sprintf("flat commission %s exceeds deal value %s", e.Commission.StringFixed(2), e.DealValue.StringFixed(2))
}

// Unwrap exposes the error as a DomainError so handlers can map it.
func (e *CommissionExceedsDealValueError) Unwrap() error {
	return shared.NewDomainError(CodeCommissionExceedsDealValue, e.Error())
}

// CommissionPlan is an agent's commission configuration.
type CommissionPlan struct {
	Type    CommissionType
	Value   decimal.Decimal
	Trigger CommissionTrigger
}

var hundred = decimal.NewFromInt(100)

// Validate checks the plan on its own, independent of any deal
func (p CommissionPlan) Validate() error {
	if !p.Type.IsValid() {
		return shared.NewValidationError("commission_type", fmt.Sprintf("unknown commission type %q", p.Type))
	}
	if !p.Trigger.IsValid() {
		return shared.NewValidationError("commission_trigger", fmt.Sprintf("unknown commission trigger %q", p.Trigger))
	}
	if !p.Value.IsPositive() {
		return shared.NewValidationError("commission_value", "must be greater than zero")
	}
	if p.Type == CommissionTypePercentage && p.Value.GreaterThan(hundred) {
		return shared.NewValidationError("commission_value", "percentage cannot exceed 100")
	}
	return nil
}

// Compute returns the commission payable on dealValue, rounded to paise.
func (p CommissionPlan) Compute(dealValue decimal.Decimal) (decimal.Decimal, error) {
	switch p.Type {
	case CommissionTypePercentage:
		return dealValue.Mul(p.Value).Div(hundred).Round(2), nil
	case CommissionTypeFlat:
		if p.Value.GreaterThan(dealValue) {
			return decimal.Zero, &CommissionExceedsDealValueError{Commission: p.Value, DealValue: dealValue}
		}
		return p.Value.Round(2), nil
	}
	return decimal.Zero, shared.NewValidationError("commission_type", fmt.Sprintf("unknown commission type %q", p.Type))
}
