package crm

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStatus is the lifecycle state of a deal
type DealStatus string

const (
	DealStatusLead            DealStatus = "lead"
	DealStatusConverted       DealStatus = "converted"
	DealStatusInvoiced        DealStatus = "invoiced"
	DealStatusPaymentReceived DealStatus = "payment_received"
	DealStatusCancelled       DealStatus = "cancelled"
)

// EntityDeal names deals in transition errors and the transition registry
const EntityDeal = "deal"

var dealStates = shared.MustStateMachine(EntityDeal, DealStatusLead, map[DealStatus][]DealStatus{
	DealStatusLead:            {DealStatusConverted, DealStatusCancelled},
	DealStatusConverted:       {DealStatusInvoiced, DealStatusCancelled},
	DealStatusInvoiced:        {DealStatusPaymentReceived},
	DealStatusPaymentReceived: {},
	DealStatusCancelled:       {},
})

// DealStates returns the deal transition graph
func DealStates() *shared.StateMachine[DealStatus] {
	return dealStates
}

// IsValid checks if the status is a declared deal status
func (s DealStatus) IsValid() bool {
	return dealStates.IsValid(s)
}

// String returns the string representation
func (s DealStatus) String() string {
	return string(s)
}

// Deal is an opportunity tracked from lead to payment.
// Commission is computed at most once, when the assigned agent's trigger fires.
type Deal struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Title                string
	ClientID             *uuid.UUID
	AgentID              *uuid.UUID
	DealValue            decimal.Decimal
	Status               DealStatus
	CommissionAmount     decimal.Decimal
	CommissionCalculated bool
	ClosedAt             *time.Time
	Notes                string
}

// NewDeal creates a deal in the lead state
func NewDeal(tenantID uuid.UUID, title string, dealValue decimal.Decimal, clientID, agentID *uuid.UUID) (*Deal, error) {
	d := &Deal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               strings.TrimSpace(title),
		ClientID:            clientID,
		AgentID:             agentID,
		DealValue:           dealValue,
		Status:              dealStates.Initial(),
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deal) validate() error {
	if d.Title == "" {
		return shared.NewValidationError("title", "is required")
	}
	if len(d.Title) > 200 {
		return shared.NewValidationError("title", "cannot exceed 200 characters")
	}
	if !d.DealValue.IsPositive() {
		return shared.NewValidationError("deal_value", "must be greater than zero")
	}
	return nil
}

// UpdateDetails edits the descriptive fields. The value and agent are frozen
// once commission has been calculated.
func (d *Deal) UpdateDetails(title string, dealValue decimal.Decimal, agentID *uuid.UUID, notes string) error {
	if d.CommissionCalculated && (!dealValue.Equal(d.DealValue) || !sameID(agentID, d.AgentID)) {
		return shared.NewDomainError(shared.CodeInvalidState, "deal value and agent cannot change after commission is calculated")
	}
	prev := *d
	d.Title = strings.TrimSpace(title)
	d.DealValue = dealValue
	d.AgentID = agentID
	d.Notes = strings.TrimSpace(notes)
	if err := d.validate(); err != nil {
		*d = prev
		return err
	}
	d.IncrementVersion()
	return nil
}

// ChangeStatus moves the deal to status. d must hold the persisted state, so
// the transition is checked against what is stored. agent is the assigned
// agent, or nil when none is assigned. On error the deal is unchanged.
func (d *Deal) ChangeStatus(status DealStatus, agent *Agent, at time.Time) error {
	if err := dealStates.Validate(d.Status, status); err != nil {
		return err
	}
	if status == d.Status {
		return nil
	}

	if d.AgentID != nil && agent != nil && agent.ID == *d.AgentID &&
		!d.CommissionCalculated && agent.Commission.Trigger.FiresOn(status) {
		amount, err := agent.Commission.Compute(d.DealValue)
		if err != nil {
			return err
		}
		d.CommissionAmount = amount
		d.CommissionCalculated = true
	}

	d.Status = status
	if status == DealStatusConverted {
		closed := at
		d.ClosedAt = &closed
	}
	d.IncrementVersion()
	return nil
}

// IsTerminal reports whether no further status change is possible
func (d *Deal) IsTerminal() bool {
	return dealStates.IsTerminal(d.Status)
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
