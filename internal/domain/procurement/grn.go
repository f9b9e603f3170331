package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceiptStatus records how much of an order was received
type ReceiptStatus string

const (
	ReceiptFully     ReceiptStatus = "fully"
	ReceiptPartially ReceiptStatus = "partially"
	ReceiptRejected  ReceiptStatus = "rejected"
)

// IsValid checks if the receipt status is known
func (s ReceiptStatus) IsValid() bool {
	return s == ReceiptFully || s == ReceiptPartially || s == ReceiptRejected
}

// GRNStatus is the lifecycle state of a goods received note
type GRNStatus string

const (
	GRNStatusSubmitted GRNStatus = "submitted"
	GRNStatusSent      GRNStatus = "sent"
)

// EntityGRN names GRNs in transition errors
const EntityGRN = "grn"

var grnStates = shared.MustStateMachine(EntityGRN, GRNStatusSubmitted, map[GRNStatus][]GRNStatus{
	GRNStatusSubmitted: {GRNStatusSent},
	GRNStatusSent:      {},
})

// GRNStates returns the GRN transition graph
func GRNStates() *shared.StateMachine[GRNStatus] {
	return grnStates
}

// GRN is a goods received note raised against an accepted purchase order.
// Each order has at most one.
type GRN struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	GRNNumber       string
	PurchaseOrderID uuid.UUID
	ReceivedDate    time.Time
	ReceiptStatus   ReceiptStatus
	Status          GRNStatus
	Remarks         string
}

// NewGRN creates a submitted GRN for po, which must be accepted.
func NewGRN(po *PurchaseOrder, receivedDate time.Time, receipt ReceiptStatus, remarks string) (*GRN, error) {
	if po == nil {
		return nil, shared.NewValidationError("purchase_order_id", "is required")
	}
	if !po.IsAccepted() {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("GRN can only be created for accepted purchase orders, order %s is %s", po.OrderNumber, po.Status))
	}
	if !receipt.IsValid() {
		return nil, shared.NewValidationError("status", fmt.Sprintf("unknown receipt status %q", receipt))
	}
	if receivedDate.IsZero() {
		return nil, shared.NewValidationError("received_date", "is required")
	}
	return &GRN{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(po.TenantID),
		PurchaseOrderID:     po.ID,
		ReceivedDate:        receivedDate,
		ReceiptStatus:       receipt,
		Status:              grnStates.Initial(),
		Remarks:             strings.TrimSpace(remarks),
	}, nil
}

// AssignNumber sets the document number once
func (g *GRN) AssignNumber(number string) error {
	if g.GRNNumber != "" {
		return shared.NewDomainError(shared.CodeInvalidState, "GRN is already numbered")
	}
	g.GRNNumber = number
	return nil
}

// Update edits a submitted GRN
func (g *GRN) Update(receivedDate time.Time, receipt ReceiptStatus, remarks string) error {
	if g.Status != GRNStatusSubmitted {
		return shared.NewDomainError(shared.CodeInvalidState, "GRN has already been sent and cannot be updated")
	}
	if !receipt.IsValid() {
		return shared.NewValidationError("status", fmt.Sprintf("unknown receipt status %q", receipt))
	}
	if !receivedDate.IsZero() {
		g.ReceivedDate = receivedDate
	}
	g.ReceiptStatus = receipt
	g.Remarks = strings.TrimSpace(remarks)
	g.IncrementVersion()
	return nil
}

// Send moves the GRN to sent. Sending twice is rejected.
func (g *GRN) Send() error {
	if g.Status == GRNStatusSent {
		return &shared.InvalidTransitionError{Entity: EntityGRN, From: string(g.Status), To: string(GRNStatusSent)}
	}
	if err := grnStates.Validate(g.Status, GRNStatusSent); err != nil {
		return err
	}
	g.Status = GRNStatusSent
	g.IncrementVersion()
	return nil
}
