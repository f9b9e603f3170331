package procurement

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft    PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent     PurchaseOrderStatus = "sent"
	PurchaseOrderStatusAccepted PurchaseOrderStatus = "accepted"
)

// EntityPurchaseOrder names purchase orders in transition errors
const EntityPurchaseOrder = "purchase_order"

var purchaseOrderStates = shared.MustStateMachine(EntityPurchaseOrder, PurchaseOrderStatusDraft, map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderStatusDraft:    {PurchaseOrderStatusSent},
	PurchaseOrderStatusSent:     {PurchaseOrderStatusAccepted},
	PurchaseOrderStatusAccepted: {},
})

// PurchaseOrderStates returns the purchase order transition graph
func PurchaseOrderStates() *shared.StateMachine[PurchaseOrderStatus] {
	return purchaseOrderStates
}

// IsValid checks if the status is a declared purchase order status
func (s PurchaseOrderStatus) IsValid() bool {
	return purchaseOrderStates.IsValid(s)
}

// String returns the string representation
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

var hundred = decimal.NewFromInt(100)

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	shared.BaseEntity
	shared.SoftDelete
	PurchaseOrderID uuid.UUID
	Description     string
	Quantity        decimal.Decimal
	Rate            decimal.Decimal
	TaxPercent      decimal.Decimal
	Amount          decimal.Decimal
}

// ItemInput describes a purchase order line to add
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	TaxPercent  decimal.Decimal
}

// LineAmount is qty*rate plus tax on it, rounded to paise
func LineAmount(qty, rate, taxPercent decimal.Decimal) decimal.Decimal {
	base := qty.Mul(rate)
	return base.Add(base.Mul(taxPercent).Div(hundred)).Round(2)
}

func newPurchaseOrderItem(orderID uuid.UUID, in ItemInput) (PurchaseOrderItem, error) {
	desc := strings.TrimSpace(in.Description)
	switch {
	case desc == "":
		return PurchaseOrderItem{}, shared.NewValidationError("items.description", "is required")
	case !in.Quantity.IsPositive():
		return PurchaseOrderItem{}, shared.NewValidationError("items.quantity", "must be greater than zero")
	case in.Rate.IsNegative():
		return PurchaseOrderItem{}, shared.NewValidationError("items.rate", "cannot be negative")
	case in.TaxPercent.IsNegative() || in.TaxPercent.GreaterThan(hundred):
		return PurchaseOrderItem{}, shared.NewValidationError("items.tax", "must be between 0 and 100")
	}
	return PurchaseOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: orderID,
		Description:     desc,
		Quantity:        in.Quantity,
		Rate:            in.Rate,
		TaxPercent:      in.TaxPercent,
		Amount:          LineAmount(in.Quantity, in.Rate, in.TaxPercent),
	}, nil
}

// PurchaseOrder is an order placed with a vendor party.
// Only draft orders can be edited or deleted.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	OrderNumber  string
	PartyID      uuid.UUID
	OrderDate    time.Time
	ExpectedDate *time.Time
	Status       PurchaseOrderStatus
	Items        []PurchaseOrderItem
	Amount       decimal.Decimal
	Notes        string
}

// NewPurchaseOrder creates an unnumbered draft order with its items.
func NewPurchaseOrder(tenantID, partyID uuid.UUID, orderDate time.Time, items []ItemInput) (*PurchaseOrder, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewValidationError("party_id", "is required")
	}
	if orderDate.IsZero() {
		return nil, shared.NewValidationError("order_date", "is required")
	}
	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PartyID:             partyID,
		OrderDate:           orderDate,
		Status:              purchaseOrderStates.Initial(),
	}
	if err := po.setItems(items); err != nil {
		return nil, err
	}
	return po, nil
}

func (po *PurchaseOrder) setItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return shared.NewValidationError("items", "at least one item is required")
	}
	items := make([]PurchaseOrderItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := newPurchaseOrderItem(po.ID, in)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	po.Items = items
	po.recalculate()
	return nil
}

func (po *PurchaseOrder) recalculate() {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.Amount)
	}
	po.Amount = total
}

// AssignNumber sets the document number once
func (po *PurchaseOrder) AssignNumber(number string) error {
	if po.OrderNumber != "" {
		return shared.NewDomainError(shared.CodeInvalidState, "purchase order is already numbered")
	}
	if strings.TrimSpace(number) == "" {
		return shared.NewValidationError("po_number", "is required")
	}
	po.OrderNumber = number
	return nil
}

// IsDraft reports whether the order can still be edited
func (po *PurchaseOrder) IsDraft() bool {
	return po.Status == PurchaseOrderStatusDraft
}

func (po *PurchaseOrder) requireDraft(action string) error {
	if !po.IsDraft() {
		return shared.NewDomainError(shared.CodeInvalidState, "only draft purchase orders can be "+action)
	}
	return nil
}

// Update replaces the order's details and items. Draft only.
func (po *PurchaseOrder) Update(partyID uuid.UUID, orderDate time.Time, expected *time.Time, notes string, items []ItemInput) error {
	if err := po.requireDraft("updated"); err != nil {
		return err
	}
	if partyID == uuid.Nil {
		return shared.NewValidationError("party_id", "is required")
	}
	prevItems, prevAmount := po.Items, po.Amount
	if err := po.setItems(items); err != nil {
		po.Items, po.Amount = prevItems, prevAmount
		return err
	}
	po.PartyID = partyID
	if !orderDate.IsZero() {
		po.OrderDate = orderDate
	}
	po.ExpectedDate = expected
	po.Notes = strings.TrimSpace(notes)
	po.IncrementVersion()
	return nil
}

// CheckDeletable fails unless the order is a draft
func (po *PurchaseOrder) CheckDeletable() error {
	return po.requireDraft("deleted")
}

// ChangeStatus moves the order along draft -> sent -> accepted. po must hold
// the persisted state.
func (po *PurchaseOrder) ChangeStatus(status PurchaseOrderStatus) error {
	if err := purchaseOrderStates.Validate(po.Status, status); err != nil {
		return err
	}
	if status == po.Status {
		return nil
	}
	po.Status = status
	po.IncrementVersion()
	return nil
}

// IsAccepted reports whether goods can be received against the order
func (po *PurchaseOrder) IsAccepted() bool {
	return po.Status == PurchaseOrderStatusAccepted
}
