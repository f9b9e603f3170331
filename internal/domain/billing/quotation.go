package billing

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationItem is a quoted line; amount is quantity times rate
type QuotationItem struct {
	shared.BaseEntity
	shared.SoftDelete
	QuotationID uuid.UUID
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// QuotationItemInput describes a line to quote
type QuotationItemInput struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// Quotation is a priced offer to a client, later billed as a GST invoice.
type Quotation struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	QuotationNumber string
	ClientID        uuid.UUID
	QuotationDate   time.Time
	ValidUntil      *time.Time
	Items           []QuotationItem
	SubTotal        decimal.Decimal
	Notes           string
}

// NewQuotation creates an unnumbered quotation
func NewQuotation(tenantID, clientID uuid.UUID, date time.Time, items []QuotationItemInput) (*Quotation, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "is required")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("items", "at least one item is required")
	}
	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		QuotationDate:       date,
	}
	total := decimal.Zero
	for _, in := range items {
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			return nil, shared.NewValidationError("items.description", "is required")
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewValidationError("items.quantity", "must be greater than zero")
		}
		if in.Rate.IsNegative() {
			return nil, shared.NewValidationError("items.rate", "cannot be negative")
		}
		amount := in.Quantity.Mul(in.Rate).Round(2)
		q.Items = append(q.Items, QuotationItem{
			BaseEntity:  shared.NewBaseEntity(),
			QuotationID: q.ID,
			Description: desc,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			Amount:      amount,
		})
		total = total.Add(amount)
	}
	q.SubTotal = total
	return q, nil
}

// AssignNumber sets the document number once
func (q *Quotation) AssignNumber(number string) error {
	if q.QuotationNumber != "" {
		return shared.NewDomainError(shared.CodeInvalidState, "quotation is already numbered")
	}
	q.QuotationNumber = number
	return nil
}
