package billing

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMode is how a receipt was paid
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeBank   PaymentMode = "bank_transfer"
	PaymentModeCheque PaymentMode = "cheque"
	PaymentModeUPI    PaymentMode = "upi"
)

// IsValid checks if the payment mode is known
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBank, PaymentModeCheque, PaymentModeUPI:
		return true
	}
	return false
}

// Receipt records money received from a client, net of TDS.
type Receipt struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	ReceiptNumber     string
	ClientID          uuid.UUID
	InvoiceID         *uuid.UUID
	ReceiptDate       time.Time
	PaymentMode       PaymentMode
	Reference         string
	Amount            decimal.Decimal
	TDSPercent        decimal.Decimal
	TDSAmount         decimal.Decimal
	NetAmount         decimal.Decimal
	UnallocatedAmount decimal.Decimal
}

// NewReceipt computes TDS and the net amount. A zero tdsPercent means TDS does not apply.
// The whole net amount starts unallocated.
func NewReceipt(tenantID, clientID uuid.UUID, invoiceID *uuid.UUID, date time.Time, mode PaymentMode, reference string, amount, tdsPercent decimal.Decimal) (*Receipt, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount", "must be greater than zero")
	}
	if tdsPercent.IsNegative() || tdsPercent.GreaterThan(percentScale) {
		return nil, shared.NewValidationError("tds_percentage", "must be between 0 and 100")
	}
	if !mode.IsValid() {
		return nil, shared.NewValidationError("payment_mode", "unknown payment mode")
	}
	tds := amount.Mul(tdsPercent).Div(percentScale).Round(2)
	net := amount.Sub(tds)
	return &Receipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		InvoiceID:           invoiceID,
		ReceiptDate:         date,
		PaymentMode:         mode,
		Reference:           strings.TrimSpace(reference),
		Amount:              amount,
		TDSPercent:          tdsPercent,
		TDSAmount:           tds,
		NetAmount:           net,
		UnallocatedAmount:   net,
	}, nil
}

// AssignNumber sets the document number once
func (r *Receipt) AssignNumber(number string) error {
	if r.ReceiptNumber != "" {
		return shared.NewDomainError(shared.CodeInvalidState, "receipt is already numbered")
	}
	r.ReceiptNumber = number
	return nil
}
