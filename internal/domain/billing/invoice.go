package billing

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GST rates applied to invoices
var (
	GSTRate      = decimal.NewFromInt(18)
	HalfGSTRate  = decimal.NewFromInt(9)
	percentScale = decimal.NewFromInt(100)
)

// TaxBreakup is the GST split of a taxable amount
type TaxBreakup struct {
	InterState bool
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
}

// Total returns the sum of all tax components
func (t TaxBreakup) Total() decimal.Decimal {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// ComputeGST splits 18% GST on taxable. Supplies between different states
// carry IGST; supplies within a state carry CGST and SGST at 9% each. When
// either registration is unknown the supply is treated as intra-state.
func ComputeGST(taxable decimal.Decimal, supplier, customer valueobject.GSTIN) TaxBreakup {
	interState := !supplier.IsZero() && !customer.IsZero() && !supplier.SameState(customer)
	if interState {
		return TaxBreakup{
			InterState: true,
			IGST:       taxable.Mul(GSTRate).Div(percentScale).Round(2),
		}
	}
	half := taxable.Mul(HalfGSTRate).Div(percentScale).Round(2)
	return TaxBreakup{CGST: half, SGST: half}
}

// GSTInvoice is a tax invoice raised from a quotation
type GSTInvoice struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	InvoiceNumber string
	QuotationID   uuid.UUID
	ClientID      uuid.UUID
	InvoiceDate   time.Time
	SupplierGSTIN valueobject.GSTIN
	CustomerGSTIN valueobject.GSTIN
	SubTotal      decimal.Decimal
	Tax           TaxBreakup
	GrandTotal    decimal.Decimal
}

// NewGSTInvoice bills a quotation to its client. Taxes are fixed at creation.
func NewGSTInvoice(q *Quotation, client *Client, supplier valueobject.GSTIN, invoiceDate time.Time) (*GSTInvoice, error) {
	if q == nil || client == nil {
		return nil, shared.NewValidationError("quotation_id", "quotation and client are required")
	}
	if q.ClientID != client.ID {
		return nil, shared.NewValidationError("client_id", "quotation belongs to a different client")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	tax := ComputeGST(q.SubTotal, supplier, client.GSTIN)
	return &GSTInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(q.TenantID),
		QuotationID:         q.ID,
		ClientID:            client.ID,
		InvoiceDate:         invoiceDate,
		SupplierGSTIN:       supplier,
		CustomerGSTIN:       client.GSTIN,
		SubTotal:            q.SubTotal,
		Tax:                 tax,
		GrandTotal:          q.SubTotal.Add(tax.Total()),
	}, nil
}

// AssignNumber sets the document number once
func (inv *GSTInvoice) AssignNumber(number string) error {
	if inv.InvoiceNumber != "" {
		return shared.NewDomainError(shared.CodeInvalidState, "invoice is already numbered")
	}
	inv.InvoiceNumber = number
	return nil
}
