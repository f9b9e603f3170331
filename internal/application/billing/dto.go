package billing

import (
	"time"

	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Client DTOs ====================

// ClientLocationRequest is an address attached to a client
type ClientLocationRequest struct {
	Label   string `json:"label" binding:"max=100"`
	Line1   string `json:"line1" binding:"required,max=200"`
	Line2   string `json:"line2" binding:"max=200"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	Pincode string `json:"pincode" binding:"required,pincode"`
}

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name      string                  `json:"name" binding:"required,min=1,max=200"`
	GSTIN     string                  `json:"gstin" binding:"omitempty,gstin"`
	Email     string                  `json:"email" binding:"omitempty,email"`
	Phone     string                  `json:"phone" binding:"max=20"`
	Locations []ClientLocationRequest `json:"locations" binding:"dive"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	GSTIN     string    `json:"gstin,omitempty"`
	StateCode string    `json:"state_code,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Addresses []string  `json:"addresses"`
	CreatedAt time.Time `json:"created_at"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *billing.Client) ClientResponse {
	addrs := make([]string, 0, len(c.Locations))
	for _, l := range c.Locations {
		if !l.IsDeleted() {
			addrs = append(addrs, l.Address.String())
		}
	}
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		GSTIN:     c.GSTIN.String(),
		StateCode: c.GSTIN.StateCode(),
		Email:     c.Email,
		Phone:     c.Phone,
		Addresses: addrs,
		CreatedAt: c.CreatedAt,
	}
}

// ==================== Quotation DTOs ====================

// QuotationItemRequest is one quoted line
type QuotationItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate"`
}

// CreateQuotationRequest creates a numbered quotation
type CreateQuotationRequest struct {
	ClientID      uuid.UUID              `json:"client_id" binding:"required"`
	QuotationDate time.Time              `json:"quotation_date"`
	ValidUntil    *time.Time             `json:"valid_until"`
	Notes         string                 `json:"notes" binding:"max=2000"`
	Items         []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`
}

// QuotationItemResponse is a quoted line in API responses
type QuotationItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID              uuid.UUID               `json:"id"`
	QuotationNumber string                  `json:"quotation_number"`
	ClientID        uuid.UUID               `json:"client_id"`
	QuotationDate   time.Time               `json:"quotation_date"`
	ValidUntil      *time.Time              `json:"valid_until,omitempty"`
	Items           []QuotationItemResponse `json:"items"`
	SubTotal        decimal.Decimal         `json:"sub_total"`
	Notes           string                  `json:"notes,omitempty"`
}

// ToQuotationResponse converts a domain Quotation to QuotationResponse
func ToQuotationResponse(q *billing.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		if it.IsDeleted() {
			continue
		}
		items = append(items, QuotationItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
		})
	}
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		ClientID:        q.ClientID,
		QuotationDate:   q.QuotationDate,
		ValidUntil:      q.ValidUntil,
		Items:           items,
		SubTotal:        q.SubTotal,
		Notes:           q.Notes,
	}
}

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest bills a quotation
type CreateInvoiceRequest struct {
	InvoiceDate time.Time `json:"invoice_date"`
}

// InvoiceResponse represents a GST invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	QuotationID   uuid.UUID       `json:"quotation_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	SupplierGSTIN string          `json:"supplier_gstin,omitempty"`
	CustomerGSTIN string          `json:"customer_gstin,omitempty"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	InterState    bool            `json:"inter_state"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// ToInvoiceResponse converts a domain GSTInvoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.GSTInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		QuotationID:   inv.QuotationID,
		ClientID:      inv.ClientID,
		InvoiceDate:   inv.InvoiceDate,
		SupplierGSTIN: inv.SupplierGSTIN.String(),
		CustomerGSTIN: inv.CustomerGSTIN.String(),
		SubTotal:      inv.SubTotal,
		InterState:    inv.Tax.InterState,
		CGST:          inv.Tax.CGST,
		SGST:          inv.Tax.SGST,
		IGST:          inv.Tax.IGST,
		GrandTotal:    inv.GrandTotal,
	}
}

// ==================== Receipt DTOs ====================

// CreateReceiptRequest records a payment from a client
type CreateReceiptRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	InvoiceID     *uuid.UUID      `json:"invoice_id"`
	ReceiptDate   time.Time       `json:"receipt_date"`
	PaymentMode   string          `json:"payment_mode" binding:"required,oneof=cash bank_transfer cheque upi"`
	Reference     string          `json:"reference" binding:"max=100"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	TDSPercentage decimal.Decimal `json:"tds_percentage"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID                uuid.UUID       `json:"id"`
	ReceiptNumber     string          `json:"receipt_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	InvoiceID         *uuid.UUID      `json:"invoice_id,omitempty"`
	ReceiptDate       time.Time       `json:"receipt_date"`
	PaymentMode       string          `json:"payment_mode"`
	Reference         string          `json:"reference,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	TDSPercentage     decimal.Decimal `json:"tds_percentage"`
	TDSAmount         decimal.Decimal `json:"tds_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
}

// ToReceiptResponse converts a domain Receipt to ReceiptResponse
func ToReceiptResponse(r *billing.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:                r.ID,
		ReceiptNumber:     r.ReceiptNumber,
		ClientID:          r.ClientID,
		InvoiceID:         r.InvoiceID,
		ReceiptDate:       r.ReceiptDate,
		PaymentMode:       string(r.PaymentMode),
		Reference:         r.Reference,
		Amount:            r.Amount,
		TDSPercentage:     r.TDSPercent,
		TDSAmount:         r.TDSAmount,
		NetAmount:         r.NetAmount,
		UnallocatedAmount: r.UnallocatedAmount,
	}
}
