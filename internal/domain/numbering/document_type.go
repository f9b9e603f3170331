// Package numbering issues per-tenant, per-fiscal-year document numbers.
package numbering

import "strings"

// DocumentType tags the kind of document a sequence numbers.
type DocumentType string

const (
	DocumentTypeInvoice         DocumentType = "invoice"
	DocumentTypeQuotation       DocumentType = "quotation"
	DocumentTypeReceipt         DocumentType = "receipt"
	DocumentTypeDutySlip        DocumentType = "duty_slip"
	DocumentTypeCreditNote      DocumentType = "credit_note"
	DocumentTypeDebitNote       DocumentType = "debit_note"
	DocumentTypeBooking         DocumentType = "booking"
	DocumentTypePayment         DocumentType = "payment"
	DocumentTypePayout          DocumentType = "payout"
	DocumentTypePurchaseOrder   DocumentType = "purchase_order"
	DocumentTypeVendorBill      DocumentType = "vendor_bill"
	DocumentTypeProformaInvoice DocumentType = "proforma_invoice"
	DocumentTypeGRN             DocumentType = "grn"
	DocumentTypeEmployee        DocumentType = "employee"
)

var documentTypes = []DocumentType{
	DocumentTypeInvoice,
	DocumentTypeQuotation,
	DocumentTypeReceipt,
	DocumentTypeDutySlip,
	DocumentTypeCreditNote,
	DocumentTypeDebitNote,
	DocumentTypeBooking,
	DocumentTypePayment,
	DocumentTypePayout,
	DocumentTypePurchaseOrder,
	DocumentTypeVendorBill,
	DocumentTypeProformaInvoice,
	DocumentTypeGRN,
	DocumentTypeEmployee,
}

// AllDocumentTypes returns every known document type
func AllDocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	for _, dt := range documentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// String returns the string representation
func (t DocumentType) String() string {
	return string(t)
}

// Tag returns the upper-cased tag used by the {DOC} placeholder
func (t DocumentType) Tag() string {
	return strings.ToUpper(string(t))
}

// defaultPrefixes are the conventional short prefixes per document type,
// used when a sequence is created lazily without a configured prefix.
var defaultPrefixes = map[DocumentType]string{
	DocumentTypeInvoice:         "INV",
	DocumentTypeQuotation:       "QT",
	DocumentTypeReceipt:         "RCPT",
	DocumentTypeDutySlip:        "DS",
	DocumentTypeCreditNote:      "CN",
	DocumentTypeDebitNote:       "DN",
	DocumentTypeBooking:         "BK",
	DocumentTypePayment:         "PAY",
	DocumentTypePayout:          "PO-OUT",
	DocumentTypePurchaseOrder:   "PO",
	DocumentTypeVendorBill:      "VB",
	DocumentTypeProformaInvoice: "PI",
	DocumentTypeGRN:             "GRN",
	DocumentTypeEmployee:        "EMP",
}

// DefaultPrefix returns the conventional prefix for t, falling back to {DOC}.
func (t DocumentType) DefaultPrefix() string {
	if p, ok := defaultPrefixes[t]; ok {
		return p
	}
	return PlaceholderDoc
}
