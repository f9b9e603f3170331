package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	TenantAggregateModel
	SoftDeleteModel
	Name      string                `gorm:"type:varchar(200);not null"`
	GSTIN     string                `gorm:"column:gstin;type:varchar(15)"`
	Email     string                `gorm:"type:varchar(100)"`
	Phone     string                `gorm:"type:varchar(20)"`
	Locations []ClientLocationModel `gorm:"foreignKey:ClientID;references:ID"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *billing.Client {
	c := &billing.Client{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Name:                m.Name,
		GSTIN:               valueobject.RestoreGSTIN(m.GSTIN),
		Email:               m.Email,
		Phone:               m.Phone,
		Locations:           make([]billing.ClientLocation, len(m.Locations)),
	}
	for i := range m.Locations {
		c.Locations[i] = m.Locations[i].ToDomain()
	}
	return c
}

// ClientModelFromDomain creates a persistence model from a domain Client entity.
func ClientModelFromDomain(c *billing.Client) *ClientModel {
	m := &ClientModel{
		Name:  c.Name,
		GSTIN: c.GSTIN.String(),
		Email: c.Email,
		Phone: c.Phone,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.FromDomainSoftDelete(c.SoftDelete)
	return m
}

// ClientLocationModel is the persistence model for a client's address.
type ClientLocationModel struct {
	ChildModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label    string    `gorm:"type:varchar(100)"`
	AddressColumns
	IsPrimary bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ClientLocationModel) TableName() string {
	return "client_locations"
}

// ToDomain converts the persistence model to a domain ClientLocation.
func (m *ClientLocationModel) ToDomain() billing.ClientLocation {
	return billing.ClientLocation{
		BaseEntity: m.BaseModel.ToDomain(),
		SoftDelete: m.ToDomainSoftDelete(),
		ClientID:   m.ClientID,
		Label:      m.Label,
		Address:    m.ToAddress(),
		IsPrimary:  m.IsPrimary,
	}
}

// ClientLocationModelFromDomain creates a persistence model for one client location.
func ClientLocationModelFromDomain(tenantID uuid.UUID, l *billing.ClientLocation) *ClientLocationModel {
	m := &ClientLocationModel{
		ClientID:       l.ClientID,
		Label:          l.Label,
		AddressColumns: AddressColumnsFrom(l.Address),
		IsPrimary:      l.IsPrimary,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	m.TenantID = tenantID
	m.FromDomainSoftDelete(l.SoftDelete)
	return m
}

// QuotationModel is the persistence model for the Quotation aggregate root.
type QuotationModel struct {
	TenantAggregateModel
	SoftDeleteModel
	QuotationNumber string    `gorm:"type:varchar(50);not null;index"`
	ClientID        uuid.UUID `gorm:"type:uuid;not null;index"`
	QuotationDate   time.Time `gorm:"not null"`
	ValidUntil      *time.Time
	Items           []QuotationItemModel `gorm:"foreignKey:QuotationID;references:ID"`
	SubTotal        decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Notes           string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation entity.
func (m *QuotationModel) ToDomain() *billing.Quotation {
	q := &billing.Quotation{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		QuotationNumber:     m.QuotationNumber,
		ClientID:            m.ClientID,
		QuotationDate:       m.QuotationDate,
		ValidUntil:          m.ValidUntil,
		SubTotal:            m.SubTotal,
		Notes:               m.Notes,
		Items:               make([]billing.QuotationItem, len(m.Items)),
	}
	for i := range m.Items {
		q.Items[i] = m.Items[i].ToDomain()
	}
	return q
}

// QuotationModelFromDomain creates a persistence model from a domain Quotation entity.
func QuotationModelFromDomain(q *billing.Quotation) *QuotationModel {
	m := &QuotationModel{
		QuotationNumber: q.QuotationNumber,
		ClientID:        q.ClientID,
		QuotationDate:   q.QuotationDate,
		ValidUntil:      q.ValidUntil,
		SubTotal:        q.SubTotal,
		Notes:           q.Notes,
	}
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.FromDomainSoftDelete(q.SoftDelete)
	return m
}

// QuotationItemModel is the persistence model for a quotation line.
type QuotationItemModel struct {
	ChildModel
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (QuotationItemModel) TableName() string {
	return "quotation_items"
}

// ToDomain converts the persistence model to a domain QuotationItem.
func (m *QuotationItemModel) ToDomain() billing.QuotationItem {
	return billing.QuotationItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		SoftDelete:  m.ToDomainSoftDelete(),
		QuotationID: m.QuotationID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		Amount:      m.Amount,
	}
}

// QuotationItemModelFromDomain creates a persistence model for one quotation line.
func QuotationItemModelFromDomain(tenantID uuid.UUID, item *billing.QuotationItem) *QuotationItemModel {
	m := &QuotationItemModel{
		QuotationID: item.QuotationID,
		Description: item.Description,
		Quantity:    item.Quantity,
		Rate:        item.Rate,
		Amount:      item.Amount,
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	m.TenantID = tenantID
	m.FromDomainSoftDelete(item.SoftDelete)
	return m
}

// GSTInvoiceModel is the persistence model for the GSTInvoice aggregate root.
// Only one active invoice may exist per quotation.
type GSTInvoiceModel struct {
	TenantAggregateModel
	SoftDeleteModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index"`
	QuotationID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_gst_invoice_quotation,where:is_deleted = false"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate   time.Time       `gorm:"not null"`
	SupplierGSTIN string          `gorm:"column:supplier_gstin;type:varchar(15)"`
	CustomerGSTIN string          `gorm:"column:customer_gstin;type:varchar(15)"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InterState    bool            `gorm:"not null;default:false"`
	CGST          decimal.Decimal `gorm:"column:cgst;type:decimal(18,2);not null;default:0"`
	SGST          decimal.Decimal `gorm:"column:sgst;type:decimal(18,2);not null;default:0"`
	IGST          decimal.Decimal `gorm:"column:igst;type:decimal(18,2);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (GSTInvoiceModel) TableName() string {
	return "gst_invoices"
}

// ToDomain converts the persistence model to a domain GSTInvoice entity.
func (m *GSTInvoiceModel) ToDomain() *billing.GSTInvoice {
	return &billing.GSTInvoice{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		InvoiceNumber:       m.InvoiceNumber,
		QuotationID:         m.QuotationID,
		ClientID:            m.ClientID,
		InvoiceDate:         m.InvoiceDate,
		SupplierGSTIN:       valueobject.RestoreGSTIN(m.SupplierGSTIN),
		CustomerGSTIN:       valueobject.RestoreGSTIN(m.CustomerGSTIN),
		SubTotal:            m.SubTotal,
		Tax: billing.TaxBreakup{
			InterState: m.InterState,
			CGST:       m.CGST,
			SGST:       m.SGST,
			IGST:       m.IGST,
		},
		GrandTotal: m.GrandTotal,
	}
}

// GSTInvoiceModelFromDomain creates a persistence model from a domain GSTInvoice entity.
func GSTInvoiceModelFromDomain(inv *billing.GSTInvoice) *GSTInvoiceModel {
	m := &GSTInvoiceModel{
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
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.FromDomainSoftDelete(inv.SoftDelete)
	return m
}

// ReceiptModel is the persistence model for the Receipt aggregate root.
type ReceiptModel struct {
	TenantAggregateModel
	SoftDeleteModel
	ReceiptNumber     string              `gorm:"type:varchar(50);not null;index"`
	ClientID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	InvoiceID         *uuid.UUID          `gorm:"type:uuid;index"`
	ReceiptDate       time.Time           `gorm:"not null"`
	PaymentMode       billing.PaymentMode `gorm:"type:varchar(20);not null"`
	Reference         string              `gorm:"type:varchar(100)"`
	Amount            decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TDSPercent        decimal.Decimal     `gorm:"column:tds_percent;type:decimal(5,2);not null;default:0"`
	TDSAmount         decimal.Decimal     `gorm:"column:tds_amount;type:decimal(18,2);not null;default:0"`
	NetAmount         decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	UnallocatedAmount decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt entity.
func (m *ReceiptModel) ToDomain() *billing.Receipt {
	return &billing.Receipt{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		ReceiptNumber:       m.ReceiptNumber,
		ClientID:            m.ClientID,
		InvoiceID:           m.InvoiceID,
		ReceiptDate:         m.ReceiptDate,
		PaymentMode:         m.PaymentMode,
		Reference:           m.Reference,
		Amount:              m.Amount,
		TDSPercent:          m.TDSPercent,
		TDSAmount:           m.TDSAmount,
		NetAmount:           m.NetAmount,
		UnallocatedAmount:   m.UnallocatedAmount,
	}
}

// ReceiptModelFromDomain creates a persistence model from a domain Receipt entity.
func ReceiptModelFromDomain(r *billing.Receipt) *ReceiptModel {
	m := &ReceiptModel{
		ReceiptNumber:     r.ReceiptNumber,
		ClientID:          r.ClientID,
		InvoiceID:         r.InvoiceID,
		ReceiptDate:       r.ReceiptDate,
		PaymentMode:       r.PaymentMode,
		Reference:         r.Reference,
		Amount:            r.Amount,
		TDSPercent:        r.TDSPercent,
		TDSAmount:         r.TDSAmount,
		NetAmount:         r.NetAmount,
		UnallocatedAmount: r.UnallocatedAmount,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.FromDomainSoftDelete(r.SoftDelete)
	return m
}
