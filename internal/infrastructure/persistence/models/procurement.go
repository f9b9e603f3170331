package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyModel is the persistence model for the Party aggregate root.
type PartyModel struct {
	TenantAggregateModel
	SoftDeleteModel
	Name          string               `gorm:"type:varchar(200);not null"`
	GSTIN         string               `gorm:"column:gstin;type:varchar(15)"`
	ContactPerson string               `gorm:"type:varchar(100)"`
	Phone         string               `gorm:"type:varchar(20)"`
	Email         string               `gorm:"type:varchar(100)"`
	Locations     []PartyLocationModel `gorm:"foreignKey:PartyID;references:ID"`
}

// TableName returns the table name for GORM
func (PartyModel) TableName() string {
	return "parties"
}

// ToDomain converts the persistence model to a domain Party entity.
func (m *PartyModel) ToDomain() *procurement.Party {
	p := &procurement.Party{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Name:                m.Name,
		GSTIN:               valueobject.RestoreGSTIN(m.GSTIN),
		ContactPerson:       m.ContactPerson,
		Phone:               m.Phone,
		Email:               m.Email,
		Locations:           make([]procurement.PartyLocation, len(m.Locations)),
	}
	for i := range m.Locations {
		p.Locations[i] = m.Locations[i].ToDomain()
	}
	return p
}

// PartyModelFromDomain creates a persistence model from a domain Party entity.
// Locations are saved separately.
func PartyModelFromDomain(p *procurement.Party) *PartyModel {
	m := &PartyModel{
		Name:          p.Name,
		GSTIN:         p.GSTIN.String(),
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.FromDomainSoftDelete(p.SoftDelete)
	return m
}

// PartyLocationModel is the persistence model for a party's address.
type PartyLocationModel struct {
	ChildModel
	PartyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label   string    `gorm:"type:varchar(100)"`
	AddressColumns
	IsPrimary bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PartyLocationModel) TableName() string {
	return "party_locations"
}

// ToDomain converts the persistence model to a domain PartyLocation.
func (m *PartyLocationModel) ToDomain() procurement.PartyLocation {
	return procurement.PartyLocation{
		BaseEntity: m.BaseModel.ToDomain(),
		SoftDelete: m.ToDomainSoftDelete(),
		PartyID:    m.PartyID,
		Label:      m.Label,
		Address:    m.ToAddress(),
		IsPrimary:  m.IsPrimary,
	}
}

// PartyLocationModelFromDomain creates a persistence model for one location of a tenant's party.
func PartyLocationModelFromDomain(tenantID uuid.UUID, l *procurement.PartyLocation) *PartyLocationModel {
	m := &PartyLocationModel{
		PartyID:        l.PartyID,
		Label:          l.Label,
		AddressColumns: AddressColumnsFrom(l.Address),
		IsPrimary:      l.IsPrimary,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	m.TenantID = tenantID
	m.FromDomainSoftDelete(l.SoftDelete)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	TenantAggregateModel
	SoftDeleteModel
	OrderNumber  string    `gorm:"type:varchar(50);not null;index"`
	PartyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDate    time.Time `gorm:"not null"`
	ExpectedDate *time.Time
	Status       procurement.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Items        []PurchaseOrderItemModel        `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Amount       decimal.Decimal                 `gorm:"type:decimal(18,2);not null;default:0"`
	Notes        string                          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	po := &procurement.PurchaseOrder{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		OrderNumber:         m.OrderNumber,
		PartyID:             m.PartyID,
		OrderDate:           m.OrderDate,
		ExpectedDate:        m.ExpectedDate,
		Status:              m.Status,
		Amount:              m.Amount,
		Notes:               m.Notes,
		Items:               make([]procurement.PurchaseOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		po.Items[i] = m.Items[i].ToDomain()
	}
	return po
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder entity.
// Items are saved separately.
func PurchaseOrderModelFromDomain(po *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:  po.OrderNumber,
		PartyID:      po.PartyID,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		Status:       po.Status,
		Amount:       po.Amount,
		Notes:        po.Notes,
	}
	m.FromDomainTenantAggregateRoot(po.TenantAggregateRoot)
	m.FromDomainSoftDelete(po.SoftDelete)
	return m
}

// PurchaseOrderItemModel is the persistence model for a purchase order line.
type PurchaseOrderItemModel struct {
	ChildModel
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description     string          `gorm:"type:varchar(500);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem.
func (m *PurchaseOrderItemModel) ToDomain() procurement.PurchaseOrderItem {
	return procurement.PurchaseOrderItem{
		BaseEntity:      m.BaseModel.ToDomain(),
		SoftDelete:      m.ToDomainSoftDelete(),
		PurchaseOrderID: m.PurchaseOrderID,
		Description:     m.Description,
		Quantity:        m.Quantity,
		Rate:            m.Rate,
		TaxPercent:      m.TaxPercent,
		Amount:          m.Amount,
	}
}

// PurchaseOrderItemModelFromDomain creates a persistence model for one order line.
func PurchaseOrderItemModelFromDomain(tenantID uuid.UUID, item *procurement.PurchaseOrderItem) *PurchaseOrderItemModel {
	m := &PurchaseOrderItemModel{
		PurchaseOrderID: item.PurchaseOrderID,
		Description:     item.Description,
		Quantity:        item.Quantity,
		Rate:            item.Rate,
		TaxPercent:      item.TaxPercent,
		Amount:          item.Amount,
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	m.TenantID = tenantID
	m.FromDomainSoftDelete(item.SoftDelete)
	return m
}

// GRNModel is the persistence model for the GRN aggregate root.
// An order has at most one GRN, deleted or not.
type GRNModel struct {
	TenantAggregateModel
	SoftDeleteModel
	GRNNumber       string                    `gorm:"column:grn_number;type:varchar(50);not null;index"`
	PurchaseOrderID uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex"`
	ReceivedDate    time.Time                 `gorm:"not null"`
	ReceiptStatus   procurement.ReceiptStatus `gorm:"type:varchar(20);not null"`
	Status          procurement.GRNStatus     `gorm:"type:varchar(20);not null;default:'submitted'"`
	Remarks         string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GRNModel) TableName() string {
	return "grns"
}

// ToDomain converts the persistence model to a domain GRN entity.
func (m *GRNModel) ToDomain() *procurement.GRN {
	return &procurement.GRN{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		GRNNumber:           m.GRNNumber,
		PurchaseOrderID:     m.PurchaseOrderID,
		ReceivedDate:        m.ReceivedDate,
		ReceiptStatus:       m.ReceiptStatus,
		Status:              m.Status,
		Remarks:             m.Remarks,
	}
}

// GRNModelFromDomain creates a persistence model from a domain GRN entity.
func GRNModelFromDomain(g *procurement.GRN) *GRNModel {
	m := &GRNModel{
		GRNNumber:       g.GRNNumber,
		PurchaseOrderID: g.PurchaseOrderID,
		ReceivedDate:    g.ReceivedDate,
		ReceiptStatus:   g.ReceiptStatus,
		Status:          g.Status,
		Remarks:         g.Remarks,
	}
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	m.FromDomainSoftDelete(g.SoftDelete)
	return m
}
