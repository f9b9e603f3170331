package procurement

import (
	"time"

	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Party DTOs ====================

// LocationRequest is an address attached to a party
type LocationRequest struct {
	Label   string `json:"label" binding:"max=100"`
	Line1   string `json:"line1" binding:"required,max=200"`
	Line2   string `json:"line2" binding:"max=200"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	Pincode string `json:"pincode" binding:"required,pincode"`
}

// CreatePartyRequest represents a request to create a vendor party
type CreatePartyRequest struct {
	Name          string            `json:"name" binding:"required,min=1,max=200"`
	GSTIN         string            `json:"gstin" binding:"omitempty,gstin"`
	ContactPerson string            `json:"contact_person" binding:"max=100"`
	Phone         string            `json:"phone" binding:"max=20"`
	Email         string            `json:"email" binding:"omitempty,email"`
	Locations     []LocationRequest `json:"locations" binding:"dive"`
}

// LocationResponse represents a party location in API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label,omitempty"`
	Address   string    `json:"address"`
	State     string    `json:"state"`
	IsPrimary bool      `json:"is_primary"`
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	GSTIN         string             `json:"gstin,omitempty"`
	ContactPerson string             `json:"contact_person,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Email         string             `json:"email,omitempty"`
	Locations     []LocationResponse `json:"locations"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToPartyResponse converts a domain Party to PartyResponse
func ToPartyResponse(p *procurement.Party) PartyResponse {
	active := p.ActiveLocations()
	locs := make([]LocationResponse, len(active))
	for i, l := range active {
		locs[i] = LocationResponse{
			ID:        l.ID,
			Label:     l.Label,
			Address:   l.Address.String(),
			State:     l.Address.State(),
			IsPrimary: l.IsPrimary,
		}
	}
	return PartyResponse{
		ID:            p.ID,
		Name:          p.Name,
		GSTIN:         p.GSTIN.String(),
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
		Locations:     locs,
		CreatedAt:     p.CreatedAt,
	}
}

// ==================== Purchase Order DTOs ====================

// ItemRequest is one purchase order line
type ItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate"`
	TaxPercent  decimal.Decimal `json:"tax"`
}

func toItemInputs(items []ItemRequest) []procurement.ItemInput {
	out := make([]procurement.ItemInput, len(items))
	for i, it := range items {
		out[i] = procurement.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			TaxPercent:  it.TaxPercent,
		}
	}
	return out
}

// CreatePurchaseOrderRequest creates a draft order with its items
type CreatePurchaseOrderRequest struct {
	PartyID      uuid.UUID     `json:"party_id" binding:"required"`
	OrderDate    time.Time     `json:"order_date" binding:"required"`
	ExpectedDate *time.Time    `json:"expected_date"`
	Notes        string        `json:"notes" binding:"max=2000"`
	Items        []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest replaces a draft order's details and items
type UpdatePurchaseOrderRequest struct {
	PartyID      uuid.UUID     `json:"party_id" binding:"required"`
	OrderDate    time.Time     `json:"order_date"`
	ExpectedDate *time.Time    `json:"expected_date"`
	Notes        string        `json:"notes" binding:"max=2000"`
	Items        []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ChangeStatusRequest moves an order to another status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PurchaseOrderListFilter narrows purchase order listings
type PurchaseOrderListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Search   string     `form:"search"`
	Status   string     `form:"status"`
	PartyID  *uuid.UUID `form:"-"`
}

// ItemResponse is a purchase order line in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxPercent  decimal.Decimal `json:"tax"`
	Amount      decimal.Decimal `json:"amount"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"po_number"`
	PartyID            uuid.UUID       `json:"party_id"`
	OrderDate          time.Time       `json:"order_date"`
	ExpectedDate       *time.Time      `json:"expected_date,omitempty"`
	Status             string          `json:"status"`
	AllowedTransitions []string        `json:"allowed_transitions"`
	Amount             decimal.Decimal `json:"amount"`
	Notes              string          `json:"notes,omitempty"`
	Items              []ItemResponse  `json:"items"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(po *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]ItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		if it.IsDeleted() {
			continue
		}
		items = append(items, ItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			TaxPercent:  it.TaxPercent,
			Amount:      it.Amount,
		})
	}
	allowed := procurement.PurchaseOrderStates().AllowedFrom(po.Status)
	next := make([]string, len(allowed))
	for i, s := range allowed {
		next[i] = string(s)
	}
	return PurchaseOrderResponse{
		ID:                 po.ID,
		OrderNumber:        po.OrderNumber,
		PartyID:            po.PartyID,
		OrderDate:          po.OrderDate,
		ExpectedDate:       po.ExpectedDate,
		Status:             string(po.Status),
		AllowedTransitions: next,
		Amount:             po.Amount,
		Notes:              po.Notes,
		Items:              items,
		Version:            po.Version,
		CreatedAt:          po.CreatedAt,
	}
}

// ==================== GRN DTOs ====================

// CreateGRNRequest raises a GRN against an accepted order
type CreateGRNRequest struct {
	ReceivedDate  time.Time `json:"received_date" binding:"required"`
	ReceiptStatus string    `json:"status" binding:"required,oneof=fully partially rejected"`
	Remarks       string    `json:"remarks" binding:"max=2000"`
}

// UpdateGRNRequest edits a submitted GRN; omitted fields keep their value
type UpdateGRNRequest struct {
	ReceivedDate  time.Time `json:"received_date"`
	ReceiptStatus string    `json:"status" binding:"omitempty,oneof=fully partially rejected"`
	Remarks       *string   `json:"remarks" binding:"omitempty,max=2000"`
}

// GRNResponse represents a GRN in API responses
type GRNResponse struct {
	ID              uuid.UUID `json:"id"`
	GRNNumber       string    `json:"grn_number"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	ReceivedDate    time.Time `json:"received_date"`
	ReceiptStatus   string    `json:"receipt_status"`
	Status          string    `json:"grn_status"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToGRNResponse converts a domain GRN to GRNResponse
func ToGRNResponse(g *procurement.GRN) GRNResponse {
	return GRNResponse{
		ID:              g.ID,
		GRNNumber:       g.GRNNumber,
		PurchaseOrderID: g.PurchaseOrderID,
		ReceivedDate:    g.ReceivedDate,
		ReceiptStatus:   string(g.ReceiptStatus),
		Status:          string(g.Status),
		Remarks:         g.Remarks,
		CreatedAt:       g.CreatedAt,
	}
}
