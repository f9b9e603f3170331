package handler

import (
	"context"

	procurementapp "github.com/erp/backoffice/internal/application/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PartyService manages suppliers and vendors
type PartyService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req procurementapp.CreatePartyRequest) (*procurementapp.PartyResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.PartyResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[procurementapp.PartyResponse], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
}

// PurchaseOrderService manages purchase orders and goods received notes
type PurchaseOrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req procurementapp.CreatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.PurchaseOrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, f procurementapp.PurchaseOrderListFilter) (*shared.Paginated[procurementapp.PurchaseOrderResponse], error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req procurementapp.UpdatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req procurementapp.ChangeStatusRequest) (*procurementapp.PurchaseOrderResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CreateGRN(ctx context.Context, tenantID, orderID uuid.UUID, actor shared.Actor, req procurementapp.CreateGRNRequest) (*procurementapp.GRNResponse, error)
	UpdateGRN(ctx context.Context, tenantID, id uuid.UUID, req procurementapp.UpdateGRNRequest) (*procurementapp.GRNResponse, error)
	SendGRN(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.GRNResponse, error)
	GetGRN(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.GRNResponse, error)
	DeleteGRN(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
}

// ProcurementHandler handles party, purchase order and GRN endpoints
type ProcurementHandler struct {
	BaseHandler
	parties PartyService
	orders  PurchaseOrderService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(parties PartyService, orders PurchaseOrderService) *ProcurementHandler {
	return &ProcurementHandler{parties: parties, orders: orders}
}

// CreateParty godoc
// POST /api/v1/parties
func (h *ProcurementHandler) CreateParty(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req procurementapp.CreatePartyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	party, err := h.parties.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, party)
}

// GetParty godoc
// GET /api/v1/parties/:id
func (h *ProcurementHandler) GetParty(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	party, err := h.parties.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, party)
}

// ListParties godoc
// GET /api/v1/parties
func (h *ProcurementHandler) ListParties(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.parties.List(c.Request.Context(), tenantID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// DeleteParty godoc
// DELETE /api/v1/parties/:id
func (h *ProcurementHandler) DeleteParty(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.parties.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreatePurchaseOrder godoc
// POST /api/v1/purchase-orders
// The order number is issued in the same transaction as the order.
func (h *ProcurementHandler) CreatePurchaseOrder(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req procurementapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetPurchaseOrder godoc
// GET /api/v1/purchase-orders/:id
func (h *ProcurementHandler) GetPurchaseOrder(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListPurchaseOrders godoc
// GET /api/v1/purchase-orders?status=draft&party_id=...
func (h *ProcurementHandler) ListPurchaseOrders(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var f procurementapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	partyID, ok := h.queryID(c, "party_id")
	if !ok {
		return
	}
	f.PartyID = partyID

	page, err := h.orders.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// UpdatePurchaseOrder godoc
// PUT /api/v1/purchase-orders/:id
func (h *ProcurementHandler) UpdatePurchaseOrder(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.UpdatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ChangePurchaseOrderStatus godoc
// POST /api/v1/purchase-orders/:id/status
func (h *ProcurementHandler) ChangePurchaseOrderStatus(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// DeletePurchaseOrder godoc
// DELETE /api/v1/purchase-orders/:id
// Only draft orders can be deleted; items go with the order.
func (h *ProcurementHandler) DeletePurchaseOrder(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateGRN godoc
// POST /api/v1/purchase-orders/:id/grn
func (h *ProcurementHandler) CreateGRN(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.CreateGRNRequest
	if !h.bindJSON(c, &req) {
		return
	}
	grn, err := h.orders.CreateGRN(c.Request.Context(), tenantID, orderID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, grn)
}

// GetGRN godoc
// GET /api/v1/grns/:id
func (h *ProcurementHandler) GetGRN(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	grn, err := h.orders.GetGRN(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grn)
}

// UpdateGRN godoc
// PUT /api/v1/grns/:id
// A sent GRN answers 422 ERR_INVALID_STATE.
func (h *ProcurementHandler) UpdateGRN(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.UpdateGRNRequest
	if !h.bindJSON(c, &req) {
		return
	}
	grn, err := h.orders.UpdateGRN(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grn)
}

// SendGRN godoc
// POST /api/v1/grns/:id/send
func (h *ProcurementHandler) SendGRN(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	grn, err := h.orders.SendGRN(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grn)
}

// DeleteGRN godoc
// DELETE /api/v1/grns/:id
func (h *ProcurementHandler) DeleteGRN(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.DeleteGRN(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
