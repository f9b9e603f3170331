package handler

import (
	"context"

	billingapp "github.com/erp/backoffice/internal/application/billing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientService manages billing clients
type ClientService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req billingapp.CreateClientRequest) (*billingapp.ClientResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.ClientResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[billingapp.ClientResponse], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
}

// QuotationService manages quotations and the invoices raised from them
type QuotationService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req billingapp.CreateQuotationRequest) (*billingapp.QuotationResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.QuotationResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
	CreateInvoice(ctx context.Context, tenantID, quotationID uuid.UUID, actor shared.Actor, req billingapp.CreateInvoiceRequest) (*billingapp.InvoiceResponse, error)
	GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.InvoiceResponse, error)
}

// ReceiptService manages payment receipts
type ReceiptService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req billingapp.CreateReceiptRequest) (*billingapp.ReceiptResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.ReceiptResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
}

// BillingHandler handles client, quotation, invoice and receipt endpoints
type BillingHandler struct {
	BaseHandler
	clients    ClientService
	quotations QuotationService
	receipts   ReceiptService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(clients ClientService, quotations QuotationService, receipts ReceiptService) *BillingHandler {
	return &BillingHandler{clients: clients, quotations: quotations, receipts: receipts}
}

// CreateClient godoc
// POST /api/v1/clients
func (h *BillingHandler) CreateClient(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req billingapp.CreateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	client, err := h.clients.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// GetClient godoc
// GET /api/v1/clients/:id
func (h *BillingHandler) GetClient(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// ListClients godoc
// GET /api/v1/clients
func (h *BillingHandler) ListClients(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.clients.List(c.Request.Context(), tenantID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// DeleteClient godoc
// DELETE /api/v1/clients/:id
func (h *BillingHandler) DeleteClient(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateQuotation godoc
// POST /api/v1/quotations
func (h *BillingHandler) CreateQuotation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req billingapp.CreateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	quotation, err := h.quotations.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// GetQuotation godoc
// GET /api/v1/quotations/:id
func (h *BillingHandler) GetQuotation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	quotation, err := h.quotations.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// DeleteQuotation godoc
// DELETE /api/v1/quotations/:id
func (h *BillingHandler) DeleteQuotation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.quotations.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateInvoice godoc
// POST /api/v1/quotations/:id/invoice
// Converts an accepted quotation into an invoice with its own number.
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	quotationID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	invoice, err := h.quotations.CreateInvoice(c.Request.Context(), tenantID, quotationID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetInvoice godoc
// GET /api/v1/invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.quotations.GetInvoice(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// CreateReceipt godoc
// POST /api/v1/receipts
func (h *BillingHandler) CreateReceipt(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req billingapp.CreateReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	receipt, err := h.receipts.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// GetReceipt godoc
// GET /api/v1/receipts/:id
func (h *BillingHandler) GetReceipt(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.receipts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// DeleteReceipt godoc
// DELETE /api/v1/receipts/:id
func (h *BillingHandler) DeleteReceipt(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.receipts.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
