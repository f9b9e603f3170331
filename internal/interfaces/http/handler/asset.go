package handler

import (
	"context"

	assetapp "github.com/erp/backoffice/internal/application/asset"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssetService manages fixed assets and their depreciation
type AssetService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req assetapp.CreateAssetRequest) (*assetapp.AssetResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*assetapp.AssetResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[assetapp.AssetResponse], error)
	Schedule(ctx context.Context, tenantID, id uuid.UUID) (*assetapp.ScheduleResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
	Dispose(ctx context.Context, tenantID, assetID uuid.UUID, actor shared.Actor, req assetapp.DisposeAssetRequest) (*assetapp.DisposalResponse, error)
	GetDisposal(ctx context.Context, tenantID, assetID uuid.UUID) (*assetapp.DisposalResponse, error)
	CancelDisposal(ctx context.Context, tenantID, assetID uuid.UUID, actor shared.Actor) error
}

// AssetHandler handles fixed asset endpoints
type AssetHandler struct {
	BaseHandler
	service AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(service AssetService) *AssetHandler {
	return &AssetHandler{service: service}
}

// Create godoc
// POST /api/v1/assets
func (h *AssetHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req assetapp.CreateAssetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	asset, err := h.service.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, asset)
}

// GetByID godoc
// GET /api/v1/assets/:id
func (h *AssetHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	asset, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, asset)
}

// List godoc
// GET /api/v1/assets
func (h *AssetHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q struct {
		ListQuery
		Category string `form:"category" binding:"max=100"`
	}
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), tenantID, q.Filter().Where("category", q.Category))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Depreciation godoc
// GET /api/v1/assets/:id/depreciation
// Returns the per fiscal year depreciation schedule over the useful life.
func (h *AssetHandler) Depreciation(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.service.Schedule(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schedule)
}

// Delete godoc
// DELETE /api/v1/assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dispose godoc
// POST /api/v1/assets/:id/disposal
func (h *AssetHandler) Dispose(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req assetapp.DisposeAssetRequest
	if !h.bindJSON(c, &req) {
		return
	}
	disposal, err := h.service.Dispose(c.Request.Context(), tenantID, id, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, disposal)
}

// GetDisposal godoc
// GET /api/v1/assets/:id/disposal
func (h *AssetHandler) GetDisposal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	disposal, err := h.service.GetDisposal(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, disposal)
}

// CancelDisposal godoc
// DELETE /api/v1/assets/:id/disposal
func (h *AssetHandler) CancelDisposal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.CancelDisposal(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
