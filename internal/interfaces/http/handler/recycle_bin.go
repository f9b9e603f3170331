package handler

import (
	"context"

	auditapp "github.com/erp/backoffice/internal/application/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecycleBinService lists and purges soft deleted records
type RecycleBinService interface {
	List(ctx context.Context, tenantID uuid.UUID, f auditapp.ListFilter) (*shared.Paginated[auditapp.RecordResponse], error)
	Get(ctx context.Context, tenantID uuid.UUID, entityType string, id uuid.UUID) (*auditapp.RecordResponse, error)
	Purge(ctx context.Context, tenantID uuid.UUID, entityType string, id uuid.UUID) error
}

// RecycleBinHandler handles recycle bin endpoints
type RecycleBinHandler struct {
	BaseHandler
	service RecycleBinService
}

// NewRecycleBinHandler creates a new RecycleBinHandler
func NewRecycleBinHandler(service RecycleBinService) *RecycleBinHandler {
	return &RecycleBinHandler{service: service}
}

// List godoc
// GET /api/v1/recycle-bin?entity_type=deal
func (h *RecycleBinHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var f auditapp.ListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	page, err := h.service.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Get godoc
// GET /api/v1/recycle-bin/:entity_type/:id
func (h *RecycleBinHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	record, err := h.service.Get(c.Request.Context(), tenantID, c.Param("entity_type"), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Purge godoc
// DELETE /api/v1/recycle-bin/:entity_type/:id
// Hard deletes the entity together with its audit record.
func (h *RecycleBinHandler) Purge(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Purge(c.Request.Context(), tenantID, c.Param("entity_type"), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
