package handler

import (
	"context"
	"fmt"

	numberingapp "github.com/erp/backoffice/internal/application/numbering"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SequenceService is the part of the sequence generator the API exposes
type SequenceService interface {
	CurrentFiscalYear() numbering.FiscalYear
	NextNumber(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*numberingapp.IssuedNumberResponse, error)
	PeekCurrent(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*numberingapp.CurrentNumberResponse, error)
	Provision(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, req numberingapp.ProvisionRequest) (*numberingapp.SequenceResponse, error)
	Lock(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*numberingapp.SequenceResponse, error)
	Unlock(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*numberingapp.SequenceResponse, error)
	Reset(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*numberingapp.SequenceResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[numberingapp.SequenceResponse], error)
}

// SequenceHandler handles document sequence endpoints
type SequenceHandler struct {
	BaseHandler
	service SequenceService
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(service SequenceService) *SequenceHandler {
	return &SequenceHandler{service: service}
}

// sequenceTarget identifies the sequence a request addresses
type sequenceTarget struct {
	tenantID   uuid.UUID
	docType    numbering.DocumentType
	fiscalYear numbering.FiscalYear
}

// target resolves tenant, document type and fiscal year. The fiscal year
// comes from the fiscal_year query parameter, defaulting to the current one.
func (h *SequenceHandler) target(c *gin.Context) (sequenceTarget, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return sequenceTarget{}, false
	}
	docType, ok := h.docType(c)
	if !ok {
		return sequenceTarget{}, false
	}

	fy := h.service.CurrentFiscalYear()
	if raw := c.Query("fiscal_year"); raw != "" {
		parsed, err := numbering.ParseFiscalYear(raw)
		if err != nil {
			h.HandleError(c, err)
			return sequenceTarget{}, false
		}
		fy = parsed
	}
	return sequenceTarget{tenantID: tenantID, docType: docType, fiscalYear: fy}, true
}

func (h *SequenceHandler) docType(c *gin.Context) (numbering.DocumentType, bool) {
	docType := numbering.DocumentType(c.Param("type"))
	if !docType.IsValid() {
		h.HandleError(c, shared.NewValidationError("document_type", fmt.Sprintf("unknown document type %q", docType)))
		return "", false
	}
	return docType, true
}

// NextNumber godoc
// POST /api/v1/sequences/:type/next?fiscal_year=2025-2026
// Issues the next number of the sequence, creating it on first use.
func (h *SequenceHandler) NextNumber(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	issued, err := h.service.NextNumber(c.Request.Context(), t.tenantID, t.docType, t.fiscalYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, issued)
}

// Current godoc
// GET /api/v1/sequences/:type/current
func (h *SequenceHandler) Current(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	current, err := h.service.PeekCurrent(c.Request.Context(), t.tenantID, t.docType, t.fiscalYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, current)
}

// Provision godoc
// PUT /api/v1/sequences/:type
// Creates or reconfigures a sequence. The fiscal year is taken from the body.
func (h *SequenceHandler) Provision(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	docType, ok := h.docType(c)
	if !ok {
		return
	}
	var req numberingapp.ProvisionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	seq, err := h.service.Provision(c.Request.Context(), tenantID, docType, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, seq)
}

// Lock godoc
// POST /api/v1/sequences/:type/lock
func (h *SequenceHandler) Lock(c *gin.Context) {
	h.mutate(c, h.service.Lock)
}

// Unlock godoc
// POST /api/v1/sequences/:type/unlock
func (h *SequenceHandler) Unlock(c *gin.Context) {
	h.mutate(c, h.service.Unlock)
}

// Reset godoc
// POST /api/v1/sequences/:type/reset
func (h *SequenceHandler) Reset(c *gin.Context) {
	h.mutate(c, h.service.Reset)
}

type sequenceMutation func(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*numberingapp.SequenceResponse, error)

func (h *SequenceHandler) mutate(c *gin.Context, op sequenceMutation) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	seq, err := op(c.Request.Context(), t.tenantID, t.docType, t.fiscalYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, seq)
}

// List godoc
// GET /api/v1/sequences
func (h *SequenceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q struct {
		ListQuery
		DocumentType string `form:"document_type" binding:"omitempty,doc_type"`
	}
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), tenantID, q.Filter().Where("document_type", q.DocumentType))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}
