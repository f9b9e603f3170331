package handler

import (
	"context"

	crmapp "github.com/erp/backoffice/internal/application/crm"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AgentService manages sales agents
type AgentService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req crmapp.CreateAgentRequest) (*crmapp.AgentResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.AgentResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[crmapp.AgentResponse], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
}

// DealService manages deals and their status lifecycle
type DealService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req crmapp.CreateDealRequest) (*crmapp.DealResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*crmapp.DealResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, f crmapp.DealListFilter) (*shared.Paginated[crmapp.DealResponse], error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req crmapp.UpdateDealRequest) (*crmapp.DealResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req crmapp.ChangeDealStatusRequest) (*crmapp.DealResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
	HardDelete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CRMHandler handles agent and deal endpoints
type CRMHandler struct {
	BaseHandler
	agents AgentService
	deals  DealService
}

// NewCRMHandler creates a new CRMHandler
func NewCRMHandler(agents AgentService, deals DealService) *CRMHandler {
	return &CRMHandler{agents: agents, deals: deals}
}

// CreateAgent godoc
// POST /api/v1/agents
func (h *CRMHandler) CreateAgent(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req crmapp.CreateAgentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	agent, err := h.agents.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, agent)
}

// GetAgent godoc
// GET /api/v1/agents/:id
func (h *CRMHandler) GetAgent(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	agent, err := h.agents.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, agent)
}

// ListAgents godoc
// GET /api/v1/agents
func (h *CRMHandler) ListAgents(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q struct {
		ListQuery
		AgentType string `form:"agent_type" binding:"omitempty,oneof=employee individual freelancer other"`
	}
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.agents.List(c.Request.Context(), tenantID, q.Filter().Where("agent_type", q.AgentType))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// DeleteAgent godoc
// DELETE /api/v1/agents/:id
// Soft deletes the agent and records it in the recycle bin.
func (h *CRMHandler) DeleteAgent(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.agents.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateDeal godoc
// POST /api/v1/deals
func (h *CRMHandler) CreateDeal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req crmapp.CreateDealRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deal, err := h.deals.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, deal)
}

// GetDeal godoc
// GET /api/v1/deals/:id
func (h *CRMHandler) GetDeal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	deal, err := h.deals.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deal)
}

// ListDeals godoc
// GET /api/v1/deals?status=lead&agent_id=...
func (h *CRMHandler) ListDeals(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var f crmapp.DealListFilter
	if !h.bindQuery(c, &f) {
		return
	}
	agentID, ok := h.queryID(c, "agent_id")
	if !ok {
		return
	}
	f.AgentID = agentID

	page, err := h.deals.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// UpdateDeal godoc
// PUT /api/v1/deals/:id
func (h *CRMHandler) UpdateDeal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req crmapp.UpdateDealRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deal, err := h.deals.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deal)
}

// ChangeDealStatus godoc
// POST /api/v1/deals/:id/status
// Illegal transitions answer 422 and leave the deal unchanged.
func (h *CRMHandler) ChangeDealStatus(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req crmapp.ChangeDealStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deal, err := h.deals.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deal)
}

// DeleteDeal godoc
// DELETE /api/v1/deals/:id
func (h *CRMHandler) DeleteDeal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deals.Delete(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// HardDeleteDeal godoc
// DELETE /api/v1/deals/:id/hard
func (h *CRMHandler) HardDeleteDeal(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deals.HardDelete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
