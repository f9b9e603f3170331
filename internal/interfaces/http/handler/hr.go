package handler

import (
	"context"

	hrapp "github.com/erp/backoffice/internal/application/hr"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployeeService manages employees, their salary slips and advances
type EmployeeService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req hrapp.CreateEmployeeRequest) (*hrapp.EmployeeResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*hrapp.EmployeeResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[hrapp.EmployeeResponse], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
	CreateSalarySlip(ctx context.Context, tenantID, employeeID uuid.UUID, actor shared.Actor, req hrapp.CreateSalarySlipRequest) (*hrapp.SalarySlipResponse, error)
	ListSalarySlips(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hrapp.SalarySlipResponse, error)
	CreateAdvance(ctx context.Context, tenantID, employeeID uuid.UUID, actor shared.Actor, req hrapp.CreateAdvanceRequest) (*hrapp.AdvanceResponse, error)
	ListAdvances(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hrapp.AdvanceResponse, error)
	GetAdvance(ctx context.Context, tenantID, id uuid.UUID) (*hrapp.AdvanceResponse, error)
	RecordInstallment(ctx context.Context, tenantID, advanceID uuid.UUID, req hrapp.RecordInstallmentRequest) (*hrapp.AdvanceResponse, error)
	DeleteAdvance(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error
}

// EmployeeHandler handles employee, salary slip and advance endpoints
type EmployeeHandler struct {
	BaseHandler
	service EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(service EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Create godoc
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req hrapp.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.service.Create(c.Request.Context(), tenantID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// GetByID godoc
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.service.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// List godoc
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q struct {
		ListQuery
		Department string `form:"department" binding:"max=100"`
	}
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), tenantID, q.Filter().Where("department", q.Department))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writePage(c, page)
}

// Delete godoc
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
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

// CreateSalarySlip godoc
// POST /api/v1/employees/:id/salary-slips
func (h *EmployeeHandler) CreateSalarySlip(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.CreateSalarySlipRequest
	if !h.bindJSON(c, &req) {
		return
	}
	slip, err := h.service.CreateSalarySlip(c.Request.Context(), tenantID, employeeID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, slip)
}

// ListSalarySlips godoc
// GET /api/v1/employees/:id/salary-slips
func (h *EmployeeHandler) ListSalarySlips(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	slips, err := h.service.ListSalarySlips(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slips)
}

// CreateAdvance godoc
// POST /api/v1/employees/:id/advances
func (h *EmployeeHandler) CreateAdvance(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.CreateAdvanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	adv, err := h.service.CreateAdvance(c.Request.Context(), tenantID, employeeID, h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adv)
}

// ListAdvances godoc
// GET /api/v1/employees/:id/advances
func (h *EmployeeHandler) ListAdvances(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	employeeID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	advances, err := h.service.ListAdvances(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, advances)
}

// GetAdvance godoc
// GET /api/v1/advances/:id
func (h *EmployeeHandler) GetAdvance(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	adv, err := h.service.GetAdvance(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adv)
}

// RecordInstallment godoc
// POST /api/v1/advances/:id/installments
func (h *EmployeeHandler) RecordInstallment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.RecordInstallmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	adv, err := h.service.RecordInstallment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adv)
}

// DeleteAdvance godoc
// DELETE /api/v1/advances/:id
func (h *EmployeeHandler) DeleteAdvance(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAdvance(c.Request.Context(), tenantID, id, h.actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
