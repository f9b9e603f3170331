package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	procurementapp "github.com/erp/backoffice/internal/application/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req procurementapp.CreatePartyRequest) (*procurementapp.PartyResponse, error) {
	args := m.Called(ctx, tenantID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PartyResponse), args.Error(1)
}

func (m *MockPartyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.PartyResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PartyResponse), args.Error(1)
}

func (m *MockPartyService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[procurementapp.PartyResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[procurementapp.PartyResponse]), args.Error(1)
}

func (m *MockPartyService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	return m.Called(ctx, tenantID, id, actor).Error(0)
}

type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) order(args mock.Arguments) (*procurementapp.PurchaseOrderResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.PurchaseOrderResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) grn(args mock.Arguments) (*procurementapp.GRNResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurementapp.GRNResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req procurementapp.CreatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, tenantID, actor, req))
}

func (m *MockPurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, tenantID, id))
}

func (m *MockPurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, f procurementapp.PurchaseOrderListFilter) (*shared.Paginated[procurementapp.PurchaseOrderResponse], error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[procurementapp.PurchaseOrderResponse]), args.Error(1)
}

func (m *MockPurchaseOrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req procurementapp.UpdatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, tenantID, id, req))
}

func (m *MockPurchaseOrderService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req procurementapp.ChangeStatusRequest) (*procurementapp.PurchaseOrderResponse, error) {
	return m.order(m.Called(ctx, tenantID, id, req))
}

func (m *MockPurchaseOrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPurchaseOrderService) CreateGRN(ctx context.Context, tenantID, orderID uuid.UUID, actor shared.Actor, req procurementapp.CreateGRNRequest) (*procurementapp.GRNResponse, error) {
	return m.grn(m.Called(ctx, tenantID, orderID, actor, req))
}

func (m *MockPurchaseOrderService) UpdateGRN(ctx context.Context, tenantID, id uuid.UUID, req procurementapp.UpdateGRNRequest) (*procurementapp.GRNResponse, error) {
	return m.grn(m.Called(ctx, tenantID, id, req))
}

func (m *MockPurchaseOrderService) SendGRN(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.GRNResponse, error) {
	return m.grn(m.Called(ctx, tenantID, id))
}

func (m *MockPurchaseOrderService) GetGRN(ctx context.Context, tenantID, id uuid.UUID) (*procurementapp.GRNResponse, error) {
	return m.grn(m.Called(ctx, tenantID, id))
}

func (m *MockPurchaseOrderService) DeleteGRN(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	return m.Called(ctx, tenantID, id, actor).Error(0)
}

func newProcurementHandler() (*ProcurementHandler, *MockPartyService, *MockPurchaseOrderService) {
	parties, orders := new(MockPartyService), new(MockPurchaseOrderService)
	return NewProcurementHandler(parties, orders), parties, orders
}

func TestProcurementHandler_CreateParty_InvalidGSTIN(t *testing.T) {
	h, parties, _ := newProcurementHandler()
	body := map[string]any{"name": "Acme Traders", "gstin": "27AAPFU0939F1"}

	c, w := newTestContext(t, http.MethodPost, "/api/v1/parties", body, uuid.New(), uuid.New())
	h.CreateParty(c)

	assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	parties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcurementHandler_CreateParty(t *testing.T) {
	h, parties, _ := newProcurementHandler()
	tenantID := uuid.New()
	parties.On("Create", mock.Anything, tenantID, mock.Anything, mock.MatchedBy(func(req procurementapp.CreatePartyRequest) bool {
		return req.GSTIN == "27AAPFU0939F1ZV"
	})).Return(&procurementapp.PartyResponse{ID: uuid.New(), Name: "Acme Traders"}, nil)

	body := map[string]any{"name": "Acme Traders", "gstin": "27AAPFU0939F1ZV"}
	c, w := newTestContext(t, http.MethodPost, "/api/v1/parties", body, tenantID, uuid.New())
	h.CreateParty(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	parties.AssertExpectations(t)
}

func TestProcurementHandler_CreatePurchaseOrder_RequiresItems(t *testing.T) {
	h, _, orders := newProcurementHandler()
	body := map[string]any{"party_id": uuid.New(), "order_date": time.Now(), "items": []any{}}

	c, w := newTestContext(t, http.MethodPost, "/api/v1/purchase-orders", body, uuid.New(), uuid.New())
	h.CreatePurchaseOrder(c)

	assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcurementHandler_CreatePurchaseOrder(t *testing.T) {
	h, _, orders := newProcurementHandler()
	tenantID, partyID := uuid.New(), uuid.New()
	orders.On("Create", mock.Anything, tenantID, mock.Anything, mock.MatchedBy(func(req procurementapp.CreatePurchaseOrderRequest) bool {
		return req.PartyID == partyID && len(req.Items) == 1
	})).Return(&procurementapp.PurchaseOrderResponse{ID: uuid.New(), OrderNumber: "PO/2025-2026/00001"}, nil)

	body := map[string]any{
		"party_id":   partyID,
		"order_date": time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		"items":      []map[string]any{{"description": "Steel rods", "quantity": "10", "rate": "250", "tax": "18"}},
	}
	c, w := newTestContext(t, http.MethodPost, "/api/v1/purchase-orders", body, tenantID, uuid.New())
	h.CreatePurchaseOrder(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "PO/2025-2026/00001", data["po_number"])
}

func TestProcurementHandler_ListPurchaseOrders(t *testing.T) {
	h, _, orders := newProcurementHandler()
	tenantID, partyID := uuid.New(), uuid.New()
	page := shared.NewPaginated([]procurementapp.PurchaseOrderResponse{}, 0, 1, 20)
	orders.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f procurementapp.PurchaseOrderListFilter) bool {
		return f.Status == "accepted" && f.PartyID != nil && *f.PartyID == partyID
	})).Return(&page, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/purchase-orders?status=accepted&party_id="+partyID.String(), nil, tenantID, uuid.New())
	h.ListPurchaseOrders(c)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}

func TestProcurementHandler_ChangeStatus_Illegal(t *testing.T) {
	h, _, orders := newProcurementHandler()
	tenantID, id := uuid.New(), uuid.New()
	orders.On("ChangeStatus", mock.Anything, tenantID, id, procurementapp.ChangeStatusRequest{Status: "draft"}).
		Return(nil, &shared.InvalidTransitionError{Entity: "purchase_order", From: "accepted", To: "draft"})

	c, w := newTestContext(t, http.MethodPost, "/api/v1/purchase-orders/"+id.String()+"/status",
		map[string]string{"status": "draft"}, tenantID, uuid.New())
	withParams(c, "id", id.String())
	h.ChangePurchaseOrderStatus(c)

	assertErrorCode(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidTransition)
}

func TestProcurementHandler_DeletePurchaseOrder_NotDraft(t *testing.T) {
	h, _, orders := newProcurementHandler()
	tenantID, id := uuid.New(), uuid.New()
	orders.On("Delete", mock.Anything, tenantID, id).Return(shared.ErrInvalidState)

	c, w := newTestContext(t, http.MethodDelete, "/api/v1/purchase-orders/"+id.String(), nil, tenantID, uuid.New())
	withParams(c, "id", id.String())
	h.DeletePurchaseOrder(c)

	assertErrorCode(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
}

func TestProcurementHandler_CreateGRN(t *testing.T) {
	h, _, orders := newProcurementHandler()
	tenantID, orderID := uuid.New(), uuid.New()
	orders.On("CreateGRN", mock.Anything, tenantID, orderID, mock.Anything, mock.MatchedBy(func(req procurementapp.CreateGRNRequest) bool {
		return req.ReceiptStatus == "partially"
	})).Return(&procurementapp.GRNResponse{ID: uuid.New(), PurchaseOrderID: orderID, GRNNumber: "GRN/2025-2026/00001"}, nil)

	body := map[string]any{"received_date": time.Now(), "status": "partially"}
	c, w := newTestContext(t, http.MethodPost, "/api/v1/purchase-orders/"+orderID.String()+"/grn", body, tenantID, uuid.New())
	withParams(c, "id", orderID.String())
	h.CreateGRN(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	orders.AssertExpectations(t)
}

func TestProcurementHandler_UpdateGRN(t *testing.T) {
	t.Run("sent GRN is refused", func(t *testing.T) {
		h, _, orders := newProcurementHandler()
		tenantID, id := uuid.New(), uuid.New()
		orders.On("UpdateGRN", mock.Anything, tenantID, id, mock.MatchedBy(func(req procurementapp.UpdateGRNRequest) bool {
			return req.ReceiptStatus == "rejected" && req.Remarks == nil
		})).Return(nil, shared.NewDomainError(shared.CodeInvalidState, "GRN has already been sent and cannot be updated"))

		c, w := newTestContext(t, http.MethodPut, "/api/v1/grns/"+id.String(), map[string]any{"status": "rejected"}, tenantID, uuid.New())
		withParams(c, "id", id.String())
		h.UpdateGRN(c)

		assertErrorCode(t, w, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState)
		orders.AssertExpectations(t)
	})

	t.Run("unknown receipt status", func(t *testing.T) {
		h, _, orders := newProcurementHandler()
		tenantID, id := uuid.New(), uuid.New()

		c, w := newTestContext(t, http.MethodPut, "/api/v1/grns/"+id.String(), map[string]any{"status": "lost"}, tenantID, uuid.New())
		withParams(c, "id", id.String())
		h.UpdateGRN(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		orders.AssertNotCalled(t, "UpdateGRN", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcurementHandler_SendGRN(t *testing.T) {
	h, _, orders := newProcurementHandler()
	tenantID, id := uuid.New(), uuid.New()
	orders.On("SendGRN", mock.Anything, tenantID, id).Return(&procurementapp.GRNResponse{ID: id}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/v1/grns/"+id.String()+"/send", nil, tenantID, uuid.New())
	withParams(c, "id", id.String())
	h.SendGRN(c)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}
