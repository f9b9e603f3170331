package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	assetapp "github.com/erp/backoffice/internal/application/asset"
	auditapp "github.com/erp/backoffice/internal/application/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req assetapp.CreateAssetRequest) (*assetapp.AssetResponse, error) {
	args := m.Called(ctx, tenantID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.AssetResponse), args.Error(1)
}

func (m *MockAssetService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*assetapp.AssetResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.AssetResponse), args.Error(1)
}

func (m *MockAssetService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[assetapp.AssetResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[assetapp.AssetResponse]), args.Error(1)
}

func (m *MockAssetService) Schedule(ctx context.Context, tenantID, id uuid.UUID) (*assetapp.ScheduleResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.ScheduleResponse), args.Error(1)
}

func (m *MockAssetService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	return m.Called(ctx, tenantID, id, actor).Error(0)
}

func (m *MockAssetService) Dispose(ctx context.Context, tenantID, assetID uuid.UUID, actor shared.Actor, req assetapp.DisposeAssetRequest) (*assetapp.DisposalResponse, error) {
	args := m.Called(ctx, tenantID, assetID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.DisposalResponse), args.Error(1)
}

func (m *MockAssetService) GetDisposal(ctx context.Context, tenantID, assetID uuid.UUID) (*assetapp.DisposalResponse, error) {
	args := m.Called(ctx, tenantID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assetapp.DisposalResponse), args.Error(1)
}

func (m *MockAssetService) CancelDisposal(ctx context.Context, tenantID, assetID uuid.UUID, actor shared.Actor) error {
	return m.Called(ctx, tenantID, assetID, actor).Error(0)
}

func TestAssetHandler_Create(t *testing.T) {
	svc := new(MockAssetService)
	h := NewAssetHandler(svc)
	tenantID := uuid.New()
	svc.On("Create", mock.Anything, tenantID, mock.Anything, mock.MatchedBy(func(req assetapp.CreateAssetRequest) bool {
		return req.DepreciationMethod == "wdv" && req.UsefulLifeYears == 5 && req.Cost.Equal(decimal.NewFromInt(100000))
	})).Return(&assetapp.AssetResponse{ID: uuid.New(), Name: "Laptop"}, nil)

	body := map[string]any{
		"name":                "Laptop",
		"purchase_date":       time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		"cost":                "100000",
		"salvage_value":       "5000",
		"useful_life":         5,
		"depreciation_method": "wdv",
		"depreciation_rate":   "40",
	}
	c, w := newTestContext(t, http.MethodPost, "/api/v1/assets", body, tenantID, uuid.New())
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestAssetHandler_Create_UnknownMethod(t *testing.T) {
	svc := new(MockAssetService)
	h := NewAssetHandler(svc)

	body := map[string]any{
		"name":                "Laptop",
		"purchase_date":       time.Now(),
		"cost":                "1000",
		"useful_life":         3,
		"depreciation_method": "sum_of_years",
	}
	c, w := newTestContext(t, http.MethodPost, "/api/v1/assets", body, uuid.New(), uuid.New())
	h.Create(c)

	assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssetHandler_Depreciation(t *testing.T) {
	svc := new(MockAssetService)
	h := NewAssetHandler(svc)
	tenantID, id := uuid.New(), uuid.New()
	svc.On("Schedule", mock.Anything, tenantID, id).Return(&assetapp.ScheduleResponse{
		AssetID: id,
		Method:  "slm",
		Entries: []assetapp.DepreciationEntryResponse{
			{FiscalYear: "2025-2026", OpeningValue: decimal.NewFromInt(1000), Depreciation: decimal.NewFromInt(300), ClosingValue: decimal.NewFromInt(700)},
			{FiscalYear: "2026-2027", OpeningValue: decimal.NewFromInt(700), Depreciation: decimal.NewFromInt(300), ClosingValue: decimal.NewFromInt(400)},
		},
	}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/assets/"+id.String()+"/depreciation", nil, tenantID, uuid.New())
	withParams(c, "id", id.String())
	h.Depreciation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	entries, ok := data["entries"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestAssetHandler_Depreciation_NotFound(t *testing.T) {
	svc := new(MockAssetService)
	h := NewAssetHandler(svc)
	tenantID, id := uuid.New(), uuid.New()
	svc.On("Schedule", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/assets/"+id.String()+"/depreciation", nil, tenantID, uuid.New())
	withParams(c, "id", id.String())
	h.Depreciation(c)

	assertErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

type MockRecycleBinService struct {
	mock.Mock
}

func (m *MockRecycleBinService) List(ctx context.Context, tenantID uuid.UUID, f auditapp.ListFilter) (*shared.Paginated[auditapp.RecordResponse], error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[auditapp.RecordResponse]), args.Error(1)
}

func (m *MockRecycleBinService) Get(ctx context.Context, tenantID uuid.UUID, entityType string, id uuid.UUID) (*auditapp.RecordResponse, error) {
	args := m.Called(ctx, tenantID, entityType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditapp.RecordResponse), args.Error(1)
}

func (m *MockRecycleBinService) Purge(ctx context.Context, tenantID uuid.UUID, entityType string, id uuid.UUID) error {
	return m.Called(ctx, tenantID, entityType, id).Error(0)
}

func TestRecycleBinHandler_List(t *testing.T) {
	svc := new(MockRecycleBinService)
	h := NewRecycleBinHandler(svc)
	tenantID := uuid.New()
	page := shared.NewPaginated([]auditapp.RecordResponse{{EntityType: "deal", EntityID: uuid.New()}}, 1, 1, 20)
	svc.On("List", mock.Anything, tenantID, auditapp.ListFilter{EntityType: "deal"}).Return(&page, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/recycle-bin?entity_type=deal", nil, tenantID, uuid.New())
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestRecycleBinHandler_List_UnknownType(t *testing.T) {
	svc := new(MockRecycleBinService)
	h := NewRecycleBinHandler(svc)
	tenantID := uuid.New()

	c, w := newTestContext(t, http.MethodGet, "/api/v1/recycle-bin?entity_type=spaceship", nil, tenantID, uuid.New())
	h.List(c)

	assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecycleBinHandler_Purge(t *testing.T) {
	svc := new(MockRecycleBinService)
	h := NewRecycleBinHandler(svc)
	tenantID, id := uuid.New(), uuid.New()
	svc.On("Purge", mock.Anything, tenantID, "agent", id).Return(nil)

	c, w := newTestContext(t, http.MethodDelete, "/api/v1/recycle-bin/agent/"+id.String(), nil, tenantID, uuid.New())
	withParams(c, "entity_type", "agent", "id", id.String())
	h.Purge(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestRecycleBinHandler_Get_NotDeleted(t *testing.T) {
	svc := new(MockRecycleBinService)
	h := NewRecycleBinHandler(svc)
	tenantID, id := uuid.New(), uuid.New()
	svc.On("Get", mock.Anything, tenantID, "client", id).Return(nil, shared.ErrNotFound)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/recycle-bin/client/"+id.String(), nil, tenantID, uuid.New())
	withParams(c, "entity_type", "client", "id", id.String())
	h.Get(c)

	assertErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestAssetHandler_Dispose(t *testing.T) {
	t.Run("records a sale", func(t *testing.T) {
		svc := new(MockAssetService)
		h := NewAssetHandler(svc)
		tenantID, assetID := uuid.New(), uuid.New()
		svc.On("Dispose", mock.Anything, tenantID, assetID, mock.Anything, mock.MatchedBy(func(req assetapp.DisposeAssetRequest) bool {
			return req.DisposalMode == "sale" && req.SalePrice.Equal(decimal.NewFromInt(35000))
		})).Return(&assetapp.DisposalResponse{
			AssetID:    assetID,
			BookValue:  decimal.NewFromInt(40000),
			GainOrLoss: decimal.NewFromInt(-5000),
		}, nil)

		body := map[string]any{"disposal_date": time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "disposal_mode": "sale", "sale_price": "35000"}
		c, w := newTestContext(t, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/disposal", body, tenantID, uuid.New())
		withParams(c, "id", assetID.String())
		h.Dispose(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "-5000", data["gain_or_loss"])
		svc.AssertExpectations(t)
	})

	t.Run("unknown mode never reaches the service", func(t *testing.T) {
		svc := new(MockAssetService)
		h := NewAssetHandler(svc)
		assetID := uuid.New()

		body := map[string]any{"disposal_date": time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "disposal_mode": "donated"}
		c, w := newTestContext(t, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/disposal", body, uuid.New(), uuid.New())
		withParams(c, "id", assetID.String())
		h.Dispose(c)

		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "Dispose", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("second disposal conflicts", func(t *testing.T) {
		svc := new(MockAssetService)
		h := NewAssetHandler(svc)
		tenantID, assetID := uuid.New(), uuid.New()
		svc.On("Dispose", mock.Anything, tenantID, assetID, mock.Anything, mock.Anything).Return(nil, shared.ErrAlreadyExists)

		body := map[string]any{"disposal_date": time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "disposal_mode": "scrapped"}
		c, w := newTestContext(t, http.MethodPost, "/api/v1/assets/"+assetID.String()+"/disposal", body, tenantID, uuid.New())
		withParams(c, "id", assetID.String())
		h.Dispose(c)

		assertErrorCode(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)
	})
}

func TestAssetHandler_CancelDisposal(t *testing.T) {
	svc := new(MockAssetService)
	h := NewAssetHandler(svc)
	tenantID, assetID := uuid.New(), uuid.New()
	svc.On("CancelDisposal", mock.Anything, tenantID, assetID, mock.Anything).Return(nil)

	c, w := newTestContext(t, http.MethodDelete, "/api/v1/assets/"+assetID.String()+"/disposal", nil, tenantID, uuid.New())
	withParams(c, "id", assetID.String())
	h.CancelDisposal(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
