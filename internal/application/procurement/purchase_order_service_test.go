package procurement

import (
	"context"
	"errors"
	"testing"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/application/shared/mocks"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	testPartyID  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	orderDate    = time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
)

type poFixture struct {
	svc     *PurchaseOrderService
	orders  *mocks.PurchaseOrderRepository
	grns    *mocks.GRNRepository
	parties *mocks.PartyRepository
	ledger  *mocks.Ledger
	numbers *mocks.NumberIssuer
}

func newPOFixture(t *testing.T) *poFixture {
	t.Helper()
	f := &poFixture{
		orders:  new(mocks.PurchaseOrderRepository),
		grns:    new(mocks.GRNRepository),
		parties: new(mocks.PartyRepository),
		ledger:  new(mocks.Ledger),
		numbers: new(mocks.NumberIssuer),
	}
	scope := appshared.NewNoOpTransactionScope(&appshared.StaticRepositories{
		PurchaseOrderRepo: f.orders,
		GRNRepo:           f.grns,
		PartyRepo:         f.parties,
		LedgerImpl:        f.ledger,
	})
	f.svc = NewPurchaseOrderService(scope, f.numbers, 2)
	t.Cleanup(func() {
		f.orders.AssertExpectations(t)
		f.grns.AssertExpectations(t)
		f.parties.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
		f.numbers.AssertExpectations(t)
	})
	return f
}

func items() []ItemRequest {
	return []ItemRequest{
		{Description: "Cement bags", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(350), TaxPercent: decimal.NewFromInt(18)},
		{Description: "Steel rods", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(1000)},
	}
}

func draftOrder(t *testing.T) *procurement.PurchaseOrder {
	t.Helper()
	po, err := procurement.NewPurchaseOrder(testTenantID, testPartyID, orderDate, toItemInputs(items()))
	require.NoError(t, err)
	require.NoError(t, po.AssignNumber("PO/2025-2026/0001"))
	return po
}

func TestPurchaseOrderService_Create(t *testing.T) {
	t.Run("numbers and saves order with items", func(t *testing.T) {
		f := newPOFixture(t)
		f.parties.On("FindByID", mock.Anything, testTenantID, testPartyID).Return(&procurement.Party{}, nil)
		f.numbers.On("IssueWithin", mock.Anything, mock.Anything, testTenantID, numbering.DocumentTypePurchaseOrder).
			Return("PO/2025-2026/0007", nil)
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

		resp, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePurchaseOrderRequest{
			PartyID:   testPartyID,
			OrderDate: orderDate,
			Items:     items(),
		})

		require.NoError(t, err)
		assert.Equal(t, "PO/2025-2026/0007", resp.OrderNumber)
		assert.Equal(t, "draft", resp.Status)
		assert.Len(t, resp.Items, 2)
		// 10*350*1.18 + 2*1000
		assert.True(t, decimal.NewFromInt(6130).Equal(resp.Amount), resp.Amount.String())
	})

	t.Run("replays the whole unit after a conflict", func(t *testing.T) {
		f := newPOFixture(t)
		f.parties.On("FindByID", mock.Anything, testTenantID, testPartyID).Return(&procurement.Party{}, nil)
		f.numbers.On("IssueWithin", mock.Anything, mock.Anything, testTenantID, numbering.DocumentTypePurchaseOrder).
			Return("", shared.ErrConcurrencyConflict).Once()
		f.numbers.On("IssueWithin", mock.Anything, mock.Anything, testTenantID, numbering.DocumentTypePurchaseOrder).
			Return("PO/2025-2026/0008", nil).Once()
		f.orders.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		resp, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePurchaseOrderRequest{
			PartyID: testPartyID, OrderDate: orderDate, Items: items(),
		})

		require.NoError(t, err)
		assert.Equal(t, "PO/2025-2026/0008", resp.OrderNumber)
	})

	t.Run("unknown party", func(t *testing.T) {
		f := newPOFixture(t)
		f.parties.On("FindByID", mock.Anything, testTenantID, testPartyID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePurchaseOrderRequest{
			PartyID: testPartyID, OrderDate: orderDate, Items: items(),
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("locked sequence surfaces", func(t *testing.T) {
		f := newPOFixture(t)
		locked := &numbering.LockedSequenceError{TenantID: testTenantID, DocumentType: numbering.DocumentTypePurchaseOrder, FiscalYear: "2025-2026"}
		f.parties.On("FindByID", mock.Anything, testTenantID, testPartyID).Return(&procurement.Party{}, nil)
		f.numbers.On("IssueWithin", mock.Anything, mock.Anything, testTenantID, numbering.DocumentTypePurchaseOrder).Return("", locked)

		_, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePurchaseOrderRequest{
			PartyID: testPartyID, OrderDate: orderDate, Items: items(),
		})
		var lerr *numbering.LockedSequenceError
		assert.ErrorAs(t, err, &lerr)
	})
}

func TestPurchaseOrderService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("draft to sent", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)
		f.orders.On("Save", mock.Anything, po).Return(nil)

		resp, err := f.svc.ChangeStatus(ctx, testTenantID, po.ID, ChangeStatusRequest{Status: "sent"})
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)
		assert.Equal(t, []string{"accepted"}, resp.AllowedTransitions)
	})

	t.Run("draft cannot skip to accepted", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)

		_, err := f.svc.ChangeStatus(ctx, testTenantID, po.ID, ChangeStatusRequest{Status: "accepted"})
		var terr *shared.InvalidTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, procurement.PurchaseOrderStatusDraft, po.Status)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("accepted has no received transition", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusAccepted
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)

		_, err := f.svc.ChangeStatus(ctx, testTenantID, po.ID, ChangeStatusRequest{Status: "received"})
		assert.Error(t, err)
	})
}

func TestPurchaseOrderService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("sent order cannot be updated", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusSent
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)

		_, err := f.svc.Update(ctx, testTenantID, po.ID, UpdatePurchaseOrderRequest{PartyID: testPartyID, Items: items()})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("draft update replaces items", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)
		f.orders.On("Save", mock.Anything, po).Return(nil)

		resp, err := f.svc.Update(ctx, testTenantID, po.ID, UpdatePurchaseOrderRequest{
			PartyID: testPartyID,
			Items:   []ItemRequest{{Description: "Paint", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromInt(250)}},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.True(t, decimal.NewFromInt(1000).Equal(resp.Amount))
	})

	t.Run("draft delete is permanent", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)
		f.ledger.On("HardDelete", mock.Anything, testTenantID, audit.EntityPurchaseOrder, po.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, testTenantID, po.ID))
	})

	t.Run("sent order cannot be deleted", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusSent
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)

		err := f.svc.Delete(ctx, testTenantID, po.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.ledger.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService_GRN(t *testing.T) {
	ctx := context.Background()
	req := CreateGRNRequest{ReceivedDate: orderDate.AddDate(0, 0, 7), ReceiptStatus: "fully"}

	t.Run("created for accepted order", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusAccepted
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)
		f.grns.On("FindByPurchaseOrder", mock.Anything, testTenantID, po.ID).Return(nil, shared.ErrNotFound)
		f.numbers.On("IssueWithin", mock.Anything, mock.Anything, testTenantID, numbering.DocumentTypeGRN).Return("GRN/2025-2026/0001", nil)
		f.grns.On("Save", mock.Anything, mock.AnythingOfType("*procurement.GRN")).Return(nil)

		resp, err := f.svc.CreateGRN(ctx, testTenantID, po.ID, shared.Actor{}, req)
		require.NoError(t, err)
		assert.Equal(t, "GRN/2025-2026/0001", resp.GRNNumber)
		assert.Equal(t, "submitted", resp.Status)
		assert.Equal(t, po.ID, resp.PurchaseOrderID)
	})

	t.Run("rejected for sent order", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusSent
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)
		f.grns.On("FindByPurchaseOrder", mock.Anything, testTenantID, po.ID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.CreateGRN(ctx, testTenantID, po.ID, shared.Actor{}, req)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("one per order", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusAccepted
		f.orders.On("FindByIDForUpdate", mock.Anything, testTenantID, po.ID).Return(po, nil)
		f.grns.On("FindByPurchaseOrder", mock.Anything, testTenantID, po.ID).Return(&procurement.GRN{}, nil)

		_, err := f.svc.CreateGRN(ctx, testTenantID, po.ID, shared.Actor{}, req)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("submitted GRN is edited", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusAccepted
		grn, err := procurement.NewGRN(po, req.ReceivedDate, procurement.ReceiptPartially, "two pallets short")
		require.NoError(t, err)
		f.grns.On("FindByIDForUpdate", mock.Anything, testTenantID, grn.ID).Return(grn, nil)
		f.grns.On("Save", mock.Anything, grn).Return(nil).Once()

		resp, err := f.svc.UpdateGRN(ctx, testTenantID, grn.ID, UpdateGRNRequest{ReceiptStatus: "fully"})
		require.NoError(t, err)
		assert.Equal(t, "fully", resp.ReceiptStatus)
		assert.Equal(t, "two pallets short", resp.Remarks, "omitted remarks are kept")
		assert.Equal(t, req.ReceivedDate, resp.ReceivedDate)
	})

	t.Run("sent GRN cannot be edited", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusAccepted
		grn, err := procurement.NewGRN(po, req.ReceivedDate, procurement.ReceiptPartially, "")
		require.NoError(t, err)
		require.NoError(t, grn.Send())
		version := grn.Version
		f.grns.On("FindByIDForUpdate", mock.Anything, testTenantID, grn.ID).Return(grn, nil)

		remarks := "recounted"
		_, err = f.svc.UpdateGRN(ctx, testTenantID, grn.ID, UpdateGRNRequest{ReceiptStatus: "fully", Remarks: &remarks})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, shared.CodeInvalidState, derr.Code)
		f.grns.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Equal(t, procurement.ReceiptPartially, grn.ReceiptStatus)
		assert.Equal(t, version, grn.Version)
	})

	t.Run("send twice fails", func(t *testing.T) {
		f := newPOFixture(t)
		po := draftOrder(t)
		po.Status = procurement.PurchaseOrderStatusAccepted
		grn, err := procurement.NewGRN(po, req.ReceivedDate, procurement.ReceiptPartially, "")
		require.NoError(t, err)
		f.grns.On("FindByIDForUpdate", mock.Anything, testTenantID, grn.ID).Return(grn, nil)
		f.grns.On("Save", mock.Anything, grn).Return(nil).Once()

		resp, err := f.svc.SendGRN(ctx, testTenantID, grn.ID)
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)

		_, err = f.svc.SendGRN(ctx, testTenantID, grn.ID)
		var terr *shared.InvalidTransitionError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, "sent", terr.From)
	})
}
