package asset

import (
	"context"
	"testing"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/application/shared/mocks"
	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDisposalService(t *testing.T) (*Service, *mocks.AssetRepository, *mocks.DisposalRepository, *mocks.Ledger) {
	t.Helper()
	assets := new(mocks.AssetRepository)
	disposals := new(mocks.DisposalRepository)
	ledger := new(mocks.Ledger)
	svc := NewService(appshared.NewNoOpTransactionScope(&appshared.StaticRepositories{
		AssetRepo:    assets,
		DisposalRepo: disposals,
		LedgerImpl:   ledger,
	}))
	t.Cleanup(func() {
		assets.AssertExpectations(t)
		disposals.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})
	return svc, assets, disposals, ledger
}

func forklift(t *testing.T) *asset.Asset {
	t.Helper()
	a, err := asset.NewAsset(tenantID, "Forklift", "machinery", time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(100000), decimal.NewFromInt(10000), 3, asset.MethodSLM, decimal.Zero)
	require.NoError(t, err)
	return a
}

func TestService_Dispose(t *testing.T) {
	ctx := context.Background()

	t.Run("sale below book value is a loss", func(t *testing.T) {
		svc, assets, disposals, _ := newDisposalService(t)
		a := forklift(t)
		assets.On("FindByID", mock.Anything, tenantID, a.ID).Return(a, nil)
		disposals.On("FindByAsset", mock.Anything, tenantID, a.ID).Return(nil, shared.ErrNotFound)
		disposals.On("Save", mock.Anything, mock.AnythingOfType("*asset.Disposal")).Return(nil)

		resp, err := svc.Dispose(ctx, tenantID, a.ID, shared.Actor{}, DisposeAssetRequest{
			DisposalDate: today,
			DisposalMode: "sale",
			SalePrice:    decimal.NewFromInt(35000),
			BuyerDetails: "Deccan Logistics",
		})

		require.NoError(t, err)
		assert.Equal(t, a.ID, resp.AssetID)
		assert.True(t, decimal.NewFromInt(40000).Equal(resp.BookValue), resp.BookValue.String())
		assert.True(t, decimal.NewFromInt(-5000).Equal(resp.GainOrLoss), resp.GainOrLoss.String())
	})

	t.Run("an asset is disposed of once", func(t *testing.T) {
		svc, assets, disposals, _ := newDisposalService(t)
		a := forklift(t)
		assets.On("FindByID", mock.Anything, tenantID, a.ID).Return(a, nil)
		disposals.On("FindByAsset", mock.Anything, tenantID, a.ID).Return(&asset.Disposal{AssetID: a.ID}, nil)

		_, err := svc.Dispose(ctx, tenantID, a.ID, shared.Actor{}, DisposeAssetRequest{DisposalDate: today, DisposalMode: "scrapped"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		disposals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("scrap with a sale price writes nothing", func(t *testing.T) {
		svc, assets, disposals, _ := newDisposalService(t)
		a := forklift(t)
		assets.On("FindByID", mock.Anything, tenantID, a.ID).Return(a, nil)
		disposals.On("FindByAsset", mock.Anything, tenantID, a.ID).Return(nil, shared.ErrNotFound)

		_, err := svc.Dispose(ctx, tenantID, a.ID, shared.Actor{}, DisposeAssetRequest{
			DisposalDate: today,
			DisposalMode: "scrapped",
			SalePrice:    decimal.NewFromInt(100),
		})

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "sale_price", validationErr.Field)
		disposals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_CancelDisposal(t *testing.T) {
	t.Run("moves the disposal to the bin", func(t *testing.T) {
		svc, _, disposals, ledger := newDisposalService(t)
		assetID := uuid.New()
		d := &asset.Disposal{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), AssetID: assetID}
		disposals.On("FindByAsset", mock.Anything, tenantID, assetID).Return(d, nil)
		ledger.On("SoftDelete", mock.Anything, tenantID, audit.EntityAssetDisposal, d.ID, shared.Actor{}).Return(nil)

		require.NoError(t, svc.CancelDisposal(context.Background(), tenantID, assetID, shared.Actor{}))
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		svc, _, disposals, _ := newDisposalService(t)
		assetID := uuid.New()
		disposals.On("FindByAsset", mock.Anything, tenantID, assetID).Return(nil, shared.ErrNotFound)

		err := svc.CancelDisposal(context.Background(), tenantID, assetID, shared.Actor{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
