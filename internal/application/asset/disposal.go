package asset

import (
	"context"
	"errors"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispose records the sale, scrapping or trade-in of an asset. An asset is
// disposed of once; cancel the disposal to record a different one.
func (s *Service) Dispose(ctx context.Context, tenantID, assetID uuid.UUID, actor shared.Actor, req DisposeAssetRequest) (*DisposalResponse, error) {
	var d *asset.Disposal
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		a, err := repos.Assets().FindByID(ctx, tenantID, assetID)
		if err != nil {
			return err
		}
		existing, err := repos.Disposals().FindByAsset(ctx, tenantID, assetID)
		switch {
		case err == nil && existing != nil:
			return shared.NewDomainError(shared.CodeAlreadyExists, "asset "+a.Name+" is already disposed of")
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return err
		}

		if d, err = a.Dispose(asset.DisposalInput{
			Date:         req.DisposalDate,
			Mode:         asset.DisposalMode(req.DisposalMode),
			SalePrice:    req.SalePrice,
			BuyerDetails: req.BuyerDetails,
			Notes:        req.Notes,
		}); err != nil {
			return err
		}
		d.CreatedBy = actor.UserID
		return repos.Disposals().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Asset disposed",
		zap.String("asset_id", assetID.String()),
		zap.String("mode", string(d.Mode)),
		zap.String("gain_or_loss", d.GainOrLoss().StringFixed(2)),
	)
	resp := ToDisposalResponse(d)
	return &resp, nil
}

// GetDisposal returns the asset's active disposal
func (s *Service) GetDisposal(ctx context.Context, tenantID, assetID uuid.UUID) (*DisposalResponse, error) {
	d, err := s.scope.Repositories().Disposals().FindByAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	resp := ToDisposalResponse(d)
	return &resp, nil
}

// CancelDisposal moves the asset's disposal to the recycle bin
func (s *Service) CancelDisposal(ctx context.Context, tenantID, assetID uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		d, err := repos.Disposals().FindByAsset(ctx, tenantID, assetID)
		if err != nil {
			return err
		}
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityAssetDisposal, d.ID, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityAssetDisposal.String())
	return nil
}
