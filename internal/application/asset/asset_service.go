// Package asset manages fixed assets and their depreciation schedules.
package asset

import (
	"context"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles fixed assets
type Service struct {
	scope   appshared.TransactionScope
	now     func() time.Time
	metrics *telemetry.CoreMetrics
}

// NewService creates a new asset Service
func NewService(scope appshared.TransactionScope) *Service {
	return &Service{scope: scope, now: time.Now}
}

// SetCoreMetrics sets the metrics collector
func (s *Service) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for book values
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create registers an asset
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateAssetRequest) (*AssetResponse, error) {
	a, err := asset.NewAsset(tenantID, req.Name, req.Category, req.PurchaseDate, req.Cost, req.SalvageValue,
		req.UsefulLifeYears, asset.DepreciationMethod(req.DepreciationMethod), req.DepreciationRate)
	if err != nil {
		return nil, err
	}
	a.CreatedBy = actor.UserID

	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Assets().Save(ctx, a)
	}); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Asset created", zap.String("asset_id", a.ID.String()), zap.String("method", string(a.Method)))
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// GetByID returns an active asset valued as of today
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	a, err := s.scope.Repositories().Assets().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAssetResponse(a, s.now())
	return &resp, nil
}

// List returns active assets
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[AssetResponse], error) {
	assets, total, err := s.scope.Repositories().Assets().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]AssetResponse, len(assets))
	for i := range assets {
		items[i] = ToAssetResponse(&assets[i], now)
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Schedule returns the asset's fiscal-year depreciation schedule
func (s *Service) Schedule(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleResponse, error) {
	a, err := s.scope.Repositories().Assets().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	entries := a.Schedule()
	out := make([]DepreciationEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = DepreciationEntryResponse{
			FiscalYear:   e.FiscalYear.String(),
			OpeningValue: e.OpeningValue,
			Depreciation: e.Depreciation,
			ClosingValue: e.ClosingValue,
		}
	}
	return &ScheduleResponse{AssetID: a.ID, Method: string(a.Method), Entries: out}, nil
}

// Delete soft deletes an asset and its disposal
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityAsset, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityAsset.String())
	return nil
}
