// Package procurement manages vendor parties, purchase orders and goods receipt.
package procurement

import (
	"context"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartyService handles vendor master records
type PartyService struct {
	scope   appshared.TransactionScope
	metrics *telemetry.CoreMetrics
}

// NewPartyService creates a new PartyService
func NewPartyService(scope appshared.TransactionScope) *PartyService {
	return &PartyService{scope: scope}
}

// SetCoreMetrics sets the metrics collector
func (s *PartyService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// Create creates a party with its locations
func (s *PartyService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreatePartyRequest) (*PartyResponse, error) {
	party, err := procurement.NewParty(tenantID, req.Name, req.GSTIN)
	if err != nil {
		return nil, err
	}
	party.SetContact(req.ContactPerson, req.Phone, req.Email)
	party.CreatedBy = actor.UserID
	for _, l := range req.Locations {
		addr, err := valueobject.NewAddress(l.Line1, l.City, l.State, l.Pincode, valueobject.WithLine2(l.Line2))
		if err != nil {
			return nil, shared.NewValidationError("locations", err.Error())
		}
		if _, err := party.AddLocation(l.Label, addr); err != nil {
			return nil, err
		}
	}

	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Parties().Save(ctx, party)
	}); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Party created", zap.String("party_id", party.ID.String()))
	resp := ToPartyResponse(party)
	return &resp, nil
}

// GetByID returns an active party
func (s *PartyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PartyResponse, error) {
	party, err := s.scope.Repositories().Parties().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartyResponse(party)
	return &resp, nil
}

// List returns active parties
func (s *PartyService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PartyResponse], error) {
	parties, total, err := s.scope.Repositories().Parties().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PartyResponse, len(parties))
	for i := range parties {
		items[i] = ToPartyResponse(&parties[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Delete soft deletes the party together with its locations
func (s *PartyService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityParty, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityParty.String())
	return nil
}
