// Package billing manages clients, quotations, GST invoices and receipts.
package billing

import (
	"context"
	"errors"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService handles client master records
type ClientService struct {
	scope   appshared.TransactionScope
	metrics *telemetry.CoreMetrics
}

// NewClientService creates a new ClientService
func NewClientService(scope appshared.TransactionScope) *ClientService {
	return &ClientService{scope: scope}
}

// SetCoreMetrics sets the metrics collector
func (s *ClientService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// Create creates a client with its locations
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateClientRequest) (*ClientResponse, error) {
	client, err := billing.NewClient(tenantID, req.Name, req.GSTIN)
	if err != nil {
		return nil, err
	}
	client.Email = req.Email
	client.Phone = req.Phone
	client.CreatedBy = actor.UserID
	for _, l := range req.Locations {
		addr, err := valueobject.NewAddress(l.Line1, l.City, l.State, l.Pincode, valueobject.WithLine2(l.Line2))
		if err != nil {
			return nil, shared.NewValidationError("locations", err.Error())
		}
		if _, err := client.AddLocation(l.Label, addr); err != nil {
			return nil, err
		}
	}

	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Clients().Save(ctx, client)
	}); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Client created", zap.String("client_id", client.ID.String()))
	resp := ToClientResponse(client)
	return &resp, nil
}

// GetByID returns an active client
func (s *ClientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.scope.Repositories().Clients().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// List returns active clients
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ClientResponse], error) {
	clients, total, err := s.scope.Repositories().Clients().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = ToClientResponse(&clients[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Delete soft deletes the client and its locations
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityClient, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityClient.String())
	return nil
}

func findClient(ctx context.Context, repos appshared.Repositories, tenantID, id uuid.UUID) (*billing.Client, error) {
	client, err := repos.Clients().FindByID(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewValidationError("client_id", "client does not exist")
	}
	return client, err
}
