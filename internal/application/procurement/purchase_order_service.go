package procurement

import (
	"context"
	"errors"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase orders and their GRNs
type PurchaseOrderService struct {
	scope      appshared.TransactionScope
	numbers    appshared.NumberIssuer
	maxRetries int
	metrics    *telemetry.CoreMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService. maxRetries bounds
// how often a numbered create is replayed after a serialization conflict.
func NewPurchaseOrderService(scope appshared.TransactionScope, numbers appshared.NumberIssuer, maxRetries int) *PurchaseOrderService {
	return &PurchaseOrderService{scope: scope, numbers: numbers, maxRetries: maxRetries}
}

// SetCoreMetrics sets the metrics collector
func (s *PurchaseOrderService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// Create stores a draft order, its items and its number in one transaction
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create", telemetry.TenantAttr(tenantID))
	defer span.End()

	var po *procurement.PurchaseOrder
	err := appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		var err error
		po, err = procurement.NewPurchaseOrder(tenantID, req.PartyID, req.OrderDate, toItemInputs(req.Items))
		if err != nil {
			return err
		}
		po.ExpectedDate = req.ExpectedDate
		po.Notes = req.Notes
		po.CreatedBy = actor.UserID

		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			if err := requireParty(ctx, repos, tenantID, req.PartyID); err != nil {
				return err
			}
			number, err := s.numbers.IssueWithin(ctx, repos, tenantID, numbering.DocumentTypePurchaseOrder)
			if err != nil {
				return err
			}
			if err := po.AssignNumber(number); err != nil {
				return err
			}
			return repos.PurchaseOrders().Save(ctx, po)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("po_number", po.OrderNumber))
	logger.L(ctx).Info("Purchase order created",
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("po_number", po.OrderNumber),
		zap.String("amount", po.Amount.StringFixed(2)),
	)
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

func requireParty(ctx context.Context, repos appshared.Repositories, tenantID, partyID uuid.UUID) error {
	if _, err := repos.Parties().FindByID(ctx, tenantID, partyID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("party_id", "party does not exist")
		}
		return err
	}
	return nil
}

// GetByID returns an active purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.scope.Repositories().PurchaseOrders().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List returns active purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, f PurchaseOrderListFilter) (*shared.Paginated[PurchaseOrderResponse], error) {
	filter := procurement.PurchaseOrderFilter{
		Filter:  shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search, OrderBy: "order_date", OrderDir: "desc"},
		Status:  procurement.PurchaseOrderStatus(f.Status),
		PartyID: f.PartyID,
	}
	orders, total, err := s.scope.Repositories().PurchaseOrders().FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToPurchaseOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Update replaces a draft order's details and items
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var po *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		if po, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		if req.PartyID != po.PartyID {
			if err := requireParty(ctx, repos, tenantID, req.PartyID); err != nil {
				return err
			}
		}
		if err := po.Update(req.PartyID, req.OrderDate, req.ExpectedDate, req.Notes, toItemInputs(req.Items)); err != nil {
			return err
		}
		return repos.PurchaseOrders().Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// ChangeStatus moves the order along draft -> sent -> accepted, checked
// against the persisted status under a row lock.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeStatusRequest) (*PurchaseOrderResponse, error) {
	to := procurement.PurchaseOrderStatus(req.Status)
	var po *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		if po, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		from := po.Status
		if err := po.ChangeStatus(to); err != nil {
			var invalid *shared.InvalidTransitionError
			if errors.As(err, &invalid) {
				s.metrics.RecordInvalidTransition(ctx, procurement.EntityPurchaseOrder, string(from), string(to))
			}
			return err
		}
		return repos.PurchaseOrders().Save(ctx, po)
	})
	if err != nil {
		logger.L(ctx).Warn("Purchase order status change rejected",
			zap.String("purchase_order_id", id.String()),
			zap.String("to", req.Status),
			zap.Error(err),
		)
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Delete permanently removes a draft order and its items
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := po.CheckDeletable(); err != nil {
			return err
		}
		return repos.Ledger().HardDelete(ctx, tenantID, audit.EntityPurchaseOrder, id)
	})
	if err != nil {
		return err
	}
	s.metrics.RecordHardDelete(ctx, tenantID, audit.EntityPurchaseOrder.String())
	return nil
}

// CreateGRN raises the order's goods received note. The order must be
// accepted and must not already have one.
func (s *PurchaseOrderService) CreateGRN(ctx context.Context, tenantID, orderID uuid.UUID, actor shared.Actor, req CreateGRNRequest) (*GRNResponse, error) {
	var grn *procurement.GRN
	err := appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			po, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, tenantID, orderID)
			if err != nil {
				return err
			}
			existing, err := repos.GRNs().FindByPurchaseOrder(ctx, tenantID, orderID)
			switch {
			case err == nil && existing != nil:
				return shared.NewDomainError(shared.CodeAlreadyExists, "a GRN already exists for purchase order "+po.OrderNumber)
			case err != nil && !errors.Is(err, shared.ErrNotFound):
				return err
			}

			if grn, err = procurement.NewGRN(po, req.ReceivedDate, procurement.ReceiptStatus(req.ReceiptStatus), req.Remarks); err != nil {
				return err
			}
			grn.CreatedBy = actor.UserID
			number, err := s.numbers.IssueWithin(ctx, repos, tenantID, numbering.DocumentTypeGRN)
			if err != nil {
				return err
			}
			if err := grn.AssignNumber(number); err != nil {
				return err
			}
			return repos.GRNs().Save(ctx, grn)
		})
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("GRN created",
		zap.String("grn_id", grn.ID.String()),
		zap.String("grn_number", grn.GRNNumber),
	)
	resp := ToGRNResponse(grn)
	return &resp, nil
}

// UpdateGRN edits a GRN that has not been sent. The row is re-read under
// lock so a concurrent send wins or loses as a whole.
func (s *PurchaseOrderService) UpdateGRN(ctx context.Context, tenantID, id uuid.UUID, req UpdateGRNRequest) (*GRNResponse, error) {
	var grn *procurement.GRN
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		if grn, err = repos.GRNs().FindByIDForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		receipt := grn.ReceiptStatus
		if req.ReceiptStatus != "" {
			receipt = procurement.ReceiptStatus(req.ReceiptStatus)
		}
		remarks := grn.Remarks
		if req.Remarks != nil {
			remarks = *req.Remarks
		}
		if err := grn.Update(req.ReceivedDate, receipt, remarks); err != nil {
			return err
		}
		return repos.GRNs().Save(ctx, grn)
	})
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("GRN updated", zap.String("grn_number", grn.GRNNumber))
	resp := ToGRNResponse(grn)
	return &resp, nil
}

// SendGRN moves a submitted GRN to sent
func (s *PurchaseOrderService) SendGRN(ctx context.Context, tenantID, id uuid.UUID) (*GRNResponse, error) {
	var grn *procurement.GRN
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		if grn, err = repos.GRNs().FindByIDForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		from := grn.Status
		if err := grn.Send(); err != nil {
			s.metrics.RecordInvalidTransition(ctx, procurement.EntityGRN, string(from), string(procurement.GRNStatusSent))
			return err
		}
		return repos.GRNs().Save(ctx, grn)
	})
	if err != nil {
		return nil, err
	}
	resp := ToGRNResponse(grn)
	return &resp, nil
}

// GetGRN returns an active GRN
func (s *PurchaseOrderService) GetGRN(ctx context.Context, tenantID, id uuid.UUID) (*GRNResponse, error) {
	grn, err := s.scope.Repositories().GRNs().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToGRNResponse(grn)
	return &resp, nil
}

// DeleteGRN soft deletes a GRN
func (s *PurchaseOrderService) DeleteGRN(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityGRN, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityGRN.String())
	return nil
}
