package billing

import (
	"context"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptService records payments received from clients
type ReceiptService struct {
	scope      appshared.TransactionScope
	numbers    appshared.NumberIssuer
	maxRetries int
	now        func() time.Time
	metrics    *telemetry.CoreMetrics
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(scope appshared.TransactionScope, numbers appshared.NumberIssuer, maxRetries int) *ReceiptService {
	return &ReceiptService{scope: scope, numbers: numbers, maxRetries: maxRetries, now: time.Now}
}

// SetCoreMetrics sets the metrics collector
func (s *ReceiptService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for default receipt dates
func (s *ReceiptService) SetClock(now func() time.Time) {
	s.now = now
}

// Create stores a numbered receipt, net of TDS
func (s *ReceiptService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateReceiptRequest) (*ReceiptResponse, error) {
	date := req.ReceiptDate
	if date.IsZero() {
		date = s.now()
	}

	var r *billing.Receipt
	err := appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		var err error
		r, err = billing.NewReceipt(tenantID, req.ClientID, req.InvoiceID, date,
			billing.PaymentMode(req.PaymentMode), req.Reference, req.Amount, req.TDSPercentage)
		if err != nil {
			return err
		}
		r.CreatedBy = actor.UserID

		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			if _, err := findClient(ctx, repos, tenantID, req.ClientID); err != nil {
				return err
			}
			if req.InvoiceID != nil {
				inv, err := repos.Invoices().FindByID(ctx, tenantID, *req.InvoiceID)
				if err != nil {
					return err
				}
				if inv.ClientID != req.ClientID {
					return shared.NewValidationError("invoice_id", "invoice belongs to a different client")
				}
			}
			number, err := s.numbers.IssueWithin(ctx, repos, tenantID, numbering.DocumentTypeReceipt)
			if err != nil {
				return err
			}
			if err := r.AssignNumber(number); err != nil {
				return err
			}
			return repos.Receipts().Save(ctx, r)
		})
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Receipt created",
		zap.String("receipt_id", r.ID.String()),
		zap.String("receipt_number", r.ReceiptNumber),
	)
	resp := ToReceiptResponse(r)
	return &resp, nil
}

// GetByID returns an active receipt
func (s *ReceiptService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReceiptResponse, error) {
	r, err := s.scope.Repositories().Receipts().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(r)
	return &resp, nil
}

// Delete soft deletes a receipt
func (s *ReceiptService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityReceipt, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityReceipt.String())
	return nil
}
