package billing

import (
	"context"
	"errors"
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

// QuotationService handles quotations and the GST invoices raised from them
type QuotationService struct {
	scope      appshared.TransactionScope
	numbers    appshared.NumberIssuer
	suppliers  billing.SupplierRegistry
	maxRetries int
	now        func() time.Time
	metrics    *telemetry.CoreMetrics
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(scope appshared.TransactionScope, numbers appshared.NumberIssuer, suppliers billing.SupplierRegistry, maxRetries int) *QuotationService {
	return &QuotationService{
		scope:      scope,
		numbers:    numbers,
		suppliers:  suppliers,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// SetCoreMetrics sets the metrics collector
func (s *QuotationService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for default document dates
func (s *QuotationService) SetClock(now func() time.Time) {
	s.now = now
}

// Create stores a numbered quotation with its items
func (s *QuotationService) Create(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req CreateQuotationRequest) (*QuotationResponse, error) {
	date := req.QuotationDate
	if date.IsZero() {
		date = s.now()
	}
	inputs := make([]billing.QuotationItemInput, len(req.Items))
	for i, it := range req.Items {
		inputs[i] = billing.QuotationItemInput{Description: it.Description, Quantity: it.Quantity, Rate: it.Rate}
	}

	var q *billing.Quotation
	err := appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		var err error
		if q, err = billing.NewQuotation(tenantID, req.ClientID, date, inputs); err != nil {
			return err
		}
		q.ValidUntil = req.ValidUntil
		q.Notes = req.Notes
		q.CreatedBy = actor.UserID

		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			if _, err := findClient(ctx, repos, tenantID, req.ClientID); err != nil {
				return err
			}
			number, err := s.numbers.IssueWithin(ctx, repos, tenantID, numbering.DocumentTypeQuotation)
			if err != nil {
				return err
			}
			if err := q.AssignNumber(number); err != nil {
				return err
			}
			return repos.Quotations().Save(ctx, q)
		})
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Quotation created",
		zap.String("quotation_id", q.ID.String()),
		zap.String("quotation_number", q.QuotationNumber),
	)
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// GetByID returns an active quotation
func (s *QuotationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.scope.Repositories().Quotations().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// Delete soft deletes the quotation and its items
func (s *QuotationService) Delete(ctx context.Context, tenantID, id uuid.UUID, actor shared.Actor) error {
	if err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		return repos.Ledger().SoftDelete(ctx, tenantID, audit.EntityQuotation, id, actor)
	}); err != nil {
		return err
	}
	s.metrics.RecordSoftDelete(ctx, tenantID, audit.EntityQuotation.String())
	return nil
}

// CreateInvoice bills a quotation with 18% GST. The split between
// CGST/SGST and IGST follows the supplier and client registrations.
// A quotation is invoiced at most once.
func (s *QuotationService) CreateInvoice(ctx context.Context, tenantID, quotationID uuid.UUID, actor shared.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create", telemetry.TenantAttr(tenantID))
	defer span.End()

	supplier, err := s.suppliers.SupplierGSTIN(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	date := req.InvoiceDate
	if date.IsZero() {
		date = s.now()
	}

	var inv *billing.GSTInvoice
	err = appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			q, err := repos.Quotations().FindByID(ctx, tenantID, quotationID)
			if err != nil {
				return err
			}
			existing, err := repos.Invoices().FindByQuotation(ctx, tenantID, quotationID)
			switch {
			case err == nil && existing != nil:
				return shared.NewDomainError(shared.CodeAlreadyExists, "quotation "+q.QuotationNumber+" is already invoiced as "+existing.InvoiceNumber)
			case err != nil && !errors.Is(err, shared.ErrNotFound):
				return err
			}
			client, err := findClient(ctx, repos, tenantID, q.ClientID)
			if err != nil {
				return err
			}

			if inv, err = billing.NewGSTInvoice(q, client, supplier, date); err != nil {
				return err
			}
			inv.CreatedBy = actor.UserID
			number, err := s.numbers.IssueWithin(ctx, repos, tenantID, numbering.DocumentTypeInvoice)
			if err != nil {
				return err
			}
			if err := inv.AssignNumber(number); err != nil {
				return err
			}
			return repos.Invoices().Save(ctx, inv)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Bool("inter_state", inv.Tax.InterState),
		zap.String("grand_total", inv.GrandTotal.StringFixed(2)),
	)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetInvoice returns an active invoice
func (s *QuotationService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.scope.Repositories().Invoices().FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}
