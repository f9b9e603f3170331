// Package numbering issues gap-free document numbers per tenant, document
// type and fiscal year.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults are applied to sequences created on first use.
type Defaults struct {
	StartNumber    int64
	Padding        int
	Separator      string
	PrefixTemplate string // empty: the document type's prefix followed by /{FY}
	SuffixTemplate string
}

// Service is the sequence generator.
type Service struct {
	scope      appshared.TransactionScope
	tenants    numbering.TenantDirectory
	guard      SequenceGuard
	defaults   Defaults
	maxRetries int
	now        func() time.Time
	metrics    *telemetry.CoreMetrics
}

// NewService creates the sequence generator. A nil guard means LocalGuard.
func NewService(scope appshared.TransactionScope, tenants numbering.TenantDirectory, guard SequenceGuard, defaults Defaults, maxRetries int) *Service {
	if guard == nil {
		guard = LocalGuard{}
	}
	return &Service{
		scope:      scope,
		tenants:    tenants,
		guard:      guard,
		defaults:   defaults,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// SetCoreMetrics sets the metrics collector
func (s *Service) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

// SetClock replaces the clock used for fiscal years and issue dates
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CurrentFiscalYear returns the fiscal year of the service clock
func (s *Service) CurrentFiscalYear() numbering.FiscalYear {
	return numbering.FiscalYearFor(s.now())
}

// SettingsFor returns the settings a new sequence of docType is created with.
func (s *Service) SettingsFor(docType numbering.DocumentType) numbering.Settings {
	st := numbering.DefaultSettings(docType)
	if s.defaults.PrefixTemplate != "" {
		st.PrefixTemplate = s.defaults.PrefixTemplate
	}
	if s.defaults.SuffixTemplate != "" {
		st.SuffixTemplate = s.defaults.SuffixTemplate
	}
	if s.defaults.Separator != "" {
		st.Separator = s.defaults.Separator
	}
	if s.defaults.StartNumber > 0 {
		st.StartNumber = s.defaults.StartNumber
	}
	if s.defaults.Padding > 0 {
		st.Padding = s.defaults.Padding
	}
	return st
}

// NextNumber issues the next number of the sequence in its own transaction.
// Concurrent callers on one sequence get distinct, consecutive numbers.
func (s *Service) NextNumber(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*IssuedNumberResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "numbering", "next_number",
		telemetry.TenantAttr(tenantID), telemetry.AttrDocumentType.String(docType.String()))
	defer span.End()

	key, err := numbering.NewKey(tenantID, docType, fy)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	release, err := s.guard.Acquire(ctx, key)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	var issued *numbering.IssuedNumber
	err = appshared.RetryOnConflict(ctx, s.maxRetries, func() error {
		return s.scope.Execute(ctx, func(repos appshared.Repositories) error {
			var err error
			issued, err = s.issue(ctx, repos, key)
			return err
		})
	})
	if err != nil {
		s.recordFailure(ctx, key, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordNumberIssued(ctx, tenantID, docType.String(), time.Since(started))
	logger.L(ctx).Info("Document number issued",
		zap.String("document_type", docType.String()),
		zap.String("fiscal_year", fy.String()),
		zap.String("number", issued.Formatted),
	)
	return toIssuedNumberResponse(issued), nil
}

// GenerateDocumentNumber issues a number in the fiscal year of the service clock.
func (s *Service) GenerateDocumentNumber(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType) (string, error) {
	issued, err := s.NextNumber(ctx, tenantID, docType, numbering.FiscalYearFor(s.now()))
	if err != nil {
		return "", err
	}
	return issued.Formatted, nil
}

// IssueWithin issues a number using repos from the caller's transaction, so
// the number is only consumed if the caller commits.
func (s *Service) IssueWithin(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, docType numbering.DocumentType) (string, error) {
	key, err := numbering.NewKey(tenantID, docType, numbering.FiscalYearFor(s.now()))
	if err != nil {
		return "", err
	}
	started := time.Now()
	issued, err := s.issue(ctx, repos, key)
	if err != nil {
		s.recordFailure(ctx, key, err)
		return "", err
	}
	s.metrics.RecordNumberIssued(ctx, tenantID, docType.String(), time.Since(started))
	return issued.Formatted, nil
}

func (s *Service) issue(ctx context.Context, repos appshared.Repositories, key numbering.Key) (*numbering.IssuedNumber, error) {
	seq, err := repos.Sequences().IncrementAndGet(ctx, key, s.SettingsFor(key.DocumentType))
	if err != nil {
		return nil, err
	}
	code, err := s.tenantCode(ctx, seq)
	if err != nil {
		return nil, err
	}
	issuedAt := s.now()
	return &numbering.IssuedNumber{
		Key:       key,
		Number:    seq.CurrentNumber,
		Formatted: seq.Format(seq.CurrentNumber, issuedAt, code),
		IssuedAt:  issuedAt,
	}, nil
}

// tenantCode is only looked up when a template asks for it.
func (s *Service) tenantCode(ctx context.Context, seq *numbering.DocumentSequence) (string, error) {
	if s.tenants == nil ||
		!strings.Contains(seq.PrefixTemplate+seq.SuffixTemplate, numbering.PlaceholderTenantCode) {
		return "", nil
	}
	code, err := s.tenants.TenantCode(ctx, seq.TenantID)
	if err != nil {
		return "", fmt.Errorf("resolve tenant code: %w", err)
	}
	return code, nil
}

func (s *Service) recordFailure(ctx context.Context, key numbering.Key, err error) {
	var locked *numbering.LockedSequenceError
	if errors.As(err, &locked) {
		s.metrics.RecordLockedRejection(ctx, key.TenantID, key.DocumentType.String())
		logger.L(ctx).Warn("Number requested from locked sequence", zap.String("sequence", key.String()))
		return
	}
	logger.L(ctx).Error("Failed to issue document number", zap.String("sequence", key.String()), zap.Error(err))
}

// PeekCurrent returns the last issued number without advancing. A sequence
// that does not exist yet reports start_number-1 of the defaults.
func (s *Service) PeekCurrent(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*CurrentNumberResponse, error) {
	key, err := numbering.NewKey(tenantID, docType, fy)
	if err != nil {
		return nil, err
	}
	resp := &CurrentNumberResponse{DocumentType: docType.String(), FiscalYear: fy.String()}

	seq, err := s.scope.Repositories().Sequences().FindByKey(ctx, key)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		resp.CurrentNumber = s.SettingsFor(docType).StartNumber - 1
	case err != nil:
		return nil, err
	default:
		resp.CurrentNumber = seq.Peek()
	}
	return resp, nil
}

// Lock stops the sequence from issuing numbers
func (s *Service) Lock(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*SequenceResponse, error) {
	return s.mutate(ctx, tenantID, docType, fy, "lock", func(seq *numbering.DocumentSequence) error {
		seq.LockIssuing()
		return nil
	})
}

// Unlock allows the sequence to issue numbers again
func (s *Service) Unlock(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*SequenceResponse, error) {
	return s.mutate(ctx, tenantID, docType, fy, "unlock", func(seq *numbering.DocumentSequence) error {
		seq.UnlockIssuing()
		return nil
	})
}

// Reset rewinds the counter to start_number-1 and clears the lock.
func (s *Service) Reset(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear) (*SequenceResponse, error) {
	return s.mutate(ctx, tenantID, docType, fy, "reset", func(seq *numbering.DocumentSequence) error {
		seq.Reset()
		return nil
	})
}

// Provision creates or reconfigures a sequence before use. The counter never
// moves backwards.
func (s *Service) Provision(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, req ProvisionRequest) (*SequenceResponse, error) {
	fy := s.CurrentFiscalYear()
	if req.FiscalYear != "" {
		parsed, err := numbering.ParseFiscalYear(req.FiscalYear)
		if err != nil {
			return nil, err
		}
		fy = parsed
	}
	return s.mutate(ctx, tenantID, docType, fy, "provision", func(seq *numbering.DocumentSequence) error {
		return seq.Reconfigure(req.apply(seq.Settings()))
	})
}

func (s *Service) mutate(ctx context.Context, tenantID uuid.UUID, docType numbering.DocumentType, fy numbering.FiscalYear, op string, fn func(*numbering.DocumentSequence) error) (*SequenceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "numbering", op, telemetry.TenantAttr(tenantID))
	defer span.End()

	key, err := numbering.NewKey(tenantID, docType, fy)
	if err != nil {
		return nil, err
	}

	var seq *numbering.DocumentSequence
	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		seq, err = repos.Sequences().Mutate(ctx, key, s.SettingsFor(docType), fn)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Sequence updated", zap.String("operation", op), zap.String("sequence", key.String()))
	resp := ToSequenceResponse(seq)
	return &resp, nil
}

// List returns a tenant's sequences
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SequenceResponse], error) {
	seqs, total, err := s.scope.Repositories().Sequences().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SequenceResponse, len(seqs))
	for i := range seqs {
		items[i] = ToSequenceResponse(&seqs[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}
