package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
)

// CoreMetrics holds the counters emitted by numbering, the recycle bin and
// the status-transition services.
type CoreMetrics struct {
	numbersIssued      *Counter
	numberLatency      *Histogram
	lockedRejections   *Counter
	softDeletes        *Counter
	hardDeletes        *Counter
	invalidTransitions *Counter
	commissions        *Counter
}

// NewCoreMetrics registers the back-office instruments on meter.
func NewCoreMetrics(meter metric.Meter) (*CoreMetrics, error) {
	in := NewInstruments(meter)
	m := &CoreMetrics{
		numbersIssued: in.Counter("erp_document_numbers_issued_total",
			"Document numbers issued", "{number}"),
		numberLatency: in.Histogram("erp_document_number_duration_seconds",
			"Time spent issuing a document number, including retries", "s", SmallDurationBuckets),
		lockedRejections: in.Counter("erp_sequence_locked_rejections_total",
			"Number requests rejected because the sequence is locked", "{request}"),
		softDeletes: in.Counter("erp_soft_deletes_total",
			"Entities moved to the recycle bin", "{entity}"),
		hardDeletes: in.Counter("erp_hard_deletes_total",
			"Entities permanently removed", "{entity}"),
		invalidTransitions: in.Counter("erp_invalid_transitions_total",
			"Status changes rejected by the transition table", "{request}"),
		commissions: in.Counter("erp_commissions_calculated_total",
			"Deal commissions calculated", "{deal}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordNumberIssued counts an issued number and how long issuing took.
func (m *CoreMetrics) RecordNumberIssued(ctx context.Context, tenantID uuid.UUID, docType string, took time.Duration) {
	if m == nil {
		return
	}
	m.numbersIssued.Inc(ctx, TenantAttr(tenantID), AttrDocumentType.String(docType))
	m.numberLatency.RecordDuration(ctx, took, AttrDocumentType.String(docType))
}

func (m *CoreMetrics) RecordLockedRejection(ctx context.Context, tenantID uuid.UUID, docType string) {
	if m == nil {
		return
	}
	m.lockedRejections.Inc(ctx, TenantAttr(tenantID), AttrDocumentType.String(docType))
}

func (m *CoreMetrics) RecordSoftDelete(ctx context.Context, tenantID uuid.UUID, entityType string) {
	if m == nil {
		return
	}
	m.softDeletes.Inc(ctx, TenantAttr(tenantID), AttrEntityType.String(entityType))
}

func (m *CoreMetrics) RecordHardDelete(ctx context.Context, tenantID uuid.UUID, entityType string) {
	if m == nil {
		return
	}
	m.hardDeletes.Inc(ctx, TenantAttr(tenantID), AttrEntityType.String(entityType))
}

// RecordInvalidTransition counts a rejected status change for entity.
func (m *CoreMetrics) RecordInvalidTransition(ctx context.Context, entity, from, to string) {
	if m == nil {
		return
	}
	m.invalidTransitions.Inc(ctx, AttrEntity.String(entity), AttrFromStatus.String(from), AttrToStatus.String(to))
}

func (m *CoreMetrics) RecordCommission(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.commissions.Inc(ctx, TenantAttr(tenantID))
}
