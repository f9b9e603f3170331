// Package audit exposes the recycle bin built from soft-delete audit records.
package audit

import (
	"context"
	"fmt"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordResponse is an audit record in API responses
type RecordResponse struct {
	ID          uuid.UUID      `json:"id"`
	EntityType  string         `json:"entity_type"`
	EntityLabel string         `json:"entity_label"`
	EntityID    uuid.UUID      `json:"entity_id"`
	Snapshot    map[string]any `json:"snapshot"`
	DeletedBy   *uuid.UUID     `json:"deleted_by,omitempty"`
	DeletedAt   time.Time      `json:"deleted_at"`
}

// ToRecordResponse converts an audit record to RecordResponse
func ToRecordResponse(r *audit.AuditRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		EntityType:  r.EntityType.String(),
		EntityLabel: r.EntityType.Label(),
		EntityID:    r.EntityID,
		Snapshot:    r.Snapshot,
		DeletedBy:   r.DeletedBy,
		DeletedAt:   r.DeletedAt,
	}
}

// ListFilter narrows recycle bin listings
type ListFilter struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	EntityType string `form:"entity_type" binding:"omitempty,entity_type"`
}

// RecycleBinService lists soft deleted entities and purges them
type RecycleBinService struct {
	scope   appshared.TransactionScope
	metrics *telemetry.CoreMetrics
}

// NewRecycleBinService creates a new RecycleBinService
func NewRecycleBinService(scope appshared.TransactionScope) *RecycleBinService {
	return &RecycleBinService{scope: scope}
}

// SetCoreMetrics sets the metrics collector
func (s *RecycleBinService) SetCoreMetrics(m *telemetry.CoreMetrics) {
	s.metrics = m
}

func parseEntityType(raw string) (audit.EntityType, error) {
	t := audit.EntityType(raw)
	if !t.IsValid() {
		return "", shared.NewValidationError("entity_type", fmt.Sprintf("unknown entity type %q", raw))
	}
	return t, nil
}

// List returns audit records newest first. An empty entity type lists all types.
func (s *RecycleBinService) List(ctx context.Context, tenantID uuid.UUID, f ListFilter) (*shared.Paginated[RecordResponse], error) {
	var entityType audit.EntityType
	if f.EntityType != "" {
		var err error
		if entityType, err = parseEntityType(f.EntityType); err != nil {
			return nil, err
		}
	}
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize, OrderBy: "deleted_at", OrderDir: "desc"}
	records, total, err := s.scope.Repositories().AuditRecords().FindAllForTenant(ctx, tenantID, entityType, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RecordResponse, len(records))
	for i := range records {
		items[i] = ToRecordResponse(&records[i])
	}
	page := shared.NewPaginated(items, total, filter.PageNumber(), filter.Limit())
	return &page, nil
}

// Get returns the audit record of one deleted entity
func (s *RecycleBinService) Get(ctx context.Context, tenantID uuid.UUID, entityType string, id uuid.UUID) (*RecordResponse, error) {
	t, err := parseEntityType(entityType)
	if err != nil {
		return nil, err
	}
	rec, err := s.scope.Repositories().AuditRecords().FindByEntity(ctx, tenantID, t, id)
	if err != nil {
		return nil, err
	}
	resp := ToRecordResponse(rec)
	return &resp, nil
}

// Purge hard deletes an entity from the recycle bin together with its
// audit record and children. Only soft deleted entities can be purged here.
func (s *RecycleBinService) Purge(ctx context.Context, tenantID uuid.UUID, entityType string, id uuid.UUID) error {
	t, err := parseEntityType(entityType)
	if err != nil {
		return err
	}
	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if _, err := repos.AuditRecords().FindByEntity(ctx, tenantID, t, id); err != nil {
			return err
		}
		return repos.Ledger().HardDelete(ctx, tenantID, t, id)
	})
	if err != nil {
		return err
	}
	s.metrics.RecordHardDelete(ctx, tenantID, t.String())
	logger.L(ctx).Info("Entity purged", zap.String("entity_type", t.String()), zap.String("entity_id", id.String()))
	return nil
}
