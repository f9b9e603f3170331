package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements numbering.SequenceRepository.
// Its methods lock the sequence row with SELECT ... FOR UPDATE, so they must
// run on a transaction handle (see GormTransactionScope).
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

var sequenceKeyColumns = []clause.Column{
	{Name: "tenant_id"},
	{Name: "document_type"},
	{Name: "fiscal_year"},
}

// IncrementAndGet locks the row, advances it in the domain and persists the
// increment as current_number = current_number + 1.
func (r *GormSequenceRepository) IncrementAndGet(ctx context.Context, key numbering.Key, defaults numbering.Settings) (*numbering.DocumentSequence, error) {
	model, err := r.lockOrCreate(ctx, key, defaults)
	if err != nil {
		return nil, err
	}

	seq := model.ToDomain()
	if _, err := seq.Advance(); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.DocumentSequenceModel{}).
		Where("id = ?", model.ID).
		UpdateColumns(map[string]any{
			"current_number": gorm.Expr("current_number + 1"),
			"version":        gorm.Expr("version + 1"),
			"updated_at":     seq.UpdatedAt,
		})
	if result.Error != nil {
		return nil, wrapError("increment sequence", result.Error)
	}
	if result.RowsAffected != 1 {
		return nil, shared.ErrConcurrencyConflict
	}
	return seq, nil
}

// FindByKey returns the sequence or shared.ErrNotFound
func (r *GormSequenceRepository) FindByKey(ctx context.Context, key numbering.Key) (*numbering.DocumentSequence, error) {
	var model models.DocumentSequenceModel
	if err := r.byKey(r.db.WithContext(ctx), key).First(&model).Error; err != nil {
		return nil, wrapError("find sequence", err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists a tenant's sequences, newest fiscal year first
func (r *GormSequenceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]numbering.DocumentSequence, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentSequenceModel{}).Where("tenant_id = ?", tenantID)
	if docType := filter.Attr("document_type"); docType != "" {
		query = query.Where("document_type = ?", docType)
	}
	return findPage(query, filter, SequenceSortFields, "fiscal_year DESC, document_type ASC",
		func(m *models.DocumentSequenceModel) numbering.DocumentSequence { return *m.ToDomain() })
}

// Mutate locks the row (creating it with defaults), applies fn and saves
// every column.
func (r *GormSequenceRepository) Mutate(ctx context.Context, key numbering.Key, defaults numbering.Settings, fn func(*numbering.DocumentSequence) error) (*numbering.DocumentSequence, error) {
	model, err := r.lockOrCreate(ctx, key, defaults)
	if err != nil {
		return nil, err
	}
	seq := model.ToDomain()
	if err := fn(seq); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(models.DocumentSequenceModelFromDomain(seq)).Error; err != nil {
		return nil, wrapError("save sequence", err)
	}
	return seq, nil
}

// lockOrCreate returns the locked row, inserting it first when missing.
// Concurrent first uses race on the unique key; ON CONFLICT DO NOTHING lets
// the loser fall through to the lock.
func (r *GormSequenceRepository) lockOrCreate(ctx context.Context, key numbering.Key, defaults numbering.Settings) (*models.DocumentSequenceModel, error) {
	model, err := r.lock(ctx, key)
	if err == nil {
		return model, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	seq, err := numbering.NewDocumentSequence(key, defaults)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: sequenceKeyColumns, DoNothing: true}).
		Create(models.DocumentSequenceModelFromDomain(seq)).Error; err != nil {
		return nil, wrapError("create sequence", err)
	}
	return r.lock(ctx, key)
}

func (r *GormSequenceRepository) lock(ctx context.Context, key numbering.Key) (*models.DocumentSequenceModel, error) {
	var model models.DocumentSequenceModel
	err := r.byKey(r.db.WithContext(ctx), key).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&model).Error
	if err != nil {
		return nil, wrapError("lock sequence", err)
	}
	return &model, nil
}

func (r *GormSequenceRepository) byKey(db *gorm.DB, key numbering.Key) *gorm.DB {
	return db.Where("tenant_id = ? AND document_type = ? AND fiscal_year = ?",
		key.TenantID, key.DocumentType, key.FiscalYear)
}

// Ensure GormSequenceRepository implements numbering.SequenceRepository
var _ numbering.SequenceRepository = (*GormSequenceRepository)(nil)
