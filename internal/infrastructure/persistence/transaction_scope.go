package persistence

import (
	"context"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/procurement"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{db: tx})
	})
}

// Repositories returns repositories bound to the pool, outside any transaction.
func (s *GormTransactionScope) Repositories() appshared.Repositories {
	return &gormRepositories{db: s.db}
}

// gormRepositories hands out repositories sharing one *gorm.DB, which is the
// transaction inside Execute.
type gormRepositories struct {
	db *gorm.DB
}

func (r *gormRepositories) Sequences() numbering.SequenceRepository {
	return NewGormSequenceRepository(r.db)
}

func (r *gormRepositories) Ledger() audit.Ledger { return NewGormLedger(r.db) }

func (r *gormRepositories) AuditRecords() audit.RecordRepository {
	return NewGormAuditRecordRepository(r.db)
}

func (r *gormRepositories) Agents() crm.AgentRepository { return NewGormAgentRepository(r.db) }
func (r *gormRepositories) Deals() crm.DealRepository   { return NewGormDealRepository(r.db) }

func (r *gormRepositories) Parties() procurement.PartyRepository {
	return NewGormPartyRepository(r.db)
}

func (r *gormRepositories) PurchaseOrders() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.db)
}

func (r *gormRepositories) GRNs() procurement.GRNRepository { return NewGormGRNRepository(r.db) }

func (r *gormRepositories) Clients() billing.ClientRepository { return NewGormClientRepository(r.db) }

func (r *gormRepositories) Quotations() billing.QuotationRepository {
	return NewGormQuotationRepository(r.db)
}

func (r *gormRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.db)
}
func (r *gormRepositories) Receipts() billing.ReceiptRepository {
	return NewGormReceiptRepository(r.db)
}
func (r *gormRepositories) Employees() hr.EmployeeRepository { return NewGormEmployeeRepository(r.db) }

func (r *gormRepositories) SalarySlips() hr.SalarySlipRepository {
	return NewGormSalarySlipRepository(r.db)
}

func (r *gormRepositories) Advances() hr.AdvanceRepository { return NewGormAdvanceRepository(r.db) }

func (r *gormRepositories) Assets() asset.AssetRepository { return NewGormAssetRepository(r.db) }

func (r *gormRepositories) Disposals() asset.DisposalRepository {
	return NewGormDisposalRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appshared.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepositories implements Repositories
var _ appshared.Repositories = (*gormRepositories)(nil)
