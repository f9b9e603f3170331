// Package shared holds the transaction plumbing used by every application service.
package shared

import (
	"context"

	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/procurement"
)

// TransactionScope runs units of work against one database transaction.
// If fn returns an error the transaction is rolled back, otherwise committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error

	// Repositories returns repositories bound to the connection, outside any
	// transaction. Use them for reads only.
	Repositories() Repositories
}

// Repositories provides access to every repository. Within Execute they all
// share the same transaction.
type Repositories interface {
	Sequences() numbering.SequenceRepository
	Ledger() audit.Ledger
	AuditRecords() audit.RecordRepository

	Agents() crm.AgentRepository
	Deals() crm.DealRepository

	Parties() procurement.PartyRepository
	PurchaseOrders() procurement.PurchaseOrderRepository
	GRNs() procurement.GRNRepository

	Clients() billing.ClientRepository
	Quotations() billing.QuotationRepository
	Invoices() billing.InvoiceRepository
	Receipts() billing.ReceiptRepository

	Employees() hr.EmployeeRepository
	SalarySlips() hr.SalarySlipRepository
	Advances() hr.AdvanceRepository

	Assets() asset.AssetRepository
	Disposals() asset.DisposalRepository
}

// StaticRepositories is a Repositories backed by fixed instances. Unset
// fields return nil.
type StaticRepositories struct {
	SequenceRepo      numbering.SequenceRepository
	LedgerImpl        audit.Ledger
	AuditRecordRepo   audit.RecordRepository
	AgentRepo         crm.AgentRepository
	DealRepo          crm.DealRepository
	PartyRepo         procurement.PartyRepository
	PurchaseOrderRepo procurement.PurchaseOrderRepository
	GRNRepo           procurement.GRNRepository
	ClientRepo        billing.ClientRepository
	QuotationRepo     billing.QuotationRepository
	InvoiceRepo       billing.InvoiceRepository
	ReceiptRepo       billing.ReceiptRepository
	EmployeeRepo      hr.EmployeeRepository
	SalarySlipRepo    hr.SalarySlipRepository
	AdvanceRepo       hr.AdvanceRepository
	AssetRepo         asset.AssetRepository
	DisposalRepo      asset.DisposalRepository
}

func (r *StaticRepositories) Sequences() numbering.SequenceRepository { return r.SequenceRepo }
func (r *StaticRepositories) Ledger() audit.Ledger                    { return r.LedgerImpl }
func (r *StaticRepositories) AuditRecords() audit.RecordRepository    { return r.AuditRecordRepo }
func (r *StaticRepositories) Agents() crm.AgentRepository             { return r.AgentRepo }
func (r *StaticRepositories) Deals() crm.DealRepository               { return r.DealRepo }
func (r *StaticRepositories) Parties() procurement.PartyRepository    { return r.PartyRepo }
func (r *StaticRepositories) PurchaseOrders() procurement.PurchaseOrderRepository {
	return r.PurchaseOrderRepo
}
func (r *StaticRepositories) GRNs() procurement.GRNRepository         { return r.GRNRepo }
func (r *StaticRepositories) Clients() billing.ClientRepository       { return r.ClientRepo }
func (r *StaticRepositories) Quotations() billing.QuotationRepository { return r.QuotationRepo }
func (r *StaticRepositories) Invoices() billing.InvoiceRepository     { return r.InvoiceRepo }
func (r *StaticRepositories) Receipts() billing.ReceiptRepository     { return r.ReceiptRepo }
func (r *StaticRepositories) Employees() hr.EmployeeRepository        { return r.EmployeeRepo }
func (r *StaticRepositories) SalarySlips() hr.SalarySlipRepository    { return r.SalarySlipRepo }
func (r *StaticRepositories) Advances() hr.AdvanceRepository          { return r.AdvanceRepo }
func (r *StaticRepositories) Assets() asset.AssetRepository           { return r.AssetRepo }
func (r *StaticRepositories) Disposals() asset.DisposalRepository     { return r.DisposalRepo }

// NoOpTransactionScope runs fn directly against fixed repositories.
// Useful for unit tests with mocked repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over repos.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s.repos)
}

func (s *NoOpTransactionScope) Repositories() Repositories {
	return s.repos
}
