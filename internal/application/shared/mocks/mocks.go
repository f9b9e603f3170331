// Package mocks provides testify mocks of the repositories for service tests.
package mocks

import (
	"context"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ptr returns the typed first return value, tolerating nil.
func ptr[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func slice[T any](args mock.Arguments, i int) []T {
	if v := args.Get(i); v != nil {
		return v.([]T)
	}
	return nil
}

// ==================== Numbering ====================

type SequenceRepository struct{ mock.Mock }

func (m *SequenceRepository) IncrementAndGet(ctx context.Context, key numbering.Key, defaults numbering.Settings) (*numbering.DocumentSequence, error) {
	args := m.Called(ctx, key, defaults)
	return ptr[numbering.DocumentSequence](args, 0), args.Error(1)
}

func (m *SequenceRepository) FindByKey(ctx context.Context, key numbering.Key) (*numbering.DocumentSequence, error) {
	args := m.Called(ctx, key)
	return ptr[numbering.DocumentSequence](args, 0), args.Error(1)
}

func (m *SequenceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]numbering.DocumentSequence, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[numbering.DocumentSequence](args, 0), args.Get(1).(int64), args.Error(2)
}

// Mutate applies fn to the sequence passed as the first return value when fn
// is supplied, mirroring the real repository.
func (m *SequenceRepository) Mutate(ctx context.Context, key numbering.Key, defaults numbering.Settings, fn func(*numbering.DocumentSequence) error) (*numbering.DocumentSequence, error) {
	args := m.Called(ctx, key, defaults, fn)
	seq := ptr[numbering.DocumentSequence](args, 0)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if seq != nil {
		if err := fn(seq); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

type TenantDirectory struct{ mock.Mock }

func (m *TenantDirectory) TenantCode(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type NumberIssuer struct{ mock.Mock }

func (m *NumberIssuer) IssueWithin(ctx context.Context, repos appshared.Repositories, tenantID uuid.UUID, docType numbering.DocumentType) (string, error) {
	args := m.Called(ctx, repos, tenantID, docType)
	return args.String(0), args.Error(1)
}

// ==================== Audit ====================

type Ledger struct{ mock.Mock }

func (m *Ledger) SoftDelete(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, id uuid.UUID, actor shared.Actor) error {
	return m.Called(ctx, tenantID, entityType, id, actor).Error(0)
}

func (m *Ledger) HardDelete(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, id uuid.UUID) error {
	return m.Called(ctx, tenantID, entityType, id).Error(0)
}

type AuditRecordRepository struct{ mock.Mock }

func (m *AuditRecordRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, filter shared.Filter) ([]audit.AuditRecord, int64, error) {
	args := m.Called(ctx, tenantID, entityType, filter)
	return slice[audit.AuditRecord](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *AuditRecordRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType audit.EntityType, entityID uuid.UUID) (*audit.AuditRecord, error) {
	args := m.Called(ctx, tenantID, entityType, entityID)
	return ptr[audit.AuditRecord](args, 0), args.Error(1)
}

// ==================== CRM ====================

type AgentRepository struct{ mock.Mock }

func (m *AgentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Agent, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[crm.Agent](args, 0), args.Error(1)
}

func (m *AgentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Agent, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[crm.Agent](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *AgentRepository) Save(ctx context.Context, agent *crm.Agent) error {
	return m.Called(ctx, agent).Error(0)
}

type DealRepository struct{ mock.Mock }

func (m *DealRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Deal, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[crm.Deal](args, 0), args.Error(1)
}

func (m *DealRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*crm.Deal, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[crm.Deal](args, 0), args.Error(1)
}

func (m *DealRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter crm.DealFilter) ([]crm.Deal, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[crm.Deal](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *DealRepository) Save(ctx context.Context, deal *crm.Deal) error {
	return m.Called(ctx, deal).Error(0)
}

// ==================== Procurement ====================

type PartyRepository struct{ mock.Mock }

func (m *PartyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.Party, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[procurement.Party](args, 0), args.Error(1)
}

func (m *PartyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.Party, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[procurement.Party](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *PartyRepository) Save(ctx context.Context, party *procurement.Party) error {
	return m.Called(ctx, party).Error(0)
}

type PurchaseOrderRepository struct{ mock.Mock }

func (m *PurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[procurement.PurchaseOrder](args, 0), args.Error(1)
}

func (m *PurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[procurement.PurchaseOrder](args, 0), args.Error(1)
}

func (m *PurchaseOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter procurement.PurchaseOrderFilter) ([]procurement.PurchaseOrder, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[procurement.PurchaseOrder](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *PurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

type GRNRepository struct{ mock.Mock }

func (m *GRNRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.GRN, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[procurement.GRN](args, 0), args.Error(1)
}

func (m *GRNRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*procurement.GRN, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[procurement.GRN](args, 0), args.Error(1)
}

func (m *GRNRepository) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*procurement.GRN, error) {
	args := m.Called(ctx, tenantID, purchaseOrderID)
	return ptr[procurement.GRN](args, 0), args.Error(1)
}

func (m *GRNRepository) Save(ctx context.Context, grn *procurement.GRN) error {
	return m.Called(ctx, grn).Error(0)
}

// ==================== Billing ====================

type ClientRepository struct{ mock.Mock }

func (m *ClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Client, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[billing.Client](args, 0), args.Error(1)
}

func (m *ClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Client, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[billing.Client](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *ClientRepository) Save(ctx context.Context, client *billing.Client) error {
	return m.Called(ctx, client).Error(0)
}

type QuotationRepository struct{ mock.Mock }

func (m *QuotationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Quotation, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[billing.Quotation](args, 0), args.Error(1)
}

func (m *QuotationRepository) Save(ctx context.Context, q *billing.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

type InvoiceRepository struct{ mock.Mock }

func (m *InvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.GSTInvoice, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[billing.GSTInvoice](args, 0), args.Error(1)
}

func (m *InvoiceRepository) FindByQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*billing.GSTInvoice, error) {
	args := m.Called(ctx, tenantID, quotationID)
	return ptr[billing.GSTInvoice](args, 0), args.Error(1)
}

func (m *InvoiceRepository) Save(ctx context.Context, inv *billing.GSTInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

type ReceiptRepository struct{ mock.Mock }

func (m *ReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*billing.Receipt, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[billing.Receipt](args, 0), args.Error(1)
}

func (m *ReceiptRepository) Save(ctx context.Context, r *billing.Receipt) error {
	return m.Called(ctx, r).Error(0)
}

type SupplierRegistry struct{ mock.Mock }

func (m *SupplierRegistry) SupplierGSTIN(ctx context.Context, tenantID uuid.UUID) (valueobject.GSTIN, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(valueobject.GSTIN), args.Error(1)
}

// ==================== HR ====================

type EmployeeRepository struct{ mock.Mock }

func (m *EmployeeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[hr.Employee](args, 0), args.Error(1)
}

func (m *EmployeeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[hr.Employee](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *EmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	return m.Called(ctx, e).Error(0)
}

type SalarySlipRepository struct{ mock.Mock }

func (m *SalarySlipRepository) FindByEmployeeMonth(ctx context.Context, tenantID, employeeID uuid.UUID, month time.Time) (*hr.SalarySlip, error) {
	args := m.Called(ctx, tenantID, employeeID, month)
	return ptr[hr.SalarySlip](args, 0), args.Error(1)
}

func (m *SalarySlipRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.SalarySlip, error) {
	args := m.Called(ctx, tenantID, employeeID)
	return slice[hr.SalarySlip](args, 0), args.Error(1)
}

func (m *SalarySlipRepository) Save(ctx context.Context, slip *hr.SalarySlip) error {
	return m.Called(ctx, slip).Error(0)
}

type AdvanceRepository struct{ mock.Mock }

func (m *AdvanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.AdvanceRequest, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[hr.AdvanceRequest](args, 0), args.Error(1)
}

func (m *AdvanceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*hr.AdvanceRequest, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[hr.AdvanceRequest](args, 0), args.Error(1)
}

func (m *AdvanceRepository) FindByEmployee(ctx context.Context, tenantID, employeeID uuid.UUID) ([]hr.AdvanceRequest, error) {
	args := m.Called(ctx, tenantID, employeeID)
	return slice[hr.AdvanceRequest](args, 0), args.Error(1)
}

func (m *AdvanceRepository) Save(ctx context.Context, a *hr.AdvanceRequest) error {
	return m.Called(ctx, a).Error(0)
}

// ==================== Assets ====================

type AssetRepository struct{ mock.Mock }

func (m *AssetRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, tenantID, id)
	return ptr[asset.Asset](args, 0), args.Error(1)
}

func (m *AssetRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]asset.Asset, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return slice[asset.Asset](args, 0), args.Get(1).(int64), args.Error(2)
}

func (m *AssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	return m.Called(ctx, a).Error(0)
}

type DisposalRepository struct{ mock.Mock }

func (m *DisposalRepository) FindByAsset(ctx context.Context, tenantID, assetID uuid.UUID) (*asset.Disposal, error) {
	args := m.Called(ctx, tenantID, assetID)
	return ptr[asset.Disposal](args, 0), args.Error(1)
}

func (m *DisposalRepository) Save(ctx context.Context, d *asset.Disposal) error {
	return m.Called(ctx, d).Error(0)
}

// Compile-time checks
var (
	_ numbering.SequenceRepository        = (*SequenceRepository)(nil)
	_ numbering.TenantDirectory           = (*TenantDirectory)(nil)
	_ appshared.NumberIssuer              = (*NumberIssuer)(nil)
	_ audit.Ledger                        = (*Ledger)(nil)
	_ audit.RecordRepository              = (*AuditRecordRepository)(nil)
	_ crm.AgentRepository                 = (*AgentRepository)(nil)
	_ crm.DealRepository                  = (*DealRepository)(nil)
	_ procurement.PartyRepository         = (*PartyRepository)(nil)
	_ procurement.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)
	_ procurement.GRNRepository           = (*GRNRepository)(nil)
	_ billing.ClientRepository            = (*ClientRepository)(nil)
	_ billing.QuotationRepository         = (*QuotationRepository)(nil)
	_ billing.InvoiceRepository           = (*InvoiceRepository)(nil)
	_ billing.ReceiptRepository           = (*ReceiptRepository)(nil)
	_ billing.SupplierRegistry            = (*SupplierRegistry)(nil)
	_ hr.EmployeeRepository               = (*EmployeeRepository)(nil)
	_ hr.SalarySlipRepository             = (*SalarySlipRepository)(nil)
	_ hr.AdvanceRepository                = (*AdvanceRepository)(nil)
	_ asset.AssetRepository               = (*AssetRepository)(nil)
	_ asset.DisposalRepository            = (*DisposalRepository)(nil)
)
