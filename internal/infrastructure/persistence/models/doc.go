// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Soft deletable models embed SoftDeleteModel. Its DeletedAt column is gorm's
// soft delete type, so ordinary queries read the active view and Unscoped
// reads every row. Owned rows (locations, items) embed ChildModel and carry
// their owner's tenant.
//
// Structure:
//   - base.go: BaseModel, TenantAggregateModel, SoftDeleteModel, ChildModel
//   - numbering.go: document sequences and tenants
//   - audit.go: soft delete snapshots
//   - crm.go, procurement.go, billing.go, hr.go, asset.go: business modules
package models

// All lists every model in migration order, owners before owned rows.
func All() []any {
	return []any{
		&TenantModel{},
		&DocumentSequenceModel{},
		&AuditRecordModel{},
		&EmployeeModel{},
		&SalarySlipModel{},
		&AdvanceRequestModel{},
		&AdvanceInstallmentModel{},
		&AgentModel{},
		&ClientModel{},
		&ClientLocationModel{},
		&DealModel{},
		&PartyModel{},
		&PartyLocationModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&GRNModel{},
		&QuotationModel{},
		&QuotationItemModel{},
		&GSTInvoiceModel{},
		&ReceiptModel{},
		&AssetModel{},
		&AssetDisposalModel{},
	}
}
