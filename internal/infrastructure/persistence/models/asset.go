package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetModel is the persistence model for the Asset aggregate root.
type AssetModel struct {
	TenantAggregateModel
	SoftDeleteModel
	Name            string                   `gorm:"type:varchar(200);not null"`
	Category        string                   `gorm:"type:varchar(100);index"`
	PurchaseDate    time.Time                `gorm:"not null"`
	Cost            decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	SalvageValue    decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	UsefulLifeYears int                      `gorm:"not null"`
	Method          asset.DepreciationMethod `gorm:"column:depreciation_method;type:varchar(10);not null"`
	RatePercent     decimal.Decimal          `gorm:"column:depreciation_rate;type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset entity.
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		Name:                m.Name,
		Category:            m.Category,
		PurchaseDate:        m.PurchaseDate,
		Cost:                m.Cost,
		SalvageValue:        m.SalvageValue,
		UsefulLifeYears:     m.UsefulLifeYears,
		Method:              m.Method,
		RatePercent:         m.RatePercent,
	}
}

// AssetModelFromDomain creates a persistence model from a domain Asset entity.
func AssetModelFromDomain(a *asset.Asset) *AssetModel {
	m := &AssetModel{
		Name:            a.Name,
		Category:        a.Category,
		PurchaseDate:    a.PurchaseDate,
		Cost:            a.Cost,
		SalvageValue:    a.SalvageValue,
		UsefulLifeYears: a.UsefulLifeYears,
		Method:          a.Method,
		RatePercent:     a.RatePercent,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.FromDomainSoftDelete(a.SoftDelete)
	return m
}

// AssetDisposalModel is the persistence model for an asset disposal.
// An asset has one active disposal.
type AssetDisposalModel struct {
	TenantAggregateModel
	SoftDeleteModel
	AssetID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_asset_disposal_asset,where:is_deleted = false"`
	DisposalDate time.Time          `gorm:"type:date;not null"`
	Mode         asset.DisposalMode `gorm:"column:disposal_mode;type:varchar(20);not null"`
	SalePrice    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	BuyerDetails string             `gorm:"type:text"`
	Notes        string             `gorm:"type:text"`
	BookValue    decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (AssetDisposalModel) TableName() string {
	return "asset_disposals"
}

// ToDomain converts the persistence model to a domain Disposal entity.
func (m *AssetDisposalModel) ToDomain() *asset.Disposal {
	return &asset.Disposal{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SoftDelete:          m.ToDomainSoftDelete(),
		AssetID:             m.AssetID,
		DisposalDate:        m.DisposalDate,
		Mode:                m.Mode,
		SalePrice:           m.SalePrice,
		BuyerDetails:        m.BuyerDetails,
		Notes:               m.Notes,
		BookValue:           m.BookValue,
	}
}

// AssetDisposalModelFromDomain creates a persistence model from a domain Disposal entity.
func AssetDisposalModelFromDomain(d *asset.Disposal) *AssetDisposalModel {
	m := &AssetDisposalModel{
		AssetID:      d.AssetID,
		DisposalDate: d.DisposalDate,
		Mode:         d.Mode,
		SalePrice:    d.SalePrice,
		BuyerDetails: d.BuyerDetails,
		Notes:        d.Notes,
		BookValue:    d.BookValue,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.FromDomainSoftDelete(d.SoftDelete)
	return m
}
