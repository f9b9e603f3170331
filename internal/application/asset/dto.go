package asset

import (
	"time"

	"github.com/erp/backoffice/internal/domain/asset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest registers a fixed asset
type CreateAssetRequest struct {
	Name               string          `json:"name" binding:"required,min=1,max=200"`
	Category           string          `json:"category" binding:"max=100"`
	PurchaseDate       time.Time       `json:"purchase_date" binding:"required"`
	Cost               decimal.Decimal `json:"cost" binding:"required"`
	SalvageValue       decimal.Decimal `json:"salvage_value"`
	UsefulLifeYears    int             `json:"useful_life" binding:"required,min=1,max=100"`
	DepreciationMethod string          `json:"depreciation_method" binding:"required,oneof=slm wdv"`
	DepreciationRate   decimal.Decimal `json:"depreciation_rate"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Category           string          `json:"category,omitempty"`
	PurchaseDate       time.Time       `json:"purchase_date"`
	Cost               decimal.Decimal `json:"cost"`
	SalvageValue       decimal.Decimal `json:"salvage_value"`
	UsefulLifeYears    int             `json:"useful_life"`
	DepreciationMethod string          `json:"depreciation_method"`
	DepreciationRate   decimal.Decimal `json:"depreciation_rate"`
	BookValue          decimal.Decimal `json:"book_value"`
}

// ToAssetResponse converts a domain Asset to AssetResponse, valuing it at asOf
func ToAssetResponse(a *asset.Asset, asOf time.Time) AssetResponse {
	return AssetResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Category:           a.Category,
		PurchaseDate:       a.PurchaseDate,
		Cost:               a.Cost,
		SalvageValue:       a.SalvageValue,
		UsefulLifeYears:    a.UsefulLifeYears,
		DepreciationMethod: string(a.Method),
		DepreciationRate:   a.RatePercent,
		BookValue:          a.BookValueAt(asOf),
	}
}

// DepreciationEntryResponse is one fiscal year of a schedule
type DepreciationEntryResponse struct {
	FiscalYear   string          `json:"fiscal_year"`
	OpeningValue decimal.Decimal `json:"opening_value"`
	Depreciation decimal.Decimal `json:"depreciation"`
	ClosingValue decimal.Decimal `json:"closing_value"`
}

// ScheduleResponse is an asset's depreciation schedule
type ScheduleResponse struct {
	AssetID uuid.UUID                   `json:"asset_id"`
	Method  string                      `json:"depreciation_method"`
	Entries []DepreciationEntryResponse `json:"entries"`
}

// DisposeAssetRequest takes an asset off the books
type DisposeAssetRequest struct {
	DisposalDate time.Time       `json:"disposal_date" binding:"required"`
	DisposalMode string          `json:"disposal_mode" binding:"required,oneof=sale scrapped trade"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	BuyerDetails string          `json:"buyer_details" binding:"max=2000"`
	Notes        string          `json:"notes" binding:"max=2000"`
}

// DisposalResponse represents an asset disposal in API responses
type DisposalResponse struct {
	ID           uuid.UUID       `json:"id"`
	AssetID      uuid.UUID       `json:"asset_id"`
	DisposalDate time.Time       `json:"disposal_date"`
	DisposalMode string          `json:"disposal_mode"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	BuyerDetails string          `json:"buyer_details,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	BookValue    decimal.Decimal `json:"book_value"`
	GainOrLoss   decimal.Decimal `json:"gain_or_loss"`
}

// ToDisposalResponse converts a domain Disposal to DisposalResponse
func ToDisposalResponse(d *asset.Disposal) DisposalResponse {
	return DisposalResponse{
		ID:           d.ID,
		AssetID:      d.AssetID,
		DisposalDate: d.DisposalDate,
		DisposalMode: string(d.Mode),
		SalePrice:    d.SalePrice,
		BuyerDetails: d.BuyerDetails,
		Notes:        d.Notes,
		BookValue:    d.BookValue,
		GainOrLoss:   d.GainOrLoss(),
	}
}
