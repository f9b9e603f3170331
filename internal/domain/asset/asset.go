// Package asset tracks fixed assets and their depreciation.
package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepreciationMethod selects how book value declines
type DepreciationMethod string

const (
	// MethodSLM depreciates an equal amount every year
	MethodSLM DepreciationMethod = "slm"
	// MethodWDV depreciates a fixed rate of the opening written-down value
	MethodWDV DepreciationMethod = "wdv"
)

// IsValid checks if the method is known
func (m DepreciationMethod) IsValid() bool {
	return m == MethodSLM || m == MethodWDV
}

var hundred = decimal.NewFromInt(100)

// Asset is a fixed asset owned by the tenant
type Asset struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Name            string
	Category        string
	PurchaseDate    time.Time
	Cost            decimal.Decimal
	SalvageValue    decimal.Decimal
	UsefulLifeYears int
	Method          DepreciationMethod
	RatePercent     decimal.Decimal
}

// NewAsset creates a validated asset. ratePercent is required for WDV only.
func NewAsset(tenantID uuid.UUID, name, category string, purchased time.Time, cost, salvage decimal.Decimal, lifeYears int, method DepreciationMethod, ratePercent decimal.Decimal) (*Asset, error) {
	a := &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Category:            strings.TrimSpace(category),
		PurchaseDate:        purchased,
		Cost:                cost,
		SalvageValue:        salvage,
		UsefulLifeYears:     lifeYears,
		Method:              method,
		RatePercent:         ratePercent,
	}
	switch {
	case a.Name == "":
		return nil, shared.NewValidationError("name", "is required")
	case purchased.IsZero():
		return nil, shared.NewValidationError("purchase_date", "is required")
	case !cost.IsPositive():
		return nil, shared.NewValidationError("cost", "must be greater than zero")
	case salvage.IsNegative() || salvage.GreaterThan(cost):
		return nil, shared.NewValidationError("salvage_value", "must be between zero and cost")
	case lifeYears < 1 || lifeYears > 100:
		return nil, shared.NewValidationError("useful_life", "must be between 1 and 100 years")
	case !method.IsValid():
		return nil, shared.NewValidationError("depreciation_method", fmt.Sprintf("unknown method %q", method))
	case method == MethodWDV && (!ratePercent.IsPositive() || ratePercent.GreaterThan(hundred)):
		return nil, shared.NewValidationError("depreciation_rate", "must be between 0 and 100 for WDV")
	}
	return a, nil
}

// DepreciationEntry is one fiscal year of the schedule
type DepreciationEntry struct {
	FiscalYear   numbering.FiscalYear
	OpeningValue decimal.Decimal
	Depreciation decimal.Decimal
	ClosingValue decimal.Decimal
}

// Schedule returns the depreciation for every fiscal year of the asset's
// useful life, starting with the year of purchase. Book value never drops
// below the salvage value.
func (a *Asset) Schedule() []DepreciationEntry {
	entries := make([]DepreciationEntry, 0, a.UsefulLifeYears)
	opening := a.Cost
	fy := numbering.FiscalYearFor(a.PurchaseDate)
	slmCharge := a.Cost.Sub(a.SalvageValue).Div(decimal.NewFromInt(int64(a.UsefulLifeYears))).Round(2)

	for i := 0; i < a.UsefulLifeYears; i++ {
		var charge decimal.Decimal
		switch a.Method {
		case MethodSLM:
			charge = slmCharge
			if i == a.UsefulLifeYears-1 {
				charge = opening.Sub(a.SalvageValue)
			}
		case MethodWDV:
			charge = opening.Mul(a.RatePercent).Div(hundred).Round(2)
		}
		if opening.Sub(charge).LessThan(a.SalvageValue) {
			charge = opening.Sub(a.SalvageValue)
		}
		closing := opening.Sub(charge)
		entries = append(entries, DepreciationEntry{
			FiscalYear:   fy,
			OpeningValue: opening,
			Depreciation: charge,
			ClosingValue: closing,
		})
		opening = closing
		fy = numbering.FiscalYear(fmt.Sprintf("%d-%d", fy.StartYear()+1, fy.StartYear()+2))
	}
	return entries
}

// BookValueAt returns the closing value of the last fiscal year ending on or before at
func (a *Asset) BookValueAt(at time.Time) decimal.Decimal {
	value := a.Cost
	for _, e := range a.Schedule() {
		_, end := e.FiscalYear.Bounds(at.Location())
		if end.After(at) {
			break
		}
		value = e.ClosingValue
	}
	return value
}
