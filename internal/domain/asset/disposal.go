package asset

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisposalMode is how an asset left the books
type DisposalMode string

const (
	DisposalSale     DisposalMode = "sale"
	DisposalScrapped DisposalMode = "scrapped"
	DisposalTradeIn  DisposalMode = "trade"
)

// IsValid checks if the mode is known
func (m DisposalMode) IsValid() bool {
	return m == DisposalSale || m == DisposalScrapped || m == DisposalTradeIn
}

// Disposal records an asset being sold, scrapped or traded in. An asset has
// at most one live disposal. BookValue is frozen at the disposal date.
type Disposal struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	AssetID      uuid.UUID
	DisposalDate time.Time
	Mode         DisposalMode
	SalePrice    decimal.Decimal
	BuyerDetails string
	Notes        string
	BookValue    decimal.Decimal
}

// GainOrLoss is the sale price less the book value, negative for a loss
func (d *Disposal) GainOrLoss() decimal.Decimal {
	return d.SalePrice.Sub(d.BookValue)
}

// DisposalInput describes a disposal to record
type DisposalInput struct {
	Date         time.Time
	Mode         DisposalMode
	SalePrice    decimal.Decimal
	BuyerDetails string
	Notes        string
}

// Dispose takes the asset off the books on in.Date at its book value then
func (a *Asset) Dispose(in DisposalInput) (*Disposal, error) {
	switch {
	case in.Date.IsZero():
		return nil, shared.NewValidationError("disposal_date", "is required")
	case in.Date.Before(a.PurchaseDate):
		return nil, shared.NewValidationError("disposal_date", "cannot be before the purchase date")
	case !in.Mode.IsValid():
		return nil, shared.NewValidationError("disposal_mode", fmt.Sprintf("unknown mode %q", in.Mode))
	case in.SalePrice.IsNegative():
		return nil, shared.NewValidationError("sale_price", "cannot be negative")
	case in.Mode == DisposalScrapped && !in.SalePrice.IsZero():
		return nil, shared.NewValidationError("sale_price", "must be zero for scrapped assets")
	}
	return &Disposal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(a.TenantID),
		AssetID:             a.ID,
		DisposalDate:        in.Date,
		Mode:                in.Mode,
		SalePrice:           in.SalePrice,
		BuyerDetails:        strings.TrimSpace(in.BuyerDetails),
		Notes:               strings.TrimSpace(in.Notes),
		BookValue:           a.BookValueAt(in.Date),
	}, nil
}
