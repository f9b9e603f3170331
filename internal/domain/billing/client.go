// Package billing covers clients, quotations, GST invoices and receipts.
package billing

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Client is a customer billed by the tenant. It owns its locations.
type Client struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Name      string
	GSTIN     valueobject.GSTIN
	Email     string
	Phone     string
	Locations []ClientLocation
}

// ClientLocation is a billing or shipping address of a client
type ClientLocation struct {
	shared.BaseEntity
	shared.SoftDelete
	ClientID  uuid.UUID
	Label     string
	Address   valueobject.Address
	IsPrimary bool
}

// NewClient creates a client; gstin may be empty for unregistered buyers.
func NewClient(tenantID uuid.UUID, name, gstin string) (*Client, error) {
	c := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
	}
	if c.Name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(gstin) != "" {
		g, err := valueobject.NewGSTIN(gstin)
		if err != nil {
			return nil, shared.NewValidationError("gstin", err.Error())
		}
		c.GSTIN = g
	}
	return c, nil
}

// AddLocation attaches an address; the first one is primary
func (c *Client) AddLocation(label string, addr valueobject.Address) (*ClientLocation, error) {
	if addr.IsEmpty() {
		return nil, shared.NewValidationError("address", "is required")
	}
	primary := true
	for _, l := range c.Locations {
		if !l.IsDeleted() {
			primary = false
			break
		}
	}
	c.Locations = append(c.Locations, ClientLocation{
		BaseEntity: shared.NewBaseEntity(),
		ClientID:   c.ID,
		Label:      strings.TrimSpace(label),
		Address:    addr,
		IsPrimary:  primary,
	})
	c.IncrementVersion()
	return &c.Locations[len(c.Locations)-1], nil
}
