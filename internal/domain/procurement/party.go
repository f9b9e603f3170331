// Package procurement covers vendors, purchase orders and goods receipt.
package procurement

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Party is a vendor master record. It owns its locations: deleting a party
// deletes its locations with it.
type Party struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	Name          string
	GSTIN         valueobject.GSTIN
	ContactPerson string
	Phone         string
	Email         string
	Locations     []PartyLocation
}

// PartyLocation is an address belonging to a party
type PartyLocation struct {
	shared.BaseEntity
	shared.SoftDelete
	PartyID   uuid.UUID
	Label     string
	Address   valueobject.Address
	IsPrimary bool
}

// NewParty creates a party. gstin may be empty for unregistered vendors.
func NewParty(tenantID uuid.UUID, name, gstin string) (*Party, error) {
	p := &Party{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
	}
	if p.Name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(gstin) != "" {
		g, err := valueobject.NewGSTIN(gstin)
		if err != nil {
			return nil, shared.NewValidationError("gstin", err.Error())
		}
		p.GSTIN = g
	}
	return p, nil
}

// SetContact updates contact details
func (p *Party) SetContact(person, phone, email string) {
	p.ContactPerson = strings.TrimSpace(person)
	p.Phone = strings.TrimSpace(phone)
	p.Email = strings.TrimSpace(email)
	p.IncrementVersion()
}

// AddLocation attaches an address. The first location becomes primary.
func (p *Party) AddLocation(label string, addr valueobject.Address) (*PartyLocation, error) {
	if addr.IsEmpty() {
		return nil, shared.NewValidationError("address", "is required")
	}
	loc := PartyLocation{
		BaseEntity: shared.NewBaseEntity(),
		PartyID:    p.ID,
		Label:      strings.TrimSpace(label),
		Address:    addr,
		IsPrimary:  len(p.ActiveLocations()) == 0,
	}
	p.Locations = append(p.Locations, loc)
	p.IncrementVersion()
	return &p.Locations[len(p.Locations)-1], nil
}

// ActiveLocations returns the locations that are not deleted
func (p *Party) ActiveLocations() []PartyLocation {
	out := make([]PartyLocation, 0, len(p.Locations))
	for _, l := range p.Locations {
		if !l.IsDeleted() {
			out = append(out, l)
		}
	}
	return out
}
