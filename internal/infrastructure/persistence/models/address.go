package models

import "github.com/erp/backoffice/internal/domain/shared/valueobject"

// AddressColumns flattens a valueobject.Address into columns.
type AddressColumns struct {
	AddressLine1 string `gorm:"type:varchar(200);not null"`
	AddressLine2 string `gorm:"type:varchar(200)"`
	City         string `gorm:"type:varchar(100);not null"`
	State        string `gorm:"type:varchar(100);not null"`
	Pincode      string `gorm:"type:varchar(6);not null"`
	Country      string `gorm:"type:varchar(100);not null;default:'India'"`
}

// ToAddress rebuilds the value object
func (c AddressColumns) ToAddress() valueobject.Address {
	return valueobject.RestoreAddress(c.AddressLine1, c.AddressLine2, c.City, c.State, c.Pincode, c.Country)
}

// AddressColumnsFrom flattens an address
func AddressColumnsFrom(a valueobject.Address) AddressColumns {
	return AddressColumns{
		AddressLine1: a.Line1(),
		AddressLine2: a.Line2(),
		City:         a.City(),
		State:        a.State(),
		Pincode:      a.Pincode(),
		Country:      a.Country(),
	}
}
