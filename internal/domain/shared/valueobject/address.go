package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Address is a value object for a postal address in India.
// It is immutable; build it with NewAddress.
type Address struct {
	line1   string
	line2   string
	city    string
	state   string
	pincode string
	country string
}

// IsValidPincode reports whether pin is a six digit Indian postal code
func IsValidPincode(pin string) bool {
	return pincodePattern.MatchString(pin)
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the second address line
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithCountry overrides the default country
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates an Address. line1, city, state and a six digit pincode are required.
func NewAddress(line1, city, state, pincode string, opts ...AddressOption) (Address, error) {
	addr := Address{
		line1:   strings.TrimSpace(line1),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		pincode: strings.TrimSpace(pincode),
		country: "India",
	}
	for _, opt := range opts {
		opt(&addr)
	}

	switch {
	case addr.line1 == "":
		return Address{}, fmt.Errorf("address line1 cannot be empty")
	case len(addr.line1) > 200 || len(addr.line2) > 200:
		return Address{}, fmt.Errorf("address lines cannot exceed 200 characters")
	case addr.city == "":
		return Address{}, fmt.Errorf("city cannot be empty")
	case addr.state == "":
		return Address{}, fmt.Errorf("state cannot be empty")
	case !pincodePattern.MatchString(addr.pincode):
		return Address{}, fmt.Errorf("invalid pincode %q", addr.pincode)
	}
	return addr, nil
}

// Line1 returns the first address line
func (a Address) Line1() string { return a.line1 }

// Line2 returns the second address line
func (a Address) Line2() string { return a.line2 }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the state
func (a Address) State() string { return a.state }

// Pincode returns the postal index number
func (a Address) Pincode() string { return a.pincode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == "" && a.state == "" && a.pincode == ""
}

// String formats the address on one line
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 5)
	for _, p := range []string{a.line1, a.line2, a.city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, a.state+" "+a.pincode)
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// SameState reports whether both addresses are in the same state
func (a Address) SameState(other Address) bool {
	return strings.EqualFold(a.state, other.state)
}

// RestoreAddress rebuilds an Address from stored columns without validating it.
func RestoreAddress(line1, line2, city, state, pincode, country string) Address {
	return Address{line1: line1, line2: line2, city: city, state: state, pincode: pincode, country: country}
}
