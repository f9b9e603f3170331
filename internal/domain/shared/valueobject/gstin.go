package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

// 2 digit state code, 10 char PAN, entity number, 'Z', checksum
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// GSTIN is a 15 character GST identification number.
type GSTIN struct {
	value string
}

// NewGSTIN parses and validates a GSTIN. Input is upper-cased and trimmed.
func NewGSTIN(raw string) (GSTIN, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if !gstinPattern.MatchString(v) {
		return GSTIN{}, fmt.Errorf("invalid GSTIN %q", raw)
	}
	return GSTIN{value: v}, nil
}

// IsValidGSTIN reports whether raw is a well formed GSTIN
func IsValidGSTIN(raw string) bool {
	_, err := NewGSTIN(raw)
	return err == nil
}

// String returns the GSTIN
func (g GSTIN) String() string {
	return g.value
}

// IsZero reports whether the GSTIN is unset
func (g GSTIN) IsZero() bool {
	return g.value == ""
}

// StateCode returns the two digit state code prefix
func (g GSTIN) StateCode() string {
	if len(g.value) < 2 {
		return ""
	}
	return g.value[:2]
}

// SameState reports whether both registrations belong to the same state.
func (g GSTIN) SameState(other GSTIN) bool {
	return !g.IsZero() && g.StateCode() == other.StateCode()
}

// RestoreGSTIN rebuilds a GSTIN from a stored value without validating it.
func RestoreGSTIN(value string) GSTIN {
	return GSTIN{value: value}
}
