package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// FiscalYearStartMonth is the first month of the April-March fiscal year.
const FiscalYearStartMonth = time.April

var fiscalYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// FiscalYear is an April-March accounting period named "Y1-Y2".
type FiscalYear string

// FiscalYearFor returns the fiscal year containing t.
// Before April the period started the previous calendar year.
func FiscalYearFor(t time.Time) FiscalYear {
	y := t.Year()
	if t.Month() < FiscalYearStartMonth {
		return FiscalYear(fmt.Sprintf("%d-%d", y-1, y))
	}
	return FiscalYear(fmt.Sprintf("%d-%d", y, y+1))
}

// ParseFiscalYear validates a "Y1-Y2" string where Y2 = Y1+1.
func ParseFiscalYear(s string) (FiscalYear, error) {
	m := fiscalYearPattern.FindStringSubmatch(s)
	if m == nil {
		return "", shared.NewValidationError("fiscal_year", fmt.Sprintf("%q is not in YYYY-YYYY form", s))
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return "", shared.NewValidationError("fiscal_year", fmt.Sprintf("%q: years must be consecutive", s))
	}
	return FiscalYear(s), nil
}

// String returns the string representation
func (f FiscalYear) String() string {
	return string(f)
}

// StartYear returns the calendar year the period starts in
func (f FiscalYear) StartYear() int {
	m := fiscalYearPattern.FindStringSubmatch(string(f))
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}

// Bounds returns the first instant of the period and the first instant after it.
func (f FiscalYear) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(f.StartYear(), FiscalYearStartMonth, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// Contains reports whether t falls in the period
func (f FiscalYear) Contains(t time.Time) bool {
	start, end := f.Bounds(t.Location())
	return !t.Before(start) && t.Before(end)
}
