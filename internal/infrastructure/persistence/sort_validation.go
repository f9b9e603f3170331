package persistence

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm/clause"
)

// SortColumns whitelists the columns a list endpoint may order by. Client
// input never reaches SQL unless it names one of them exactly.
type SortColumns map[string]struct{}

// columns builds a whitelist from exact column names
func columns(names ...string) SortColumns {
	s := make(SortColumns, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// aggregateColumns adds the id and timestamp columns every aggregate table has
func aggregateColumns(names ...string) SortColumns {
	return columns(append([]string{"id", "created_at", "updated_at"}, names...)...)
}

// Allows reports whether col may be ordered by
func (s SortColumns) Allows(col string) bool {
	_, ok := s[col]
	return ok
}

// orderBy turns the filter's order_by/order_dir into an ORDER BY
// expression, or returns fallback when the field is absent or not allowed.
// The direction defaults to descending.
func (s SortColumns) orderBy(filter shared.Filter, fallback string) any {
	col := strings.TrimSpace(filter.OrderBy)
	if !s.Allows(col) {
		return fallback
	}
	asc := strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc")
	return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: !asc}
}

var (
	SequenceSortFields    = columns("created_at", "document_type", "fiscal_year", "current_number")
	AuditRecordSortFields = columns("deleted_at", "entity_type")

	AgentSortFields         = aggregateColumns("name", "agent_type")
	DealSortFields          = aggregateColumns("title", "deal_value", "status", "commission_amount", "closed_at")
	PartySortFields         = aggregateColumns("name", "gstin")
	PurchaseOrderSortFields = aggregateColumns("order_number", "order_date", "expected_date", "status", "amount")
	ClientSortFields        = aggregateColumns("name", "gstin")
	EmployeeSortFields      = aggregateColumns("employee_code", "name", "department", "joining_date", "gross_salary")
	AssetSortFields         = aggregateColumns("name", "category", "purchase_date", "cost")
)
