package persistence

import (
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func TestSortColumns_OrderBy(t *testing.T) {
	const fallback = "created_at DESC"

	tests := []struct {
		name   string
		filter shared.Filter
		want   any
	}{
		{"no field", shared.Filter{}, fallback},
		{"allowed field defaults to desc", shared.Filter{OrderBy: "deal_value"},
			clause.OrderByColumn{Column: clause.Column{Name: "deal_value"}, Desc: true}},
		{"ascending any case", shared.Filter{OrderBy: "closed_at", OrderDir: " Asc "},
			clause.OrderByColumn{Column: clause.Column{Name: "closed_at"}}},
		{"unknown direction", shared.Filter{OrderBy: "title", OrderDir: "sideways"},
			clause.OrderByColumn{Column: clause.Column{Name: "title"}, Desc: true}},
		{"inherited timestamp", shared.Filter{OrderBy: "updated_at", OrderDir: "asc"},
			clause.OrderByColumn{Column: clause.Column{Name: "updated_at"}}},
		{"column from another table", shared.Filter{OrderBy: "order_number"}, fallback},
		{"case must match", shared.Filter{OrderBy: "Title"}, fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DealSortFields.orderBy(tt.filter, fallback))
		})
	}
}

func TestSortColumns_AggregateTablesShareTimestamps(t *testing.T) {
	for _, cols := range []SortColumns{
		AgentSortFields, DealSortFields, PartySortFields, PurchaseOrderSortFields,
		ClientSortFields, EmployeeSortFields, AssetSortFields,
	} {
		for _, c := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, cols.Allows(c), c)
		}
	}
	// the ledger has no id or updated_at worth sorting on
	assert.False(t, AuditRecordSortFields.Allows("updated_at"))
	assert.True(t, AuditRecordSortFields.Allows("deleted_at"))
}

func TestSortColumns_RejectsInjectedFields(t *testing.T) {
	payloads := []string{
		"deal_value; DROP TABLE deals;--",
		"deal_value' OR '1'='1",
		"deal_value, (SELECT password_hash FROM users)",
		"CASE WHEN 1=1 THEN id ELSE title END",
		"id/**/;DROP TABLE deals",
		"id\n; DROP TABLE deals",
	}
	for _, p := range payloads {
		assert.Equal(t, "created_at DESC",
			DealSortFields.orderBy(shared.Filter{OrderBy: p, OrderDir: "asc; DROP TABLE deals"}, "created_at DESC"), p)
	}

	// the direction never reaches SQL as text
	got := DealSortFields.orderBy(shared.Filter{OrderBy: "title", OrderDir: "asc; DROP TABLE deals"}, "")
	assert.Equal(t, clause.OrderByColumn{Column: clause.Column{Name: "title"}, Desc: true}, got)
}
