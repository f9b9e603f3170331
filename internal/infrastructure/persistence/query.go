package persistence

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// findPage counts the rows matched by query, then loads one page of them
// ordered by a whitelisted column. preloads apply to the page load only.
func findPage[M any, T any](query *gorm.DB, filter shared.Filter, allowed SortColumns, defaultOrder string, convert func(*M) T, preloads ...string) ([]T, int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("count", err)
	}

	page := query.Order(allowed.orderBy(filter, defaultOrder)).Offset(filter.Offset()).Limit(filter.Limit())
	for _, p := range preloads {
		page = page.Preload(p)
	}

	var rows []M
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, wrapError("find page", err)
	}
	items := make([]T, len(rows))
	for i := range rows {
		items[i] = convert(&rows[i])
	}
	return items, total, nil
}

// applySearch adds a case-insensitive substring match over columns.
// LOWER/LIKE keeps it portable between PostgreSQL and SQLite.
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}
