// Package tenant keeps GORM statements on tenant-owned tables inside the
// tenant of the request.
//
// Repositories filter by tenant explicitly. The callbacks registered here
// cover statements that carry no tenant condition of their own, such as
// preloads of document lines: they get the tenant from the context
// identity, and with Required set a statement without either fails.
//
//	db, err := persistence.NewDatabase(&cfg.Database,
//		persistence.WithPlugin(tenant.NewCallback(tenant.DefaultConfig()).Register))
package tenant

import (
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTenantIDRequired is returned for a statement on a tenant-owned table
// that has neither a tenant condition nor a tenant in its context.
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in statement or context")

// Config holds the callback settings
type Config struct {
	// Column is the tenant column name (default "tenant_id")
	Column string
	// Required rejects unscoped statements instead of letting them through
	Required bool
}

// DefaultConfig returns the settings used by the server
func DefaultConfig() Config {
	return Config{Column: "tenant_id"}
}

// Callback adds the context tenant to statements on tenant-owned tables
type Callback struct {
	column   string
	required bool
}

// NewCallback creates the callback set
func NewCallback(cfg Config) *Callback {
	if cfg.Column == "" {
		cfg.Column = "tenant_id"
	}
	return &Callback{column: cfg.Column, required: cfg.Required}
}

const (
	queryCallback  = "tenant:before_query"
	updateCallback = "tenant:before_update"
	deleteCallback = "tenant:before_delete"
	rowCallback    = "tenant:before_row"
)

// Register installs the callbacks on db. Creates are left alone: the
// tenant is part of every new row.
func (tc *Callback) Register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register(queryCallback, tc.scope); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register(updateCallback, tc.scope); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register(deleteCallback, tc.scope); err != nil {
		return err
	}
	return cb.Row().Before("gorm:row").Register(rowCallback, tc.scope)
}

// Remove uninstalls the callbacks
func Remove(db *gorm.DB) {
	cb := db.Callback()
	_ = cb.Query().Remove(queryCallback)
	_ = cb.Update().Remove(updateCallback)
	_ = cb.Delete().Remove(deleteCallback)
	_ = cb.Row().Remove(rowCallback)
}

func (tc *Callback) scope(db *gorm.DB) {
	if db.Error != nil || !tc.tenantOwned(db) || tc.hasTenantCondition(db) {
		return
	}

	var tenantID uuid.UUID
	if db.Statement.Context != nil {
		tenantID, _ = logger.GetTenantID(db.Statement.Context)
	}
	if tenantID == uuid.Nil {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.column},
				Value:  tenantID,
			},
		},
	})
}

// tenantOwned reports whether the statement's model has the tenant column.
// Raw statements without a model are not inspected.
func (tc *Callback) tenantOwned(db *gorm.DB) bool {
	if db.Statement.Schema == nil {
		return false
	}
	_, ok := db.Statement.Schema.FieldsByDBName[tc.column]
	return ok
}

func (tc *Callback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}
	return false
}

func (tc *Callback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return tc.isTenantColumn(e.Column)
	case clause.IN:
		return tc.isTenantColumn(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, tc.column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, tc.column)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		// one tenant branch of an OR does not scope the whole statement
		return false
	}
	return false
}

func (tc *Callback) isTenantColumn(col any) bool {
	switch c := col.(type) {
	case clause.Column:
		return c.Name == tc.column
	case string:
		return c == tc.column
	}
	return false
}
