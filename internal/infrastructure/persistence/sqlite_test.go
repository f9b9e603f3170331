package persistence

import (
	"context"
	"testing"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a migrated in-memory database private to the test.
// A single connection keeps the database alive and serializes transactions.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// inTx runs fn on the repositories of one committed transaction.
func inTx(t *testing.T, db *gorm.DB, fn func(repos appshared.Repositories) error) {
	t.Helper()
	require.NoError(t, NewGormTransactionScope(db).Execute(context.Background(), fn))
}
