package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return &Database{DB: gormDB}, mock
}

func TestNewDatabase(t *testing.T) {
	t.Run("opens and migrates an in-memory sqlite database", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"})
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.AutoMigrate())
		for _, table := range []string{"document_sequences", "audit_records", "purchase_orders", "gst_invoices", "deals"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
	})

	t.Run("runs registered plugins in order", func(t *testing.T) {
		var order []string
		db, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite},
			WithPlugin(func(*gorm.DB) error { order = append(order, "tracing"); return nil }),
			WithPlugin(func(*gorm.DB) error { order = append(order, "tenant"); return nil }))
		require.NoError(t, err)
		defer db.Close()
		assert.Equal(t, []string{"tracing", "tenant"}, order)
	})

	t.Run("fails on plugin error", func(t *testing.T) {
		_, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite},
			WithPlugin(func(*gorm.DB) error { return assert.AnError }))
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("rejects unknown drivers", func(t *testing.T) {
		_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestDatabase_Stats(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite})
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpen, "sqlite runs on a single connection")
	assert.Equal(t, stats.Open, stats.InUse+stats.Idle)
	assert.Equal(t, "0s", stats.WaitDuration)
}

func TestDatabase_PingAndClose(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(assert.AnError)
	assert.ErrorIs(t, db.Ping(context.Background()), assert.AnError)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
