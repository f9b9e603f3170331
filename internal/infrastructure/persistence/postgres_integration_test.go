//go:build integration

package persistence

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	appnumbering "github.com/erp/backoffice/internal/application/numbering"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/erp/backoffice/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the
// embedded migrations to it.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// the migrator closes the connection it is given
	migrateDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	migrateSQL, err := migrateDB.DB()
	require.NoError(t, err)
	m, err := migration.NewWithFS(migrateSQL, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	_ = m.Close()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(16)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestPostgres_ConcurrentNumbersAreGapFree(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	tenants := NewGormTenantRepository(db)
	tenant := &models.TenantModel{Code: "ACME", Name: "Acme Logistics"}
	require.NoError(t, tenants.Save(ctx, tenant))

	svc := appnumbering.NewService(NewGormTransactionScope(db), tenants, nil, appnumbering.Defaults{}, 5)
	fy := svc.CurrentFiscalYear()

	const workers, perWorker = 8, 25
	var (
		mu      sync.Mutex
		numbers []int64
		wg      sync.WaitGroup
	)
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				issued, err := svc.NextNumber(ctx, tenant.ID, numbering.DocumentTypeInvoice, fy)
				if err != nil {
					errs <- err
					continue
				}
				mu.Lock()
				numbers = append(numbers, issued.Number)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	require.Len(t, numbers, workers*perWorker)
	for i, n := range numbers {
		assert.Equal(t, int64(i+1), n)
	}

	current, err := svc.PeekCurrent(ctx, tenant.ID, numbering.DocumentTypeInvoice, fy)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), current.CurrentNumber)
}

func TestPostgres_SequencesAreTenantScoped(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	tenants := NewGormTenantRepository(db)
	a := &models.TenantModel{Code: "ALPHA", Name: "Alpha"}
	b := &models.TenantModel{Code: "BETA", Name: "Beta"}
	require.NoError(t, tenants.Save(ctx, a))
	require.NoError(t, tenants.Save(ctx, b))

	svc := appnumbering.NewService(NewGormTransactionScope(db), tenants, nil, appnumbering.Defaults{}, 3)
	fy := svc.CurrentFiscalYear()

	for i := 0; i < 3; i++ {
		_, err := svc.NextNumber(ctx, a.ID, numbering.DocumentTypeReceipt, fy)
		require.NoError(t, err)
	}
	issued, err := svc.NextNumber(ctx, b.ID, numbering.DocumentTypeReceipt, fy)
	require.NoError(t, err)
	assert.Equal(t, int64(1), issued.Number)

	_, err = svc.Lock(ctx, a.ID, numbering.DocumentTypeReceipt, fy)
	require.NoError(t, err)
	_, err = svc.NextNumber(ctx, a.ID, numbering.DocumentTypeReceipt, fy)
	var locked *numbering.LockedSequenceError
	require.ErrorAs(t, err, &locked)

	issued, err = svc.NextNumber(ctx, b.ID, numbering.DocumentTypeReceipt, fy)
	require.NoError(t, err)
	assert.Equal(t, int64(2), issued.Number)
}
