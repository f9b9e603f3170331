// Package migration applies and authors the PostgreSQL schema migrations.
// sqlite databases are created by the server with AutoMigrate instead.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/erp/backoffice/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// MigrationsTable records the applied schema version
const MigrationsTable = "schema_migrations"

// lockTimeout bounds the wait for the advisory lock another migrator holds
const lockTimeout = 30 * time.Second

// Status is the schema version recorded in MigrationsTable
type Status struct {
	Version uint
	Dirty   bool
}

func (s Status) String() string {
	if s.Version == 0 {
		return "empty schema"
	}
	if s.Dirty {
		return fmt.Sprintf("version %d (dirty)", s.Version)
	}
	return fmt.Sprintf("version %d", s.Version)
}

// Migrator applies the schema migrations with golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator over db using the migrations compiled into the
// binary.
func New(db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	return NewWithFS(db, migrations.FS, logger)
}

// NewWithFS creates a Migrator reading *.sql files from the root of fsys
func NewWithFS(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return nil, fmt.Errorf("open postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return wrap(m, logger), nil
}

// NewFromPath creates a Migrator from a database URL and a migrations
// directory on disk, for running migrations newer than the binary.
func NewFromPath(databaseURL, dir string, logger *zap.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+dir, withMigrationsTable(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return wrap(m, logger), nil
}

func wrap(m *migrate.Migrate, logger *zap.Logger) *Migrator {
	logger = logger.Named("migrate")
	m.Log = migrateLogger{logger.Sugar()}
	m.LockTimeout = lockTimeout
	return &Migrator{migrate: m, logger: logger}
}

// withMigrationsTable adds the x-migrations-table parameter to a URL DSN.
// key=value DSNs are returned unchanged.
func withMigrationsTable(databaseURL string) string {
	if !strings.Contains(databaseURL, "://") || strings.Contains(databaseURL, "x-migrations-table") {
		return databaseURL
	}
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return databaseURL + sep + "x-migrations-table=" + MigrationsTable
}

// Up applies every pending migration. Cancelling ctx stops after the
// migration in progress.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", m.migrate.Up)
}

// Down rolls back every migration
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", m.migrate.Down)
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(ctx context.Context, n int) error {
	return m.run(ctx, fmt.Sprintf("steps %+d", n), func() error { return m.migrate.Steps(n) })
}

func (m *Migrator) run(ctx context.Context, op string, fn func() error) error {
	before, err := m.Status()
	if err != nil {
		return err
	}
	if before.Dirty {
		return fmt.Errorf("schema is dirty at version %d; repair it and run force", before.Version)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.migrate.GracefulStop <- true
		case <-done:
		}
	}()

	err = fn()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("Schema already current", zap.String("op", op), zap.Stringer("status", before))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	after, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info("Schema migrated",
		zap.String("op", op),
		zap.Uint("from", before.Version),
		zap.Uint("to", after.Version),
	)
	return nil
}

// Status reports the applied version. An empty schema is version 0.
func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Force records version as applied and clean without running anything.
// It is the way out of a dirty schema after a manual repair.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database handle
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

// migrateLogger routes golang-migrate's output into zap
type migrateLogger struct {
	*zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.Desugar().Core().Enabled(zap.DebugLevel)
}
