package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQuery = 200 * time.Millisecond

// DBTracingConfig configures statement spans
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound variables in db.statement
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// DBTracingPlugin installs otelgorm and annotates its spans with the
// back-office context: tenant, row locks, slow statements and errors.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = defaultSlowQuery
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm is a persistence.WithPlugin hook
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.config.DBSystem),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// registerCallbacks runs annotate after otelgorm opened the span and
// finish before otelgorm ends it.
func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	ops := []struct {
		name          string
		before, after callbackRegistrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create").Before("otel:after:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query").Before("otel:after:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update").Before("otel:after:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete").Before("otel:after:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row").Before("otel:after:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw").Before("otel:after:raw")},
	}
	var errs []error
	for _, op := range ops {
		errs = append(errs,
			op.before.Register("erp_trace:annotate_"+op.name, annotate),
			op.after.Register("erp_trace:finish_"+op.name, p.finish),
		)
	}
	return errors.Join(errs...)
}

// annotate tags the statement span and starts the slow-query clock
func annotate(tx *gorm.DB) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	tx.Statement.Context = context.WithValue(ctx, queryStartTimeKey, time.Now())

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tenantID, ok := logger.GetTenantID(ctx); ok {
		span.SetAttributes(TenantAttr(tenantID))
	}
	if _, locked := tx.Statement.Clauses["FOR"]; locked {
		span.SetAttributes(attribute.Bool("db.row_lock", true))
	}
}

func (p *DBTracingPlugin) finish(tx *gorm.DB) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
		span.SetStatus(codes.Error, tx.Error.Error())
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}

type contextKey string

const queryStartTimeKey contextKey = "db_query_start"
