package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig configures the statement logger.
type GormConfig struct {
	// Level is one of silent, error, warn, info or debug
	Level         string
	SlowThreshold time.Duration
	// Retryable reports errors the unit of work reruns on, such as
	// serialization failures while issuing a number. They are logged at
	// Warn instead of Error.
	Retryable func(error) bool
}

// GormLogger writes gorm statements through L(ctx), so each line carries
// the request, tenant and trace of the call that issued it.
type GormLogger struct {
	base      *zap.Logger
	level     gormlogger.LogLevel
	slow      time.Duration
	retryable func(error) bool
}

// NewGormLogger creates a gorm logger on top of base
func NewGormLogger(base *zap.Logger, cfg GormConfig) *GormLogger {
	if cfg.SlowThreshold == 0 {
		cfg.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Retryable == nil {
		cfg.Retryable = func(error) bool { return false }
	}
	return &GormLogger{
		base:      base.Named("gorm"),
		level:     MapGormLogLevel(cfg.Level),
		slow:      cfg.SlowThreshold,
		retryable: cfg.Retryable,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.from(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.from(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.from(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one statement. Missing rows are not errors, row-locking
// statements are tagged with row_lock=true.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	if errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	slow := l.slow > 0 && elapsed >= l.slow
	if err == nil && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	log := l.from(ctx).With(
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	)
	if strings.Contains(strings.ToUpper(sql), "FOR UPDATE") {
		log = log.With(zap.Bool("row_lock", true))
	}

	switch {
	case err != nil && l.retryable(err) && l.level >= gormlogger.Warn:
		log.Warn("SQL conflict, will retry", zap.Error(err))
	case err != nil && l.level >= gormlogger.Error:
		log.Error("SQL error", zap.Error(err))
	case slow && l.level >= gormlogger.Warn:
		log.Warn("Slow SQL", zap.Duration("threshold", l.slow))
	case l.level >= gormlogger.Info:
		log.Debug("SQL")
	}
}

// from prefers the request logger on ctx and falls back to the base logger
func (l *GormLogger) from(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.base
	}
	if _, ok := ctx.Value(loggerKey).(*zap.Logger); !ok {
		ctx = WithContext(ctx, l.base)
	}
	return L(ctx)
}

// MapGormLogLevel maps the application log level to a gorm level. Debug and
// info both log every statement.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
