package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig holds OTLP log export settings.
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	// MinLevel is the lowest level exported; quieter records stay local
	MinLevel zapcore.Level
	// Processor replaces the batching OTLP pipeline when set
	Processor sdklog.Processor
}

// LoggerProvider copies zap records into an OpenTelemetry log pipeline.
type LoggerProvider struct {
	sdk      *sdklog.LoggerProvider
	logger   *zap.Logger
	scope    string
	minLevel zapcore.Level
}

// NewLoggerProvider builds the pipeline. Disabled export yields a provider
// whose Bridge hands back the logger it is given.
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{logger: logger, scope: cfg.ServiceName, minLevel: cfg.MinLevel}
	if !cfg.Enabled {
		logger.Info("Log export disabled")
		return lp, nil
	}

	processor := cfg.Processor
	if processor == nil {
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		}
		exporter, err := otlploggrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create OTLP log exporter: %w", err)
		}
		processor = sdklog.NewBatchProcessor(exporter)
	}
	res, err := serviceResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	lp.sdk = sdklog.NewLoggerProvider(sdklog.WithResource(res), sdklog.WithProcessor(processor))
	global.SetLoggerProvider(lp.sdk)

	logger.Info("Log export initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Stringer("min_level", cfg.MinLevel),
	)
	return lp, nil
}

// Bridge tees base into the export pipeline for records at or above
// MinLevel. Fields attached later with With reach both sides.
func (lp *LoggerProvider) Bridge(base *zap.Logger) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	exported, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.sdk)),
		lp.minLevel,
	)
	if err != nil {
		lp.logger.Warn("Log export not attached", zap.Error(err))
		return base
	}
	return base.WithOptions(zap.WrapCore(func(local zapcore.Core) zapcore.Core {
		return zapcore.NewTee(local, exported)
	}))
}

func (lp *LoggerProvider) ForceFlush(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	return lp.sdk.ForceFlush(ctx)
}

// Shutdown flushes and stops the pipeline within ten seconds.
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := lp.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown logger provider: %w", err)
	}
	return nil
}

func (lp *LoggerProvider) IsEnabled() bool {
	return lp.sdk != nil
}
