package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MetricsConfig holds OTLP metric export settings
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
}

// MeterProvider owns the metric pipeline. Disabled providers hand out meters
// from the global (no-op) provider.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   MetricsConfig
}

func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("Metrics disabled")
		return mp, nil
	}
	if cfg.ExportInterval <= 0 {
		cfg.ExportInterval = time.Minute
		mp.config.ExportInterval = cfg.ExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP metric exporter: %w", err)
	}
	res, err := serviceResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.ExportInterval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("Metric export initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", cfg.ExportInterval),
	)
	return mp, nil
}

// Shutdown flushes pending measurements, waiting at most ten seconds
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}

func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool {
	return mp.config.Enabled && mp.provider != nil
}

func (mp *MeterProvider) ForceFlush(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	return mp.provider.ForceFlush(ctx)
}

// Instruments creates instruments on one meter and keeps every creation
// error, so a metric set is built without checking after each instrument.
//
//	in := telemetry.NewInstruments(meter)
//	issued := in.Counter("erp_document_numbers_issued_total", "Numbers issued", "{number}")
//	if err := in.Err(); err != nil { ... }
type Instruments struct {
	meter metric.Meter
	errs  []error
}

func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

// Counter is a monotonic int64 counter
type Counter struct {
	counter metric.Int64Counter
}

func (in *Instruments) Counter(name, description, unit string) *Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.keep(name, err)
	return &Counter{counter: c}
}

func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if c.counter != nil {
		c.counter.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram is a float64 distribution with explicit buckets
type Histogram struct {
	histogram metric.Float64Histogram
}

// Histogram creates a histogram; nil buckets keep the SDK defaults
func (in *Instruments) Histogram(name, description, unit string, buckets []float64) *Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	in.keep(name, err)
	return &Histogram{histogram: h}
}

func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	if h.histogram != nil {
		h.histogram.Record(ctx, v, metric.WithAttributes(attrs...))
	}
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// UpDownCounter creates a gauge-like counter such as in-flight requests
func (in *Instruments) UpDownCounter(name, description, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.keep(name, err)
	return c
}

// Err joins the errors of every failed instrument
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

func (in *Instruments) keep(name string, err error) {
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("instrument %s: %w", name, err))
	}
}

// Attribute keys shared by the back-office metrics.
var (
	AttrTenantID     = attribute.Key("tenant_id")
	AttrDocumentType = attribute.Key("document_type")
	AttrEntityType   = attribute.Key("entity_type")
	AttrEntity       = attribute.Key("entity")
	AttrFromStatus   = attribute.Key("from_status")
	AttrToStatus     = attribute.Key("to_status")
	AttrOutcome      = attribute.Key("outcome")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
)

// SmallDurationBuckets are histogram boundaries for fast operations (seconds).
var SmallDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// HTTPDurationBuckets are histogram boundaries for request latency (seconds).
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
