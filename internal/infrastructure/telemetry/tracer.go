// Package telemetry wires OpenTelemetry tracing and metrics for the back-office services.
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// TracesConfig holds span export settings.
type TracesConfig struct {
	Enabled           bool
	CollectorEndpoint string
	// SamplingRatio applies to root spans; children follow their parent
	SamplingRatio  float64
	ServiceName    string
	ServiceVersion string
	Insecure       bool
	// Exporter replaces the OTLP exporter when set
	Exporter sdktrace.SpanExporter
}

// TracerProvider owns the span pipeline and installs it as the global
// provider, which StartServiceSpan and otelgorm read.
type TracerProvider struct {
	sdk      *sdktrace.TracerProvider
	logger   *zap.Logger
	profiled atomic.Bool
}

// NewTracerProvider builds the pipeline. Disabled tracing leaves the global
// no-op provider in place.
func NewTracerProvider(ctx context.Context, cfg TracesConfig, logger *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Tracing disabled")
		return tp, nil
	}

	exporter := cfg.Exporter
	if exporter == nil {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		var err error
		if exporter, err = otlptracegrpc.New(ctx, opts...); err != nil {
			return nil, fmt.Errorf("create OTLP trace exporter: %w", err)
		}
	}
	res, err := serviceResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	tp.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(samplerFor(cfg.SamplingRatio))),
	)
	otel.SetTracerProvider(tp.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
	return tp, nil
}

// EnableSpanProfiles swaps the global provider for one that labels CPU
// samples with the running span id. Start the profiler first.
func (tp *TracerProvider) EnableSpanProfiles() {
	if tp.sdk == nil || !tp.profiled.CompareAndSwap(false, true) {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.sdk))
	tp.logger.Info("Span profiles enabled")
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp.sdk != nil
}

// ForceFlush exports buffered spans
func (tp *TracerProvider) ForceFlush(ctx context.Context) error {
	if tp.sdk == nil {
		return nil
	}
	return tp.sdk.ForceFlush(ctx)
}

// Shutdown flushes and stops the pipeline, waiting at most ten seconds.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := tp.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}
