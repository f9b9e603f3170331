package middleware

import (
	"time"

	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

type httpMetrics struct {
	requestTotal    *telemetry.Counter
	requestDuration *telemetry.Histogram
	requestSize     *telemetry.Histogram
	responseSize    *telemetry.Histogram
	activeRequests  metric.Int64UpDownCounter
}

var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	in := telemetry.NewInstruments(meter)
	m := &httpMetrics{
		requestTotal: in.Counter("http_server_request_total",
			"HTTP requests by route, status and tenant", "{request}"),
		requestDuration: in.Histogram("http_server_request_duration_seconds",
			"HTTP request latency", "s", telemetry.HTTPDurationBuckets),
		requestSize: in.Histogram("http_server_request_size_bytes",
			"HTTP request body size", "By", sizeBuckets),
		responseSize: in.Histogram("http_server_response_size_bytes",
			"HTTP response body size", "By", sizeBuckets),
		activeRequests: in.UpDownCounter("http_server_active_requests",
			"HTTP requests in flight", "{request}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics records, per matched route:
//   - http_server_request_total by method, route, status, outcome and tenant
//   - http_server_request_duration_seconds
//   - http_server_request_size_bytes and http_server_response_size_bytes
//   - http_server_active_requests
//
// If the instruments cannot be created the middleware only logs that once.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		log.Warn("HTTP metrics disabled", zap.Error(err))
		return passThrough
	}
	return metrics.observe
}

func passThrough(c *gin.Context) {
	c.Next()
}

func (m *httpMetrics) observe(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	m.activeRequests.Add(ctx, 1)
	defer m.activeRequests.Add(ctx, -1)

	c.Next()

	route := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(routeLabel(c)),
	}
	m.requestDuration.RecordDuration(ctx, time.Since(start), route...)
	if n := c.Request.ContentLength; n > 0 {
		m.requestSize.Record(ctx, float64(n), route...)
	}
	if n := c.Writer.Size(); n > 0 {
		m.responseSize.Record(ctx, float64(n), route...)
	}

	status := c.Writer.Status()
	counted := append(route,
		telemetry.AttrHTTPStatusCode.Int(status),
		telemetry.AttrOutcome.String(outcome(status)),
	)
	if tenantID := CurrentTenant(c); tenantID != uuid.Nil {
		counted = append(counted, telemetry.TenantAttr(tenantID))
	}
	m.requestTotal.Inc(ctx, counted...)
}

// routeLabel is the matched route pattern, which keeps cardinality bounded
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// outcome buckets a status for dashboards: conflicts from locked sequences
// and invalid transitions show up as client_error.
func outcome(status int) string {
	switch {
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "success"
	}
}
