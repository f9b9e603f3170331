// Package middleware provides the HTTP middleware of the back-office API.
package middleware

import (
	"net/http"

	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the longest caller request id RequestID keeps
const MaxRequestIDLength = 128

// Tracing returns the server span middleware followed by the error marker.
// Spans are named "METHOD route", e.g. "POST /api/v1/sequences/:type/next";
// probes on the untraced paths get none.
//
//	engine.Use(middleware.Tracing("erp-backoffice", true, "/health")...)
func Tracing(service string, enabled bool, untraced ...string) []gin.HandlerFunc {
	if !enabled {
		return nil
	}
	skip := make(map[string]bool, len(untraced))
	for _, p := range untraced {
		skip[p] = true
	}
	return []gin.HandlerFunc{
		otelgin.Middleware(service, otelgin.WithFilter(func(r *http.Request) bool {
			return !skip[r.URL.Path]
		})),
		markFailedSpans,
	}
}

// markFailedSpans sets error status on spans of 4xx and 5xx responses.
// Handler errors are left to otelgin, which records them as the status
// description once this returns; otherwise the status text is used.
func markFailedSpans(c *gin.Context) {
	c.Next()

	status := c.Writer.Status()
	span := trace.SpanFromContext(c.Request.Context())
	if status < http.StatusBadRequest || !span.IsRecording() {
		return
	}
	span.SetAttributes(telemetry.AttrHTTPStatusCode.Int(status))
	if len(c.Errors) == 0 {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

// SpanIdentity tags the server span with request id, tenant and user. It
// belongs after Authenticate.
func SpanIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
			span.SetAttributes(identityAttrs(c)...)
		}
		c.Next()
	}
}

func identityAttrs(c *gin.Context) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if id := GetRequestID(c); id != "" {
		attrs = append(attrs, attribute.String("request_id", id))
	}
	if tenantID := CurrentTenant(c); tenantID != uuid.Nil {
		attrs = append(attrs, telemetry.TenantAttr(tenantID))
	}
	if userID := CurrentUser(c); userID != uuid.Nil {
		attrs = append(attrs, attribute.String("user_id", userID.String()))
	}
	return attrs
}
