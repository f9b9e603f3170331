package middleware

import (
	"context"
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfilingLabels tags the profile samples of each request with its route,
// method, module and tenant. Mount it after the JWT middleware so the tenant
// is known. With enabled false it only calls the next handler.
func ProfilingLabels(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	labels := map[string]string{
		telemetry.ProfilingLabelMethod: c.Request.Method,
		telemetry.ProfilingLabelRoute:  route,
		telemetry.ProfilingLabelModule: moduleFromRoute(route),
	}
	if tenantID := CurrentTenant(c); tenantID != uuid.Nil {
		labels[telemetry.ProfilingLabelTenantID] = tenantID.String()
	}
	if docType := c.Param("type"); docType != "" {
		labels[telemetry.ProfilingLabelDocument] = docType
	}
	return labels
}

// moduleFromRoute returns the first segment after /api/<version>,
// "/api/v1/purchase-orders/:id/grn" gives "purchase-orders".
func moduleFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" {
		return parts[2]
	}
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
