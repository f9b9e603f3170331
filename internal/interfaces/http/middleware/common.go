package middleware

import (
	"strconv"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// CORS allows the listed browser origins, with credentials unless the list
// is the "*" wildcard. An empty list sends no CORS headers at all.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Authorization",
			RequestIDHeader, IdempotencyKeyHeader},
		ExposeHeaders: []string{RequestIDHeader, IdempotentReplayedHeader},
		MaxAge:        12 * time.Hour,
	}
	switch {
	case len(origins) == 0:
		cfg.AllowOriginFunc = func(string) bool { return false }
	case len(origins) == 1 && origins[0] == "*":
		cfg.AllowAllOrigins = true
	default:
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// RequestID keeps a well-formed caller id or mints a uuid, echoes it in the
// response and puts it on the request context for logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// validRequestID accepts up to MaxRequestIDLength visible ASCII characters,
// which keeps caller input from forging log lines.
func validRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// GetRequestID returns the id chosen by RequestID, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Secure sets the headers of a JSON-only API. A positive hsts also sends
// Strict-Transport-Security; leave it zero until the service sits behind TLS.
func Secure(hsts time.Duration) gin.HandlerFunc {
	headers := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	if hsts > 0 {
		headers["Strict-Transport-Security"] = "max-age=" + strconv.Itoa(int(hsts.Seconds())) + "; includeSubDomains"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range headers {
			h.Set(k, v)
		}
		c.Next()
	}
}
