package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog attaches a request logger to the request context and writes one
// access line per request once the handlers have run. The line carries the
// matched route rather than the raw path, and the tenant when authentication
// put one on the context.
func AccessLog(base *zap.Logger) gin.HandlerFunc {
	base = base.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), base))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("entity_id", id))
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		// L picks up request, trace and identity set by later middleware
		if ce := L(c.Request.Context()).Check(levelFor(status), "request completed"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Recovery turns a panic in a handler into a 500 envelope
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log := base
			if _, ok := c.Request.Context().Value(loggerKey).(*zap.Logger); ok {
				log = L(c.Request.Context())
			}
			log.Error("handler panicked",
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "INTERNAL_ERROR", "message": "internal server error"},
			})
		}()
		c.Next()
	}
}

// RequestLogger returns the logger for the request handled by c
func RequestLogger(c *gin.Context) *zap.Logger {
	return L(c.Request.Context())
}
