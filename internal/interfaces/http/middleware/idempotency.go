package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Idempotency headers
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store appshared.IdempotencyStore
	TTL   time.Duration
}

// Idempotency makes document-creating POSTs safe to retry. A request carrying
// an Idempotency-Key is executed once per tenant, method, path and key; a
// retry after completion replays the stored response, a retry while the first
// attempt is still running gets 409. 5xx outcomes are not stored so the
// client can try again.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || cfg.Store == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Failure(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		log := logger.L(ctx)
		storeKey := idempotencyStoreKey(c, key)

		reserved, err := cfg.Store.Reserve(ctx, storeKey, cfg.TTL)
		if err != nil {
			log.Warn("idempotency store unavailable, executing without replay protection", zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			cached, err := cfg.Store.Lookup(ctx, storeKey)
			if err != nil {
				log.Warn("idempotency lookup failed", zap.Error(err))
			}
			if cached != nil {
				c.Header(IdempotentReplayedHeader, "true")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, dto.Failure(
				dto.ErrCodeRequestInProgress, "A request with this Idempotency-Key is still being processed", GetRequestID(c)))
			return
		}

		// The client may have gone away; the outcome must still be recorded.
		saveCtx := context.WithoutCancel(ctx)
		completed := false
		defer func() {
			if completed {
				return
			}
			// A panicking handler leaves no outcome to replay.
			if err := cfg.Store.Release(saveCtx, storeKey); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
		}()

		recorder := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()
		completed = true

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := cfg.Store.Release(saveCtx, storeKey); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
			return
		}
		resp := appshared.CachedResponse{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := cfg.Store.Complete(saveCtx, storeKey, resp, cfg.TTL); err != nil {
			log.Warn("failed to store idempotent response", zap.Error(err))
		}
	}
}

func idempotencyStoreKey(c *gin.Context, key string) string {
	return strings.Join([]string{
		CurrentTenant(c).String(),
		c.Request.Method,
		c.Request.URL.Path,
		key,
	}, ":")
}

// responseRecorder tees the response body so it can be stored.
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
