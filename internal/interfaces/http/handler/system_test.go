package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

// Ping fails like a driver would when ctx carries no deadline
func (p stubPinger) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("health ping without deadline")
	}
	return p.err
}

func (p stubPinger) Stats() (persistence.ConnectionStats, error) {
	if p.err != nil {
		return persistence.ConnectionStats{}, p.err
	}
	return persistence.ConnectionStats{MaxOpen: 25, Open: 3, InUse: 1, Idle: 2}, nil
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   HealthResponse
	}{
		{"database up", nil, http.StatusOK, HealthResponse{Status: "healthy", Database: "ok"}},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: "error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("erp-backoffice", "test", stubPinger{err: tt.pingErr})
			h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			tt.wantBody.Time = "2026-01-02T03:04:05Z"
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("erp-backoffice", "1.2.0", stubPinger{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil)
	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "erp-backoffice", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	pool := data["database_pool"].(map[string]any)
	assert.Equal(t, float64(25), pool["max_open"])
	assert.Equal(t, float64(1), pool["in_use"])
}

func TestSystemHandler_GetSystemInfo_PoolUnavailable(t *testing.T) {
	h := NewSystemHandler("erp-backoffice", "1.2.0", stubPinger{err: errors.New("closed")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil)
	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.NotContains(t, data, "database_pool")
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("erp-backoffice", "test", stubPinger{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])
}
