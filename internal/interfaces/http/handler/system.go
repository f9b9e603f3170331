package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// healthTimeout bounds the database ping behind /health
const healthTimeout = 2 * time.Second

// DatabaseProbe reports database reachability and pool usage
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	database  DatabaseProbe
	startTime time.Time
	now       func() time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, database DatabaseProbe) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		database:  database,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

// Health godoc
// GET /health
// Answers 503 when the database cannot be reached.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Time:     h.now().UTC().Format(time.RFC3339),
		Database: "ok",
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := h.database.Ping(ctx); err != nil {
		logger.RequestLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status, resp.Database = "unhealthy", "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	// omitted when the pool cannot be read
	DatabasePool *persistence.ConnectionStats `json:"database_pool,omitempty"`
}

// GetSystemInfo godoc
// GET /api/v1/system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	resp := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    h.now().Sub(h.startTime).Round(time.Second).String(),
	}
	if stats, err := h.database.Stats(); err == nil {
		resp.DatabasePool = &stats
	} else {
		logger.RequestLogger(c).Warn("Reading pool stats failed", zap.Error(err))
	}
	h.Success(c, resp)
}

// Ping godoc
// GET /api/v1/system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Success(gin.H{
		"message":   "pong",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}))
}
