package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "DEBUG", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(Config{Format: "console"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_WritesToEverySink(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")
	l, err := New(Config{Level: "warn", Output: a + ", " + b})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("sequence locked", zap.String("document_type", "invoice"))
	require.NoError(t, l.Sync())

	for _, path := range []string{a, b} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"sequence locked"`)
		assert.Contains(t, string(data), `"document_type":"invoice"`)
		assert.NotContains(t, string(data), "dropped")
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Output: "/nonexistent-dir/erp.log"})
	assert.ErrorContains(t, err, "log output")

	_, err = New(Config{Level: "verbose"})
	assert.ErrorContains(t, err, "log level")
}

func TestL_EnrichesFromContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	tenantID, userID := uuid.New(), uuid.New()

	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithIdentity(ctx, tenantID, userID)

	L(ctx).Info("hello")

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, userID.String(), fields["user_id"])
}

func TestL_WithoutLoggerIsNop(t *testing.T) {
	assert.NotPanics(t, func() { L(context.Background()).Info("dropped") })
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)
	tenantID := uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-42"))
		c.Next()
	})
	router.Use(AccessLog(zap.New(core)))
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), tenantID, uuid.New()))
		c.Next()
	})
	router.GET("/deals/:id", func(c *gin.Context) {
		RequestLogger(c).Info("deal loaded")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/deals/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	handlerLogs := recorded.FilterMessage("deal loaded").All()
	require.Len(t, handlerLogs, 1)
	assert.Equal(t, "req-42", handlerLogs[0].ContextMap()["request_id"])
	assert.Equal(t, tenantID.String(), handlerLogs[0].ContextMap()["tenant_id"])

	access := recorded.FilterMessage("request completed").All()
	require.Len(t, access, 2)
	assert.Equal(t, zapcore.InfoLevel, access[0].Level)
	assert.Equal(t, "/deals/:id", access[0].ContextMap()["route"])
	assert.Equal(t, "abc", access[0].ContextMap()["entity_id"])
	assert.Equal(t, zapcore.WarnLevel, access[1].Level)
	assert.Equal(t, "unmatched", access[1].ContextMap()["route"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	entries := recorded.FilterMessage("handler panicked").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/panic", entries[0].ContextMap()["route"])
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	errConflict := errors.New("could not serialize access")
	gl := NewGormLogger(zap.New(core), GormConfig{
		Level:         "warn",
		SlowThreshold: 10 * time.Millisecond,
		Retryable:     func(err error) bool { return errors.Is(err, errConflict) },
	})
	fc := func() (string, int64) { return "SELECT * FROM document_sequences FOR UPDATE", 1 }
	ctx := context.Background()

	gl.Trace(ctx, time.Now(), fc, nil)
	assert.Equal(t, 0, recorded.Len(), "fast queries are not logged at warn level")

	gl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	slow := recorded.FilterMessage("Slow SQL").All()
	require.Len(t, slow, 1)
	assert.Equal(t, true, slow[0].ContextMap()["row_lock"])

	gl.Trace(ctx, time.Now(), fc, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, recorded.FilterMessage("SQL error").Len())

	gl.Trace(ctx, time.Now(), fc, errConflict)
	conflicts := recorded.FilterMessage("SQL conflict, will retry").All()
	require.Len(t, conflicts, 1)
	assert.Equal(t, zapcore.WarnLevel, conflicts[0].Level)

	gl.Trace(ctx, time.Now(), fc, errors.New("broken"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
}

func TestGormLogger_UsesRequestLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.NewNop(), GormConfig{Level: "debug"})

	tenantID := uuid.New()
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithIdentity(ctx, tenantID, uuid.New())
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	entries := recorded.FilterMessage("SQL").All()
	require.Len(t, entries, 1)
	assert.Equal(t, tenantID.String(), entries[0].ContextMap()["tenant_id"])
	_, locked := entries[0].ContextMap()["row_lock"]
	assert.False(t, locked)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
