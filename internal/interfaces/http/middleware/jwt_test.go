package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func signTestToken(t *testing.T, svc *auth.JWTService, tenantID, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	token, err := svc.Sign(auth.NewClaims(tenantID, userID, ttl))
	require.NoError(t, err)
	return token
}

func serveAuthenticated(v TokenValidator, log *zap.Logger, header, path string, next gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(Authenticate(v, log, "/api/v1/health"))
	router.GET(path, next)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestAuthenticate_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	tenantID, userID := uuid.New(), uuid.New()

	for _, scheme := range []string{"Bearer", "bearer"} {
		t.Run(scheme, func(t *testing.T) {
			header := scheme + " " + signTestToken(t, svc, tenantID, userID, time.Minute)
			w := serveAuthenticated(svc, nil, header, "/deals", func(c *gin.Context) {
				assert.Equal(t, tenantID, CurrentTenant(c))
				assert.Equal(t, userID, CurrentUser(c))
				require.NotNil(t, CurrentIdentity(c))

				ctxTenant, ok := logger.GetTenantID(c.Request.Context())
				assert.True(t, ok)
				assert.Equal(t, tenantID, ctxTenant)
				c.Status(http.StatusOK)
			})
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	svc := newTestJWTService()
	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "test-issuer"})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer   ", dto.ErrCodeUnauthorized},
		{"garbage", "Bearer not.a.token", dto.ErrCodeTokenInvalid},
		{"foreign signature", "Bearer " + signTestToken(t, other, uuid.New(), uuid.New(), time.Minute), dto.ErrCodeTokenInvalid},
		{"expired", "Bearer " + signTestToken(t, svc, uuid.New(), uuid.New(), -time.Minute), dto.ErrCodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			w := serveAuthenticated(svc, zap.New(core), tt.header, "/deals", func(c *gin.Context) {
				t.Fatal("handler must not run")
			})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeErrorCode(t, w.Body.Bytes()))
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, "auth", entry.LoggerName)
			assert.Equal(t, tt.wantCode, entry.ContextMap()["code"])
		})
	}
}

type stubValidator struct{ err error }

func (s stubValidator) Validate(string) (*auth.Identity, error) { return nil, s.err }

func TestAuthenticate_UnknownValidatorErrorIsPlain401(t *testing.T) {
	w := serveAuthenticated(stubValidator{errors.New("keystore offline")}, nil, "Bearer x", "/deals",
		func(c *gin.Context) { t.Fatal("handler must not run") })

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeErrorCode(t, w.Body.Bytes()))
}

func TestAuthenticate_PublicPath(t *testing.T) {
	w := serveAuthenticated(newTestJWTService(), nil, "", "/api/v1/health", func(c *gin.Context) {
		assert.Nil(t, CurrentIdentity(c))
		assert.Equal(t, uuid.Nil, CurrentTenant(c))
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
