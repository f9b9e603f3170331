package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h gin.HandlerFunc, method string, header map[string]string) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(h)
	router.Any("/deals", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(method, "/deals", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	const office = "https://office.example.com"

	tests := []struct {
		name            string
		origins         []string
		method          string
		header          map[string]string
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{"empty allowlist sends nothing", nil, http.MethodGet,
			map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden, "", ""},
		{"same origin passes", nil, http.MethodGet, nil, http.StatusOK, "", ""},
		{"listed origin", []string{office}, http.MethodGet,
			map[string]string{"Origin": office}, http.StatusOK, office, "true"},
		{"unlisted origin", []string{office}, http.MethodGet,
			map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden, "", ""},
		{"wildcard has no credentials", []string{"*"}, http.MethodGet,
			map[string]string{"Origin": "https://anywhere.example"}, http.StatusOK, "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(CORS(tt.origins), tt.method, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}

	t.Run("preflight lists the idempotency header", func(t *testing.T) {
		w := serve(CORS([]string{office}), http.MethodOptions, map[string]string{
			"Origin":                        office,
			"Access-Control-Request-Method": http.MethodPost,
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), IdempotencyKeyHeader)
	})
}

func TestRequestID(t *testing.T) {
	var ctxID, ginID string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/deals", func(c *gin.Context) {
		ctxID = logger.GetRequestID(c.Request.Context())
		ginID = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"absent", "", false},
		{"well formed", "batch-7f3a/42", true},
		{"at the limit", strings.Repeat("a", MaxRequestIDLength), true},
		{"too long", strings.Repeat("a", MaxRequestIDLength+1), false},
		{"log injection", "abc\nlevel=error msg=forged", false},
		{"non ascii", "réq", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/deals", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDHeader)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, ginID)
			if tt.keep {
				assert.Equal(t, tt.header, id)
				return
			}
			_, err := uuid.Parse(id)
			assert.NoError(t, err, "a fresh uuid replaces %q", tt.header)
		})
	}
}

func TestSecure(t *testing.T) {
	w := serve(Secure(0), http.MethodGet, nil)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = serve(Secure(365*24*time.Hour), http.MethodGet, nil)
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}
