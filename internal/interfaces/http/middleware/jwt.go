package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const identityKey = "auth_identity"

// TokenValidator turns a bearer token into the caller's identity
type TokenValidator interface {
	Validate(token string) (*auth.Identity, error)
}

var errNoBearer = errors.New("missing bearer token")

// authFailures maps validation errors to the error code the client sees.
// Anything not listed is a plain 401.
var authFailures = []struct {
	err     error
	code    string
	message string
}{
	{auth.ErrExpiredToken, dto.ErrCodeTokenExpired, "Token has expired"},
	{auth.ErrTokenNotYetValid, dto.ErrCodeTokenInvalid, "Token is not yet valid"},
	{auth.ErrInvalidToken, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrInvalidClaims, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrMissingTenantID, dto.ErrCodeTokenInvalid, "Invalid token"},
	{auth.ErrMissingUserID, dto.ErrCodeTokenInvalid, "Invalid token"},
}

// Authenticate requires a valid bearer token on every request except the
// public paths, matched exactly. The identity lands on the gin context and
// on the request context, where services and the gorm tenant callback read
// it.
func Authenticate(v TokenValidator, log *zap.Logger, public ...string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("auth")
	open := make(map[string]struct{}, len(public))
	for _, p := range public {
		open[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := open[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		var identity *auth.Identity
		if err == nil {
			identity, err = v.Validate(token)
		}
		if err != nil {
			rejectUnauthenticated(c, log, err)
			return
		}

		SetIdentity(c, identity)
		c.Next()
	}
}

// bearerToken extracts the credentials of an RFC 6750 header; the scheme
// is case-insensitive.
func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errNoBearer
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errNoBearer
	}
	return token, nil
}

func rejectUnauthenticated(c *gin.Context, log *zap.Logger, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	for _, f := range authFailures {
		if errors.Is(err, f.err) {
			code, message = f.code, f.message
			break
		}
	}
	log.Warn("Request not authenticated",
		zap.Error(err),
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.Failure(code, message, GetRequestID(c)))
}

// SetIdentity records an authenticated caller on c and its request context
func SetIdentity(c *gin.Context, id *auth.Identity) {
	c.Set(identityKey, id)
	c.Request = c.Request.WithContext(logger.WithIdentity(c.Request.Context(), id.TenantID, id.UserID))
}

// CurrentIdentity returns the authenticated caller, or nil
func CurrentIdentity(c *gin.Context) *auth.Identity {
	id, _ := c.Value(identityKey).(*auth.Identity)
	return id
}

// CurrentTenant returns the caller's tenant, or uuid.Nil
func CurrentTenant(c *gin.Context) uuid.UUID {
	if id := CurrentIdentity(c); id != nil {
		return id.TenantID
	}
	return uuid.Nil
}

// CurrentUser returns the caller's user id, or uuid.Nil
func CurrentUser(c *gin.Context) uuid.UUID {
	if id := CurrentIdentity(c); id != nil {
		return id.UserID
	}
	return uuid.Nil
}
