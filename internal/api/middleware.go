package api

import (
	"errors"
	"net/http"
	"strings"

	"flexapp/flex-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context key for the authenticated username.
const ContextUsernameKey = "username"

// AuthMiddleware creates a Gin middleware that validates the bearer token
// and stores the subject in the request context. All verification failures
// (expired, bad signature, malformed, missing subject) produce the same 401
// body; the specific reason is only logged.
func AuthMiddleware(authService service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		subject, err := authService.VerifyToken(parts[1])
		if err != nil {
			logger.Debug("token verification failed", zap.Error(err))
			abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		c.Set(ContextUsernameKey, subject)
		c.Next()
	}
}

// abortWithError returns a JSON error response and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": message})
}

// getUsernameFromContext returns the authenticated username set by
// AuthMiddleware.
func getUsernameFromContext(c *gin.Context) (string, error) {
	raw, exists := c.Get(ContextUsernameKey)
	if !exists {
		return "", errors.New("username not found in context")
	}
	username, ok := raw.(string)
	if !ok || username == "" {
		return "", errors.New("invalid username in context")
	}
	return username, nil
}
