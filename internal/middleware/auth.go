package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/auth"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"go.uber.org/zap"
)

// RequireAuth checks the bearer token and stores the caller's identity
func RequireAuth(authenticator *auth.Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticator.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrBadHeader):
				apierrors.Unauthorized(c, "")
			case errors.Is(err, auth.ErrRevokedToken):
				apierrors.Unauthorized(c, "Token has been revoked")
			case errors.Is(err, auth.ErrInvalidToken):
				apierrors.Unauthorized(c, "Invalid or expired token")
			default:
				log.Error("token check failed", zap.Error(err))
				apierrors.InternalError(c, "")
			}
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyIdentity, claims.Identity())
		c.Set(constants.ContextKeyToken, claims)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// GetClaims retrieves the verified token claims from context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(constants.ContextKeyToken)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
