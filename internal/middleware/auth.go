package middleware

import (
	"strings"

	"teamchat/internal/auth"
	"teamchat/internal/logger"
	"teamchat/pkg/apperrors"
	"teamchat/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// TokenParser validates access tokens. AuthService satisfies it.
type TokenParser interface {
	ParseAccessToken(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid bearer access token and stores the caller in the context.
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := parser.ParseAccessToken(tokenStr)
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.EmailKey, claims.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// GetUserID returns the authenticated user id or "".
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
