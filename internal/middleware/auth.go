package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey   = contextKey("userID")
	userNameKey = contextKey("userName")
)

// AuthMiddleware creates a Gin middleware handler that validates JWT bearer
// tokens and threads the authenticated actor into the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Invalid or expired token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(userIDKey), claims.Subject)

		c.Next()
	}
}

// GetUserIDFromContext retrieves the authenticated actor ID from the Gin
// context. Coordinator calls take this ID explicitly; there is no ambient
// current-user global.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		if id, ok := v.(string); ok && id != "" {
			return id, true
		}
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if id, ok := v.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}
