package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName is the httpOnly cookie the login endpoint sets.
const CookieName = "token"

// tokenFromRequest reads the access token from "Authorization: Bearer" or the token cookie.
// ok is false when a malformed Authorization header was sent.
func tokenFromRequest(c *gin.Context) (token string, ok bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie, true
	}
	return "", true
}

// AuthRequired is a Gin middleware that rejects requests without a valid access token.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := tokenFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing access token",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		SetIdentity(c, claims.Identity())
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets the request through anonymously otherwise.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := tokenFromRequest(c); ok && tokenStr != "" {
			if claims, err := jwtManager.ParseAndValidate(tokenStr); err == nil {
				SetIdentity(c, claims.Identity())
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin role required",
			})
			return
		}
		c.Next()
	}
}
