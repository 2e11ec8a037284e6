package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/models"
)

// Typed context keys
type contextKey string

const (
	UserContextKey contextKey = "user"
	TokenKey       contextKey = "token"
)

// TokenValidator reports whether a token still maps to a live session.
// The session store is authoritative: a syntactically valid JWT whose
// session was cleared (logout, expiry) must be rejected.
type TokenValidator interface {
	IsValid(ctx context.Context, token string) (*models.Session, bool)
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// ExtractToken pulls the bearer token out of the Authorization header.
// The API uses the "Token <value>" scheme.
func ExtractToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header: %w", models.ErrUnauthenticated)
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Token") || token == "" {
		return "", fmt.Errorf("malformed authorization header: %w", models.ErrUnauthenticated)
	}
	return token, nil
}

// AuthMiddleware validates the request token.
// The JWT signature is checked first, then the session store is consulted
// so that logged-out tokens are dead even before the JWT expires.
// Note: logging is handled by ginzap middleware.
func AuthMiddleware(secret string, sessions TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractToken(c)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		claims := &models.Claims{}
		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		session, ok := sessions.IsValid(c.Request.Context(), token)
		if !ok {
			common.Fail(c, http.StatusUnauthorized, "session expired")
			c.Abort()
			return
		}

		c.Set(string(UserContextKey), &session.User)
		c.Set(string(TokenKey), token)
		c.Set("user_id", session.User.ID)
		c.Set("user_email", session.User.Email)
		c.Set("user_role", session.User.Role)
		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user := GetUserFromContext(c)
		if user == nil {
			common.Fail(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			common.Fail(c, http.StatusForbidden, "permission denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserFromContext extracts user information from Gin context
func GetUserFromContext(c *gin.Context) *models.UserProfile {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}

	profile, ok := user.(*models.UserProfile)
	if !ok {
		return nil
	}

	return profile
}

// GetTokenFromContext extracts the raw request token from Gin context
func GetTokenFromContext(c *gin.Context) string {
	if token, exists := c.Get(string(TokenKey)); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// GetUserIDFromContext extracts just the user ID from context
func GetUserIDFromContext(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if idStr, ok := userID.(string); ok {
			return idStr
		}
	}
	return ""
}
