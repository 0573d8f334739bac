package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/domain"
	"github.com/mbozhik/pickmy/internal/repository"
)

const UserContextKey = "user"

// SessionHeader carries the anonymous cart session ID
const SessionHeader = "X-Session-ID"

// AuthMiddleware authenticates requests using an API key. The key's SHA256
// hex locates the user row, the stored bcrypt hash verifies it.
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, repos, logger)
		if !ok {
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// AdminMiddleware restricts access to admin users or the configured admin key
func AdminMiddleware(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey, ok := bearerToken(c); ok && cfg.AdminAPIKey != "" {
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.AdminAPIKey)) == 1 {
				c.Next()
				return
			}
		}

		user, ok := authenticate(c, repos, logger)
		if !ok {
			return
		}
		if !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// authenticate resolves and verifies the request's API key. On failure the
// response is already written and the chain aborted.
func authenticate(c *gin.Context, repos *repository.Repositories, logger *zap.Logger) (*domain.User, bool) {
	apiKey, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
		c.Abort()
		return nil, false
	}

	user, err := repos.User.GetByAPIKeyLookup(c.Request.Context(), LookupHash(apiKey))
	if err != nil {
		logger.Warn("Failed to authenticate user", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
		c.Abort()
		return nil, false
	}

	if !VerifyAPIKey(apiKey, user.APIKeyHash) {
		logger.Warn("API key verification failed", zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
		c.Abort()
		return nil, false
	}

	return user, true
}

// SessionMiddleware requires the X-Session-ID header on cart routes
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionHeader))
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader + " header"})
			c.Abort()
			return
		}
		c.Set(SessionHeader, sessionID)
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the Gin context
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	user, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}

	u, ok := user.(*domain.User)
	return u, ok
}

// GetSessionID retrieves the cart session ID from the Gin context
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionHeader)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	apiKey := strings.TrimSpace(parts[1])
	return apiKey, apiKey != ""
}

// LookupHash returns the SHA256 hex of an API key, used as the indexed
// lookup column. Verification still goes through bcrypt.
func LookupHash(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// HashAPIKey hashes an API key using bcrypt
func HashAPIKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAPIKey verifies an API key against a bcrypt hash
func VerifyAPIKey(apiKey, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey))
	return err == nil
}
