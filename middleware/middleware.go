package middleware

import (
	"fmt"
	"strings"

	"github.com/ariqfadlan/medpractice/store"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	dbContextKey        = "db"
	directoryContextKey = "directory"
	userIDContextKey    = "user_id"
	emailContextKey     = "email"
	tokenContextKey     = "session_token"
)

// DatabaseMiddleware injects the shared gorm DB into the request context.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbContextKey, db)
		c.Next()
	}
}

// GetDB returns the request-scoped gorm DB, or nil if not set.
func GetDB(c *gin.Context) *gorm.DB {
	value, exists := c.Get(dbContextKey)
	if !exists {
		return nil
	}
	db, ok := value.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// DirectoryMiddleware injects the account directory selected at startup.
func DirectoryMiddleware(dir store.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(directoryContextKey, dir)
		c.Next()
	}
}

// GetDirectory returns the request-scoped account directory, or nil.
func GetDirectory(c *gin.Context) store.Directory {
	value, exists := c.Get(directoryContextKey)
	if !exists {
		return nil
	}
	dir, ok := value.(store.Directory)
	if !ok {
		return nil
	}
	return dir
}

// AuthRequired validates the bearer session token: JWT signature and
// expiry first, then the Redis session entry when a client is available.
// On success the user id, email and raw token are placed in context and
// the session TTL is refreshed.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventUnauthorizedAccess,
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				Message:   fmt.Sprintf("missing session token on %s", c.Request.URL.Path),
			})
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token required",
				Err: fmt.Errorf("missing authorization header"),
			})
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(token)
		if err != nil {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Invalid or expired session",
				Err: fmt.Errorf("invalid session token"),
			})
			c.Abort()
			return
		}

		if !util.SessionAlive(token) {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session has ended",
				Err: fmt.Errorf("session not found"),
			})
			c.Abort()
			return
		}

		util.TouchSession(token)

		c.Set(userIDContextKey, claims.UserID)
		c.Set(emailContextKey, claims.Email)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// GetUserID returns the authenticated admin user id from context.
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetEmail returns the authenticated admin email from context.
func GetEmail(c *gin.Context) (string, bool) {
	value, exists := c.Get(emailContextKey)
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	return email, ok
}

// GetSessionToken returns the raw bearer token from context.
func GetSessionToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(tokenContextKey)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
