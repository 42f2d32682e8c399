package middleware

import (
	"net/http"
	"strings"

	"wikiboard/internal/domain"
	"wikiboard/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT requires a valid bearer token and puts the authenticated user into
// the gin context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// OptionalJWT parses a bearer token when present but lets anonymous
// callers through. Public board views and search use it.
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromRequest(c); ok {
			c.Set("user", user)
			c.Set("user_id", user.ID)
		}
		c.Next()
	}
}

// CurrentUser returns the identity set by JWT/OptionalJWT, or the
// anonymous user when none is present.
func CurrentUser(c *gin.Context) domain.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(domain.User); ok {
			return u
		}
	}
	return domain.Anonymous
}

func userFromRequest(c *gin.Context) (domain.User, bool) {
	auth := c.GetHeader("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == "" || token == auth {
		// WebSocket clients can't set headers; accept a query token there
		token = c.Query("token")
	}
	if token == "" {
		return domain.Anonymous, false
	}

	userID, registered, err := service.ParseJWT(token)
	if err != nil {
		return domain.Anonymous, false
	}
	return domain.User{ID: userID, Registered: registered}, true
}
