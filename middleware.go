package main

import (
	"net/http"
	"slices"
	"strings"

	"moneytracker/pkg/auth"
	"moneytracker/pkg/logging"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// authMiddleware resolves the bearer token into an auth.Identity stored on the
// gin context.
func authMiddleware(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		id, err := guard.Authenticate(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(identityKey, id)
		l := logging.FromContext(c.Request.Context()).With(logging.FieldUserID, id.ID())
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), l))
		c.Next()
	}
}

func requireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.RequireSuperadmin(currentIdentity(c)); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// currentIdentity returns the identity set by authMiddleware, or the zero
// Identity on unauthenticated routes.
func currentIdentity(c *gin.Context) auth.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(auth.Identity)
	return id
}

// corsMiddleware echoes allowed origins. A "*" entry allows any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case origin == "":
		case allowAll || slices.Contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, "+logging.RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
