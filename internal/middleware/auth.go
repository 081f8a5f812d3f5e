package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backend/internal/auth"
)

// Keys under which the authenticated identity lives in the gin context. The
// context dies with the request, so identity can never leak into another one.
const (
	ContextSubjectKey     = "authSubject"
	ContextAuthoritiesKey = "authAuthorities"
)

const bearerPrefix = "Bearer "

// Authentication extracts a bearer token, validates it and populates the
// request-scoped identity. A request without credentials proceeds
// unauthenticated; the per-route guards decide whether that is acceptable. A
// request with a bad token is rejected here and never reaches a handler.
func Authentication(validator *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		claims, err := validator.Validate(c.Request.Context(), strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Refresh tokens exist solely to be redeemed at the refresh endpoint;
		// they never authenticate ordinary API calls.
		if claims.IsRefresh() {
			c.Next()
			return
		}

		c.Set(ContextSubjectKey, claims.Subject)
		c.Set(ContextAuthoritiesKey, claims.AuthorityList())
		c.Next()
	}
}

// RequireAuthorities rejects requests without an authenticated identity, and
// with 403 when none of the allowed authorities is held. No arguments means
// any authenticated identity passes.
func RequireAuthorities(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString(ContextSubjectKey)
		if subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if len(allowed) == 0 {
			c.Next()
			return
		}

		held, _ := c.Get(ContextAuthoritiesKey)
		authorities, _ := held.([]string)
		for _, want := range allowed {
			for _, have := range authorities {
				if want == have {
					c.Next()
					return
				}
			}
		}

		log.Println("[AUTH] [ERROR] authority check failed for:", subject)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// Subject returns the authenticated identity's email, empty when the request
// is unauthenticated.
func Subject(c *gin.Context) string {
	return c.GetString(ContextSubjectKey)
}
