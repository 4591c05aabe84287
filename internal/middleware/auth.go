package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/blogicum/backend/internal/blog"
	"github.com/emilythestrangee/blogicum/backend/internal/logging"
	"github.com/emilythestrangee/blogicum/backend/internal/routes"
)

const principalKey = "principal"

// Resolver turns a bearer token into a principal.
type Resolver interface {
	Resolve(ctx context.Context, token string) blog.Principal
}

// Authenticate attaches the request's principal to the context. Requests without
// a valid token continue as anonymous.
func Authenticate(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := r.Resolve(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		c.Set(principalKey, p)
		if p.Authenticated() {
			logging.AddToEvent(c.Request.Context(), slog.Int("user_id", p.UserID))
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal Authenticate stored, or the anonymous one.
func PrincipalFrom(c *gin.Context) blog.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(blog.Principal); ok {
			return p
		}
	}
	return blog.Principal{}
}

// RequireAuth sends anonymous requests to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFrom(c).Authenticated() {
			Redirect(c, routes.LoginNext(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff admits staff principals only.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if !p.Authenticated() {
			Redirect(c, routes.LoginNext(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !p.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}
		c.Next()
	}
}

// Redirect answers with 302 and echoes the location in the body for API clients.
func Redirect(c *gin.Context, location string) {
	c.Header("Location", location)
	c.JSON(http.StatusFound, gin.H{"redirect": location})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
