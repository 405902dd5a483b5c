package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/dimitrije/salesdesk-api/internal/identity"
	"github.com/dimitrije/salesdesk-api/internal/models"
	"github.com/m1z23r/drift/pkg/drift"
)

const CurrentUserKey = "current_user"

// UserResolver is the user-resolution service as the middleware sees it.
type UserResolver interface {
	ResolveIdentity(ctx context.Context, ident *identity.Identity) (*models.User, error)
}

// Identity resolves the browser session to a local user and stores it on
// the request context. Provider or store failures are logged here and
// downgraded to signed-out; "no current user" is the only failure signal
// downstream handlers see.
func Identity(provider identity.Provider, users UserResolver) drift.HandlerFunc {
	return func(c *drift.Context) {
		token := sessionToken(c)

		ident, err := provider.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Printf("identity resolution failed: %v", err)
			c.Next()
			return
		}

		user, err := users.ResolveIdentity(c.Request.Context(), ident)
		if err != nil {
			log.Printf("user resolution failed: %v", err)
			c.Next()
			return
		}

		if user != nil {
			c.Set(CurrentUserKey, user)
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from anyone but an admin. Signed-out
// callers get 401 so clients can redirect to sign-in.
func RequireAdmin() drift.HandlerFunc {
	return func(c *drift.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Unauthorized("not signed in")
			return
		}
		if !user.IsAdmin() {
			c.Forbidden("Access Denied")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *drift.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// SessionToken returns the raw provider session token for the request,
// for upstream caller attribution.
func SessionToken(c *drift.Context) string {
	return sessionToken(c)
}

func sessionToken(c *drift.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	// Clerk's browser SDK stores the session token in the __session cookie.
	if cookie, err := c.Request.Cookie("__session"); err == nil {
		return cookie.Value
	}
	return ""
}
