// Package identity consumes the external identity provider boundary. The
// provider authenticates end users; this package only resolves a session
// token to the identity attributes the rest of the app needs.
package identity

import "context"

// Identity is the resolved external identity for one browser session. A
// zero SignedIn flag means "no current user" and is not an error.
type Identity struct {
	SignedIn  bool
	ID        string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
	HasImage  bool
}

type Provider interface {
	// Resolve maps a session token to an external identity. An empty token
	// resolves to a signed-out identity. Errors mean the provider could not
	// be consulted; callers decide whether to surface or downgrade them.
	Resolve(ctx context.Context, sessionToken string) (*Identity, error)
	Name() string
}
