package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dimitrije/salesdesk-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Clerk resolves session tokens against the Clerk backend API. The token's
// sid/sub claims are extracted locally; the session itself is confirmed
// server-side, so Clerk stays the authority on whether it is active.
type Clerk struct {
	apiURL string
	client *http.Client
}

func NewClerk(cfg config.ClerkConfig) *Clerk {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.SecretKey})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = 10 * time.Second

	return &Clerk{
		apiURL: cfg.APIURL,
		client: client,
	}
}

func (c *Clerk) Name() string {
	return "clerk"
}

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type clerkSession struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type clerkUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	HasImage       bool   `json:"has_image"`
	EmailAddresses []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (c *Clerk) Resolve(ctx context.Context, sessionToken string) (*Identity, error) {
	if sessionToken == "" {
		return &Identity{SignedIn: false}, nil
	}

	claims := &sessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sessionToken, claims); err != nil {
		return nil, fmt.Errorf("malformed session token: %w", err)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("session token missing sid or sub claim")
	}

	var session clerkSession
	if err := c.get(ctx, "/sessions/"+claims.SessionID, &session); err != nil {
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}
	if session.Status != "active" || session.UserID != claims.Subject {
		return &Identity{SignedIn: false}, nil
	}

	var user clerkUser
	if err := c.get(ctx, "/users/"+session.UserID, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	ident := &Identity{
		SignedIn:  true,
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ImageURL:  user.ImageURL,
		HasImage:  user.HasImage,
	}
	// First entry in the email-addresses list is the one used.
	if len(user.EmailAddresses) > 0 {
		ident.Email = user.EmailAddresses[0].EmailAddress
	}

	return ident, nil
}

func (c *Clerk) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("clerk api returned %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
