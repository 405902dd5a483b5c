package handlers

import (
	"context"

	"github.com/dimitrije/salesdesk-api/internal/identity"
	"github.com/dimitrije/salesdesk-api/internal/models"
	"github.com/dimitrije/salesdesk-api/internal/services"
	"github.com/dimitrije/salesdesk-api/internal/state"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	ResolveIdentity(ctx context.Context, ident *identity.Identity) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListCustomers(ctx context.Context, opts services.ListOptions) ([]models.User, error)
	CreateCustomer(ctx context.Context, in services.CustomerInput) (*models.User, error)
	UpdateCustomer(ctx context.Context, id int64, patch services.CustomerPatch) (*models.User, error)
	DeleteCustomer(ctx context.Context, id int64) (*models.User, error)
}

// EngineInterface defines the methods used by handlers from the email
// generation engine.
type EngineInterface interface {
	Start(ctx context.Context, sess *state.Session, callerToken string)
}
