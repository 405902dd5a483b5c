package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/dimitrije/salesdesk-api/internal/database"
	"github.com/dimitrije/salesdesk-api/internal/identity"
	"github.com/dimitrije/salesdesk-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateCustomer inserts a test customer with default values
func (f *Fixtures) CreateCustomer(t *testing.T, opts ...CustomerOption) *models.User {
	t.Helper()
	f.counter++

	name := fmt.Sprintf("Test Customer %d", f.counter)
	age := 30
	gender := "female"
	location := "Berlin"
	job := "Engineer"
	salary := 75000

	user := &models.User{
		Email:        fmt.Sprintf("customer%d@example.com", f.counter),
		ClerkID:      fmt.Sprintf("clerk-%d", f.counter),
		Role:         models.RoleCustomer,
		CustomerName: &name,
		Age:          &age,
		Gender:       &gender,
		Location:     &location,
		Job:          &job,
		Salary:       &salary,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, clerk_id, role, customer_name, age, gender, location, job, salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, user.Email, user.ClerkID, user.Role, user.CustomerName, user.Age,
		user.Gender, user.Location, user.Job, user.Salary).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	return user
}

// CustomerOption configures a test customer
type CustomerOption func(*models.User)

// WithEmail sets the customer's email
func WithEmail(email string) CustomerOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithCustomerName sets the customer's display name
func WithCustomerName(name string) CustomerOption {
	return func(u *models.User) {
		u.CustomerName = &name
	}
}

// WithSalary sets the customer's salary
func WithSalary(salary int) CustomerOption {
	return func(u *models.User) {
		u.Salary = &salary
	}
}

// WithRole overrides the record's role
func WithRole(role models.Role) CustomerOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// SignedInIdentity creates a signed-in test identity
func SignedInIdentity(clerkID, email, firstName, lastName string) *identity.Identity {
	return &identity.Identity{
		SignedIn:  true,
		ID:        clerkID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
}
