package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/salesdesk-api/internal/database"
	"github.com/dimitrije/salesdesk-api/internal/identity"
	"github.com/dimitrije/salesdesk-api/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by update/delete operations when no row matches
// the given id. It is an explicit outcome, not a silent miss.
var ErrNotFound = errors.New("user not found")

const userColumns = "id, email, clerk_id, role, customer_name, age, gender, location, job, salary, created_at, updated_at"

type UserService struct {
	db         *database.DB
	adminEmail string
}

func NewUserService(db *database.DB, adminEmail string) *UserService {
	return &UserService{db: db, adminEmail: adminEmail}
}

// ResolveIdentity maps an external identity to the local user record,
// creating one on first sight. A signed-out identity resolves to
// (nil, nil). Existing records are returned unchanged; name and email are
// not re-synced from the provider on later logins.
func (s *UserService) ResolveIdentity(ctx context.Context, ident *identity.Identity) (*models.User, error) {
	if ident == nil || !ident.SignedIn || ident.ID == "" {
		return nil, nil
	}

	user, err := s.getByClerkID(ctx, ident.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Role is decided once, at creation: exact case-sensitive match of the
	// resolved email against the configured administrator email.
	if ident.Email == s.adminEmail && s.adminEmail != "" {
		return s.createAdmin(ctx, ident)
	}
	return s.createCustomer(ctx, ident)
}

func (s *UserService) getByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE clerk_id = $1
	`, clerkID)
	return scanUser(row)
}

func (s *UserService) createAdmin(ctx context.Context, ident *identity.Identity) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, clerk_id, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns+`
	`, ident.Email, ident.ID, models.RoleAdmin)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return user, nil
}

func (s *UserService) createCustomer(ctx context.Context, ident *identity.Identity) (*models.User, error) {
	name := strings.TrimSpace(ident.FirstName + " " + ident.LastName)
	if name == "" {
		name = "Anonymous"
	}

	zero := 0
	empty := ""
	row := s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, clerk_id, role, customer_name, age, gender, location, job, salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns+`
	`, ident.Email, ident.ID, models.RoleCustomer, name, zero, empty, empty, empty, zero)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListOptions narrows and orders the customer list. SortBy is checked
// against a whitelist; unknown columns fall back to id ordering.
type ListOptions struct {
	Search   string
	SortBy   string
	SortDesc bool
}

var sortColumns = map[string]string{
	"customer_name": "customer_name",
	"email":         "email",
	"age":           "age",
	"location":      "location",
	"job":           "job",
	"salary":        "salary",
}

func (s *UserService) ListCustomers(ctx context.Context, opts ListOptions) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1`
	args := []any{models.RoleCustomer}

	if opts.Search != "" {
		query += ` AND (customer_name ILIKE $2 OR email ILIKE $2 OR location ILIKE $2)`
		args = append(args, "%"+opts.Search+"%")
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "id"
	}
	query += " ORDER BY " + column
	if opts.SortDesc {
		query += " DESC"
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// CustomerInput is a full customer row for creation.
type CustomerInput struct {
	Email    string
	Name     string
	Age      int
	Gender   string
	Location string
	Job      string
	Salary   int
}

// CreateCustomer inserts a manually added customer. These rows have no
// external identity, so a synthetic clerk_id keeps the unique constraint
// satisfied without colliding with provider-issued ids.
func (s *UserService) CreateCustomer(ctx context.Context, in CustomerInput) (*models.User, error) {
	clerkID := "manual:" + in.Email
	row := s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, clerk_id, role, customer_name, age, gender, location, job, salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns+`
	`, in.Email, clerkID, models.RoleCustomer, in.Name, in.Age, in.Gender, in.Location, in.Job, in.Salary)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return user, nil
}

// CustomerPatch carries the fields to update; nil fields are left alone.
type CustomerPatch struct {
	Email    *string
	Name     *string
	Age      *int
	Gender   *string
	Location *string
	Job      *string
	Salary   *int
}

func (s *UserService) UpdateCustomer(ctx context.Context, id int64, patch CustomerPatch) (*models.User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Name != nil {
		add("customer_name", *patch.Name)
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Job != nil {
		add("job", *patch.Job)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d AND role = '%s'
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), models.RoleCustomer, userColumns)

	user, err := scanUser(s.db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return user, nil
}

// DeleteCustomer removes the row and returns the deleted record so callers
// can name the customer in notifications.
func (s *UserService) DeleteCustomer(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.Pool.QueryRow(ctx, `
		DELETE FROM users
		WHERE id = $1 AND role = $2
		RETURNING `+userColumns+`
	`, id, models.RoleCustomer)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.ClerkID, &user.Role,
		&user.CustomerName, &user.Age, &user.Gender, &user.Location,
		&user.Job, &user.Salary, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
