package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/salesdesk-api/internal/database"
	"github.com/dimitrije/salesdesk-api/internal/identity"
	"github.com/dimitrije/salesdesk-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@example.com"

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewUserService(db, adminEmail), mock
}

func userRowColumns() []string {
	return []string{
		"id", "email", "clerk_id", "role", "customer_name", "age", "gender",
		"location", "job", "salary", "created_at", "updated_at",
	}
}

func adminRow(id int64, email, clerkID string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userRowColumns()).
		AddRow(id, email, clerkID, models.RoleAdmin, nil, nil, nil, nil, nil, nil, now, now)
}

func customerRow(id int64, email, clerkID, name string, age int, gender, location, job string, salary int) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userRowColumns()).
		AddRow(id, email, clerkID, models.RoleCustomer, &name, &age, &gender, &location, &job, &salary, now, now)
}

func TestUserService_ResolveIdentity_SignedOut(t *testing.T) {
	svc, mock := setupUserService(t)

	user, err := svc.ResolveIdentity(context.Background(), &identity.Identity{SignedIn: false})

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ResolveIdentity_NilIdentity(t *testing.T) {
	svc, mock := setupUserService(t)

	user, err := svc.ResolveIdentity(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ResolveIdentity_CreatesAdminOnEmailMatch(t *testing.T) {
	svc, mock := setupUserService(t)
	ident := &identity.Identity{
		SignedIn: true,
		ID:       "clerk_admin",
		Email:    adminEmail,
	}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE clerk_id`).
		WithArgs(ident.ID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users \(email, clerk_id, role\)`).
		WithArgs(ident.Email, ident.ID, models.RoleAdmin).
		WillReturnRows(adminRow(1, ident.Email, ident.ID))

	user, err := svc.ResolveIdentity(context.Background(), ident)

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Nil(t, user.CustomerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ResolveIdentity_AdminEmailIsCaseSensitive(t *testing.T) {
	svc, mock := setupUserService(t)
	ident := &identity.Identity{
		SignedIn:  true,
		ID:        "clerk_caps",
		Email:     "Admin@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE clerk_id`).
		WithArgs(ident.ID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users \(email, clerk_id, role, customer_name`).
		WithArgs(ident.Email, ident.ID, models.RoleCustomer, "Ada Lovelace", 0, "", "", "", 0).
		WillReturnRows(customerRow(2, ident.Email, ident.ID, "Ada Lovelace", 0, "", "", "", 0))

	user, err := svc.ResolveIdentity(context.Background(), ident)

	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ResolveIdentity_BlankNameDefaultsToAnonymous(t *testing.T) {
	svc, mock := setupUserService(t)
	ident := &identity.Identity{
		SignedIn:  true,
		ID:        "clerk_blank",
		Email:     "blank@example.com",
		FirstName: "  ",
		LastName:  "",
	}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE clerk_id`).
		WithArgs(ident.ID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users \(email, clerk_id, role, customer_name`).
		WithArgs(ident.Email, ident.ID, models.RoleCustomer, "Anonymous", 0, "", "", "", 0).
		WillReturnRows(customerRow(3, ident.Email, ident.ID, "Anonymous", 0, "", "", "", 0))

	user, err := svc.ResolveIdentity(context.Background(), ident)

	require.NoError(t, err)
	assert.Equal(t, "Anonymous", user.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ResolveIdentity_ExistingUserUnchanged(t *testing.T) {
	svc, mock := setupUserService(t)
	ident := &identity.Identity{
		SignedIn:  true,
		ID:        "clerk_existing",
		Email:     "changed@example.com",
		FirstName: "New",
		LastName:  "Name",
	}

	// Existing record wins; no update and no second insert.
	mock.ExpectQuery(`SELECT .+ FROM users WHERE clerk_id`).
		WithArgs(ident.ID).
		WillReturnRows(customerRow(4, "original@example.com", ident.ID, "Original Name", 30, "female", "Berlin", "Engineer", 80000))

	user, err := svc.ResolveIdentity(context.Background(), ident)

	require.NoError(t, err)
	assert.Equal(t, "original@example.com", user.Email)
	assert.Equal(t, "Original Name", user.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ResolveIdentity_LookupErrorPropagates(t *testing.T) {
	svc, mock := setupUserService(t)
	ident := &identity.Identity{SignedIn: true, ID: "clerk_err", Email: "x@example.com"}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE clerk_id`).
		WithArgs(ident.ID).
		WillReturnError(assert.AnError)

	user, err := svc.ResolveIdentity(context.Background(), ident)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ListCustomers(t *testing.T) {
	svc, mock := setupUserService(t)

	rows := customerRow(5, "jane@example.com", "clerk_jane", "Jane Doe", 28, "female", "Paris", "Designer", 60000)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE role`).
		WithArgs(models.RoleCustomer).
		WillReturnRows(rows)

	users, err := svc.ListCustomers(context.Background(), ListOptions{})

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Jane Doe", users[0].Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ListCustomers_SearchAndSort(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE role = \$1 AND .+ ORDER BY salary DESC`).
		WithArgs(models.RoleCustomer, "%jane%").
		WillReturnRows(pgxmock.NewRows(userRowColumns()))

	_, err := svc.ListCustomers(context.Background(), ListOptions{
		Search:   "jane",
		SortBy:   "salary",
		SortDesc: true,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ListCustomers_UnknownSortFallsBackToID(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE role = \$1 ORDER BY id`).
		WithArgs(models.RoleCustomer).
		WillReturnRows(pgxmock.NewRows(userRowColumns()))

	_, err := svc.ListCustomers(context.Background(), ListOptions{SortBy: "drop table"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_CreateCustomer(t *testing.T) {
	svc, mock := setupUserService(t)
	in := CustomerInput{
		Email:    "new@example.com",
		Name:     "New Customer",
		Age:      42,
		Gender:   "male",
		Location: "Oslo",
		Job:      "Architect",
		Salary:   50000,
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(in.Email, "manual:new@example.com", models.RoleCustomer, in.Name, in.Age, in.Gender, in.Location, in.Job, in.Salary).
		WillReturnRows(customerRow(6, in.Email, "manual:new@example.com", in.Name, in.Age, in.Gender, in.Location, in.Job, in.Salary))

	user, err := svc.CreateCustomer(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(6), user.ID)
	assert.Equal(t, "New Customer", user.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateCustomer_SalaryOnly(t *testing.T) {
	svc, mock := setupUserService(t)
	newSalary := 70000

	mock.ExpectQuery(`UPDATE users SET updated_at = NOW\(\), salary = \$1`).
		WithArgs(newSalary, int64(7)).
		WillReturnRows(customerRow(7, "jane@example.com", "clerk_jane", "Jane Doe", 28, "female", "Paris", "Designer", newSalary))

	user, err := svc.UpdateCustomer(context.Background(), 7, CustomerPatch{Salary: &newSalary})

	require.NoError(t, err)
	assert.Equal(t, newSalary, user.SalaryValue())
	assert.Equal(t, "Jane Doe", user.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateCustomer_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	name := "Ghost"

	mock.ExpectQuery(`UPDATE users SET`).
		WithArgs(name, int64(999)).
		WillReturnError(pgx.ErrNoRows)

	user, err := svc.UpdateCustomer(context.Background(), 999, CustomerPatch{Name: &name})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_DeleteCustomer(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`DELETE FROM users WHERE id`).
		WithArgs(int64(8), models.RoleCustomer).
		WillReturnRows(customerRow(8, "gone@example.com", "clerk_gone", "Gone Person", 33, "", "", "", 0))

	user, err := svc.DeleteCustomer(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, "Gone Person", user.Name())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_DeleteCustomer_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`DELETE FROM users WHERE id`).
		WithArgs(int64(999), models.RoleCustomer).
		WillReturnError(pgx.ErrNoRows)

	user, err := svc.DeleteCustomer(context.Background(), 999)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
