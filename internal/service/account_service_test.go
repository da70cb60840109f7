package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/repository"
	"github.com/Rohan11203/JobPortal-assignment/internal/repository/sqlite"
)

func newTestRepos(t *testing.T) (repository.UserRepository, repository.JobRepository, repository.ApplicationRepository) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	jobs := sqlite.NewJobRepository(db)
	apps := sqlite.NewApplicationRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, jobs.Init(ctx))
	require.NoError(t, apps.Init(ctx))

	return users, jobs, apps
}

func TestSignupAndAuthenticate(t *testing.T) {
	users, _, _ := newTestRepos(t)
	svc := NewAccountService(users)
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
		Role:     domain.RoleJobSeeker,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized to lower case")
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	authed, err := svc.Authenticate(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.Equal(t, domain.RoleJobSeeker, authed.Role)

	// signin is case-insensitive on email too
	authed, err = svc.Authenticate(ctx, "ALICE@example.COM", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	users, _, _ := newTestRepos(t)
	svc := NewAccountService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Role:     domain.RoleJobSeeker,
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{
		Name:     "Imposter",
		Email:    "Alice@Example.com",
		Password: "different",
		Role:     domain.RoleJobSeeker,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// the column collation holds the invariant even for writes that skip the
	// service's normalization
	_, err = users.Create(ctx, &domain.User{
		Name:         "Direct",
		Email:        "ALICE@example.com",
		PasswordHash: "x",
		Role:         domain.RoleJobSeeker,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// The losing signup must not have created a second record; the first
	// account still authenticates with its own password.
	authed, err := svc.Authenticate(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", authed.Name)
}

func TestSignupValidation(t *testing.T) {
	users, _, _ := newTestRepos(t)
	svc := NewAccountService(users)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SignupInput
	}{
		{"missing name", SignupInput{Email: "a@x.com", Password: "secret123", Role: domain.RoleJobSeeker}},
		{"missing email", SignupInput{Name: "A", Password: "secret123", Role: domain.RoleJobSeeker}},
		{"missing password", SignupInput{Name: "A", Email: "a@x.com", Role: domain.RoleJobSeeker}},
		{"bad role", SignupInput{Name: "A", Email: "a@x.com", Password: "secret123", Role: "admin"}},
		{"employer without company", SignupInput{Name: "A", Email: "a@x.com", Password: "secret123", Role: domain.RoleEmployer}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthenticateFailures(t *testing.T) {
	users, _, _ := newTestRepos(t)
	svc := NewAccountService(users)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "secret123",
		Role:     domain.RoleJobSeeker,
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByID(t *testing.T) {
	users, _, _ := newTestRepos(t)
	svc := NewAccountService(users)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{
		Name:     "Carol",
		Email:    "carol@acme.com",
		Password: "secret123",
		Role:     domain.RoleEmployer,
		Company:  "Acme",
	})
	require.NoError(t, err)

	user, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", user.Company)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
