package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/seed"
	"github.com/sewa-org/sewa-backend/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		Environment:    "test",
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
		CacheTTL:       60,
		CodeRetryLimit: 10,
	}
}

// newTestServices wires the full service stack against in-memory repositories
// seeded with the default roles, superadmin, chapters and master data.
func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := repository.NewRepositories()
	seed.SeedData(repos)
	svcs := NewServices(&ServiceDeps{
		Config: testConfig(),
		Repos:  repos,
	})
	return svcs, repos
}

// registerMember submits a membership application and returns the PENDING
// profile row.
func registerMember(t *testing.T, svcs *Services, repos *repository.Repositories, username string) *repository.Member {
	t.Helper()
	ctx := context.Background()
	user, err := svcs.Auth.Register(ctx, RegisterInput{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "Secret@123",
		AccountType: types.AccountMember,
		FullName:    "Test " + username,
	})
	require.NoError(t, err)
	member, err := repos.MemberRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	return member
}

func registerStudent(t *testing.T, svcs *Services, repos *repository.Repositories, username string) *repository.Student {
	t.Helper()
	ctx := context.Background()
	user, err := svcs.Auth.Register(ctx, RegisterInput{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "Secret@123",
		AccountType: types.AccountStudent,
		FullName:    "Test " + username,
	})
	require.NoError(t, err)
	student, err := repos.StudentRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, student)
	return student
}

// approveMember walks a fresh application through to ACTIVE.
func approveMember(t *testing.T, svcs *Services, repos *repository.Repositories, username string) *repository.Member {
	t.Helper()
	member := registerMember(t, svcs, repos, username)
	approved, err := svcs.Member.Approve(context.Background(), member.ID)
	require.NoError(t, err)
	return approved
}

func claimsFor(username string, userID int, roles, permissions []string) *Claims {
	c := &Claims{
		Username:    username,
		UserID:      userID,
		Roles:       roles,
		Permissions: permissions,
	}
	c.intern()
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
