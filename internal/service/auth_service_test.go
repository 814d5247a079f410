package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/types"
)

func TestRegisterCreatesDisabledLoginAndPendingProfile(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "ramesh")
	assert.Equal(t, types.StatusPending, member.MembershipStatus)
	assert.Nil(t, member.MembershipCode)

	require.NotNil(t, member.UserID)
	user, err := repos.UserRepo.FindByID(ctx, *member.UserID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.Active)

	roles, err := repos.UserRepo.FindRoleNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, roles, types.RoleMember)
}

func TestRegisterValidation(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svcs.Auth.Register(ctx, RegisterInput{
		Username: "noemail", Password: "Secret@123",
		AccountType: types.AccountMember, FullName: "No Email",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Auth.Register(ctx, RegisterInput{
		Username: "badtype", Email: "badtype@example.com", Password: "Secret@123",
		AccountType: "ALUMNI", FullName: "Bad Type",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Auth.Register(ctx, RegisterInput{
		Username: "badchapter", Email: "badchapter@example.com", Password: "Secret@123",
		AccountType: types.AccountMember, FullName: "Bad Chapter",
		ChapterID: intPtr(999),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateUsernameAndEmail(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	registerMember(t, svcs, repos, "sita")

	_, err := svcs.Auth.Register(ctx, RegisterInput{
		Username: "sita", Email: "other@example.com", Password: "Secret@123",
		AccountType: types.AccountMember, FullName: "Sita Again",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svcs.Auth.Register(ctx, RegisterInput{
		Username: "sita2", Email: "sita@example.com", Password: "Secret@123",
		AccountType: types.AccountMember, FullName: "Sita Again",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginBlockedUntilApproval(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "hari")

	_, err := svcs.Auth.Login(ctx, "hari", "Secret@123")
	assert.ErrorIs(t, err, ErrAccountDisabled)

	_, err = svcs.Member.Approve(ctx, member.ID)
	require.NoError(t, err)

	result, err := svcs.Auth.Login(ctx, "hari", "Secret@123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Contains(t, result.Roles, types.RoleMember)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	registerMember(t, svcs, repos, "gita")

	_, err := svcs.Auth.Login(ctx, "nobody", "Secret@123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Wrong password wins over the disabled-account check
	_, err = svcs.Auth.Login(ctx, "gita", "WrongPassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginByEmail(t *testing.T) {
	svcs, _ := newTestServices(t)

	result, err := svcs.Auth.Login(context.Background(), "admin@sewa.org", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, "superadmin", result.User.Username)
	assert.Contains(t, result.Roles, types.RoleSuperAdmin)
}

func TestTokenRoundTrip(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	admin, err := repos.UserRepo.FindByUsername(ctx, "superadmin")
	require.NoError(t, err)
	require.NotNil(t, admin)

	token, err := svcs.Auth.IssueToken(ctx, admin)
	require.NoError(t, err)

	claims, err := svcs.Auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "superadmin", claims.Username)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.True(t, claims.HasRole(types.RoleSuperAdmin))
	assert.NotEmpty(t, claims.Permissions)
}

func TestParseTokenExpired(t *testing.T) {
	_, repos := newTestServices(t)
	ctx := context.Background()

	cfg := testConfig()
	cfg.JWTExpiryHours = -1
	auth := NewAuthService(cfg, repos.UserRepo, repos.RoleRepo, repos.MemberRepo, repos.StudentRepo, repos.ChapterRepo)

	admin, err := repos.UserRepo.FindByUsername(ctx, "superadmin")
	require.NoError(t, err)

	token, err := auth.IssueToken(ctx, admin)
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenInvalid(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	_, err := svcs.Auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret
	otherCfg := testConfig()
	otherCfg.JWTSecret = "other-secret"
	other := NewAuthService(otherCfg, repos.UserRepo, repos.RoleRepo, repos.MemberRepo, repos.StudentRepo, repos.ChapterRepo)

	admin, err := repos.UserRepo.FindByUsername(ctx, "superadmin")
	require.NoError(t, err)
	token, err := other.IssueToken(ctx, admin)
	require.NoError(t, err)

	_, err = svcs.Auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMeReturnsRolesAndPermissions(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	admin, err := repos.UserRepo.FindByUsername(ctx, "superadmin")
	require.NoError(t, err)

	user, roles, permissions, err := svcs.Auth.Me(ctx, claimsFor("superadmin", admin.ID, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "superadmin", user.Username)
	assert.Contains(t, roles, types.RoleSuperAdmin)
	assert.Contains(t, permissions, types.PermMemberApprove)
}
