package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

func TestCheckSuperAdminAlwaysPasses(t *testing.T) {
	svcs, _ := newTestServices(t)

	super := claimsFor("superadmin", 1, []string{types.RoleSuperAdmin}, nil)
	assert.True(t, svcs.Permission.Check(super, Requirement{Permissions: []string{types.PermMemberDelete}}))
	assert.True(t, svcs.Permission.Check(super, Requirement{Roles: []string{types.RoleAdmin}}))
	assert.True(t, svcs.Permission.Check(super, Requirement{}))
}

func TestCheckMatchesAnyRoleOrPermission(t *testing.T) {
	svcs, _ := newTestServices(t)

	member := claimsFor("member", 2, []string{types.RoleMember}, []string{types.PermNewsView, types.PermFeePay})

	assert.True(t, svcs.Permission.Check(member, Requirement{Roles: []string{types.RoleMember}}))
	assert.True(t, svcs.Permission.Check(member, Requirement{Permissions: []string{types.PermMemberApprove, types.PermNewsView}}))
	assert.False(t, svcs.Permission.Check(member, Requirement{Permissions: []string{types.PermMemberApprove}}))
	assert.False(t, svcs.Permission.Check(member, Requirement{Roles: []string{types.RoleAdmin}}))
	assert.False(t, svcs.Permission.Check(nil, Requirement{Roles: []string{types.RoleMember}}))
}

func TestCanManageMember(t *testing.T) {
	svcs, _ := newTestServices(t)

	owner := &repository.Member{ID: 10, UserID: intPtr(5)}

	assert.True(t, svcs.Permission.CanManageMember(claimsFor("admin", 1, []string{types.RoleAdmin}, nil), owner))
	assert.True(t, svcs.Permission.CanManageMember(claimsFor("chadmin", 2, []string{types.RoleChapterAdmin}, nil), owner))
	assert.True(t, svcs.Permission.CanManageMember(claimsFor("self", 5, []string{types.RoleMember}, nil), owner))
	assert.False(t, svcs.Permission.CanManageMember(claimsFor("other", 6, []string{types.RoleMember}, nil), owner))
	assert.False(t, svcs.Permission.CanManageMember(nil, owner))
}

func TestListRolesAndPermissions(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	roles, err := svcs.Permission.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 5)

	permissions, err := svcs.Permission.ListPermissions(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, permissions)
}
