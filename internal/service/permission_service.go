package service

import (
	"context"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Permission Service
// ============================================

// Requirement describes what a route demands of the caller. A caller passes
// when they hold ANY of the listed roles or ANY of the listed permissions.
// Super admins always pass.
type Requirement struct {
	Roles       []string
	Permissions []string
}

type PermissionService interface {
	// Check evaluates a requirement against the caller's claims.
	Check(claims *Claims, req Requirement) bool

	// CanManageMember reports whether the caller may act on the given
	// member profile: admins and chapter admins on any member (claims
	// carry no chapter scope), owners on their own profile.
	CanManageMember(claims *Claims, member *repository.Member) bool

	ListRoles(ctx context.Context) ([]*repository.Role, error)
	ListPermissions(ctx context.Context) ([]*repository.Permission, error)
}

type permissionService struct {
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
}

func NewPermissionService(roleRepo repository.RoleRepository, permRepo repository.PermissionRepository) PermissionService {
	return &permissionService{roleRepo: roleRepo, permRepo: permRepo}
}

func (s *permissionService) Check(claims *Claims, req Requirement) bool {
	if claims == nil {
		return false
	}
	if claims.HasRole(types.RoleSuperAdmin) {
		return true
	}
	for _, role := range req.Roles {
		if claims.HasRole(role) {
			return true
		}
	}
	for _, perm := range req.Permissions {
		if claims.HasPermission(perm) {
			return true
		}
	}
	return false
}

func (s *permissionService) CanManageMember(claims *Claims, member *repository.Member) bool {
	if claims == nil || member == nil {
		return false
	}
	if claims.IsAdmin() {
		return true
	}
	if claims.HasRole(types.RoleChapterAdmin) {
		return true
	}
	return member.UserID != nil && *member.UserID == claims.UserID
}

func (s *permissionService) ListRoles(ctx context.Context) ([]*repository.Role, error) {
	return s.roleRepo.FindAll(ctx)
}

func (s *permissionService) ListPermissions(ctx context.Context) ([]*repository.Permission, error) {
	return s.permRepo.FindAll(ctx)
}
