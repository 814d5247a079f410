// internal/seed/seed.go
package seed

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// SeedData bootstraps permissions, roles, the superadmin account, chapters
// and master data vocabularies. Safe to run on every startup; it skips work
// already done.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	if count, err := repos.RoleRepo.Count(ctx); err == nil && count > 0 {
		log.Println("[Seed] Roles already present, skipping bootstrap")
		return
	}

	log.Println("[Seed] Bootstrapping permissions, roles and default data...")

	permIDs := seedPermissions(ctx, repos)
	seedRoles(ctx, repos, permIDs)
	seedSuperAdmin(ctx, repos)
	seedChapters(ctx, repos)
	seedMasterData(ctx, repos)

	log.Println("[Seed] Bootstrap complete")
}

var permissionCatalog = []struct {
	Code        string
	Description string
}{
	{types.PermMemberCreate, "Create member profiles"},
	{types.PermMemberView, "View member profiles"},
	{types.PermMemberList, "List and search members"},
	{types.PermMemberUpdate, "Update member profiles"},
	{types.PermMemberApprove, "Approve pending members"},
	{types.PermMemberReject, "Reject pending members"},
	{types.PermMemberDelete, "Delete members"},

	{types.PermStudentCreate, "Create student profiles"},
	{types.PermStudentView, "View student profiles"},
	{types.PermStudentList, "List and search students"},
	{types.PermStudentUpdate, "Update student profiles"},
	{types.PermStudentApprove, "Approve or reject pending students"},
	{types.PermStudentDelete, "Delete students"},

	{types.PermChapterCreate, "Create chapters"},
	{types.PermChapterView, "View chapters"},
	{types.PermChapterUpdate, "Update chapters"},
	{types.PermChapterDelete, "Delete chapters"},
	{types.PermChapterAssignMember, "Assign members to chapters"},
	{types.PermChapterViewMembers, "View chapter rosters"},

	{types.PermFeeView, "View membership fees"},
	{types.PermFeePay, "Record fee payments"},
	{types.PermFeeVerify, "Verify fee payments"},
	{types.PermFeeReport, "View fee reports"},

	{types.PermNewsCreate, "Create notices"},
	{types.PermNewsView, "View notices"},
	{types.PermNewsUpdate, "Update notices"},
	{types.PermNewsDelete, "Delete notices"},

	{types.PermMessageSend, "Send internal messages"},
	{types.PermMessageView, "View internal messages"},
	{types.PermMessageDelete, "Delete internal messages"},

	{types.PermReportView, "View dashboard reports"},

	{types.PermProfileView, "View own profile"},
	{types.PermProfileUpdate, "Update own profile"},
}

func seedPermissions(ctx context.Context, repos *repository.Repositories) map[string]int {
	permIDs := make(map[string]int, len(permissionCatalog))
	for _, entry := range permissionCatalog {
		desc := entry.Description
		p := &repository.Permission{PermissionCode: entry.Code, Description: &desc}
		if err := repos.PermissionRepo.Create(ctx, p); err != nil {
			existing, _ := repos.PermissionRepo.FindByCode(ctx, entry.Code)
			if existing != nil {
				permIDs[entry.Code] = existing.ID
			}
			continue
		}
		permIDs[entry.Code] = p.ID
	}
	log.Printf("[Seed] Created %d permissions", len(permIDs))
	return permIDs
}

func seedRoles(ctx context.Context, repos *repository.Repositories, permIDs map[string]int) {
	allPerms := make([]int, 0, len(permIDs))
	for _, id := range permIDs {
		allPerms = append(allPerms, id)
	}

	pick := func(codes ...string) []int {
		ids := make([]int, 0, len(codes))
		for _, code := range codes {
			if id, ok := permIDs[code]; ok {
				ids = append(ids, id)
			}
		}
		return ids
	}

	createRole := func(name, description string, permissionIDs []int) {
		desc := description
		role := &repository.Role{RoleName: name, Description: &desc}
		if err := repos.RoleRepo.Create(ctx, role, permissionIDs); err != nil {
			log.Printf("[Seed] Role %s: %v", name, err)
		}
	}

	createRole(types.RoleSuperAdmin, "Full access to everything", allPerms)

	createRole(types.RoleAdmin, "Association-wide administration", pick(
		types.PermMemberCreate, types.PermMemberView, types.PermMemberList,
		types.PermMemberUpdate, types.PermMemberApprove, types.PermMemberReject,
		types.PermMemberDelete,
		types.PermStudentCreate, types.PermStudentView, types.PermStudentList,
		types.PermStudentUpdate, types.PermStudentApprove, types.PermStudentDelete,
		types.PermChapterCreate, types.PermChapterView, types.PermChapterUpdate,
		types.PermChapterAssignMember, types.PermChapterViewMembers,
		types.PermFeeView, types.PermFeePay, types.PermFeeVerify, types.PermFeeReport,
		types.PermNewsCreate, types.PermNewsView, types.PermNewsUpdate, types.PermNewsDelete,
		types.PermMessageSend, types.PermMessageView, types.PermMessageDelete,
		types.PermReportView,
		types.PermProfileView, types.PermProfileUpdate,
	))

	createRole(types.RoleChapterAdmin, "Chapter-level administration", pick(
		types.PermMemberView, types.PermMemberList, types.PermMemberUpdate,
		types.PermStudentView, types.PermStudentList,
		types.PermChapterView, types.PermChapterViewMembers, types.PermChapterAssignMember,
		types.PermFeeView,
		types.PermNewsView,
		types.PermMessageSend, types.PermMessageView,
		types.PermProfileView, types.PermProfileUpdate,
	))

	createRole(types.RoleMember, "Regular approved member", pick(
		types.PermChapterView,
		types.PermFeeView, types.PermFeePay,
		types.PermNewsView,
		types.PermMessageSend, types.PermMessageView,
		types.PermProfileView, types.PermProfileUpdate,
	))

	createRole(types.RoleStudent, "Student member", pick(
		types.PermChapterView,
		types.PermNewsView,
		types.PermMessageSend, types.PermMessageView,
		types.PermProfileView, types.PermProfileUpdate,
	))

	log.Println("[Seed] Created 5 roles")
}

func seedSuperAdmin(ctx context.Context, repos *repository.Repositories) {
	existing, _ := repos.UserRepo.FindByUsername(ctx, "superadmin")
	if existing != nil {
		return
	}

	password, err := bcrypt.GenerateFromPassword([]byte("Admin@123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] Superadmin password hash: %v", err)
		return
	}

	role, _ := repos.RoleRepo.FindByName(ctx, types.RoleSuperAdmin)
	var roleIDs []int
	if role != nil {
		roleIDs = []int{role.ID}
	}

	user := &repository.User{
		Username: "superadmin",
		Email:    "admin@sewa.org",
		Password: string(password),
		Active:   true,
	}
	if err := repos.UserRepo.Create(ctx, user, roleIDs); err != nil {
		log.Printf("[Seed] Superadmin: %v", err)
		return
	}
	log.Println("[Seed] Created superadmin account")
}

func seedChapters(ctx context.Context, repos *repository.Repositories) {
	chapters := []struct {
		Name     string
		Location string
	}{
		{"Kathmandu Chapter", "Kathmandu"},
		{"Pokhara Chapter", "Pokhara"},
		{"Biratnagar Chapter", "Biratnagar"},
		{"Butwal Chapter", "Butwal"},
		{"Chitwan Chapter", "Bharatpur"},
		{"Dharan Chapter", "Dharan"},
		{"Nepalgunj Chapter", "Nepalgunj"},
		{"Hetauda Chapter", "Hetauda"},
	}

	for _, entry := range chapters {
		location := entry.Location
		chapter := &repository.Chapter{
			ChapterName: entry.Name,
			Location:    &location,
			ChapterType: "REGIONAL",
		}
		if err := repos.ChapterRepo.Create(ctx, chapter); err != nil {
			log.Printf("[Seed] Chapter %s: %v", entry.Name, err)
		}
	}
	log.Printf("[Seed] Created %d chapters", len(chapters))
}

func seedMasterData(ctx context.Context, repos *repository.Repositories) {
	items := map[string][]string{
		types.MasterEducationalLevel: {"SLC", "Intermediate", "Bachelors", "Masters", "MPhil", "PhD"},
		types.MasterWorkingSector:    {"Government", "Private", "NGO/INGO", "Academia", "Self-Employed", "Unemployed"},
		types.MasterGender:           {"Male", "Female", "Other"},
	}

	total := 0
	for kind, names := range items {
		for _, name := range names {
			if err := repos.MasterRepo.Add(ctx, kind, name); err != nil {
				log.Printf("[Seed] Master item %s/%s: %v", kind, name, err)
				continue
			}
			total++
		}
	}
	log.Printf("[Seed] Created %d master data items", total)
}
