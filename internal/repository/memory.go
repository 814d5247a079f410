package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// In-memory repositories backing tests and database-less local runs. They
// enforce the same uniqueness rules as the postgres schema so conflict paths
// (duplicate codes, duplicate transaction refs, duplicate pairs) behave
// identically.

// ============================================
// In-Memory User Repository
// ============================================

type inMemoryUserRepository struct {
	mu      sync.RWMutex
	nextID  int
	users   map[int]*User
	roles   map[int][]int // userID -> roleIDs
	roleSrc *inMemoryRoleRepository
}

func newInMemoryUserRepository() *inMemoryUserRepository {
	return &inMemoryUserRepository{
		nextID: 1,
		users:  make(map[int]*User),
		roles:  make(map[int][]int),
	}
}

func (r *inMemoryUserRepository) Create(ctx context.Context, user *User, roleIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID] = &clone
	r.roles[user.ID] = append([]int(nil), roleIDs...)
	return nil
}

func (r *inMemoryUserRepository) FindByID(ctx context.Context, id int) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := r.FindByUsername(ctx, username)
	return u != nil, nil
}

func (r *inMemoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := r.FindByEmail(ctx, email)
	return u != nil, nil
}

func (r *inMemoryUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Active = active
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryUserRepository) FindRoleNames(ctx context.Context, userID int) ([]string, error) {
	r.mu.RLock()
	roleIDs := append([]int(nil), r.roles[userID]...)
	r.mu.RUnlock()

	if r.roleSrc == nil {
		return nil, nil
	}
	var names []string
	for _, id := range roleIDs {
		if role := r.roleSrc.findByID(id); role != nil {
			names = append(names, role.RoleName)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *inMemoryUserRepository) FindPermissionCodes(ctx context.Context, userID int) ([]string, error) {
	r.mu.RLock()
	roleIDs := append([]int(nil), r.roles[userID]...)
	r.mu.RUnlock()

	if r.roleSrc == nil {
		return nil, nil
	}
	seen := make(map[string]bool)
	var codes []string
	for _, id := range roleIDs {
		for _, code := range r.roleSrc.permissionCodes(id) {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (r *inMemoryUserRepository) FindByRole(ctx context.Context, roleName string) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.roleSrc == nil {
		return nil, nil
	}
	var users []*User
	for userID, roleIDs := range r.roles {
		for _, id := range roleIDs {
			if role := r.roleSrc.findByID(id); role != nil && role.RoleName == roleName {
				clone := *r.users[userID]
				users = append(users, &clone)
				break
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// ============================================
// In-Memory Role / Permission Repositories
// ============================================

type inMemoryRoleRepository struct {
	mu      sync.RWMutex
	nextID  int
	roles   map[int]*Role
	perms   map[int][]int // roleID -> permissionIDs
	permSrc *inMemoryPermissionRepository
}

func newInMemoryRoleRepository() *inMemoryRoleRepository {
	return &inMemoryRoleRepository{
		nextID: 1,
		roles:  make(map[int]*Role),
		perms:  make(map[int][]int),
	}
}

func (r *inMemoryRoleRepository) Create(ctx context.Context, role *Role, permissionIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if existing.RoleName == role.RoleName {
			return ErrDuplicate
		}
	}
	role.ID = r.nextID
	r.nextID++
	clone := *role
	r.roles[role.ID] = &clone
	r.perms[role.ID] = append([]int(nil), permissionIDs...)
	return nil
}

func (r *inMemoryRoleRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range r.roles {
		if role.RoleName == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryRoleRepository) FindAll(ctx context.Context) ([]*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var roles []*Role
	for _, role := range r.roles {
		clone := *role
		roles = append(roles, &clone)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (r *inMemoryRoleRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roles), nil
}

func (r *inMemoryRoleRepository) findByID(id int) *Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if role, ok := r.roles[id]; ok {
		clone := *role
		return &clone
	}
	return nil
}

func (r *inMemoryRoleRepository) permissionCodes(roleID int) []string {
	r.mu.RLock()
	permIDs := append([]int(nil), r.perms[roleID]...)
	r.mu.RUnlock()

	if r.permSrc == nil {
		return nil
	}
	var codes []string
	for _, id := range permIDs {
		if p := r.permSrc.findByID(id); p != nil {
			codes = append(codes, p.PermissionCode)
		}
	}
	return codes
}

type inMemoryPermissionRepository struct {
	mu     sync.RWMutex
	nextID int
	perms  map[int]*Permission
}

func newInMemoryPermissionRepository() *inMemoryPermissionRepository {
	return &inMemoryPermissionRepository{nextID: 1, perms: make(map[int]*Permission)}
}

func (r *inMemoryPermissionRepository) Create(ctx context.Context, permission *Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.perms {
		if existing.PermissionCode == permission.PermissionCode {
			return ErrDuplicate
		}
	}
	permission.ID = r.nextID
	r.nextID++
	clone := *permission
	r.perms[permission.ID] = &clone
	return nil
}

func (r *inMemoryPermissionRepository) FindByCode(ctx context.Context, code string) (*Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.perms {
		if p.PermissionCode == code {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryPermissionRepository) FindAll(ctx context.Context) ([]*Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var perms []*Permission
	for _, p := range r.perms {
		clone := *p
		perms = append(perms, &clone)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	return perms, nil
}

func (r *inMemoryPermissionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.perms), nil
}

func (r *inMemoryPermissionRepository) findByID(id int) *Permission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.perms[id]; ok {
		clone := *p
		return &clone
	}
	return nil
}

// ============================================
// In-Memory Member Repository
// ============================================

type inMemoryMemberRepository struct {
	mu      sync.RWMutex
	nextID  int
	members map[int]*Member
	userSrc *inMemoryUserRepository
}

func newInMemoryMemberRepository() *inMemoryMemberRepository {
	return &inMemoryMemberRepository{nextID: 1, members: make(map[int]*Member)}
}

func (r *inMemoryMemberRepository) Create(ctx context.Context, member *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if member.MembershipCode != nil && r.codeTakenLocked(*member.MembershipCode, 0) {
		return ErrDuplicate
	}

	member.ID = r.nextID
	r.nextID++
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now

	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *inMemoryMemberRepository) codeTakenLocked(code string, excludeID int) bool {
	for _, m := range r.members {
		if m.ID != excludeID && m.MembershipCode != nil && *m.MembershipCode == code {
			return true
		}
	}
	return false
}

func (r *inMemoryMemberRepository) FindByID(ctx context.Context, id int) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.members[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryMemberRepository) FindByCode(ctx context.Context, code string) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.MembershipCode != nil && *m.MembershipCode == code {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryMemberRepository) FindByUserID(ctx context.Context, userID int) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.UserID != nil && *m.UserID == userID {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryMemberRepository) FindAll(ctx context.Context, filter MemberFilter) ([]*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*Member
	for _, m := range r.members {
		if m.IsDeleted {
			continue
		}
		if filter.ChapterID != nil && (m.ChapterID == nil || *m.ChapterID != *filter.ChapterID) {
			continue
		}
		if filter.EducationalLevel != nil && (m.EducationalLevel == nil || *m.EducationalLevel != *filter.EducationalLevel) {
			continue
		}
		if filter.WorkingSector != nil && (m.WorkingSector == nil || *m.WorkingSector != *filter.WorkingSector) {
			continue
		}
		if filter.Status != nil && m.MembershipStatus != *filter.Status {
			continue
		}
		if filter.Query != nil {
			q := strings.ToLower(*filter.Query)
			nameMatch := strings.Contains(strings.ToLower(m.FullName), q)
			codeMatch := m.MembershipCode != nil && strings.Contains(strings.ToLower(*m.MembershipCode), q)
			if !nameMatch && !codeMatch {
				continue
			}
		}
		clone := *m
		members = append(members, &clone)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r *inMemoryMemberRepository) LastCodedID(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	last := 0
	for id, m := range r.members {
		if m.MembershipCode != nil && id > last {
			last = id
		}
	}
	return last, nil
}

func (r *inMemoryMemberRepository) Update(ctx context.Context, member *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.members[member.ID]
	if !ok {
		return nil
	}
	member.UpdatedAt = time.Now()
	member.CreatedAt = stored.CreatedAt
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *inMemoryMemberRepository) SaveApproval(ctx context.Context, member *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.members[member.ID]
	if !ok {
		return nil
	}
	if member.MembershipCode != nil && r.codeTakenLocked(*member.MembershipCode, member.ID) {
		return ErrDuplicateCode
	}
	stored.MembershipCode = member.MembershipCode
	stored.MembershipStatus = member.MembershipStatus
	stored.UpdatedAt = time.Now()

	if stored.UserID != nil && r.userSrc != nil {
		r.userSrc.SetActive(ctx, *stored.UserID, true)
	}
	return nil
}

func (r *inMemoryMemberRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		m.MembershipStatus = status
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryMemberRepository) SoftDelete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		m.IsDeleted = true
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryMemberRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, m := range r.members {
		if !m.IsDeleted {
			counts[m.MembershipStatus]++
		}
	}
	return counts, nil
}

// ============================================
// In-Memory Student Repository
// ============================================

type inMemoryStudentRepository struct {
	mu       sync.RWMutex
	nextID   int
	students map[int]*Student
	userSrc  *inMemoryUserRepository
}

func newInMemoryStudentRepository() *inMemoryStudentRepository {
	return &inMemoryStudentRepository{nextID: 1, students: make(map[int]*Student)}
}

func (r *inMemoryStudentRepository) Create(ctx context.Context, student *Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if student.MembershipCode != nil && r.codeTakenLocked(*student.MembershipCode, 0) {
		return ErrDuplicate
	}

	student.ID = r.nextID
	r.nextID++
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now

	clone := *student
	r.students[student.ID] = &clone
	return nil
}

func (r *inMemoryStudentRepository) codeTakenLocked(code string, excludeID int) bool {
	for _, s := range r.students {
		if s.ID != excludeID && s.MembershipCode != nil && *s.MembershipCode == code {
			return true
		}
	}
	return false
}

func (r *inMemoryStudentRepository) FindByID(ctx context.Context, id int) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.students[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryStudentRepository) FindByCode(ctx context.Context, code string) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.MembershipCode != nil && *s.MembershipCode == code {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryStudentRepository) FindByUserID(ctx context.Context, userID int) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.UserID != nil && *s.UserID == userID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *inMemoryStudentRepository) FindAll(ctx context.Context, filter StudentFilter) ([]*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var students []*Student
	for _, s := range r.students {
		if s.IsDeleted {
			continue
		}
		if filter.ChapterID != nil && (s.ChapterID == nil || *s.ChapterID != *filter.ChapterID) {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.Query != nil {
			q := strings.ToLower(*filter.Query)
			nameMatch := strings.Contains(strings.ToLower(s.FullName), q)
			codeMatch := s.MembershipCode != nil && strings.Contains(strings.ToLower(*s.MembershipCode), q)
			if !nameMatch && !codeMatch {
				continue
			}
		}
		clone := *s
		students = append(students, &clone)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (r *inMemoryStudentRepository) LastCodedID(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	last := 0
	for id, s := range r.students {
		if s.MembershipCode != nil && id > last {
			last = id
		}
	}
	return last, nil
}

func (r *inMemoryStudentRepository) Update(ctx context.Context, student *Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.students[student.ID]
	if !ok {
		return nil
	}
	student.UpdatedAt = time.Now()
	student.CreatedAt = stored.CreatedAt
	clone := *student
	r.students[student.ID] = &clone
	return nil
}

func (r *inMemoryStudentRepository) SaveApproval(ctx context.Context, student *Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.students[student.ID]
	if !ok {
		return nil
	}
	if student.MembershipCode != nil && r.codeTakenLocked(*student.MembershipCode, student.ID) {
		return ErrDuplicateCode
	}
	stored.MembershipCode = student.MembershipCode
	stored.Status = student.Status
	stored.UpdatedAt = time.Now()

	if stored.UserID != nil && r.userSrc != nil {
		r.userSrc.SetActive(ctx, *stored.UserID, true)
	}
	return nil
}

func (r *inMemoryStudentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.students[id]; ok {
		s.Status = status
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryStudentRepository) SoftDelete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.students[id]; ok {
		s.IsDeleted = true
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryStudentRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, s := range r.students {
		if !s.IsDeleted {
			counts[s.Status]++
		}
	}
	return counts, nil
}

// ============================================
// In-Memory Chapter Repository
// ============================================

type chapterMemberKey struct {
	chapterID int
	memberID  int
}

type inMemoryChapterRepository struct {
	mu       sync.RWMutex
	nextID   int
	chapters map[int]*Chapter
	members  map[chapterMemberKey]*ChapterMember
}

func newInMemoryChapterRepository() *inMemoryChapterRepository {
	return &inMemoryChapterRepository{
		nextID:   1,
		chapters: make(map[int]*Chapter),
		members:  make(map[chapterMemberKey]*ChapterMember),
	}
}

func (r *inMemoryChapterRepository) Create(ctx context.Context, chapter *Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chapter.ID = r.nextID
	r.nextID++
	now := time.Now()
	chapter.CreatedAt = now
	chapter.UpdatedAt = now
	clone := *chapter
	r.chapters[chapter.ID] = &clone
	return nil
}

func (r *inMemoryChapterRepository) FindByID(ctx context.Context, id int) (*Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.chapters[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryChapterRepository) FindAll(ctx context.Context) ([]*Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var chapters []*Chapter
	for _, c := range r.chapters {
		clone := *c
		chapters = append(chapters, &clone)
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ID < chapters[j].ID })
	return chapters, nil
}

func (r *inMemoryChapterRepository) Update(ctx context.Context, chapter *Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.chapters[chapter.ID]
	if !ok {
		return nil
	}
	chapter.CreatedAt = stored.CreatedAt
	chapter.UpdatedAt = time.Now()
	clone := *chapter
	r.chapters[chapter.ID] = &clone
	return nil
}

func (r *inMemoryChapterRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chapters), nil
}

func (r *inMemoryChapterRepository) AssignMember(ctx context.Context, cm *ChapterMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chapterMemberKey{cm.ChapterID, cm.MemberID}
	if _, exists := r.members[key]; exists {
		return ErrDuplicate
	}
	cm.JoinedAt = time.Now()
	clone := *cm
	r.members[key] = &clone
	return nil
}

func (r *inMemoryChapterRepository) FindChapterMember(ctx context.Context, chapterID, memberID int) (*ChapterMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cm, ok := r.members[chapterMemberKey{chapterID, memberID}]; ok {
		clone := *cm
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryChapterRepository) FindChapterMembers(ctx context.Context, chapterID int) ([]*ChapterMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*ChapterMember
	for key, cm := range r.members {
		if key.chapterID == chapterID {
			clone := *cm
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (r *inMemoryChapterRepository) UpdateMemberRole(ctx context.Context, chapterID, memberID int, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cm, ok := r.members[chapterMemberKey{chapterID, memberID}]; ok {
		cm.RoleInChapter = role
	}
	return nil
}

func (r *inMemoryChapterRepository) RemoveMember(ctx context.Context, chapterID, memberID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, chapterMemberKey{chapterID, memberID})
	return nil
}

// ============================================
// In-Memory Fee Repository
// ============================================

type inMemoryFeeRepository struct {
	mu     sync.RWMutex
	nextID int
	fees   map[int]*MembershipFee
}

func newInMemoryFeeRepository() *inMemoryFeeRepository {
	return &inMemoryFeeRepository{nextID: 1, fees: make(map[int]*MembershipFee)}
}

func (r *inMemoryFeeRepository) Create(ctx context.Context, fee *MembershipFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fee.TransactionID != nil {
		for _, f := range r.fees {
			if f.TransactionID != nil && *f.TransactionID == *fee.TransactionID {
				return ErrDuplicate
			}
		}
	}

	fee.ID = r.nextID
	r.nextID++
	now := time.Now()
	fee.CreatedAt = now
	fee.UpdatedAt = now
	clone := *fee
	r.fees[fee.ID] = &clone
	return nil
}

func (r *inMemoryFeeRepository) FindByID(ctx context.Context, id int) (*MembershipFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.fees[id]; ok {
		clone := *f
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryFeeRepository) FindByMemberID(ctx context.Context, memberID int) ([]*MembershipFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var fees []*MembershipFee
	for _, f := range r.fees {
		if f.MemberID == memberID {
			clone := *f
			fees = append(fees, &clone)
		}
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID > fees[j].ID })
	return fees, nil
}

func (r *inMemoryFeeRepository) FindAll(ctx context.Context, filter FeeFilter) ([]*MembershipFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var fees []*MembershipFee
	for _, f := range r.fees {
		if filter.PaymentStatus != nil && f.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.FinancialYear != nil && f.FinancialYear != *filter.FinancialYear {
			continue
		}
		clone := *f
		fees = append(fees, &clone)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].ID > fees[j].ID })
	return fees, nil
}

func (r *inMemoryFeeRepository) Update(ctx context.Context, fee *MembershipFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.fees[fee.ID]
	if !ok {
		return nil
	}
	if fee.TransactionID != nil {
		for id, f := range r.fees {
			if id != fee.ID && f.TransactionID != nil && *f.TransactionID == *fee.TransactionID {
				return ErrDuplicate
			}
		}
	}
	fee.CreatedAt = stored.CreatedAt
	fee.UpdatedAt = time.Now()
	clone := *fee
	r.fees[fee.ID] = &clone
	return nil
}

func (r *inMemoryFeeRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fees, id)
	return nil
}

func (r *inMemoryFeeRepository) TotalsByYear(ctx context.Context) (map[string]decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	totals := make(map[string]decimal.Decimal)
	for _, f := range r.fees {
		if f.PaymentStatus == "PAID" {
			totals[f.FinancialYear] = totals[f.FinancialYear].Add(f.Amount)
		}
	}
	return totals, nil
}

// ============================================
// In-Memory Notice Repository
// ============================================

type inMemoryNoticeRepository struct {
	mu      sync.RWMutex
	nextID  int
	notices map[int]*Notice
}

func newInMemoryNoticeRepository() *inMemoryNoticeRepository {
	return &inMemoryNoticeRepository{nextID: 1, notices: make(map[int]*Notice)}
}

func (r *inMemoryNoticeRepository) Create(ctx context.Context, notice *Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notice.ID = r.nextID
	r.nextID++
	now := time.Now()
	notice.CreatedAt = now
	notice.UpdatedAt = now
	clone := *notice
	r.notices[notice.ID] = &clone
	return nil
}

func (r *inMemoryNoticeRepository) FindByID(ctx context.Context, id int) (*Notice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n, ok := r.notices[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryNoticeRepository) FindAll(ctx context.Context) ([]*Notice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var notices []*Notice
	for _, n := range r.notices {
		clone := *n
		notices = append(notices, &clone)
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].ID > notices[j].ID })
	return notices, nil
}

func (r *inMemoryNoticeRepository) FindPublished(ctx context.Context, now time.Time) ([]*Notice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var notices []*Notice
	for _, n := range r.notices {
		if !n.Published {
			continue
		}
		if n.ExpiryDate != nil && n.ExpiryDate.Before(now) {
			continue
		}
		clone := *n
		notices = append(notices, &clone)
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].ID > notices[j].ID })
	return notices, nil
}

func (r *inMemoryNoticeRepository) Update(ctx context.Context, notice *Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.notices[notice.ID]
	if !ok {
		return nil
	}
	notice.CreatedAt = stored.CreatedAt
	notice.UpdatedAt = time.Now()
	clone := *notice
	r.notices[notice.ID] = &clone
	return nil
}

func (r *inMemoryNoticeRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notices, id)
	return nil
}

// ============================================
// In-Memory Message Repository
// ============================================

type inMemoryMessageRepository struct {
	mu         sync.RWMutex
	nextID     int
	messages   map[int]*InternalMessage
	recipients map[int][]*MessageRecipient
}

func newInMemoryMessageRepository() *inMemoryMessageRepository {
	return &inMemoryMessageRepository{
		nextID:     1,
		messages:   make(map[int]*InternalMessage),
		recipients: make(map[int][]*MessageRecipient),
	}
}

func (r *inMemoryMessageRepository) Create(ctx context.Context, msg *InternalMessage, recipientIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	msg.CreatedAt = time.Now()
	clone := *msg
	r.messages[msg.ID] = &clone
	for _, id := range recipientIDs {
		r.recipients[msg.ID] = append(r.recipients[msg.ID], &MessageRecipient{
			MessageID:   msg.ID,
			RecipientID: id,
		})
	}
	return nil
}

func (r *inMemoryMessageRepository) FindByID(ctx context.Context, id int) (*InternalMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.messages[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, nil
}

func (r *inMemoryMessageRepository) FindInbox(ctx context.Context, recipientID int) ([]*InternalMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var messages []*InternalMessage
	for msgID, recs := range r.recipients {
		for _, rec := range recs {
			if rec.RecipientID == recipientID {
				clone := *r.messages[msgID]
				messages = append(messages, &clone)
				break
			}
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (r *inMemoryMessageRepository) FindSent(ctx context.Context, senderID int) ([]*InternalMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var messages []*InternalMessage
	for _, m := range r.messages {
		if m.SenderID == senderID {
			clone := *m
			messages = append(messages, &clone)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (r *inMemoryMessageRepository) FindRecipients(ctx context.Context, messageID int) ([]*MessageRecipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*MessageRecipient
	for _, rec := range r.recipients[messageID] {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecipientID < out[j].RecipientID })
	return out, nil
}

func (r *inMemoryMessageRepository) MarkRead(ctx context.Context, messageID, recipientID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recipients[messageID] {
		if rec.RecipientID == recipientID {
			now := time.Now()
			rec.Read = true
			rec.ReadAt = &now
		}
	}
	return nil
}

func (r *inMemoryMessageRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	delete(r.recipients, id)
	return nil
}

// ============================================
// In-Memory Master Data Repository
// ============================================

type inMemoryMasterDataRepository struct {
	mu    sync.RWMutex
	items map[string][]string // kind -> names
}

func newInMemoryMasterDataRepository() *inMemoryMasterDataRepository {
	return &inMemoryMasterDataRepository{items: make(map[string][]string)}
}

func (r *inMemoryMasterDataRepository) List(ctx context.Context, kind string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.items[kind]...), nil
}

func (r *inMemoryMasterDataRepository) Exists(ctx context.Context, kind, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.items[kind] {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryMasterDataRepository) Add(ctx context.Context, kind, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items[kind] {
		if n == name {
			return nil
		}
	}
	r.items[kind] = append(r.items[kind], name)
	return nil
}
