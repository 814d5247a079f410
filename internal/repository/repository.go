// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Sentinel errors surfaced by implementations. Unique-constraint violations
// are mapped here so services can implement conflict-then-retry without
// knowing about the backing store.
var (
	ErrDuplicateCode = errors.New("membership code already in use")
	ErrDuplicate     = errors.New("duplicate record")
)

// ============================================
// Models / Entities
// ============================================

type User struct {
	ID        int
	Username  string
	Email     string
	Password  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID          int
	RoleName    string
	Description *string
}

type Permission struct {
	ID             int
	PermissionCode string
	Description    *string
}

type Member struct {
	ID               int
	UserID           *int
	MembershipCode   *string
	FullName         string
	Phone            *string
	Address          *string
	Designation      *string
	Organization     *string
	College          *string
	University       *string
	GraduationYear   *int
	Gender           *string
	EducationalLevel *string
	WorkingSector    *string
	ChapterID        *int
	MembershipStatus string
	JoinedDate       *time.Time
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Student struct {
	ID               int
	UserID           *int
	MembershipCode   *string
	FullName         string
	Phone            *string
	Institute        *string
	Course           *string
	EducationalLevel *string
	ChapterID        *int
	Status           string
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Chapter struct {
	ID          int
	ChapterName string
	Location    *string
	ChapterType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ChapterMember struct {
	ChapterID     int
	MemberID      int
	RoleInChapter string
	JoinedAt      time.Time
}

type MembershipFee struct {
	ID            int
	MemberID      int
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentStatus string
	TransactionID *string
	FeeType       *string
	FinancialYear string
	Remarks       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Notice struct {
	ID         int
	Title      string
	Body       string
	Published  bool
	ExpiryDate *time.Time
	CreatedBy  *int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type InternalMessage struct {
	ID        int
	SenderID  int
	Subject   string
	Body      string
	CreatedAt time.Time
}

type MessageRecipient struct {
	MessageID   int
	RecipientID int
	Read        bool
	ReadAt      *time.Time
}

// MemberFilter narrows member list/search queries. Soft-deleted rows are
// always excluded regardless of filter.
type MemberFilter struct {
	ChapterID        *int
	EducationalLevel *string
	WorkingSector    *string
	Status           *string
	Query            *string
}

type StudentFilter struct {
	ChapterID *int
	Status    *string
	Query     *string
}

type FeeFilter struct {
	Query         *string
	PaymentStatus *string
	FinancialYear *string
}

// ============================================
// Repository Interfaces
// ============================================

type UserRepository interface {
	Create(ctx context.Context, user *User, roleIDs []int) error
	FindByID(ctx context.Context, id int) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetActive(ctx context.Context, id int, active bool) error
	FindRoleNames(ctx context.Context, userID int) ([]string, error)
	FindPermissionCodes(ctx context.Context, userID int) ([]string, error)
	FindByRole(ctx context.Context, roleName string) ([]*User, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *Role, permissionIDs []int) error
	FindByName(ctx context.Context, name string) (*Role, error)
	FindAll(ctx context.Context) ([]*Role, error)
	Count(ctx context.Context) (int, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	FindByCode(ctx context.Context, code string) (*Permission, error)
	FindAll(ctx context.Context) ([]*Permission, error)
	Count(ctx context.Context) (int, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *Member) error
	FindByID(ctx context.Context, id int) (*Member, error)
	FindByCode(ctx context.Context, code string) (*Member, error)
	FindByUserID(ctx context.Context, userID int) (*Member, error)
	FindAll(ctx context.Context, filter MemberFilter) ([]*Member, error)
	// LastCodedID returns the maximum id among members already holding a
	// membership code, 0 when none do. Seeds the code sequence so a fresh
	// applicant's own row does not advance it.
	LastCodedID(ctx context.Context) (int, error)
	Update(ctx context.Context, member *Member) error
	// SaveApproval persists the member row and activates the owning user in
	// one transaction. Returns ErrDuplicateCode when the membership code
	// loses a uniqueness race at commit time.
	SaveApproval(ctx context.Context, member *Member) error
	UpdateStatus(ctx context.Context, id int, status string) error
	SoftDelete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	FindByID(ctx context.Context, id int) (*Student, error)
	FindByCode(ctx context.Context, code string) (*Student, error)
	FindByUserID(ctx context.Context, userID int) (*Student, error)
	FindAll(ctx context.Context, filter StudentFilter) ([]*Student, error)
	LastCodedID(ctx context.Context) (int, error)
	Update(ctx context.Context, student *Student) error
	SaveApproval(ctx context.Context, student *Student) error
	UpdateStatus(ctx context.Context, id int, status string) error
	SoftDelete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *Chapter) error
	FindByID(ctx context.Context, id int) (*Chapter, error)
	FindAll(ctx context.Context) ([]*Chapter, error)
	Update(ctx context.Context, chapter *Chapter) error
	Count(ctx context.Context) (int, error)

	// Affiliation records. AssignMember returns ErrDuplicate when the
	// (chapter, member) pair already exists.
	AssignMember(ctx context.Context, cm *ChapterMember) error
	FindChapterMember(ctx context.Context, chapterID, memberID int) (*ChapterMember, error)
	FindChapterMembers(ctx context.Context, chapterID int) ([]*ChapterMember, error)
	UpdateMemberRole(ctx context.Context, chapterID, memberID int, role string) error
	RemoveMember(ctx context.Context, chapterID, memberID int) error
}

type FeeRepository interface {
	// Create returns ErrDuplicate when the transaction reference is taken.
	Create(ctx context.Context, fee *MembershipFee) error
	FindByID(ctx context.Context, id int) (*MembershipFee, error)
	FindByMemberID(ctx context.Context, memberID int) ([]*MembershipFee, error)
	FindAll(ctx context.Context, filter FeeFilter) ([]*MembershipFee, error)
	Update(ctx context.Context, fee *MembershipFee) error
	Delete(ctx context.Context, id int) error
	TotalsByYear(ctx context.Context) (map[string]decimal.Decimal, error)
}

type NoticeRepository interface {
	Create(ctx context.Context, notice *Notice) error
	FindByID(ctx context.Context, id int) (*Notice, error)
	FindAll(ctx context.Context) ([]*Notice, error)
	FindPublished(ctx context.Context, now time.Time) ([]*Notice, error)
	Update(ctx context.Context, notice *Notice) error
	Delete(ctx context.Context, id int) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *InternalMessage, recipientIDs []int) error
	FindByID(ctx context.Context, id int) (*InternalMessage, error)
	FindInbox(ctx context.Context, recipientID int) ([]*InternalMessage, error)
	FindSent(ctx context.Context, senderID int) ([]*InternalMessage, error)
	FindRecipients(ctx context.Context, messageID int) ([]*MessageRecipient, error)
	MarkRead(ctx context.Context, messageID, recipientID int) error
	Delete(ctx context.Context, id int) error
}

type MasterDataRepository interface {
	List(ctx context.Context, kind string) ([]string, error)
	Exists(ctx context.Context, kind, name string) (bool, error)
	Add(ctx context.Context, kind, name string) error
}

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo       UserRepository
	RoleRepo       RoleRepository
	PermissionRepo PermissionRepository
	MemberRepo     MemberRepository
	StudentRepo    StudentRepository
	ChapterRepo    ChapterRepository
	FeeRepo        FeeRepository
	NoticeRepo     NoticeRepository
	MessageRepo    MessageRepository
	MasterRepo     MasterDataRepository
}

// NewRepositories creates in-memory repositories (for tests and local
// development without a database).
func NewRepositories() *Repositories {
	permRepo := newInMemoryPermissionRepository()
	roleRepo := newInMemoryRoleRepository()
	roleRepo.permSrc = permRepo
	userRepo := newInMemoryUserRepository()
	userRepo.roleSrc = roleRepo
	memberRepo := newInMemoryMemberRepository()
	memberRepo.userSrc = userRepo
	studentRepo := newInMemoryStudentRepository()
	studentRepo.userSrc = userRepo

	return &Repositories{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		PermissionRepo: permRepo,
		MemberRepo:     memberRepo,
		StudentRepo:    studentRepo,
		ChapterRepo:    newInMemoryChapterRepository(),
		FeeRepo:        newInMemoryFeeRepository(),
		NoticeRepo:     newInMemoryNoticeRepository(),
		MessageRepo:    newInMemoryMessageRepository(),
		MasterRepo:     newInMemoryMasterDataRepository(),
	}
}

// NewPgRepositories creates PostgreSQL-backed repositories.
func NewPgRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:       &pgUserRepository{pool: pool},
		RoleRepo:       &pgRoleRepository{pool: pool},
		PermissionRepo: &pgPermissionRepository{pool: pool},
		MemberRepo:     &pgMemberRepository{pool: pool},
		StudentRepo:    &pgStudentRepository{pool: pool},
		ChapterRepo:    &pgChapterRepository{pool: pool},
		FeeRepo:        &pgFeeRepository{pool: pool},
		NoticeRepo:     &pgNoticeRepository{pool: pool},
		MessageRepo:    &pgMessageRepository{pool: pool},
		MasterRepo:     &pgMasterDataRepository{pool: pool},
	}
}
