package service

import (
	"errors"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/db"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid membership status transition")
	ErrCodeExhausted      = errors.New("membership code generation retries exhausted")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	Permission PermissionService
	Member     MemberService
	Student    StudentService
	Chapter    ChapterService
	Fee        FeeService
	Notice     NoticeService
	Message    MessageService
	MasterData MasterDataService
	Dashboard  DashboardService

	Broadcaster *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Redis       *db.RedisDB // optional, nil disables caching
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	masterDataService := NewMasterDataService(deps.Repos.MasterRepo)

	return &Services{
		Auth: NewAuthService(
			deps.Config,
			deps.Repos.UserRepo,
			deps.Repos.RoleRepo,
			deps.Repos.MemberRepo,
			deps.Repos.StudentRepo,
			deps.Repos.ChapterRepo,
		),
		Permission: NewPermissionService(deps.Repos.RoleRepo, deps.Repos.PermissionRepo),
		Member: NewMemberService(
			deps.Config,
			deps.Repos.MemberRepo,
			deps.Repos.ChapterRepo,
			masterDataService,
			deps.Broadcaster,
		),
		Student: NewStudentService(
			deps.Config,
			deps.Repos.StudentRepo,
			deps.Repos.ChapterRepo,
			deps.Broadcaster,
		),
		Chapter: NewChapterService(
			deps.Repos.ChapterRepo,
			deps.Repos.MemberRepo,
			deps.Broadcaster,
		),
		Fee: NewFeeService(deps.Repos.FeeRepo, deps.Repos.MemberRepo),
		Notice: NewNoticeService(
			deps.Config,
			deps.Repos.NoticeRepo,
			deps.Redis,
			deps.Broadcaster,
		),
		Message: NewMessageService(
			deps.Repos.MessageRepo,
			deps.Repos.UserRepo,
			deps.Broadcaster,
		),
		MasterData: masterDataService,
		Dashboard: NewDashboardService(
			deps.Config,
			deps.Repos.MemberRepo,
			deps.Repos.StudentRepo,
			deps.Repos.ChapterRepo,
			deps.Repos.FeeRepo,
			deps.Redis,
		),
		Broadcaster: deps.Broadcaster,
	}
}
