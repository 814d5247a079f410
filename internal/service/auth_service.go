package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// ============================================
// Auth Service
// ============================================

// Claims carries the authenticated caller's identity and authority. Role and
// permission sets are interned at parse time so route checks are map lookups.
type Claims struct {
	Username    string
	UserID      int
	Roles       []string
	Permissions []string

	roleSet map[string]bool
	permSet map[string]bool
}

// HasRole reports whether the caller holds the named role.
func (c *Claims) HasRole(role string) bool {
	return c.roleSet[role]
}

// HasPermission reports whether the caller holds the named permission code.
func (c *Claims) HasPermission(code string) bool {
	return c.permSet[code]
}

// IsAdmin reports whether the caller holds an association-wide admin role.
func (c *Claims) IsAdmin() bool {
	return c.roleSet[types.RoleSuperAdmin] || c.roleSet[types.RoleAdmin]
}

func (c *Claims) intern() {
	c.roleSet = make(map[string]bool, len(c.Roles))
	for _, r := range c.Roles {
		c.roleSet[r] = true
	}
	c.permSet = make(map[string]bool, len(c.Permissions))
	for _, p := range c.Permissions {
		c.permSet[p] = true
	}
}

// RegisterInput is a membership application. Registration creates a disabled
// login plus a PENDING profile row; both stay inert until approval.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	AccountType string // MEMBER or STUDENT
	FullName    string
	Phone       *string
	ChapterID   *int

	// Member profile fields
	Address          *string
	Designation      *string
	Organization     *string
	College          *string
	University       *string
	GraduationYear   *int
	Gender           *string
	EducationalLevel *string
	WorkingSector    *string

	// Student profile fields
	Institute *string
	Course    *string
}

// AuthResult is what a successful login or registration returns.
type AuthResult struct {
	User  *repository.User
	Token string
	Roles []string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*repository.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error)
	Me(ctx context.Context, claims *Claims) (*repository.User, []string, []string, error)
	IssueToken(ctx context.Context, user *repository.User) (string, error)
	ParseToken(tokenString string) (*Claims, error)
}

type authService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	memberRepo  repository.MemberRepository
	studentRepo repository.StudentRepository
	chapterRepo repository.ChapterRepository
}

func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	memberRepo repository.MemberRepository,
	studentRepo repository.StudentRepository,
	chapterRepo repository.ChapterRepository,
) AuthService {
	return &authService{
		cfg:         cfg,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		memberRepo:  memberRepo,
		studentRepo: studentRepo,
		chapterRepo: chapterRepo,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*repository.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.FullName == "" {
		return nil, ErrInvalidInput
	}
	if input.AccountType != types.AccountMember && input.AccountType != types.AccountStudent {
		return nil, ErrInvalidInput
	}

	if taken, err := s.userRepo.ExistsByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.userRepo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	if input.ChapterID != nil {
		chapter, err := s.chapterRepo.FindByID(ctx, *input.ChapterID)
		if err != nil {
			return nil, err
		}
		if chapter == nil {
			return nil, ErrInvalidInput
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleName := types.RoleMember
	if input.AccountType == types.AccountStudent {
		roleName = types.RoleStudent
	}
	role, err := s.roleRepo.FindByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	var roleIDs []int
	if role != nil {
		roleIDs = []int{role.ID}
	}

	user := &repository.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		Active:   false,
	}
	if err := s.userRepo.Create(ctx, user, roleIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if input.AccountType == types.AccountStudent {
		student := &repository.Student{
			UserID:           &user.ID,
			FullName:         input.FullName,
			Phone:            input.Phone,
			Institute:        input.Institute,
			Course:           input.Course,
			EducationalLevel: input.EducationalLevel,
			ChapterID:        input.ChapterID,
			Status:           types.StatusPending,
		}
		if err := s.studentRepo.Create(ctx, student); err != nil {
			return nil, fmt.Errorf("failed to create student profile: %w", err)
		}
	} else {
		member := &repository.Member{
			UserID:           &user.ID,
			FullName:         input.FullName,
			Phone:            input.Phone,
			Address:          input.Address,
			Designation:      input.Designation,
			Organization:     input.Organization,
			College:          input.College,
			University:       input.University,
			GraduationYear:   input.GraduationYear,
			Gender:           input.Gender,
			EducationalLevel: input.EducationalLevel,
			WorkingSector:    input.WorkingSector,
			ChapterID:        input.ChapterID,
			MembershipStatus: types.StatusPending,
		}
		if err := s.memberRepo.Create(ctx, member); err != nil {
			return nil, fmt.Errorf("failed to create member profile: %w", err)
		}
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if user == nil && strings.Contains(usernameOrEmail, "@") {
		user, err = s.userRepo.FindByEmail(ctx, usernameOrEmail)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountDisabled
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	roles, err := s.userRepo.FindRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token, Roles: roles}, nil
}

func (s *authService) Me(ctx context.Context, claims *Claims) (*repository.User, []string, []string, error) {
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, nil, err
	}
	if user == nil {
		return nil, nil, nil, ErrNotFound
	}
	roles, err := s.userRepo.FindRoleNames(ctx, user.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	permissions, err := s.userRepo.FindPermissionCodes(ctx, user.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return user, roles, permissions, nil
}

func (s *authService) IssueToken(ctx context.Context, user *repository.User) (string, error) {
	roleNames, err := s.userRepo.FindRoleNames(ctx, user.ID)
	if err != nil {
		return "", err
	}
	permissions, err := s.userRepo.FindPermissionCodes(ctx, user.ID)
	if err != nil {
		return "", err
	}

	// Only ROLE_-prefixed entries count as roles in the token
	roles := make([]string, 0, len(roleNames))
	for _, name := range roleNames {
		if strings.HasPrefix(name, "ROLE_") {
			roles = append(roles, name)
		}
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":         user.Username,
		"userId":      user.ID,
		"roles":       roles,
		"permissions": permissions,
		"iat":         now.Unix(),
		"exp":         now.Add(time.Hour * time.Duration(s.cfg.JWTExpiryHours)).Unix(),
	})

	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	username, _ := mapClaims["sub"].(string)
	if username == "" {
		return nil, ErrInvalidToken
	}

	userIDClaim, ok := mapClaims["userId"].(float64)
	if !ok || userIDClaim <= 0 {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		Username:    username,
		UserID:      int(userIDClaim),
		Roles:       stringSlice(mapClaims["roles"]),
		Permissions: stringSlice(mapClaims["permissions"]),
	}
	claims.intern()
	return claims, nil
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
