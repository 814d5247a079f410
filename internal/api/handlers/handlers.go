package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth       *AuthHandler
	Member     *MemberHandler
	Student    *StudentHandler
	Chapter    *ChapterHandler
	Fee        *FeeHandler
	Notice     *NoticeHandler
	Message    *MessageHandler
	MasterData *MasterDataHandler
	Dashboard  *DashboardHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:       &AuthHandler{authService: services.Auth},
		Member:     &MemberHandler{memberService: services.Member, permService: services.Permission},
		Student:    &StudentHandler{studentService: services.Student},
		Chapter:    &ChapterHandler{chapterService: services.Chapter},
		Fee:        &FeeHandler{feeService: services.Fee, memberService: services.Member},
		Notice:     &NoticeHandler{noticeService: services.Notice},
		Message:    &MessageHandler{messageService: services.Message},
		MasterData: &MasterDataHandler{masterDataService: services.MasterData},
		Dashboard:  &DashboardHandler{dashboardService: services.Dashboard, permService: services.Permission},
	}
}

// respondError maps service sentinel errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid input"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrAccountDisabled):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not active"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// idParam parses a numeric path parameter, writing a 400 on failure
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// ============================================
// Response Mappers
// ============================================

func toMemberResponse(m *repository.Member) models.MemberResponse {
	return models.MemberResponse{
		ID:               m.ID,
		MembershipCode:   m.MembershipCode,
		FullName:         m.FullName,
		Phone:            m.Phone,
		Address:          m.Address,
		Designation:      m.Designation,
		Organization:     m.Organization,
		College:          m.College,
		University:       m.University,
		GraduationYear:   m.GraduationYear,
		Gender:           m.Gender,
		EducationalLevel: m.EducationalLevel,
		WorkingSector:    m.WorkingSector,
		ChapterID:        m.ChapterID,
		MembershipStatus: m.MembershipStatus,
		JoinedDate:       m.JoinedDate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toMemberResponses(members []*repository.Member) []models.MemberResponse {
	out := make([]models.MemberResponse, len(members))
	for i, m := range members {
		out[i] = toMemberResponse(m)
	}
	return out
}

func toStudentResponse(s *repository.Student) models.StudentResponse {
	return models.StudentResponse{
		ID:               s.ID,
		MembershipCode:   s.MembershipCode,
		FullName:         s.FullName,
		Phone:            s.Phone,
		Institute:        s.Institute,
		Course:           s.Course,
		EducationalLevel: s.EducationalLevel,
		ChapterID:        s.ChapterID,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toStudentResponses(students []*repository.Student) []models.StudentResponse {
	out := make([]models.StudentResponse, len(students))
	for i, s := range students {
		out[i] = toStudentResponse(s)
	}
	return out
}

func toChapterResponse(ch *repository.Chapter) models.ChapterResponse {
	return models.ChapterResponse{
		ID:          ch.ID,
		ChapterName: ch.ChapterName,
		Location:    ch.Location,
		ChapterType: ch.ChapterType,
		CreatedAt:   ch.CreatedAt,
		UpdatedAt:   ch.UpdatedAt,
	}
}

func toChapterMemberResponse(cm *repository.ChapterMember) models.ChapterMemberResponse {
	return models.ChapterMemberResponse{
		ChapterID:     cm.ChapterID,
		MemberID:      cm.MemberID,
		RoleInChapter: cm.RoleInChapter,
		JoinedAt:      cm.JoinedAt,
	}
}

func toFeeResponse(f *repository.MembershipFee) models.FeeResponse {
	return models.FeeResponse{
		ID:            f.ID,
		MemberID:      f.MemberID,
		Amount:        f.Amount.StringFixed(2),
		PaymentDate:   f.PaymentDate,
		PaymentStatus: f.PaymentStatus,
		TransactionID: f.TransactionID,
		FeeType:       f.FeeType,
		FinancialYear: f.FinancialYear,
		Remarks:       f.Remarks,
		CreatedAt:     f.CreatedAt,
	}
}

func toFeeResponses(fees []*repository.MembershipFee) []models.FeeResponse {
	out := make([]models.FeeResponse, len(fees))
	for i, f := range fees {
		out[i] = toFeeResponse(f)
	}
	return out
}

func toNoticeResponse(n *repository.Notice) models.NoticeResponse {
	return models.NoticeResponse{
		ID:         n.ID,
		Title:      n.Title,
		Body:       n.Body,
		Published:  n.Published,
		ExpiryDate: n.ExpiryDate,
		CreatedBy:  n.CreatedBy,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func toNoticeResponses(notices []*repository.Notice) []models.NoticeResponse {
	out := make([]models.NoticeResponse, len(notices))
	for i, n := range notices {
		out[i] = toNoticeResponse(n)
	}
	return out
}

func toMessageResponse(m *repository.InternalMessage) models.MessageResponse {
	return models.MessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Subject:   m.Subject,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func toMessageResponses(messages []*repository.InternalMessage) []models.MessageResponse {
	out := make([]models.MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = toMessageResponse(m)
	}
	return out
}
