package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/api/middleware"
	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Auth Handler
// ============================================

type AuthHandler struct {
	authService service.AuthService
}

// Register files a membership application. The created login stays disabled
// until an admin approves the profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		AccountType:      req.AccountType,
		FullName:         req.FullName,
		Phone:            req.Phone,
		ChapterID:        req.ChapterID,
		Address:          req.Address,
		Designation:      req.Designation,
		Organization:     req.Organization,
		College:          req.College,
		University:       req.University,
		GraduationYear:   req.GraduationYear,
		Gender:           req.Gender,
		EducationalLevel: req.EducationalLevel,
		WorkingSector:    req.WorkingSector,
		Institute:        req.Institute,
		Course:           req.Course,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration submitted, pending approval",
		"username": user.Username,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token:    result.Token,
		Username: result.User.Username,
		Roles:    result.Roles,
	})
}

// Logout is informational. Tokens are stateless, so the client discards
// the token; nothing is revoked server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out, discard the token on the client"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}

	user, roles, permissions, err := h.authService.Me(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MeResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Active:      user.Active,
		Roles:       roles,
		Permissions: permissions,
	})
}
