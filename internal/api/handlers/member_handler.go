package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/api/middleware"
	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Member Handler
// ============================================

type MemberHandler struct {
	memberService service.MemberService
	permService   service.PermissionService
}

func (h *MemberHandler) List(c *gin.Context) {
	filter := repository.MemberFilter{}
	if v := c.Query("chapterId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapterId"})
			return
		}
		filter.ChapterID = &id
	}
	if v := c.Query("educationalLevel"); v != "" {
		filter.EducationalLevel = &v
	}
	if v := c.Query("workingSector"); v != "" {
		filter.WorkingSector = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("q"); v != "" {
		filter.Query = &v
	}

	members, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponses(members))
}

func (h *MemberHandler) ListPending(c *gin.Context) {
	members, err := h.memberService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponses(members))
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	member, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	member, err := h.memberService.GetByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

// MyProfile returns the member profile owned by the caller
func (h *MemberHandler) MyProfile(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	member, err := h.memberService.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	member, err := h.memberService.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) Reject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	member, err := h.memberService.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}

	var req models.MemberUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.permService.CanManageMember(claims, existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), &repository.Member{
		ID:               id,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Address:          req.Address,
		Designation:      req.Designation,
		Organization:     req.Organization,
		College:          req.College,
		University:       req.University,
		GraduationYear:   req.GraduationYear,
		Gender:           req.Gender,
		EducationalLevel: req.EducationalLevel,
		WorkingSector:    req.WorkingSector,
		ChapterID:        req.ChapterID,
		JoinedDate:       existing.JoinedDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member, err := h.memberService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMemberResponse(member))
}

func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
