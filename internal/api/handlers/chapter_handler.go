package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Chapter Handler
// ============================================

type ChapterHandler struct {
	chapterService service.ChapterService
}

func (h *ChapterHandler) Create(c *gin.Context) {
	var req models.ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ChapterType == "" {
		req.ChapterType = "REGIONAL"
	}

	chapter, err := h.chapterService.Create(c.Request.Context(), &repository.Chapter{
		ChapterName: req.ChapterName,
		Location:    req.Location,
		ChapterType: req.ChapterType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toChapterResponse(chapter))
}

func (h *ChapterHandler) List(c *gin.Context) {
	chapters, err := h.chapterService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]models.ChapterResponse, len(chapters))
	for i, ch := range chapters {
		out[i] = toChapterResponse(ch)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ChapterHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	chapter, err := h.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChapterResponse(chapter))
}

func (h *ChapterHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.Update(c.Request.Context(), &repository.Chapter{
		ID:          id,
		ChapterName: req.ChapterName,
		Location:    req.Location,
		ChapterType: req.ChapterType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChapterResponse(chapter))
}

// AssignMember adds the member to the chapter. The role comes from the
// `role` query parameter and defaults to MEMBER when absent.
func (h *ChapterHandler) AssignMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	cm, err := h.chapterService.AssignMember(c.Request.Context(), id, memberID, c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toChapterMemberResponse(cm))
}

func (h *ChapterHandler) UpdateMemberRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	cm, err := h.chapterService.UpdateMemberRole(c.Request.Context(), id, memberID, c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChapterMemberResponse(cm))
}

func (h *ChapterHandler) RemoveMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}
	if err := h.chapterService.RemoveMember(c.Request.Context(), id, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *ChapterHandler) ListMembers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	members, err := h.chapterService.ListMembers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]models.ChapterMemberResponse, len(members))
	for i, cm := range members {
		out[i] = toChapterMemberResponse(cm)
	}
	c.JSON(http.StatusOK, out)
}
