package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/api/middleware"
	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Notice Handler
// ============================================

type NoticeHandler struct {
	noticeService service.NoticeService
}

func (h *NoticeHandler) Create(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	var req models.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := h.noticeService.Create(c.Request.Context(), &repository.Notice{
		Title:      req.Title,
		Body:       req.Body,
		Published:  req.Published,
		ExpiryDate: req.ExpiryDate,
		CreatedBy:  &claims.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toNoticeResponse(notice))
}

func (h *NoticeHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	notice, err := h.noticeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoticeResponse(notice))
}

// ListAll includes drafts and expired notices, admin view
func (h *NoticeHandler) ListAll(c *gin.Context) {
	notices, err := h.noticeService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoticeResponses(notices))
}

// ListPublished is what regular members see
func (h *NoticeHandler) ListPublished(c *gin.Context) {
	notices, err := h.noticeService.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoticeResponses(notices))
}

func (h *NoticeHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req models.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notice, err := h.noticeService.Update(c.Request.Context(), &repository.Notice{
		ID:         id,
		Title:      req.Title,
		Body:       req.Body,
		Published:  req.Published,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoticeResponse(notice))
}

func (h *NoticeHandler) Publish(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	notice, err := h.noticeService.Publish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoticeResponse(notice))
}

func (h *NoticeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.noticeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
