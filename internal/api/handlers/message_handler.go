package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/api/middleware"
	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Internal Message Handler
// ============================================

type MessageHandler struct {
	messageService service.MessageService
}

func (h *MessageHandler) Send(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), claims.UserID, req.Subject, req.Body, req.RecipientIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(msg))
}

func (h *MessageHandler) Get(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msg, err := h.messageService.GetByID(c.Request.Context(), claims, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponse(msg))
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	messages, err := h.messageService.Inbox(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponses(messages))
}

func (h *MessageHandler) Sent(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	messages, err := h.messageService.Sent(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageResponses(messages))
}

func (h *MessageHandler) Recipients(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	recipients, err := h.messageService.Recipients(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]models.MessageRecipientResponse, len(recipients))
	for i, r := range recipients {
		out[i] = models.MessageRecipientResponse{
			RecipientID: r.RecipientID,
			Read:        r.Read,
			ReadAt:      r.ReadAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.messageService.MarkRead(c.Request.Context(), claims, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	claims, ok := middleware.RequireClaims(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.messageService.Delete(c.Request.Context(), claims, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
