package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sewa-org/sewa-backend/internal/models"
	"github.com/sewa-org/sewa-backend/internal/service"
)

// ============================================
// Dashboard Handler
// ============================================

type DashboardHandler struct {
	dashboardService service.DashboardService
	permService      service.PermissionService
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Roles(c *gin.Context) {
	roles, err := h.permService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, len(roles))
	for i, r := range roles {
		out[i] = gin.H{"id": r.ID, "roleName": r.RoleName, "description": r.Description}
	}
	c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) Permissions(c *gin.Context) {
	permissions, err := h.permService.ListPermissions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, len(permissions))
	for i, p := range permissions {
		out[i] = gin.H{"id": p.ID, "permissionCode": p.PermissionCode, "description": p.Description}
	}
	c.JSON(http.StatusOK, out)
}

// ============================================
// Master Data Handler
// ============================================

type MasterDataHandler struct {
	masterDataService service.MasterDataService
}

func (h *MasterDataHandler) List(c *gin.Context) {
	kind := c.Param("kind")
	items, err := h.masterDataService.List(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *MasterDataHandler) Add(c *gin.Context) {
	kind := c.Param("kind")
	var req models.MasterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.masterDataService.Add(c.Request.Context(), kind, req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"kind": kind, "name": req.Name})
}
