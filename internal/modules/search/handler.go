package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *SyncService
}

func NewHandler(svc *SyncService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the key protected sync trigger and the admin stub.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, syncAuth gin.HandlerFunc) {
	api.POST("/algolia/sync", syncAuth, h.Sync)
	api.POST("/admin/algolia-sync", h.AdminSync)
}

// Sync handles POST /api/algolia/sync
func (h *Handler) Sync(c *gin.Context) {
	result, err := h.svc.SyncAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Search sync failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tours synced to search index",
		"result":  result,
	})
}

// AdminSync handles POST /api/admin/algolia-sync. It acknowledges without
// doing any work; the keyed endpoint performs the actual sync.
func (h *Handler) AdminSync(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sync request accepted",
	})
}
