package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tedgershon/SafePlate/internal/models"
)

// DashboardHandler serves aggregate statistics over the stored requests
// and generation attempts.
type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
	}
}

// DashboardStats summarizes generation activity.
type DashboardStats struct {
	TotalRequests  int64 `json:"total_requests"`
	TotalAttempts  int64 `json:"total_attempts"`
	UnsafeAttempts int64 `json:"unsafe_attempts"`
	RequestsWeek   int64 `json:"requests_this_week"`
}

// GetStats returns counts of requests and attempts, including how many
// attempts the inspector rejected.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	var stats DashboardStats
	db := h.db.WithContext(c.Request.Context())

	queries := []error{
		db.Model(&models.RecipeRequest{}).Count(&stats.TotalRequests).Error,
		db.Model(&models.GeneratedRecipe{}).Count(&stats.TotalAttempts).Error,
		db.Model(&models.GeneratedRecipe{}).Where("is_safe = ?", false).Count(&stats.UnsafeAttempts).Error,
		db.Model(&models.RecipeRequest{}).Where("created_at >= ?", time.Now().AddDate(0, 0, -7)).Count(&stats.RequestsWeek).Error,
	}
	for _, err := range queries {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}
	}

	c.JSON(http.StatusOK, stats)
}
