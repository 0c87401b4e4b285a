package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck is a liveness probe for deployment orchestration.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
