package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tedgershon/SafePlate/internal/api"
	"github.com/tedgershon/SafePlate/internal/middleware"
	"github.com/tedgershon/SafePlate/internal/service"
)

// SetupRouter wires the application routes.
func SetupRouter(db *gorm.DB, agent *service.AgentClient, redisClient *redis.Client) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", api.HealthCheck)

	cache := service.NewResultCache(redisClient)
	recipeService := service.NewRecipeService(db, agent, cache)
	recipeHandler := api.NewRecipeHandler(recipeService)
	dashboardHandler := api.NewDashboardHandler(db)

	v1 := router.Group("/api/v1")
	if redisClient != nil {
		limiter := middleware.NewGenerationRateLimiter(redisClient)
		v1.Use(limiter.Middleware())
	}
	recipeHandler.RegisterRoutes(v1)
	dashboardHandler.RegisterRoutes(v1)

	return router
}
