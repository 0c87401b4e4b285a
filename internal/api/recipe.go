package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tedgershon/SafePlate/internal/models"
	"github.com/tedgershon/SafePlate/internal/service"
)

// RecipeHandler serves the recipe generation endpoints.
type RecipeHandler struct {
	recipeService *service.RecipeService
}

func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.POST("/generate", h.GenerateRecipe)
	}
	requests := router.Group("/requests")
	{
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
	}
}

// GenerateRecipeRequest is the submitted filter set. Every field is
// optional; a blank field means no filter, never an error.
type GenerateRecipeRequest struct {
	Cuisine     string `json:"cuisine"`
	Allergies   string `json:"allergies"`
	Ingredients string `json:"ingredients"`
}

// GenerateRecipe runs the generate-inspect-retry workflow for one
// submission and returns the final recipe with the full attempt history.
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	var body GenerateRecipeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &models.RecipeRequest{
		Cuisine:     body.Cuisine,
		Allergies:   body.Allergies,
		Ingredients: body.Ingredients,
	}

	result, err := h.recipeService.GenerateSafeRecipe(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recipe: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListRequests returns all recipe requests, newest first.
func (h *RecipeHandler) ListRequests(c *gin.Context) {
	requests, err := h.recipeService.ListRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetRequest returns one recipe request with its attempts in creation
// order.
func (h *RecipeHandler) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	req, err := h.recipeService.GetRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": req})
}
