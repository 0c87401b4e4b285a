package main

import (
	"context"
	"log"

	"github.com/tedgershon/SafePlate/config"
	"github.com/tedgershon/SafePlate/internal/database"
	"github.com/tedgershon/SafePlate/internal/models"
	"github.com/tedgershon/SafePlate/internal/service"
)

// Demo submissions covering the interesting paths: a nut allergy that
// trips the retry, clean first attempts, and a fully blank request.
var seedRequests = []models.RecipeRequest{
	{Cuisine: "Italian", Allergies: "nuts", Ingredients: "pasta, basil, tomatoes"},
	{Cuisine: "Mexican", Allergies: "dairy", Ingredients: "beans, rice, peppers"},
	{Cuisine: "Thai", Allergies: "shellfish, nuts", Ingredients: "noodles, vegetables"},
	{Cuisine: "Indian", Allergies: "", Ingredients: "lentils, spinach, rice"},
	{Cuisine: "French", Allergies: "gluten", Ingredients: ""},
	{},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seeding always runs against the simulated agent so it needs no
	// credentials and costs nothing.
	agent := service.NewAgentClient(service.AgentConfig{Simulate: true})
	recipeService := service.NewRecipeService(db.Gorm, agent, nil)

	ctx := context.Background()
	for i := range seedRequests {
		req := seedRequests[i]
		result, err := recipeService.GenerateSafeRecipe(ctx, &req)
		if err != nil {
			log.Fatalf("Failed to seed request %d: %v", i+1, err)
		}
		log.Printf("Seeded request %s: %q (safe=%t, attempts=%d)",
			req.ID, result.RecipeName, result.IsSafe, len(result.AllAttempts))
	}

	log.Printf("Seeded %d recipe requests", len(seedRequests))
}
