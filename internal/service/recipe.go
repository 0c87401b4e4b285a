package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tedgershon/SafePlate/internal/models"
)

// GenerationResult is what the caller gets back after a generation run:
// the final recipe plus the full ordered attempt history.
type GenerationResult struct {
	Request     models.RecipeRequest     `json:"request"`
	RecipeName  string                   `json:"recipe_name"`
	RecipeText  string                   `json:"recipe_text"`
	IsSafe      bool                     `json:"is_safe"`
	SafetyNotes string                   `json:"safety_notes"`
	AllAttempts []models.GeneratedRecipe `json:"all_attempts"`
}

// RecipeService runs the generate-inspect-retry workflow and persists
// every attempt.
//
// Safety verdicts come from the local inspector (InspectRecipe) run
// against the request's allergy text, not from the agent's self-reported
// is_safe field. The one exception is a response that never decoded into
// a recipe at all: that attempt is recorded unsafe with the normalizer's
// diagnostic note, since there is nothing trustworthy to inspect.
type RecipeService struct {
	db    *gorm.DB
	agent *AgentClient
	cache *ResultCache
}

// NewRecipeService creates a RecipeService. The cache may be nil when no
// Redis is available.
func NewRecipeService(db *gorm.DB, agent *AgentClient, cache *ResultCache) *RecipeService {
	return &RecipeService{
		db:    db,
		agent: agent,
		cache: cache,
	}
}

// GenerateSafeRecipe persists the request, generates a recipe, inspects
// it, and retries exactly once when the first result is unsafe. Both
// attempts are persisted unconditionally; the second attempt is final
// regardless of its verdict. The worst case handed back to the caller is
// a recipe marked unsafe with an explanatory note, never an error from
// the agent boundary.
func (s *RecipeService) GenerateSafeRecipe(ctx context.Context, req *models.RecipeRequest) (*GenerationResult, error) {
	if req.ID == uuid.Nil {
		if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
			return nil, fmt.Errorf("failed to save recipe request: %w", err)
		}
	}

	first, err := s.runAttempt(ctx, req, 1, "")
	if err != nil {
		return nil, err
	}

	final := first
	if !first.IsSafe {
		log.Printf("Recipe attempt for request %s rejected, retrying once: %s", req.ID, first.SafetyNotes)
		second, err := s.runAttempt(ctx, req, 2, first.SafetyNotes)
		if err != nil {
			return nil, err
		}
		// The retry budget is exactly one: the second attempt stands even
		// if it is still unsafe.
		final = second
	}

	attempts, err := s.AttemptHistory(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{
		Request:     *req,
		RecipeName:  final.RecipeName,
		RecipeText:  final.RecipeText,
		IsSafe:      final.IsSafe,
		SafetyNotes: final.SafetyNotes,
		AllAttempts: attempts,
	}

	if err := s.cache.Save(ctx, result); err != nil {
		// Caching is best-effort; the durable record is already written.
		log.Printf("Failed to cache generation result for request %s: %v", req.ID, err)
	}

	return result, nil
}

// runAttempt performs one generate-normalize-inspect cycle and persists
// its outcome.
func (s *RecipeService) runAttempt(ctx context.Context, req *models.RecipeRequest, attempt int, previousError string) (*models.GeneratedRecipe, error) {
	raw := s.agent.Generate(ctx, req.Cuisine, req.Allergies, req.Ingredients, previousError, attempt)
	parsed := NormalizeAgentOutput(raw)

	isSafe := parsed.IsSafe
	notes := parsed.SafetyNotes
	if parsed.Decoded {
		isSafe, notes = InspectRecipe(parsed.RecipeName, parsed.RecipeText, req.Allergies)
	}

	record := &models.GeneratedRecipe{
		RequestID:   req.ID,
		RecipeName:  parsed.RecipeName,
		RecipeText:  parsed.RecipeText,
		IsSafe:      isSafe,
		SafetyNotes: notes,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to save generation attempt: %w", err)
	}

	return record, nil
}

// AttemptHistory returns every attempt for a request in creation order.
func (s *RecipeService) AttemptHistory(ctx context.Context, requestID uuid.UUID) ([]models.GeneratedRecipe, error) {
	var attempts []models.GeneratedRecipe
	err := s.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt history: %w", err)
	}
	return attempts, nil
}

// GetRequest loads one request with its ordered attempts, consulting the
// result cache first.
func (s *RecipeService) GetRequest(ctx context.Context, requestID uuid.UUID) (*models.RecipeRequest, error) {
	if cached, err := s.cache.Get(ctx, requestID); err == nil && cached != nil {
		req := cached.Request
		req.GeneratedRecipes = cached.AllAttempts
		return &req, nil
	}

	var req models.RecipeRequest
	err := s.db.WithContext(ctx).
		Preload("GeneratedRecipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&req, "id = ?", requestID).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests returns all requests, newest first.
func (s *RecipeService) ListRequests(ctx context.Context) ([]models.RecipeRequest, error) {
	var requests []models.RecipeRequest
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe requests: %w", err)
	}
	return requests, nil
}
