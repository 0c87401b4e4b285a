package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeRequest stores one submitted set of recipe filters. All three
// filter fields are free text and may be blank; blank means "unfiltered".
type RecipeRequest struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Cuisine     string    `gorm:"size:200" json:"cuisine"`
	Allergies   string    `gorm:"type:text" json:"allergies"`
	Ingredients string    `gorm:"type:text" json:"ingredients"`
	CreatedAt   time.Time `json:"created_at"`

	GeneratedRecipes []GeneratedRecipe `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"generated_recipes,omitempty"`
}

func (RecipeRequest) TableName() string {
	return "recipe_requests"
}

// BeforeCreate assigns an ID so the model works on both Postgres and SQLite.
func (r *RecipeRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// GeneratedRecipe stores one generation attempt for a request. Attempts
// are append-only and ordered by CreatedAt; under the one-retry policy a
// request normally owns one or two of them.
type GeneratedRecipe struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RequestID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"request_id"`
	RecipeName  string    `gorm:"size:255;not null" json:"recipe_name"`
	RecipeText  string    `gorm:"type:text" json:"recipe_text"`
	IsSafe      bool      `gorm:"not null;default:false" json:"is_safe"`
	SafetyNotes string    `gorm:"type:text" json:"safety_notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (GeneratedRecipe) TableName() string {
	return "generated_recipes"
}

func (g *GeneratedRecipe) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
