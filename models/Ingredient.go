package models

import (
	"gorm.io/gorm"
)

// Ingredient is a catalog entry for a single pet-food ingredient. The name is
// the natural key: uniqueness is enforced by the repository at write time so
// callers get a domain error rather than a driver-specific constraint failure.
type Ingredient struct {
	gorm.Model
	Name    string             `gorm:"not null;index" json:"name"`
	Ratings []IngredientRating `gorm:"foreignKey:IngredientID" json:"ratings"`
}

// IngredientRating holds the per-species health assessment of an ingredient.
// An ingredient carries at most one rating per species; a nil HealthRating
// means the ingredient is registered but not yet curated.
type IngredientRating struct {
	gorm.Model
	IngredientID uint    `gorm:"not null;index" json:"ingredientId"`
	Species      string  `gorm:"not null;check:species IN ('cat','dog')" json:"species"`
	HealthRating *int    `gorm:"check:health_rating IS NULL OR (health_rating BETWEEN -10 AND 10)" json:"healthRating"`
	Notes        *string `gorm:"type:text" json:"notes"`
}

// RatingFor returns the rating entry for the given species, if present.
func (i Ingredient) RatingFor(species string) (IngredientRating, bool) {
	for _, rating := range i.Ratings {
		if rating.Species == species {
			return rating, true
		}
	}
	return IngredientRating{}, false
}
