package catalog

import "healthybites/models"

// IngredientFilter narrows an ingredient query. A nil field means
// "no constraint". ID short-circuits every other field.
type IngredientFilter struct {
	ID      *uint
	Name    *string // case-insensitive substring match
	Species *string

	// HasRating marks the exact-rating filter as present. With HasRating set
	// and Rating nil the filter selects ingredients whose rating for the
	// filtered species is unset. When HasRating is set, MinRating and
	// MaxRating are ignored.
	HasRating bool
	Rating    *int

	MinRating *int // inclusive
	MaxRating *int // inclusive
}

// ProductFilter narrows a product query. A nil field means "no constraint".
// ID short-circuits every other field. A LifeStage filter of adult or young
// also matches products stored as all; a filter of all matches only all.
type ProductFilter struct {
	ID        *uint
	Brand     *string
	Flavor    *string
	Species   *string
	LifeStage *string
	FoodType  *string
}

// RatingInput is a rating supplied on ingredient creation or AddRating.
type RatingInput struct {
	Species      string  `json:"species"`
	HealthRating *int    `json:"healthRating"`
	Notes        *string `json:"notes"`
}

// PushEntry is one idempotent upsert for Push and PushMany. HealthRating and
// Notes are merge-assigned only when non-nil.
type PushEntry struct {
	Name         string  `json:"name"`
	Species      string  `json:"species"`
	HealthRating *int    `json:"healthRating"`
	Notes        *string `json:"notes"`
}

// IngredientUpdate is a partial ingredient update. Ratings, when non-nil,
// replaces the full ratings collection.
type IngredientUpdate struct {
	Name    *string
	Ratings *[]RatingInput
}

// RatingUpdate merge-assigns the non-nil fields onto an existing rating.
// Clearing a health rating back to unset is done through IngredientUpdate
// with a full ratings replacement.
type RatingUpdate struct {
	HealthRating *int
	Notes        *string
}

// RatedIngredient is the single-species projection of an ingredient.
type RatedIngredient struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Species      string  `json:"species"`
	HealthRating *int    `json:"healthRating"`
	Notes        *string `json:"notes"`
}

// ProductInput carries the fields for product creation.
type ProductInput struct {
	Brand        string
	Flavor       string
	Species      string
	LifeStage    string
	FoodType     string
	Ingredients  []string
	Sizes        []SizeInput
	FeedingChart []models.FeedingChartRow
}

// SizeInput is a size sub-record supplied on creation or AddSize. Packaging,
// Price, Count, and Unit are required; Links and ImageURLs default to empty.
type SizeInput struct {
	Packaging *string  `json:"packaging"`
	Price     *float64 `json:"price"`
	Count     *float64 `json:"count"`
	Unit      *string  `json:"unit"`
	Links     []string `json:"links"`
	ImageURLs []string `json:"imageUrls"`
}

// ProductUpdate is a partial product update; only non-nil fields are applied.
type ProductUpdate struct {
	Brand        *string
	Flavor       *string
	Species      *string
	LifeStage    *string
	FoodType     *string
	Ingredients  *[]string
	FeedingChart *[]models.FeedingChartRow
}

// SizeUpdate merge-assigns the non-nil fields onto an existing size.
type SizeUpdate struct {
	Packaging *string
	Price     *float64
	Count     *float64
	Unit      *string
	Links     *[]string
	ImageURLs *[]string
}
