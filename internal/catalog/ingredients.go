package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"healthybites/models"
)

// IngredientRepository persists the ingredient catalog. Name uniqueness and
// the one-rating-per-species invariant are enforced here, at write time,
// rather than by storage constraints.
type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// withTx rebinds the repository to a transaction handle so product writes can
// reconcile ingredients atomically.
func (r *IngredientRepository) withTx(tx *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: tx}
}

// Add creates a new ingredient. The name must not collide with an existing
// ingredient (case-sensitive exact match).
func (r *IngredientRepository) Add(ctx context.Context, name string, ratings []RatingInput) (*models.Ingredient, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Ingredient{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check ingredient name %q: %w", name, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("ingredient %q: %w", name, ErrAlreadyExists)
	}

	rows, err := ratingRows(ratings)
	if err != nil {
		return nil, err
	}

	ingredient := models.Ingredient{Name: name, Ratings: rows}
	if err := r.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("create ingredient %q: %w", name, err)
	}

	return r.reload(ctx, ingredient.ID)
}

// Find returns the ingredients matching the filter, all ingredients when the
// filter is empty. The ID field short-circuits every other constraint; a
// missing id yields an empty result, not an error.
func (r *IngredientRepository) Find(ctx context.Context, filter IngredientFilter) ([]models.Ingredient, error) {
	if filter.ID != nil {
		var ingredient models.Ingredient
		err := r.db.WithContext(ctx).Preload("Ratings").First(&ingredient, *filter.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Ingredient{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find ingredient %d: %w", *filter.ID, err)
		}
		return []models.Ingredient{ingredient}, nil
	}

	query := r.db.WithContext(ctx).Preload("Ratings").Order("name asc")
	if filter.Name != nil {
		query = query.Where("lower(name) LIKE ?", "%"+strings.ToLower(*filter.Name)+"%")
	}

	var candidates []models.Ingredient
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("find ingredients: %w", err)
	}

	results := make([]models.Ingredient, 0, len(candidates))
	for _, ingredient := range candidates {
		if matchesRatingFilter(filter, ingredient) {
			results = append(results, ingredient)
		}
	}
	return results, nil
}

func matchesRatingFilter(filter IngredientFilter, ingredient models.Ingredient) bool {
	if filter.Species == nil && !filter.HasRating && filter.MinRating == nil && filter.MaxRating == nil {
		return true
	}

	if filter.Species != nil {
		rating, ok := ingredient.RatingFor(*filter.Species)
		if !ok {
			return false
		}
		return ratingSatisfies(filter, rating)
	}

	// Species unset: any rating entry may satisfy the rating constraints.
	for _, rating := range ingredient.Ratings {
		if ratingSatisfies(filter, rating) {
			return true
		}
	}
	return false
}

func ratingSatisfies(filter IngredientFilter, rating models.IngredientRating) bool {
	if filter.HasRating {
		if filter.Rating == nil {
			return rating.HealthRating == nil
		}
		return rating.HealthRating != nil && *rating.HealthRating == *filter.Rating
	}

	if filter.MinRating != nil || filter.MaxRating != nil {
		if rating.HealthRating == nil {
			return false
		}
		if filter.MinRating != nil && *rating.HealthRating < *filter.MinRating {
			return false
		}
		if filter.MaxRating != nil && *rating.HealthRating > *filter.MaxRating {
			return false
		}
	}
	return true
}

// GetOne projects a single ingredient's rating for one species.
func (r *IngredientRepository) GetOne(ingredient models.Ingredient, species string) (RatedIngredient, error) {
	rating, ok := ingredient.RatingFor(species)
	if !ok {
		return RatedIngredient{}, fmt.Errorf("ingredient %q, species %q: %w", ingredient.Name, species, ErrRatingNotFound)
	}
	return RatedIngredient{
		ID:           ingredient.ID,
		Name:         ingredient.Name,
		Species:      species,
		HealthRating: rating.HealthRating,
		Notes:        rating.Notes,
	}, nil
}

// GetAll projects a batch the same way. Ingredients lacking a rating for the
// requested species are silently omitted; this is a best-effort filter.
func (r *IngredientRepository) GetAll(ingredients []models.Ingredient, species string) []RatedIngredient {
	projected := make([]RatedIngredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		view, err := r.GetOne(ingredient, species)
		if err != nil {
			continue
		}
		projected = append(projected, view)
	}
	return projected
}

// Update applies a partial update: a new name, a full ratings replacement,
// or both.
func (r *IngredientRepository) Update(ctx context.Context, id uint, update IngredientUpdate) (*models.Ingredient, error) {
	if update.Name == nil && update.Ratings == nil {
		return nil, ErrNoUpdatesProvided
	}

	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != existing.Name {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Ingredient{}).
			Where("name = ? AND id <> ?", *update.Name, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check ingredient name %q: %w", *update.Name, err)
		}
		if count > 0 {
			return nil, fmt.Errorf("ingredient %q: %w", *update.Name, ErrAlreadyExists)
		}
	}

	var replacement []models.IngredientRating
	if update.Ratings != nil {
		replacement, err = ratingRows(*update.Ratings)
		if err != nil {
			return nil, err
		}
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if update.Name != nil {
			if err := tx.Model(existing).Update("name", *update.Name).Error; err != nil {
				return fmt.Errorf("update ingredient %d name: %w", id, err)
			}
		}
		if update.Ratings != nil {
			if err := tx.Where("ingredient_id = ?", id).Delete(&models.IngredientRating{}).Error; err != nil {
				return fmt.Errorf("clear ratings for ingredient %d: %w", id, err)
			}
			for i := range replacement {
				replacement[i].IngredientID = id
			}
			if len(replacement) > 0 {
				if err := tx.Create(&replacement).Error; err != nil {
					return fmt.Errorf("replace ratings for ingredient %d: %w", id, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.reload(ctx, id)
}

// Push is an idempotent upsert: it creates the ingredient when absent,
// appends a rating when the species is new, and merge-assigns the provided
// fields when the species rating already exists. Push never fails with
// ErrAlreadyExists.
func (r *IngredientRepository) Push(ctx context.Context, entry PushEntry) (*models.Ingredient, error) {
	var existing models.Ingredient
	err := r.db.WithContext(ctx).Preload("Ratings").
		Where("name = ?", entry.Name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ingredient := models.Ingredient{
			Name: entry.Name,
			Ratings: []models.IngredientRating{{
				Species:      entry.Species,
				HealthRating: entry.HealthRating,
				Notes:        entry.Notes,
			}},
		}
		if err := r.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
			return nil, fmt.Errorf("push ingredient %q: %w", entry.Name, err)
		}
		return r.reload(ctx, ingredient.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("push ingredient %q: %w", entry.Name, err)
	}

	rating, ok := existing.RatingFor(entry.Species)
	if !ok {
		appended := models.IngredientRating{
			IngredientID: existing.ID,
			Species:      entry.Species,
			HealthRating: entry.HealthRating,
			Notes:        entry.Notes,
		}
		if err := r.db.WithContext(ctx).Create(&appended).Error; err != nil {
			return nil, fmt.Errorf("push rating for ingredient %q: %w", entry.Name, err)
		}
		return r.reload(ctx, existing.ID)
	}

	updates := map[string]any{}
	if entry.HealthRating != nil {
		updates["health_rating"] = entry.HealthRating
	}
	if entry.Notes != nil {
		updates["notes"] = entry.Notes
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&rating).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("merge rating for ingredient %q: %w", entry.Name, err)
		}
	}
	return r.reload(ctx, existing.ID)
}

// PushMany applies Push to each entry in order.
func (r *IngredientRepository) PushMany(ctx context.Context, entries []PushEntry) error {
	for _, entry := range entries {
		if _, err := r.Push(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// PushNames applies Push to a list of bare names sharing one species,
// registering rating-less placeholders for any name not yet known.
func (r *IngredientRepository) PushNames(ctx context.Context, names []string, species string) error {
	entries := make([]PushEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, PushEntry{Name: name, Species: species})
	}
	return r.PushMany(ctx, entries)
}

// AddRating appends a rating for a species not yet rated on the ingredient.
func (r *IngredientRepository) AddRating(ctx context.Context, id uint, rating RatingInput) (*models.Ingredient, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := existing.RatingFor(rating.Species); ok {
		return nil, fmt.Errorf("ingredient %q, species %q: %w", existing.Name, rating.Species, ErrRatingAlreadyExists)
	}

	row := models.IngredientRating{
		IngredientID: id,
		Species:      rating.Species,
		HealthRating: rating.HealthRating,
		Notes:        rating.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("add rating for ingredient %d: %w", id, err)
	}

	return r.reload(ctx, id)
}

// UpdateRating merge-assigns the provided fields onto the existing rating
// for the species.
func (r *IngredientRepository) UpdateRating(ctx context.Context, id uint, species string, update RatingUpdate) (*models.Ingredient, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rating, ok := existing.RatingFor(species)
	if !ok {
		return nil, fmt.Errorf("ingredient %q, species %q: %w", existing.Name, species, ErrRatingNotFound)
	}

	updates := map[string]any{}
	if update.HealthRating != nil {
		updates["health_rating"] = update.HealthRating
	}
	if update.Notes != nil {
		updates["notes"] = update.Notes
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdatesProvided
	}

	if err := r.db.WithContext(ctx).Model(&rating).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update rating for ingredient %d: %w", id, err)
	}

	return r.reload(ctx, id)
}

// RemoveRating deletes the rating for one species.
func (r *IngredientRepository) RemoveRating(ctx context.Context, id uint, species string) (*models.Ingredient, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rating, ok := existing.RatingFor(species)
	if !ok {
		return nil, fmt.Errorf("ingredient %q, species %q: %w", existing.Name, species, ErrRatingNotFound)
	}

	if err := r.db.WithContext(ctx).Delete(&rating).Error; err != nil {
		return nil, fmt.Errorf("remove rating for ingredient %d: %w", id, err)
	}

	return r.reload(ctx, id)
}

// MergeDuplicates copies every rating from the duplicate into the primary for
// species the primary has not rated (the primary's ratings always win), then
// deletes the duplicate. Returns the updated primary.
func (r *IngredientRepository) MergeDuplicates(ctx context.Context, primaryID, duplicateID uint) (*models.Ingredient, error) {
	primary, err := r.load(ctx, primaryID)
	if err != nil {
		return nil, err
	}
	duplicate, err := r.load(ctx, duplicateID)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rating := range duplicate.Ratings {
			if _, ok := primary.RatingFor(rating.Species); ok {
				continue
			}
			copied := models.IngredientRating{
				IngredientID: primary.ID,
				Species:      rating.Species,
				HealthRating: rating.HealthRating,
				Notes:        rating.Notes,
			}
			if err := tx.Create(&copied).Error; err != nil {
				return fmt.Errorf("copy %s rating from ingredient %d: %w", rating.Species, duplicateID, err)
			}
		}
		if err := tx.Where("ingredient_id = ?", duplicateID).Delete(&models.IngredientRating{}).Error; err != nil {
			return fmt.Errorf("clear ratings for duplicate %d: %w", duplicateID, err)
		}
		if err := tx.Delete(&models.Ingredient{}, duplicateID).Error; err != nil {
			return fmt.Errorf("delete duplicate ingredient %d: %w", duplicateID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.reload(ctx, primaryID)
}

// Delete removes an ingredient and returns the removed record. Products
// referencing the ingredient by name are left untouched.
func (r *IngredientRepository) Delete(ctx context.Context, id uint) (*models.Ingredient, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.IngredientRating{}).Error; err != nil {
			return fmt.Errorf("clear ratings for ingredient %d: %w", id, err)
		}
		if err := tx.Delete(&models.Ingredient{}, id).Error; err != nil {
			return fmt.Errorf("delete ingredient %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func (r *IngredientRepository) load(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).Preload("Ratings").First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load ingredient %d: %w", id, err)
	}
	return &ingredient, nil
}

func (r *IngredientRepository) reload(ctx context.Context, id uint) (*models.Ingredient, error) {
	return r.load(ctx, id)
}

func ratingRows(ratings []RatingInput) ([]models.IngredientRating, error) {
	rows := make([]models.IngredientRating, 0, len(ratings))
	seen := make(map[string]bool, len(ratings))
	for _, rating := range ratings {
		if seen[rating.Species] {
			return nil, fmt.Errorf("species %q: %w", rating.Species, ErrRatingAlreadyExists)
		}
		seen[rating.Species] = true
		rows = append(rows, models.IngredientRating{
			Species:      rating.Species,
			HealthRating: rating.HealthRating,
			Notes:        rating.Notes,
		})
	}
	return rows, nil
}
