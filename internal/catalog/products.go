package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	applog "healthybites/internal/log"
	"healthybites/models"
)

// ProductRepository persists the product catalog. The tuple (brand, flavor,
// species, lifeStage, foodType) is the natural key, checked at write time.
//
// Product writes that carry an ingredient list reconcile against the
// ingredient catalog inside the same transaction: every referenced name ends
// up with at least a placeholder entry, and a reconciliation failure aborts
// the product write.
type ProductRepository struct {
	db          *gorm.DB
	ingredients *IngredientRepository
}

func NewProductRepository(db *gorm.DB, ingredients *IngredientRepository) *ProductRepository {
	return &ProductRepository{db: db, ingredients: ingredients}
}

// Add creates a product and registers placeholder entries for its
// ingredients.
func (r *ProductRepository) Add(ctx context.Context, input ProductInput) (*models.Product, error) {
	sizes := make([]models.ProductSize, 0, len(input.Sizes))
	for _, size := range input.Sizes {
		row, err := sizeRow(size)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, row)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("brand = ? AND flavor = ? AND species = ? AND life_stage = ? AND food_type = ?",
			input.Brand, input.Flavor, input.Species, input.LifeStage, input.FoodType).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check product natural key: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("product %s %s (%s/%s/%s): %w",
			input.Brand, input.Flavor, input.Species, input.LifeStage, input.FoodType, ErrAlreadyExists)
	}

	product := models.Product{
		Brand:        input.Brand,
		Flavor:       input.Flavor,
		Species:      input.Species,
		LifeStage:    input.LifeStage,
		FoodType:     input.FoodType,
		Ingredients:  models.IngredientNames(input.Ingredients),
		Sizes:        sizes,
		FeedingChart: models.FeedingChart(input.FeedingChart),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if err := r.ingredients.withTx(tx).PushNames(ctx, input.Ingredients, input.Species); err != nil {
			return fmt.Errorf("reconcile ingredients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	applog.Debug(ctx, "product created", "id", product.ID, "brand", product.Brand, "flavor", product.Flavor)
	return r.load(ctx, product.ID)
}

// Find returns the products matching the filter, all products when the
// filter is empty. The ID field short-circuits every other constraint; a
// missing id yields an empty result, not an error. A lifeStage filter of
// adult or young also matches products stored as all.
func (r *ProductRepository) Find(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	if filter.ID != nil {
		var product models.Product
		err := r.db.WithContext(ctx).Preload("Sizes").First(&product, *filter.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Product{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find product %d: %w", *filter.ID, err)
		}
		return []models.Product{product}, nil
	}

	query := r.db.WithContext(ctx).Preload("Sizes").Order("brand asc, flavor asc")
	if filter.Brand != nil {
		query = query.Where("brand = ?", *filter.Brand)
	}
	if filter.Flavor != nil {
		query = query.Where("flavor = ?", *filter.Flavor)
	}
	if filter.Species != nil {
		query = query.Where("species = ?", *filter.Species)
	}
	if filter.FoodType != nil {
		query = query.Where("food_type = ?", *filter.FoodType)
	}
	if filter.LifeStage != nil {
		if *filter.LifeStage == models.LifeStageAll {
			query = query.Where("life_stage = ?", models.LifeStageAll)
		} else {
			query = query.Where("life_stage IN ?", []string{*filter.LifeStage, models.LifeStageAll})
		}
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// Update applies a partial update; only non-nil fields are written. When the
// ingredient list changes it is reconciled against the newly supplied
// species, or the stored one if the species is unchanged.
func (r *ProductRepository) Update(ctx context.Context, id uint, update ProductUpdate) (*models.Product, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if update.Brand != nil {
		updates["brand"] = *update.Brand
	}
	if update.Flavor != nil {
		updates["flavor"] = *update.Flavor
	}
	if update.Species != nil {
		updates["species"] = *update.Species
	}
	if update.LifeStage != nil {
		updates["life_stage"] = *update.LifeStage
	}
	if update.FoodType != nil {
		updates["food_type"] = *update.FoodType
	}
	if update.Ingredients != nil {
		updates["ingredients"] = models.IngredientNames(*update.Ingredients)
	}
	if update.FeedingChart != nil {
		updates["feeding_chart"] = models.FeedingChart(*update.FeedingChart)
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdatesProvided
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}
		if update.Ingredients != nil {
			species := existing.Species
			if update.Species != nil {
				species = *update.Species
			}
			if err := r.ingredients.withTx(tx).PushNames(ctx, *update.Ingredients, species); err != nil {
				return fmt.Errorf("reconcile ingredients: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.load(ctx, id)
}

// AddSize appends a size sub-record to the product. All of packaging, price,
// count, and unit must be present; links and image URLs default to empty.
func (r *ProductRepository) AddSize(ctx context.Context, productID uint, input SizeInput) (*models.Product, error) {
	if _, err := r.load(ctx, productID); err != nil {
		return nil, err
	}

	row, err := sizeRow(input)
	if err != nil {
		return nil, err
	}
	row.ProductID = productID

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("add size to product %d: %w", productID, err)
	}

	return r.load(ctx, productID)
}

// UpdateSize merge-assigns the provided fields onto one size sub-record.
func (r *ProductRepository) UpdateSize(ctx context.Context, productID, sizeID uint, update SizeUpdate) (*models.Product, error) {
	if _, err := r.load(ctx, productID); err != nil {
		return nil, err
	}

	size, err := r.loadSize(ctx, productID, sizeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if update.Packaging != nil {
		updates["packaging"] = *update.Packaging
	}
	if update.Price != nil {
		updates["price"] = *update.Price
	}
	if update.Count != nil {
		updates["count"] = *update.Count
	}
	if update.Unit != nil {
		updates["unit"] = *update.Unit
	}
	if update.Links != nil {
		updates["links"] = models.URLList(*update.Links)
	}
	if update.ImageURLs != nil {
		updates["image_urls"] = models.URLList(*update.ImageURLs)
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdatesProvided
	}

	if err := r.db.WithContext(ctx).Model(size).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update size %d on product %d: %w", sizeID, productID, err)
	}

	return r.load(ctx, productID)
}

// RemoveSize deletes one size sub-record.
func (r *ProductRepository) RemoveSize(ctx context.Context, productID, sizeID uint) (*models.Product, error) {
	if _, err := r.load(ctx, productID); err != nil {
		return nil, err
	}

	size, err := r.loadSize(ctx, productID, sizeID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Delete(size).Error; err != nil {
		return nil, fmt.Errorf("remove size %d from product %d: %w", sizeID, productID, err)
	}

	return r.load(ctx, productID)
}

// Delete removes a product with its size sub-records and returns the removed
// record. Placeholder ingredients registered by the product remain.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (*models.Product, error) {
	existing, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductSize{}).Error; err != nil {
			return fmt.Errorf("clear sizes for product %d: %w", id, err)
		}
		if err := tx.Delete(&models.Product{}, id).Error; err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func (r *ProductRepository) load(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Sizes").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return &product, nil
}

func (r *ProductRepository) loadSize(ctx context.Context, productID, sizeID uint) (*models.ProductSize, error) {
	var size models.ProductSize
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", sizeID, productID).
		First(&size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("size %d on product %d: %w", sizeID, productID, ErrSizeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load size %d on product %d: %w", sizeID, productID, err)
	}
	return &size, nil
}

func sizeRow(input SizeInput) (models.ProductSize, error) {
	if input.Packaging == nil || input.Price == nil || input.Count == nil || input.Unit == nil {
		return models.ProductSize{}, fmt.Errorf("packaging, price, count, and unit are required: %w", ErrIncompleteSizeDetails)
	}

	row := models.ProductSize{
		Packaging: *input.Packaging,
		Price:     *input.Price,
		Count:     *input.Count,
		Unit:      *input.Unit,
		Links:     models.URLList(input.Links),
		ImageURLs: models.URLList(input.ImageURLs),
	}
	if row.Links == nil {
		row.Links = models.URLList{}
	}
	if row.ImageURLs == nil {
		row.ImageURLs = models.URLList{}
	}
	return row, nil
}
