package mock

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "healthybites/internal/log"
	"healthybites/models"
)

// New returns an in-memory sqlite database seeded with representative
// catalog data.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:healthybites-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Ingredient{},
		&models.IngredientRating{},
		&models.Product{},
		&models.ProductSize{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func intRef(v int) *int { return &v }

func strRef(v string) *string { return &v }

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	ingredients := []*models.Ingredient{
		{
			Name: "Chicken",
			Ratings: []models.IngredientRating{
				{Species: models.SpeciesDog, HealthRating: intRef(8), Notes: strRef("Lean protein staple.")},
				{Species: models.SpeciesCat, HealthRating: intRef(7)},
			},
		},
		{
			Name: "Brown Rice",
			Ratings: []models.IngredientRating{
				{Species: models.SpeciesDog, HealthRating: intRef(4), Notes: strRef("Digestible filler, moderate glycemic load.")},
			},
		},
		{
			Name: "Salmon",
			Ratings: []models.IngredientRating{
				{Species: models.SpeciesCat, HealthRating: intRef(9), Notes: strRef("Rich in omega-3 fatty acids.")},
			},
		},
		{
			Name: "Carrageenan",
			Ratings: []models.IngredientRating{
				{Species: models.SpeciesCat},
			},
		},
	}
	for _, ingredient := range ingredients {
		if err := db.WithContext(ctx).Create(ingredient).Error; err != nil {
			return err
		}
	}

	kibble := models.Product{
		Brand:       "Healthy Paws",
		Flavor:      "Chicken & Rice",
		Species:     models.SpeciesDog,
		LifeStage:   models.LifeStageAdult,
		FoodType:    models.FoodTypeDry,
		Ingredients: models.IngredientNames{"Chicken", "Brown Rice"},
		Sizes: []models.ProductSize{
			{
				Packaging: "bag",
				Price:     24.99,
				Count:     12,
				Unit:      models.UnitLb,
				Links:     models.URLList{"https://example.com/healthy-paws-12lb"},
				ImageURLs: models.URLList{},
			},
			{
				Packaging: "bag",
				Price:     47.99,
				Count:     28,
				Unit:      models.UnitLb,
				Links:     models.URLList{},
				ImageURLs: models.URLList{},
			},
		},
		FeedingChart: models.FeedingChart{
			{MinAge: 1, MaxAge: 7, MinWeight: 5, MaxWeight: 15, MinServing: 1, MaxServing: 1.5},
			{MinAge: 1, MaxAge: 7, MinWeight: 15, MaxWeight: 30, MinServing: 1.5, MaxServing: 2.25},
		},
	}

	pate := models.Product{
		Brand:       "Whisker Feast",
		Flavor:      "Salmon Pate",
		Species:     models.SpeciesCat,
		LifeStage:   models.LifeStageAll,
		FoodType:    models.FoodTypeWet,
		Ingredients: models.IngredientNames{"Salmon", "Carrageenan"},
		Sizes: []models.ProductSize{
			{
				Packaging: "case",
				Price:     32.99,
				Count:     24,
				Unit:      models.UnitCan,
				Links:     models.URLList{"https://example.com/whisker-feast-case"},
				ImageURLs: models.URLList{},
			},
		},
		FeedingChart: models.FeedingChart{},
	}

	for _, product := range []*models.Product{&kibble, &pate} {
		if err := db.WithContext(ctx).Create(product).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
