package handlers

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthybites/internal/catalog"
	"healthybites/models"
)

var handlerDBSeq int64

func withCatalogTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	originalProducts := productRepo
	originalIngredients := ingredientRepo

	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", atomic.AddInt64(&handlerDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Ingredient{},
		&models.IngredientRating{},
		&models.Product{},
		&models.ProductSize{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	ingredients := catalog.NewIngredientRepository(db)
	Configure(catalog.NewProductRepository(db, ingredients), ingredients)

	t.Cleanup(func() {
		Configure(originalProducts, originalIngredients)
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }
