package catalog

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthybites/models"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(
		&models.Ingredient{},
		&models.IngredientRating{},
		&models.Product{},
		&models.ProductSize{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func newTestRepos(t *testing.T) (*IngredientRepository, *ProductRepository) {
	t.Helper()
	db := newTestDB(t)
	ingredients := NewIngredientRepository(db)
	products := NewProductRepository(db, ingredients)
	return ingredients, products
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }
