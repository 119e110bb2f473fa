package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"healthybites/internal/catalog"
	"healthybites/models"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratings.csv")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write csv fixture: %v", err)
	}
	return path
}

func TestReadCSVBuildsEntries(t *testing.T) {
	t.Parallel()

	path := writeTempCSV(t, "Ingredient,Species,Rating,Notes\n"+
		"Chicken,dog,8,Lean protein\n"+
		"Carrageenan,cats,n/a,\n"+
		" Salmon ,feline,9,Rich in omega-3\n")

	entries, err := readCSV(path)
	if err != nil {
		t.Fatalf("readCSV returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].Name != "Chicken" || entries[0].Species != models.SpeciesDog {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].HealthRating == nil || *entries[0].HealthRating != 8 {
		t.Fatalf("expected rating 8, got %+v", entries[0].HealthRating)
	}
	if entries[0].Notes == nil || *entries[0].Notes != "Lean protein" {
		t.Fatalf("expected notes, got %+v", entries[0].Notes)
	}

	if entries[1].Species != models.SpeciesCat || entries[1].HealthRating != nil {
		t.Fatalf("expected unrated cat entry, got %+v", entries[1])
	}
	if entries[2].Name != "Salmon" || entries[2].Species != models.SpeciesCat {
		t.Fatalf("expected trimmed salmon entry, got %+v", entries[2])
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		contents string
	}{
		{"missing species column", "Ingredient,Rating\nChicken,8\n"},
		{"unknown species", "Ingredient,Species,Rating\nChicken,bird,8\n"},
		{"rating out of range", "Ingredient,Species,Rating\nChicken,dog,42\n"},
		{"no usable rows", "Ingredient,Species,Rating\n,,\n"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := readCSV(writeTempCSV(t, tc.contents)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseRatingLines(t *testing.T) {
	t.Parallel()

	text := "Ingredient Health Ratings\n" +
		"Chicken dog 8 lean protein staple\n" +
		"Brown Rice dog 4\n" +
		"Carrageenan cat n/a\n" +
		"Page 1 of 3\n"

	entries, err := parseRatingLines(text)
	if err != nil {
		t.Fatalf("parseRatingLines returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Name != "Chicken" || entries[0].HealthRating == nil || *entries[0].HealthRating != 8 {
		t.Fatalf("unexpected chicken entry: %+v", entries[0])
	}
	if entries[0].Notes == nil || *entries[0].Notes != "lean protein staple" {
		t.Fatalf("expected trailing text as notes, got %+v", entries[0].Notes)
	}
	if entries[1].Name != "Brown Rice" || entries[1].HealthRating == nil || *entries[1].HealthRating != 4 {
		t.Fatalf("unexpected rice entry: %+v", entries[1])
	}
	if entries[2].Name != "Carrageenan" || entries[2].HealthRating != nil {
		t.Fatalf("expected unrated carrageenan entry: %+v", entries[2])
	}
}

func TestParseRatingLinesWithoutRows(t *testing.T) {
	t.Parallel()

	if _, err := parseRatingLines("header line\nnothing useful here\n"); err == nil {
		t.Fatal("expected an error for a document without rating rows")
	}
}

func TestImportEntriesUpsertsRatings(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open("file:import_ratings?mode=memory&cache=shared"), &gorm.Config{
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
	if err := db.AutoMigrate(&models.Ingredient{}, &models.IngredientRating{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	ctx := context.Background()
	rating := 8
	entries := []catalog.PushEntry{
		{Name: "Chicken", Species: models.SpeciesDog, HealthRating: &rating},
		{Name: "Chicken", Species: models.SpeciesCat},
		{Name: "Salmon", Species: models.SpeciesCat},
	}
	if err := importEntries(ctx, db, entries); err != nil {
		t.Fatalf("importEntries returned error: %v", err)
	}

	// a second run merges instead of duplicating
	if err := importEntries(ctx, db, entries); err != nil {
		t.Fatalf("repeat importEntries returned error: %v", err)
	}

	var ingredientCount int64
	if err := db.Model(&models.Ingredient{}).Count(&ingredientCount).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if ingredientCount != 2 {
		t.Fatalf("expected 2 ingredients, got %d", ingredientCount)
	}

	var chicken models.Ingredient
	if err := db.Preload("Ratings").Where("name = ?", "Chicken").First(&chicken).Error; err != nil {
		t.Fatalf("load chicken: %v", err)
	}
	if len(chicken.Ratings) != 2 {
		t.Fatalf("expected dog and cat ratings, got %d", len(chicken.Ratings))
	}
}
