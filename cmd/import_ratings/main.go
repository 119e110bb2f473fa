package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"

	"healthybites/internal/catalog"
	"healthybites/internal/config"
	"healthybites/internal/db"
	"healthybites/models"
)

var (
	cleanWhitespace = regexp.MustCompile(`\s+`)
	ratingLine      = regexp.MustCompile(`(?i)^(.+?)\s+(cat|dog)\s+(-?\d+|n/?a)\s*(.*)$`)
)

func main() {
	path := "ingredient ratings.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("input path must not be empty")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate input: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	entries, err := readEntries(path)
	if err != nil {
		return fmt.Errorf("read entries: %w", err)
	}

	if err := importEntries(context.Background(), database, entries); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d ingredient ratings from %s\n", len(entries), filepath.Base(path))
	return nil
}

func importEntries(ctx context.Context, database *gorm.DB, entries []catalog.PushEntry) error {
	repo := catalog.NewIngredientRepository(database)
	if err := repo.PushMany(ctx, entries); err != nil {
		return fmt.Errorf("push ratings: %w", err)
	}
	return nil
}

func readEntries(path string) ([]catalog.PushEntry, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text, err := extractTextFromPDF(data)
		if err != nil {
			return nil, err
		}
		return parseRatingLines(text)
	}
	return readCSV(path)
}

func readCSV(path string) ([]catalog.PushEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	columns := make(map[string]int, len(rows[0]))
	for idx, key := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(key))] = idx
	}
	for _, required := range []string{"ingredient", "species"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing the %q column", required)
		}
	}

	cell := func(row []string, key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	entries := make([]catalog.PushEntry, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		name := normalizeText(cell(row, "ingredient"))
		if name == "" {
			continue
		}
		species, err := normalizeSpecies(cell(row, "species"))
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", idx+2, name, err)
		}

		entry := catalog.PushEntry{Name: name, Species: species}
		if rating, ok, err := parseRating(cell(row, "rating")); err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", idx+2, name, err)
		} else if ok {
			entry.HealthRating = rating
		}
		if notes := normalizeText(cell(row, "notes")); notes != "" {
			entry.Notes = &notes
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, errors.New("csv contains no usable rows")
	}
	return entries, nil
}

// parseRatingLines recovers rating rows from extracted pdf text. Each usable
// line reads as "<ingredient> <species> <rating> [notes]"; anything else is
// treated as table chrome and skipped.
func parseRatingLines(text string) ([]catalog.PushEntry, error) {
	entries := make([]catalog.PushEntry, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		match := ratingLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		name := normalizeText(match[1])
		species, err := normalizeSpecies(match[2])
		if err != nil {
			continue
		}

		entry := catalog.PushEntry{Name: name, Species: species}
		if rating, ok, err := parseRating(match[3]); err != nil {
			return nil, fmt.Errorf("line %q: %w", line, err)
		} else if ok {
			entry.HealthRating = rating
		}
		if notes := normalizeText(match[4]); notes != "" {
			entry.Notes = &notes
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, errors.New("no rating rows found in document")
	}
	return entries, nil
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func normalizeText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return strings.TrimSpace(cleanWhitespace.ReplaceAllString(value, " "))
}

func normalizeSpecies(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "cat", "cats", "feline":
		return models.SpeciesCat, nil
	case "dog", "dogs", "canine":
		return models.SpeciesDog, nil
	default:
		return "", fmt.Errorf("unknown species %q", value)
	}
}

// parseRating returns (nil, true, nil) for an explicitly unrated entry so the
// push still creates the placeholder rating row.
func parseRating(value string) (*int, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, false, nil
	}
	lower := strings.ToLower(value)
	if lower == "n/a" || lower == "na" || lower == "unrated" {
		return nil, true, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, false, fmt.Errorf("invalid rating %q", value)
	}
	if parsed < -10 || parsed > 10 {
		return nil, false, fmt.Errorf("rating %d out of range", parsed)
	}
	return &parsed, true, nil
}
