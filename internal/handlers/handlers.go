package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"healthybites/internal/catalog"
	applog "healthybites/internal/log"
)

var (
	productRepo    *catalog.ProductRepository
	ingredientRepo *catalog.IngredientRepository
)

// Configure installs the shared repositories used by the HTTP handlers.
func Configure(products *catalog.ProductRepository, ingredients *catalog.IngredientRepository) {
	productRepo = products
	ingredientRepo = ingredients
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRepositoryError maps a repository failure onto the wire contract:
// every domain error becomes a 400 with the message text, anything else a
// generic 500.
func writeRepositoryError(ctx context.Context, w http.ResponseWriter, err error) {
	if catalog.IsDomainError(err) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	applog.Error(ctx, "repository operation failed", "error", err)
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

// queryString returns the query parameter, or nil when absent or blank.
func queryString(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}

func queryUint(r *http.Request, key string) (*uint, bool) {
	raw := queryString(r, key)
	if raw == nil {
		return nil, true
	}
	parsed, err := strconv.ParseUint(*raw, 10, 64)
	if err != nil {
		return nil, false
	}
	value := uint(parsed)
	return &value, true
}

func queryInt(r *http.Request, key string) (*int, bool) {
	raw := queryString(r, key)
	if raw == nil {
		return nil, true
	}
	parsed, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func parseID(segment string) (uint, bool) {
	value, err := strconv.ParseUint(segment, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}
