package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"healthybites/internal/catalog"
	applog "healthybites/internal/log"
	"healthybites/models"
)

type ingredientRequest struct {
	Name    string                `json:"name"`
	Ratings []catalog.RatingInput `json:"ratings"`
}

type ingredientUpdateRequest struct {
	Name    *string                `json:"name"`
	Ratings *[]catalog.RatingInput `json:"ratings"`
}

type ratingUpdateRequest struct {
	HealthRating *int    `json:"healthRating"`
	Notes        *string `json:"notes"`
}

// pushRequest accepts a single entry, a batch of entries, or a list of bare
// names sharing one species.
type pushRequest struct {
	Name         string              `json:"name"`
	Species      string              `json:"species"`
	HealthRating *int                `json:"healthRating"`
	Notes        *string             `json:"notes"`
	Entries      []catalog.PushEntry `json:"entries"`
	Names        []string            `json:"names"`
}

type mergeRequest struct {
	DuplicateID uint `json:"duplicateId"`
}

type ratingResponse struct {
	Species      string  `json:"species"`
	HealthRating *int    `json:"healthRating"`
	Notes        *string `json:"notes"`
}

type ingredientResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Ratings   []ratingResponse `json:"ratings"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	ratings := make([]ratingResponse, 0, len(ingredient.Ratings))
	for _, rating := range ingredient.Ratings {
		ratings = append(ratings, ratingResponse{
			Species:      rating.Species,
			HealthRating: rating.HealthRating,
			Notes:        rating.Notes,
		})
	}
	return ingredientResponse{
		ID:        ingredient.ID,
		Name:      ingredient.Name,
		Ratings:   ratings,
		CreatedAt: ingredient.CreatedAt,
		UpdatedAt: ingredient.UpdatedAt,
	}
}

// IngredientsResource handles REST-style interactions for ingredient records.
func IngredientsResource(w http.ResponseWriter, r *http.Request) {
	if ingredientRepo == nil {
		applog.Debug(r.Context(), "ingredient request without repository")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/ingredients")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			createIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")

	switch segments[0] {
	case "push":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		pushIngredients(w, r)
		return
	case "rated":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		listRatedIngredients(w, r)
		return
	}

	ingredientID, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch len(segments) {
	case 1:
		switch r.Method {
		case http.MethodGet:
			showIngredient(w, r, ingredientID)
		case http.MethodPut:
			updateIngredient(w, r, ingredientID)
		case http.MethodDelete:
			deleteIngredient(w, r, ingredientID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case 2:
		switch segments[1] {
		case "ratings":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			addIngredientRating(w, r, ingredientID)
		case "merge":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			mergeIngredients(w, r, ingredientID)
		default:
			http.NotFound(w, r)
		}
	case 3:
		if segments[1] != "ratings" {
			http.NotFound(w, r)
			return
		}
		species := segments[2]
		switch r.Method {
		case http.MethodGet:
			showIngredientRating(w, r, ingredientID, species)
		case http.MethodPut:
			updateIngredientRating(w, r, ingredientID, species)
		case http.MethodDelete:
			removeIngredientRating(w, r, ingredientID, species)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

// ingredientFilterFromQuery coerces the loose query vocabulary into the typed
// filter. A literal rating=null selects ingredients with an unset rating.
func ingredientFilterFromQuery(r *http.Request) (catalog.IngredientFilter, bool) {
	filter := catalog.IngredientFilter{
		Name:    queryString(r, "name"),
		Species: queryString(r, "species"),
	}

	id, ok := queryUint(r, "id")
	if !ok {
		return filter, false
	}
	filter.ID = id

	if raw := queryString(r, "rating"); raw != nil {
		filter.HasRating = true
		if !strings.EqualFold(*raw, "null") {
			value, err := strconv.Atoi(*raw)
			if err != nil {
				return filter, false
			}
			filter.Rating = &value
		}
	}

	minRating, ok := queryInt(r, "minRating")
	if !ok {
		return filter, false
	}
	filter.MinRating = minRating

	maxRating, ok := queryInt(r, "maxRating")
	if !ok {
		return filter, false
	}
	filter.MaxRating = maxRating

	return filter, true
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, ok := ingredientFilterFromQuery(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid filter parameter")
		return
	}

	ingredients, err := ingredientRepo.Find(ctx, filter)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	if filter.ID != nil {
		if len(ingredients) == 0 {
			writeJSONError(w, http.StatusNotFound, "ingredient not found")
			return
		}
		writeJSON(w, http.StatusOK, projectIngredient(ingredients[0]))
		return
	}

	responses := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, projectIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

// listRatedIngredients returns the single-species projection of every
// ingredient matching the filter. Ingredients without a rating for the
// species are omitted.
func listRatedIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	species := queryString(r, "species")
	if species == nil {
		writeJSONError(w, http.StatusBadRequest, "species parameter is required")
		return
	}

	filter, ok := ingredientFilterFromQuery(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid filter parameter")
		return
	}

	ingredients, err := ingredientRepo.Find(ctx, filter)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingredientRepo.GetAll(ingredients, *species))
}

func showIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	ingredients, err := ingredientRepo.Find(ctx, catalog.IngredientFilter{ID: &ingredientID})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	if len(ingredients) == 0 {
		writeJSONError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(ingredients[0]))
}

func createIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := ingredientRepo.Add(ctx, payload.Name, payload.Ratings)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectIngredient(*created))
}

func updateIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	var payload ingredientUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := ingredientRepo.Update(ctx, ingredientID, catalog.IngredientUpdate{
		Name:    payload.Name,
		Ratings: payload.Ratings,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*updated))
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	removed, err := ingredientRepo.Delete(ctx, ingredientID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*removed))
}

func pushIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload pushRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid push payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	switch {
	case len(payload.Entries) > 0:
		if err := ingredientRepo.PushMany(ctx, payload.Entries); err != nil {
			writeRepositoryError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"pushed": len(payload.Entries)})
	case len(payload.Names) > 0:
		if payload.Species == "" {
			writeJSONError(w, http.StatusBadRequest, "species is required for a name list")
			return
		}
		if err := ingredientRepo.PushNames(ctx, payload.Names, payload.Species); err != nil {
			writeRepositoryError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"pushed": len(payload.Names)})
	default:
		if payload.Name == "" || payload.Species == "" {
			writeJSONError(w, http.StatusBadRequest, "name and species are required")
			return
		}
		pushed, err := ingredientRepo.Push(ctx, catalog.PushEntry{
			Name:         payload.Name,
			Species:      payload.Species,
			HealthRating: payload.HealthRating,
			Notes:        payload.Notes,
		})
		if err != nil {
			writeRepositoryError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, projectIngredient(*pushed))
	}
}

func addIngredientRating(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	var payload catalog.RatingInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid rating payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := ingredientRepo.AddRating(ctx, ingredientID, payload)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectIngredient(*updated))
}

func showIngredientRating(w http.ResponseWriter, r *http.Request, ingredientID uint, species string) {
	ctx := r.Context()
	ingredients, err := ingredientRepo.Find(ctx, catalog.IngredientFilter{ID: &ingredientID})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	if len(ingredients) == 0 {
		writeJSONError(w, http.StatusNotFound, "ingredient not found")
		return
	}

	view, err := ingredientRepo.GetOne(ingredients[0], species)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func updateIngredientRating(w http.ResponseWriter, r *http.Request, ingredientID uint, species string) {
	ctx := r.Context()
	var payload ratingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid rating update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := ingredientRepo.UpdateRating(ctx, ingredientID, species, catalog.RatingUpdate{
		HealthRating: payload.HealthRating,
		Notes:        payload.Notes,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*updated))
}

func removeIngredientRating(w http.ResponseWriter, r *http.Request, ingredientID uint, species string) {
	ctx := r.Context()
	updated, err := ingredientRepo.RemoveRating(ctx, ingredientID, species)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*updated))
}

func mergeIngredients(w http.ResponseWriter, r *http.Request, primaryID uint) {
	ctx := r.Context()
	var payload mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid merge payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	merged, err := ingredientRepo.MergeDuplicates(ctx, primaryID, payload.DuplicateID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(*merged))
}
