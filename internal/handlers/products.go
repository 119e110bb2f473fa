package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"healthybites/internal/catalog"
	applog "healthybites/internal/log"
	"healthybites/models"
)

type productRequest struct {
	Brand        string                   `json:"brand"`
	Flavor       string                   `json:"flavor"`
	Species      string                   `json:"species"`
	LifeStage    string                   `json:"lifeStage"`
	FoodType     string                   `json:"foodType"`
	Ingredients  []string                 `json:"ingredients"`
	Sizes        []catalog.SizeInput      `json:"sizes"`
	FeedingChart []models.FeedingChartRow `json:"feedingChart"`
}

type productUpdateRequest struct {
	Brand        *string                   `json:"brand"`
	Flavor       *string                   `json:"flavor"`
	Species      *string                   `json:"species"`
	LifeStage    *string                   `json:"lifeStage"`
	FoodType     *string                   `json:"foodType"`
	Ingredients  *[]string                 `json:"ingredients"`
	FeedingChart *[]models.FeedingChartRow `json:"feedingChart"`
}

type sizeUpdateRequest struct {
	Packaging *string   `json:"packaging"`
	Price     *float64  `json:"price"`
	Count     *float64  `json:"count"`
	Unit      *string   `json:"unit"`
	Links     *[]string `json:"links"`
	ImageURLs *[]string `json:"imageUrls"`
}

type sizeResponse struct {
	ID        uint     `json:"id"`
	Packaging string   `json:"packaging"`
	Price     float64  `json:"price"`
	Count     float64  `json:"count"`
	Unit      string   `json:"unit"`
	Links     []string `json:"links"`
	ImageURLs []string `json:"imageUrls"`
}

type productResponse struct {
	ID           uint                     `json:"id"`
	Brand        string                   `json:"brand"`
	Flavor       string                   `json:"flavor"`
	Species      string                   `json:"species"`
	LifeStage    string                   `json:"lifeStage"`
	FoodType     string                   `json:"foodType"`
	Ingredients  []string                 `json:"ingredients"`
	Sizes        []sizeResponse           `json:"sizes"`
	FeedingChart []models.FeedingChartRow `json:"feedingChart"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

func projectProduct(product models.Product) productResponse {
	sizes := make([]sizeResponse, 0, len(product.Sizes))
	for _, size := range product.Sizes {
		sizes = append(sizes, sizeResponse{
			ID:        size.ID,
			Packaging: size.Packaging,
			Price:     size.Price,
			Count:     size.Count,
			Unit:      size.Unit,
			Links:     size.Links,
			ImageURLs: size.ImageURLs,
		})
	}
	chart := product.FeedingChart
	if chart == nil {
		chart = models.FeedingChart{}
	}
	names := product.Ingredients
	if names == nil {
		names = models.IngredientNames{}
	}
	return productResponse{
		ID:           product.ID,
		Brand:        product.Brand,
		Flavor:       product.Flavor,
		Species:      product.Species,
		LifeStage:    product.LifeStage,
		FoodType:     product.FoodType,
		Ingredients:  names,
		Sizes:        sizes,
		FeedingChart: chart,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// ProductsResource handles REST-style interactions for product records.
func ProductsResource(w http.ResponseWriter, r *http.Request) {
	if productRepo == nil {
		applog.Debug(r.Context(), "product request without repository")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/products")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listProducts(w, r)
		case http.MethodPost:
			createProduct(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	productID, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid product identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	switch len(segments) {
	case 1:
		switch r.Method {
		case http.MethodGet:
			showProduct(w, r, productID)
		case http.MethodPut:
			updateProduct(w, r, productID)
		case http.MethodDelete:
			deleteProduct(w, r, productID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case 2:
		if segments[1] != "sizes" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		addProductSize(w, r, productID)
	case 3:
		if segments[1] != "sizes" {
			http.NotFound(w, r)
			return
		}
		sizeID, ok := parseID(segments[2])
		if !ok {
			applog.Debug(r.Context(), "invalid size identifier", "identifier", segments[2])
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodPut:
			updateProductSize(w, r, productID, sizeID)
		case http.MethodDelete:
			removeProductSize(w, r, productID, sizeID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := queryUint(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	filter := catalog.ProductFilter{
		ID:        id,
		Brand:     queryString(r, "brand"),
		Flavor:    queryString(r, "flavor"),
		Species:   queryString(r, "species"),
		LifeStage: queryString(r, "lifeStage"),
		FoodType:  queryString(r, "foodType"),
	}

	products, err := productRepo.Find(ctx, filter)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	// an id query returns the single object instead of an array
	if filter.ID != nil {
		if len(products) == 0 {
			writeJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		writeJSON(w, http.StatusOK, projectProduct(products[0]))
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, projectProduct(product))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showProduct(w http.ResponseWriter, r *http.Request, productID uint) {
	ctx := r.Context()
	products, err := productRepo.Find(ctx, catalog.ProductFilter{ID: &productID})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	if len(products) == 0 {
		writeJSONError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(products[0]))
}

func createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid product create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := productRepo.Add(ctx, catalog.ProductInput{
		Brand:        payload.Brand,
		Flavor:       payload.Flavor,
		Species:      payload.Species,
		LifeStage:    payload.LifeStage,
		FoodType:     payload.FoodType,
		Ingredients:  payload.Ingredients,
		Sizes:        payload.Sizes,
		FeedingChart: payload.FeedingChart,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, projectProduct(*created))
}

func updateProduct(w http.ResponseWriter, r *http.Request, productID uint) {
	ctx := r.Context()
	var payload productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid product update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := productRepo.Update(ctx, productID, catalog.ProductUpdate{
		Brand:        payload.Brand,
		Flavor:       payload.Flavor,
		Species:      payload.Species,
		LifeStage:    payload.LifeStage,
		FoodType:     payload.FoodType,
		Ingredients:  payload.Ingredients,
		FeedingChart: payload.FeedingChart,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectProduct(*updated))
}

func deleteProduct(w http.ResponseWriter, r *http.Request, productID uint) {
	ctx := r.Context()
	removed, err := productRepo.Delete(ctx, productID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(*removed))
}

func addProductSize(w http.ResponseWriter, r *http.Request, productID uint) {
	ctx := r.Context()
	var payload catalog.SizeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid size payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := productRepo.AddSize(ctx, productID, payload)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectProduct(*updated))
}

func updateProductSize(w http.ResponseWriter, r *http.Request, productID, sizeID uint) {
	ctx := r.Context()
	var payload sizeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid size update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := productRepo.UpdateSize(ctx, productID, sizeID, catalog.SizeUpdate{
		Packaging: payload.Packaging,
		Price:     payload.Price,
		Count:     payload.Count,
		Unit:      payload.Unit,
		Links:     payload.Links,
		ImageURLs: payload.ImageURLs,
	})
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(*updated))
}

func removeProductSize(w http.ResponseWriter, r *http.Request, productID, sizeID uint) {
	ctx := r.Context()
	updated, err := productRepo.RemoveSize(ctx, productID, sizeID)
	if err != nil {
		writeRepositoryError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(*updated))
}
