package server

import (
	"context"
	"net/http"

	"healthybites/internal/handlers"
	applog "healthybites/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/api/products", handlers.ProductsResource)
	mux.HandleFunc("/api/products/", handlers.ProductsResource)
	applog.Debug(context.Background(), "route registered", "path", "/api/products")
	mux.HandleFunc("/api/ingredients", handlers.IngredientsResource)
	mux.HandleFunc("/api/ingredients/", handlers.IngredientsResource)
	applog.Debug(context.Background(), "route registered", "path", "/api/ingredients")
	mux.HandleFunc("/api", handlers.APIWelcome)
	mux.HandleFunc("/api/", handlers.APIWelcome)
	applog.Debug(context.Background(), "route registered", "path", "/api")
	mux.HandleFunc("/", handlers.Home)
	applog.Debug(context.Background(), "route registered", "path", "/")
	return mux
}
