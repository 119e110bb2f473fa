package handlers

import (
	"fmt"
	"net/http"
)

// Home greets callers hitting the bare root so misrouted requests get a
// readable hint instead of a 404.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "HealthyBites pet food catalog. See /api for the available resources.")
}

// APIWelcome lists the resource roots under /api.
func APIWelcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "HealthyBites API: /api/products, /api/ingredients")
}
