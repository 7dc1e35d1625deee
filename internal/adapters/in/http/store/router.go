// internal/adapters/in/http/store/router.go
package store

import (
	"log"
	"net/http"
)

// Deps is the shopper-facing handler set.
type Deps struct {
	Catalog  http.Handler
	Cart     http.Handler
	Checkout http.Handler
	Contact  http.Handler

	// SessionMiddleware は cart / checkout にだけ掛ける (cookie を発行するため)。
	SessionMiddleware func(http.Handler) http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[store.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers storefront routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}
	session := deps.SessionMiddleware
	if session == nil {
		session = func(h http.Handler) http.Handler { return h }
	}

	// catalog
	for _, p := range []string{"/store/categories", "/store/subcategories", "/store/products"} {
		handleSafe(mux, p, deps.Catalog, "Catalog")
		handleSafe(mux, p+"/", deps.Catalog, "Catalog")
	}

	// cart / checkout
	var cart, checkout http.Handler
	if deps.Cart != nil {
		cart = session(deps.Cart)
	}
	if deps.Checkout != nil {
		checkout = session(deps.Checkout)
	}
	handleSafe(mux, "/store/cart", cart, "Cart")
	handleSafe(mux, "/store/cart/", cart, "Cart")
	handleSafe(mux, "/store/checkout", checkout, "Checkout")

	// contact
	handleSafe(mux, "/store/contact", deps.Contact, "Contact")
}
