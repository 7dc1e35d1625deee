// internal/adapters/in/http/console/router.go
package console

import (
	"log"
	"net/http"

	consoleHandler "storefront/internal/adapters/in/http/console/handler"
	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
)

type RouterDeps struct {
	CatalogAdminUC *usecase.CatalogAdminUsecase
	OrderUC        *usecase.OrderUsecase
	ContactUC      *usecase.ContactUsecase

	// nil の場合 /console/* は 503 (auth_not_configured) を返す
	Auth *middleware.AdminAuth
}

// NewRouter builds the admin console routes. Every route sits behind AdminAuth.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	Register(mux, deps)
	return mux
}

func Register(mux *http.ServeMux, deps RouterDeps) {
	if mux == nil {
		return
	}
	auth := deps.Auth
	if auth == nil {
		log.Printf("[console.router] WARN: admin auth is not configured; console routes will answer 503")
		auth = &middleware.AdminAuth{}
	}
	protect := func(h http.Handler) http.Handler { return auth.Handler(h) }

	// ================================
	// Me
	// ================================
	mux.Handle("/console/me", protect(consoleHandler.NewMeHandler()))

	// ================================
	// Categories / Subcategories / Products
	// ================================
	if deps.CatalogAdminUC != nil {
		cat := protect(consoleHandler.NewCategoryHandler(deps.CatalogAdminUC))
		mux.Handle("/console/categories", cat)
		mux.Handle("/console/categories/", cat)
		mux.Handle("/console/subcategories", cat)
		mux.Handle("/console/subcategories/", cat)

		prod := protect(consoleHandler.NewProductHandler(deps.CatalogAdminUC))
		mux.Handle("/console/products", prod)
		mux.Handle("/console/products/", prod)
	} else {
		log.Printf("[console.router] WARN: CatalogAdminUC is nil; catalog routes are not registered")
	}

	// ================================
	// Orders
	// ================================
	if deps.OrderUC != nil {
		h := protect(consoleHandler.NewOrderHandler(deps.OrderUC))
		mux.Handle("/console/orders", h)
		mux.Handle("/console/orders/", h)
	} else {
		log.Printf("[console.router] WARN: OrderUC is nil; order routes are not registered")
	}

	// ================================
	// Contact
	// ================================
	if deps.ContactUC != nil {
		h := protect(consoleHandler.NewContactHandler(deps.ContactUC))
		mux.Handle("/console/contact", h)
		mux.Handle("/console/contact/", h)
	}
}
