// internal/platform/di/store/register.go
package store

import (
	"net/http"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	storehttp "storefront/internal/adapters/in/http/store"
	storeHandler "storefront/internal/adapters/in/http/store/handler"
)

// Register registers storefront routes onto mux.
// Pure DI: construct handlers and pass into store router.Register.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	session := middleware.CartSession{
		CookieTTL: sessionCookieTTL(cont),
		Secure:    true,
	}

	storehttp.Register(mux, storehttp.Deps{
		Catalog:           storeHandler.NewCatalogHandler(cont.Catalog),
		Cart:              storeHandler.NewCartHandler(cont.CartUC),
		Checkout:          storeHandler.NewCheckoutHandler(cont.CheckoutUC),
		Contact:           storeHandler.NewContactHandler(cont.ContactUC),
		SessionMiddleware: session.Handler,
	})
}

// cookie は保存期間 (CART_TTL) と揃える
func sessionCookieTTL(cont *Container) time.Duration {
	if cont.Infra != nil && cont.Infra.Config != nil && cont.Infra.Config.CartTTL > 0 {
		return cont.Infra.Config.CartTTL
	}
	return 7 * 24 * time.Hour
}
