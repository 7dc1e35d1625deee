// internal/platform/di/console/router_di.go
package console

import (
	"net/http"

	httpin "storefront/internal/adapters/in/http/console"
)

// BuildConsoleRouterDeps maps the container onto the console router deps.
func BuildConsoleRouterDeps(c *Container) httpin.RouterDeps {
	return httpin.RouterDeps{
		CatalogAdminUC: c.CatalogAdminUC,
		OrderUC:        c.OrderUC,
		ContactUC:      c.ContactUC,
		Auth:           c.Auth,
	}
}

// Register registers console routes onto mux.
func Register(mux *http.ServeMux, c *Container) {
	if mux == nil || c == nil {
		return
	}
	httpin.Register(mux, BuildConsoleRouterDeps(c))
}
