// internal/adapters/in/http/middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns a CORS wrapper for the storefront / console frontends.
// allowedOrigins が空なら全オリジン許可 (開発用)。本番は CORS_ALLOWED_ORIGINS で絞る。
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language", CartSessionHeader},
		ExposedHeaders:   []string{CartSessionHeader},
		AllowCredentials: len(allowedOrigins) > 0,
		MaxAge:           600,
	}
	if len(allowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler
}
