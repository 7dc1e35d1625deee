package consoleHandler

import (
	"net/http"

	"storefront/internal/adapters/in/http/handlers/common"
	"storefront/internal/adapters/in/http/middleware"
)

// MeHandler: GET /console/me (AdminAuth が解決したプロフィール)
type MeHandler struct{}

func NewMeHandler() http.Handler { return MeHandler{} }

func (MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		common.MethodNotAllowed(w, r)
		return
	}
	p, ok := middleware.CurrentAdmin(r)
	if !ok {
		common.WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	common.WriteJSON(w, http.StatusOK, p)
}
