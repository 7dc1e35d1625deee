package storeHandler

import (
	"net/http"

	"storefront/internal/adapters/in/http/handlers/common"
	usecase "storefront/internal/application/usecase"
)

// ContactHandler: GET /store/contact (読み込み失敗時は空の情報を返す)
type ContactHandler struct {
	uc *usecase.ContactUsecase
}

func NewContactHandler(uc *usecase.ContactUsecase) http.Handler {
	return &ContactHandler{uc: uc}
}

func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		common.MethodNotAllowed(w, r)
		return
	}
	common.WriteJSON(w, http.StatusOK, h.uc.Public(r.Context()))
}
