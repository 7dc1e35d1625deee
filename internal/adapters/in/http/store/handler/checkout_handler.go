// internal/adapters/in/http/store/handler/checkout_handler.go
package storeHandler

import (
	"log"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/handlers/common"
	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
)

// CheckoutHandler: POST /store/checkout
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutRequest struct {
	CustomerName    string `json:"customerName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	RestaurantName  string `json:"restaurantName"`
	ShippingAddress string `json:"shippingAddress"`
	Notes           string `json:"notes"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.TrimRight(r.URL.Path, "/") != "/store/checkout" {
		common.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		common.MethodNotAllowed(w, r)
		return
	}
	if h.uc == nil {
		common.WriteError(w, r, http.StatusServiceUnavailable, "storage_unavailable")
		return
	}
	sid, ok := middleware.CartSessionID(r)
	if !ok {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
		return
	}

	var req checkoutRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	conf, err := h.uc.Submit(r.Context(), usecase.CheckoutInput{
		SessionID:       sid,
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		RestaurantName:  req.RestaurantName,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		log.Printf("[store_checkout_handler] submit failed kind=%s: %v", usecase.CheckoutErrorKindOf(err), err)
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, conf)
}
