// internal/adapters/in/http/store/handler/cart_handler.go
package storeHandler

import (
	"log"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/handlers/common"
	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

// CartHandler serves the session cart:
//
//	GET    /store/cart
//	DELETE /store/cart
//	POST   /store/cart/items            {productId, unitType?, color?}
//	PUT    /store/cart/items            {productId, unitType, color, quantity}
//	POST   /store/cart/items/increment  {productId, unitType, color}
//	POST   /store/cart/items/decrement  {productId, unitType, color}
//	DELETE /store/cart/items            {productId, unitType, color}
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

type lineRequest struct {
	ProductID string   `json:"productId"`
	UnitType  string   `json:"unitType"`
	Color     string   `json:"color"`
	Quantity  *float64 `json:"quantity,omitempty"`
}

func (req lineRequest) key() (cartdom.LineKey, error) {
	t := catalog.UnitPiece
	if strings.TrimSpace(req.UnitType) != "" {
		parsed, err := catalog.ParseUnitType(req.UnitType)
		if err != nil {
			return cartdom.LineKey{}, err
		}
		t = parsed
	}
	return cartdom.NewLineKey(req.ProductID, t, req.Color), nil
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		log.Printf("[store_cart_handler] cart usecase is nil")
		common.WriteError(w, r, http.StatusServiceUnavailable, "storage_unavailable")
		return
	}
	sid, ok := middleware.CartSessionID(r)
	if !ok {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case path == "/store/cart" && r.Method == http.MethodGet:
		h.respond(w, r)(h.uc.View(r.Context(), sid))
	case path == "/store/cart" && r.Method == http.MethodDelete:
		h.respond(w, r)(h.uc.Clear(r.Context(), sid))
	case path == "/store/cart/items" && r.Method == http.MethodPost:
		h.handleAdd(w, r, sid)
	case path == "/store/cart/items" && r.Method == http.MethodPut:
		h.handleLine(w, r, sid, "set")
	case path == "/store/cart/items" && r.Method == http.MethodDelete:
		h.handleLine(w, r, sid, "remove")
	case path == "/store/cart/items/increment" && r.Method == http.MethodPost:
		h.handleLine(w, r, sid, "inc")
	case path == "/store/cart/items/decrement" && r.Method == http.MethodPost:
		h.handleLine(w, r, sid, "dec")
	case path == "/store/cart" || strings.HasPrefix(path, "/store/cart/items"):
		common.MethodNotAllowed(w, r)
	default:
		common.NotFound(w, r)
	}
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request, sid string) {
	var req lineRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	h.respond(w, r)(h.uc.Add(r.Context(), sid, usecase.AddToCartInput{
		ProductID: req.ProductID,
		UnitType:  req.UnitType,
		Color:     req.Color,
	}))
}

func (h *CartHandler) handleLine(w http.ResponseWriter, r *http.Request, sid, op string) {
	var req lineRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	key, err := req.key()
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}

	ctx := r.Context()
	switch op {
	case "set":
		if req.Quantity == nil {
			common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
			return
		}
		h.respond(w, r)(h.uc.SetQuantity(ctx, sid, key, *req.Quantity))
	case "inc":
		h.respond(w, r)(h.uc.Increment(ctx, sid, key))
	case "dec":
		h.respond(w, r)(h.uc.Decrement(ctx, sid, key))
	default:
		h.respond(w, r)(h.uc.Remove(ctx, sid, key))
	}
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request) func(usecase.CartView, error) {
	return func(v usecase.CartView, err error) {
		if err != nil {
			common.WriteDomainError(w, r, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, v)
	}
}
