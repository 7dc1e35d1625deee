// backend\internal\adapters\in\http\console\handler\order_handler.go
package consoleHandler

import (
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/handlers/common"
	usecase "storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
)

// OrderHandler は /console/orders 関連のエンドポイントを担当します。
//
//	GET    /console/orders?status=&month=&q=&page=&perPage=
//	GET    /console/orders/{id}
//	PATCH  /console/orders/{id}          顧客情報 / notes
//	PATCH  /console/orders/{id}/status   {status}
//	DELETE /console/orders/{id}
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

type orderPatchRequest struct {
	CustomerName    *string `json:"customerName"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	RestaurantName  *string `json:"restaurantName"`
	ShippingAddress *string `json:"shippingAddress"`
	Notes           *string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	if path == "/console/orders" {
		if r.Method != http.MethodGet {
			common.MethodNotAllowed(w, r)
			return
		}
		h.list(w, r)
		return
	}

	if rest, ok := strings.CutSuffix(path, "/status"); ok {
		id, ok := common.PathID(rest, "/console/orders/")
		if !ok {
			common.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPatch && r.Method != http.MethodPut {
			common.MethodNotAllowed(w, r)
			return
		}
		h.updateStatus(w, r, id)
		return
	}

	id, ok := common.PathID(path, "/console/orders/")
	if !ok {
		common.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		o, err := h.uc.GetByID(r.Context(), id)
		if err != nil {
			common.WriteDomainError(w, r, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, o)
	case http.MethodPatch:
		h.updateFields(w, r, id)
	case http.MethodDelete:
		if err := h.uc.Delete(r.Context(), id); err != nil {
			common.WriteDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		common.MethodNotAllowed(w, r)
	}
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.uc.List(r.Context(), usecase.OrderListQuery{
		Status:  q.Get("status"),
		Month:   q.Get("month"),
		Search:  q.Get("q"),
		Page:    common.QueryInt(r, "page", 1),
		PerPage: common.QueryInt(r, "perPage", 0),
	})
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req statusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	o, err := h.uc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) updateFields(w http.ResponseWriter, r *http.Request, id string) {
	var req orderPatchRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	o, err := h.uc.UpdateFields(r.Context(), id, orderdom.Patch{
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		RestaurantName:  req.RestaurantName,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, o)
}
