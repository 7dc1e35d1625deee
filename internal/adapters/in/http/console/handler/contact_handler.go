// backend\internal\adapters\in\http\console\handler\contact_handler.go
package consoleHandler

import (
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/handlers/common"
	usecase "storefront/internal/application/usecase"
	"storefront/internal/domain/contact"
)

// ContactHandler:
//
//	GET  /console/contact
//	PUT  /console/contact
//	POST /console/contact/whatsapp-qr
type ContactHandler struct {
	uc *usecase.ContactUsecase
}

func NewContactHandler(uc *usecase.ContactUsecase) http.Handler {
	return &ContactHandler{uc: uc}
}

func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch path := strings.TrimRight(r.URL.Path, "/"); {
	case path == "/console/contact" && r.Method == http.MethodGet:
		info, err := h.uc.Get(r.Context())
		h.respond(w, r, info, err)
	case path == "/console/contact" && (r.Method == http.MethodPut || r.Method == http.MethodPost):
		var in contact.Info
		if err := common.DecodeJSON(r, &in); err != nil {
			common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}
		info, err := h.uc.Save(r.Context(), in)
		h.respond(w, r, info, err)
	case path == "/console/contact/whatsapp-qr" && r.Method == http.MethodPost:
		info, err := h.uc.GenerateWhatsappQR(r.Context())
		h.respond(w, r, info, err)
	case path == "/console/contact", path == "/console/contact/whatsapp-qr":
		common.MethodNotAllowed(w, r)
	default:
		common.NotFound(w, r)
	}
}

func (h *ContactHandler) respond(w http.ResponseWriter, r *http.Request, info contact.Info, err error) {
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, info)
}
