package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"storefront/internal/adapters/in/http/middleware"
	usecase "storefront/internal/application/usecase"
	admindom "storefront/internal/domain/admin"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/contact"
	orderdom "storefront/internal/domain/order"
)

// MaxJSONBody はリクエスト JSON の上限。
const MaxJSONBody = 1 << 20

// ------------------------------
// Utility functions
// ------------------------------

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON error envelope. Message is localized (ar / en).
type ErrorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// WriteError writes code with its localized message.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code string) {
	WriteJSON(w, status, ErrorBody{Error: code, Message: Message(middleware.RequestLanguage(r), code)})
}

// MethodNotAllowed writes 405 response.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed")
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusNotFound, "not_found")
}

// DecodeJSON decodes a bounded JSON body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// NormalizeStrPtr trims a *string; empty/blank becomes nil.
func NormalizeStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

// QueryInt parses ?key= as int. 不正値は def。
func QueryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// PathID returns the single segment after prefix ("/console/orders/" + "2025-06-0001").
// 余分なセグメントがあれば ok=false。
func PathID(path, prefix string) (string, bool) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// ------------------------------
// Error mapping
// ------------------------------

// WriteDomainError maps domain / usecase errors to status codes.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *usecase.CheckoutError
	if errors.As(err, &ce) {
		status, code := checkoutStatus(ce)
		WriteJSON(w, status, ErrorBody{
			Error:     code,
			Message:   Message(middleware.RequestLanguage(r), code),
			Field:     ce.Field,
			Retryable: ce.Retryable(),
		})
		return
	}
	status, code := StatusOf(err)
	WriteError(w, r, status, code)
}

func checkoutStatus(ce *usecase.CheckoutError) (int, string) {
	switch ce.Kind {
	case usecase.CheckoutValidation:
		switch {
		case errors.Is(ce.Err, usecase.ErrCartEmpty):
			return http.StatusBadRequest, "cart_empty"
		case errors.Is(ce.Err, usecase.ErrNameRequired):
			return http.StatusBadRequest, "name_required"
		case errors.Is(ce.Err, orderdom.ErrInvalidEmail):
			return http.StatusBadRequest, "invalid_email"
		}
		return http.StatusBadRequest, "invalid_input"
	case usecase.CheckoutInFlight:
		return http.StatusConflict, "checkout_in_flight"
	case usecase.CheckoutWriteConflict:
		return http.StatusConflict, "write_conflict"
	case usecase.CheckoutStorageUnavailable:
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusServiceUnavailable, "network_failure"
	}
}

// StatusOf returns (status, code) for non-checkout errors.
func StatusOf(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, usecase.ErrCartLineNotFound), errors.Is(err, admindom.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrConflict), errors.Is(err, orderdom.ErrConflict):
		return http.StatusConflict, "write_conflict"
	case errors.Is(err, orderdom.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, orderdom.ErrUnavailable),
		errors.Is(err, usecase.ErrImageStoreMissing):
		return http.StatusServiceUnavailable, "storage_unavailable"
	case errors.Is(err, admindom.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, catalog.ErrInvalidName), errors.Is(err, orderdom.ErrInvalidCustomerName):
		return http.StatusBadRequest, "name_required"
	case errors.Is(err, orderdom.ErrInvalidEmail), errors.Is(err, contact.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid_email"
	case errors.Is(err, catalog.ErrInvalidUnitType), errors.Is(err, usecase.ErrCartUnknownUnit):
		return http.StatusBadRequest, "invalid_unit"
	case errors.Is(err, usecase.ErrCartUnknownColor):
		return http.StatusBadRequest, "invalid_color"
	case errors.Is(err, contact.ErrNoWhatsApp):
		return http.StatusBadRequest, "whatsapp_missing"
	case errors.Is(err, catalog.ErrInvalidCategoryID), errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidPiecesPerUnit), errors.Is(err, catalog.ErrDuplicateUnitType),
		errors.Is(err, orderdom.ErrInvalidStatus), errors.Is(err, orderdom.ErrInvalidID),
		errors.Is(err, contact.ErrInvalidURL), errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, usecase.ErrCartSessionRequired), errors.Is(err, usecase.ErrOrderNoChanges):
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ------------------------------
// Messages (ar / en)
// ------------------------------

var messages = map[string]map[language.Tag]string{
	"not_found":           {language.English: "Not found.", language.Arabic: "غير موجود."},
	"method_not_allowed":  {language.English: "Method not allowed.", language.Arabic: "الطريقة غير مسموح بها."},
	"invalid_input":       {language.English: "Some of the entered data is invalid.", language.Arabic: "بعض البيانات المدخلة غير صالحة."},
	"invalid_json":        {language.English: "The request body is not valid JSON.", language.Arabic: "نص الطلب ليس JSON صالحًا."},
	"invalid_email":       {language.English: "Please enter a valid email address.", language.Arabic: "يرجى إدخال بريد إلكتروني صالح."},
	"invalid_unit":        {language.English: "This unit is not available for the product.", language.Arabic: "هذه الوحدة غير متوفرة لهذا المنتج."},
	"invalid_color":       {language.English: "This color is not available for the product.", language.Arabic: "هذا اللون غير متوفر لهذا المنتج."},
	"invalid_transition":  {language.English: "The order cannot move to that status.", language.Arabic: "لا يمكن نقل الطلب إلى هذه الحالة."},
	"cart_empty":          {language.English: "Your cart is empty.", language.Arabic: "سلة التسوق فارغة."},
	"name_required":       {language.English: "Please enter your name.", language.Arabic: "يرجى إدخال الاسم."},
	"checkout_in_flight":  {language.English: "Your order is already being submitted.", language.Arabic: "يتم إرسال طلبك بالفعل."},
	"write_conflict":      {language.English: "Another order was saved at the same moment. Please try again.", language.Arabic: "تم حفظ طلب آخر في نفس اللحظة. يرجى المحاولة مرة أخرى."},
	"storage_unavailable": {language.English: "The store is temporarily unavailable. Please try again.", language.Arabic: "المتجر غير متاح مؤقتًا. يرجى المحاولة مرة أخرى."},
	"network_failure":     {language.English: "Network error. Please try again.", language.Arabic: "خطأ في الشبكة. يرجى المحاولة مرة أخرى."},
	"whatsapp_missing":    {language.English: "Set a WhatsApp link first.", language.Arabic: "يرجى إضافة رابط واتساب أولاً."},
	"unauthorized":        {language.English: "Please sign in.", language.Arabic: "يرجى تسجيل الدخول."},
	"forbidden":           {language.English: "You do not have access.", language.Arabic: "ليس لديك صلاحية الوصول."},
	"internal":            {language.English: "Something went wrong.", language.Arabic: "حدث خطأ ما."},
}

// Message returns the localized text for code (English if the language is missing).
func Message(lang language.Tag, code string) string {
	m, ok := messages[code]
	if !ok {
		m = messages["internal"]
	}
	if s, ok := m[lang]; ok {
		return s
	}
	return m[language.English]
}
