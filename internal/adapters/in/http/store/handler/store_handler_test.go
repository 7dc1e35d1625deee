package storeHandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/adapters/out/localstore"
	"storefront/internal/adapters/out/memory"
	usecase "storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
)

type storeFixture struct {
	mux    *http.ServeMux
	orders *memory.OrderRepositoryMem
	sid    string
}

func newStoreFixture(t *testing.T) storeFixture {
	t.Helper()
	read := memory.NewCatalogRepositoryMem(
		[]catalog.Category{{ID: "fabrics", Name: "Fabrics"}},
		nil,
		[]catalog.Product{
			{ID: "P1", Name: "Velvet", CategoryID: "fabrics", Price: decimal.NewFromInt(10), Colors: []string{"red"}},
			{ID: "P2", Name: "Silk", CategoryID: "fabrics", Price: decimal.NewFromInt(25), Sequence: 7},
		},
	)
	store := localstore.NewMemoryStore()
	carts := usecase.NewCartUsecase(func(sid string) cartdom.LocalStorage {
		return localstore.Namespace(store, sid)
	}, read)
	orders := memory.NewOrderRepositoryMem()
	checkout := usecase.NewCheckoutUsecase(carts, orders, time.UTC)
	contactUC := usecase.NewContactUsecase(memory.NewContactRepositoryMem(), nil, nil)

	mux := http.NewServeMux()
	session := middleware.CartSession{}.Handler
	wrap := func(h http.Handler) http.Handler { return middleware.Language(h) }
	mux.Handle("/store/products", wrap(NewCatalogHandler(read)))
	mux.Handle("/store/products/", wrap(NewCatalogHandler(read)))
	mux.Handle("/store/categories", wrap(NewCatalogHandler(read)))
	mux.Handle("/store/cart", wrap(session(NewCartHandler(carts))))
	mux.Handle("/store/cart/", wrap(session(NewCartHandler(carts))))
	mux.Handle("/store/checkout", wrap(session(NewCheckoutHandler(checkout))))
	mux.Handle("/store/contact", wrap(NewContactHandler(contactUC)))

	return storeFixture{mux: mux, orders: orders, sid: uuid.NewString()}
}

func (f storeFixture) do(t *testing.T, method, path string, body any, lang string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(middleware.CartSessionHeader, f.sid)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCatalogHandler(t *testing.T) {
	f := newStoreFixture(t)

	rec := f.do(t, http.MethodGet, "/store/products?q=sil", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Items []struct {
			ID    string `json:"id"`
			Code  string `json:"code"`
			Units []struct {
				Type         string `json:"type"`
				DisplayLabel string `json:"displayLabel"`
			} `json:"units"`
		} `json:"items"`
	}](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "P2", list.Items[0].ID)
	assert.Equal(t, "PROD-000007", list.Items[0].Code)
	require.Len(t, list.Items[0].Units, 1)
	assert.Equal(t, "Piece", list.Items[0].Units[0].DisplayLabel)

	rec = f.do(t, http.MethodGet, "/store/products?maxPrice=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/store/products/nope", nil, "en")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found.", decode[map[string]any](t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/store/categories", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	f := newStoreFixture(t)

	rec := f.do(t, http.MethodPost, "/store/cart/items", map[string]string{"productId": "P1", "color": "red"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/store/cart/items", map[string]string{"productId": "P2"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[usecase.CartView](t, rec)
	assert.Equal(t, "35.00", view.Total)

	rec = f.do(t, http.MethodPost, "/store/cart/items/increment", map[string]string{"productId": "P2", "unitType": "piece"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "60.00", decode[usecase.CartView](t, rec).Total)

	rec = f.do(t, http.MethodPut, "/store/cart/items", map[string]any{"productId": "P2", "quantity": 0}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[usecase.CartView](t, rec).LineCount)

	rec = f.do(t, http.MethodPost, "/store/checkout", map[string]string{"customerName": " "}, "ar")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decode[map[string]any](t, rec)
	assert.Equal(t, "name_required", errBody["error"])
	assert.Equal(t, "customerName", errBody["field"])
	assert.Equal(t, "يرجى إدخال الاسم.", errBody["message"])

	rec = f.do(t, http.MethodPost, "/store/checkout", map[string]string{"customerName": "Layla", "phone": "0500"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	conf := decode[struct {
		OrderNumber  string `json:"orderNumber"`
		CustomerInfo struct {
			Name string `json:"name"`
		} `json:"customerInfo"`
		CartSnapshot struct {
			Lines []json.RawMessage `json:"lines"`
		} `json:"cartSnapshot"`
	}](t, rec)
	assert.Regexp(t, `^\d{4}-\d{2}-0001$`, conf.OrderNumber)
	assert.Equal(t, "Layla", conf.CustomerInfo.Name)
	assert.Len(t, conf.CartSnapshot.Lines, 1)
	assert.Equal(t, 1, f.orders.Len())

	rec = f.do(t, http.MethodGet, "/store/cart", nil, "")
	assert.Empty(t, decode[usecase.CartView](t, rec).Lines)

	rec = f.do(t, http.MethodPost, "/store/checkout", map[string]string{"customerName": "Layla"}, "en")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Your cart is empty.", decode[map[string]any](t, rec)["message"])
}

func TestCheckout_StorageFailureIs503(t *testing.T) {
	f := newStoreFixture(t)
	f.orders.FailCreate = func(orderdom.Order) error { return orderdom.ErrUnavailable }

	f.do(t, http.MethodPost, "/store/cart/items", map[string]string{"productId": "P2"}, "")
	rec := f.do(t, http.MethodPost, "/store/checkout", map[string]string{"customerName": "Layla"}, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "storage_unavailable", body["error"])
	assert.Equal(t, true, body["retryable"])

	rec = f.do(t, http.MethodGet, "/store/cart", nil, "")
	assert.Len(t, decode[usecase.CartView](t, rec).Lines, 1)
}

func TestCartHandler_Errors(t *testing.T) {
	f := newStoreFixture(t)

	rec := f.do(t, http.MethodPost, "/store/cart/items", map[string]string{"productId": "P1", "color": "green"}, "en")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_color", decode[map[string]any](t, rec)["error"])

	rec = f.do(t, http.MethodDelete, "/store/cart/items", map[string]string{"productId": "P1"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/store/cart/items", map[string]string{"productId": "P1"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/store/cart", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestContactHandler(t *testing.T) {
	f := newStoreFixture(t)
	rec := f.do(t, http.MethodGet, "/store/contact", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode[map[string]any](t, rec)["phone"])
}
