package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/adapters/out/memory"
	usecase "storefront/internal/application/usecase"
	admindom "storefront/internal/domain/admin"
	"storefront/internal/domain/catalog"
	orderdom "storefront/internal/domain/order"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, tok string) (*fbauth.Token, error) {
	switch tok {
	case "admin-token":
		return &fbauth.Token{UID: "admin-1", Claims: map[string]any{"email": "owner@example.com"}}, nil
	case "guest-token":
		return &fbauth.Token{UID: "guest"}, nil
	}
	return nil, errors.New("bad token")
}

type stubProfiles struct{}

func (stubProfiles) GetByUID(_ context.Context, uid string) (admindom.Profile, error) {
	if uid == "admin-1" {
		return admindom.Profile{UID: uid, DisplayName: "Owner", Role: "owner"}, nil
	}
	return admindom.Profile{}, admindom.ErrNotFound
}

type memImages struct{ uploaded []string }

func (m *memImages) Upload(_ context.Context, path, _ string, _ []byte) (string, error) {
	m.uploaded = append(m.uploaded, path)
	return "https://cdn.example.com/" + path, nil
}

func (m *memImages) DeleteByURL(context.Context, string) error { return nil }

type pngQR struct{}

func (pngQR) PNG(content string) ([]byte, error) { return []byte(content), nil }

type consoleFixture struct {
	h      http.Handler
	images *memImages
}

func newConsoleFixture(t *testing.T) consoleFixture {
	t.Helper()
	catalogRepo := memory.NewCatalogRepositoryMem(
		[]catalog.Category{{ID: "fabrics", Name: "Fabrics"}}, nil, nil,
	)
	orders := memory.NewOrderRepositoryMem()
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	o := orderdom.Order{
		Customer:  orderdom.Customer{Name: "Layla", RestaurantName: "Bab"},
		Status:    orderdom.StatusPending,
		CreatedAt: at,
		Items:     []orderdom.Item{{ProductID: "P", UnitType: catalog.UnitPiece, Quantity: 2, UnitPrice: decimal.NewFromInt(5)}},
	}
	o.AssignNumber(orderdom.NumberFor(at, 1))
	orders.Seed(o)

	images := &memImages{}
	h := NewRouter(RouterDeps{
		CatalogAdminUC: usecase.NewCatalogAdminUsecase(catalogRepo, images),
		OrderUC:        usecase.NewOrderUsecase(orders),
		ContactUC:      usecase.NewContactUsecase(memory.NewContactRepositoryMem(), pngQR{}, images),
		Auth:           &middleware.AdminAuth{Verifier: stubVerifier{}, Profiles: stubProfiles{}},
	})
	return consoleFixture{h: h, images: images}
}

func (f consoleFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func TestConsole_AuthGate(t *testing.T) {
	f := newConsoleFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/console/orders", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/console/orders", "nope", nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/console/orders", "guest-token", nil).Code)

	rec := f.do(t, http.MethodGet, "/console/me", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me admindom.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "admin-1", me.UID)
	assert.Equal(t, "owner@example.com", me.Email)
}

func TestConsole_NoAuthConfiguredIs503(t *testing.T) {
	h := NewRouter(RouterDeps{OrderUC: usecase.NewOrderUsecase(memory.NewOrderRepositoryMem())})
	req := httptest.NewRequest(http.MethodGet, "/console/orders", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConsole_Orders(t *testing.T) {
	f := newConsoleFixture(t)
	const tok = "admin-token"

	rec := f.do(t, http.MethodGet, "/console/orders?month=202506&q=bab", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items      []orderdom.Order `json:"items"`
		TotalCount int              `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2025-06-0001", page.Items[0].Number)

	rec = f.do(t, http.MethodGet, "/console/orders?status=lost", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/console/orders/2025-06-0001/status", tok, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	rec = f.do(t, http.MethodPatch, "/console/orders/2025-06-0001/status", tok, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPatch, "/console/orders/2025-06-0001", tok, map[string]string{"phone": "0555"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"phone":"0555"`)

	rec = f.do(t, http.MethodPatch, "/console/orders/2025-06-0001", tok, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/console/orders/2025-06-0001", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/console/orders/2025-06-0001", tok, nil).Code)
}

func TestConsole_CatalogCRUD(t *testing.T) {
	f := newConsoleFixture(t)
	const tok = "admin-token"

	rec := f.do(t, http.MethodPost, "/console/subcategories", tok, map[string]string{"categoryId": "fabrics", "name": "Velvet"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sub catalog.Subcategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))

	rec = f.do(t, http.MethodPost, "/console/subcategories", tok, map[string]string{"categoryId": "missing", "name": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// multipart product with a main image
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("product", `{"name":"Crushed velvet","price":"12.5","categoryId":"fabrics","subcategoryId":"`+sub.ID+`"}`))
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="mainImage"; filename="a.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/console/products", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.NotEmpty(t, p.ID)
	assert.True(t, strings.HasPrefix(p.MainImageURL, "https://cdn.example.com/products/main/"))
	require.Len(t, f.images.uploaded, 1)

	rec = f.do(t, http.MethodPatch, "/console/products/"+p.ID, tok, map[string]any{"price": "15"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(15)))

	rec = f.do(t, http.MethodPatch, "/console/products/"+p.ID, tok, map[string]any{"price": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/console/products?q=crushed", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), p.ID)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/console/products/"+p.ID, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/console/products/"+p.ID, tok, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodPut, "/console/categories", tok, nil).Code)
}

func TestConsole_Contact(t *testing.T) {
	f := newConsoleFixture(t)
	const tok = "admin-token"

	rec := f.do(t, http.MethodPost, "/console/contact/whatsapp-qr", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/console/contact", tok, map[string]string{
		"phone":       "+966 11 000 0000",
		"whatsappUrl": "https://wa.me/966500000000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/console/contact/whatsapp-qr", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "settings/whatsapp-qr.png")
}
