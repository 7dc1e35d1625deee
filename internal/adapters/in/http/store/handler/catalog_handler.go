// internal/adapters/in/http/store/handler/catalog_handler.go
package storeHandler

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/adapters/in/http/handlers/common"
	"storefront/internal/domain/catalog"
)

// CatalogHandler serves the read-only catalog:
//
//	GET /store/categories[/{id}]
//	GET /store/subcategories[/{id}]?categoryId=
//	GET /store/products[/{id}]?categoryId=&subcategoryId=&q=&color=&maxPrice=
type CatalogHandler struct {
	read catalog.ReadModel
}

func NewCatalogHandler(read catalog.ReadModel) http.Handler {
	return &CatalogHandler{read: read}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		common.MethodNotAllowed(w, r)
		return
	}
	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case path == "/store/categories":
		h.listCategories(w, r)
	case strings.HasPrefix(path, "/store/categories/"):
		h.getCategory(w, r, path)
	case path == "/store/subcategories":
		h.listSubcategories(w, r)
	case strings.HasPrefix(path, "/store/subcategories/"):
		h.getSubcategory(w, r, path)
	case path == "/store/products":
		h.listProducts(w, r)
	case strings.HasPrefix(path, "/store/products/"):
		h.getProduct(w, r, path)
	default:
		common.NotFound(w, r)
	}
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.read.Categories(r.Context())
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"items": cs})
}

func (h *CatalogHandler) getCategory(w http.ResponseWriter, r *http.Request, path string) {
	id, ok := common.PathID(path, "/store/categories/")
	if !ok {
		common.NotFound(w, r)
		return
	}
	c, err := h.read.Category(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) listSubcategories(w http.ResponseWriter, r *http.Request) {
	ss, err := h.read.Subcategories(r.Context(), strings.TrimSpace(r.URL.Query().Get("categoryId")))
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"items": ss})
}

func (h *CatalogHandler) getSubcategory(w http.ResponseWriter, r *http.Request, path string) {
	id, ok := common.PathID(path, "/store/subcategories/")
	if !ok {
		common.NotFound(w, r)
		return
	}
	s, err := h.read.Subcategory(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.ProductFilter{
		CategoryID:    strings.TrimSpace(q.Get("categoryId")),
		SubcategoryID: strings.TrimSpace(q.Get("subcategoryId")),
		Term:          strings.TrimSpace(q.Get("q")),
		Color:         strings.TrimSpace(q.Get("color")),
	}
	if raw := strings.TrimSpace(q.Get("maxPrice")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
			return
		}
		f.MaxPrice = &d
	}

	ps, err := h.read.Products(r.Context(), f)
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProductView(p))
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request, path string) {
	id, ok := common.PathID(path, "/store/products/")
	if !ok {
		common.NotFound(w, r)
		return
	}
	p, err := h.read.Product(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, newProductView(p))
}

// productView は Product に表示用の code と実効単位 (units) を足したもの。
type productView struct {
	catalog.Product
	Code  string           `json:"code,omitempty"`
	Units []unitOptionView `json:"units"`
}

type unitOptionView struct {
	catalog.UnitOption
	DisplayLabel string `json:"displayLabel"`
}

func newProductView(p catalog.Product) productView {
	v := productView{Product: p, Code: p.Code()}
	for _, u := range p.Units() {
		v.Units = append(v.Units, unitOptionView{UnitOption: u, DisplayLabel: u.DisplayLabel()})
	}
	return v
}
