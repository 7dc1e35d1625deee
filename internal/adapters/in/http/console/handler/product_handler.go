// backend\internal\adapters\in\http\console\handler\product_handler.go
package consoleHandler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/adapters/in/http/handlers/common"
	usecase "storefront/internal/application/usecase"
	"storefront/internal/domain/catalog"
)

// ProductHandler は /console/products 関連のエンドポイントを担当します。
//
//	GET    /console/products?categoryId=&subcategoryId=&q=
//	GET    /console/products/{id}
//	POST   /console/products         multipart: product (JSON), mainImage, gallery (複数) / JSON のみも可
//	PATCH  /console/products/{id}    JSON patch
//	DELETE /console/products/{id}
type ProductHandler struct {
	uc *usecase.CatalogAdminUsecase
}

func NewProductHandler(uc *usecase.CatalogAdminUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

// productPatchRequest: 省略したフィールドは変更しない。
type productPatchRequest struct {
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Price         *decimal.Decimal      `json:"price"`
	CategoryID    *string               `json:"categoryId"`
	SubcategoryID *string               `json:"subcategoryId"`
	Colors        *[]string             `json:"colors"`
	UnitOptions   *[]catalog.UnitOption `json:"unitOptions"`
	MainImageURL  *string               `json:"mainImageUrl"`
	GalleryURLs   *[]string             `json:"galleryUrls"`
	Materials     *string               `json:"materials"`
	Features      *[]string             `json:"features"`
}

func (p productPatchRequest) toPatch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		CategoryID:    p.CategoryID,
		SubcategoryID: p.SubcategoryID,
		Colors:        p.Colors,
		UnitOptions:   p.UnitOptions,
		MainImageURL:  p.MainImageURL,
		GalleryURLs:   p.GalleryURLs,
		Materials:     p.Materials,
		Features:      p.Features,
	}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	if path == "/console/products" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			common.MethodNotAllowed(w, r)
		}
		return
	}

	id, ok := common.PathID(path, "/console/products/")
	if !ok {
		common.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := h.uc.Product(r.Context(), id)
		if err != nil {
			common.WriteDomainError(w, r, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, p)
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
			common.WriteDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		common.MethodNotAllowed(w, r)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ps, err := h.uc.Products(r.Context(), catalog.ProductFilter{
		CategoryID:    strings.TrimSpace(q.Get("categoryId")),
		SubcategoryID: strings.TrimSpace(q.Get("subcategoryId")),
		Term:          strings.TrimSpace(q.Get("q")),
	})
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]any{"items": ps})
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateProductInput

	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("product")), &in.Product); err != nil {
			common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}
		// colors は CSV でも受け付ける
		if len(in.Product.Colors) == 0 {
			in.Product.Colors = splitCSV(r.FormValue("colors"))
		}
		var err error
		if in.MainImage, err = formImage(r, "mainImage"); err == nil {
			in.Gallery, err = formImages(r, "gallery")
		}
		if err != nil {
			log.Printf("[console.product] image rejected: %v", err)
			common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
			return
		}
	} else if err := common.DecodeJSON(r, &in.Product); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), in)
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	log.Printf("[console.product] created id=%s code=%s", p.ID, p.Code())
	common.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req productPatchRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := h.uc.UpdateProduct(r.Context(), id, req.toPatch())
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, p)
}
