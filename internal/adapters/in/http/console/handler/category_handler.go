// backend\internal\adapters\in\http\console\handler\category_handler.go
package consoleHandler

import (
	"context"
	"log"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/handlers/common"
	usecase "storefront/internal/application/usecase"
)

// CategoryHandler は管理画面のカテゴリ / サブカテゴリを扱う。
//
//	GET    /console/categories
//	POST   /console/categories          (multipart: name, description, image / JSON)
//	DELETE /console/categories/{id}
//	GET    /console/subcategories?categoryId=
//	POST   /console/subcategories       (multipart: categoryId, name, description, image / JSON)
//	DELETE /console/subcategories/{id}
type CategoryHandler struct {
	uc *usecase.CatalogAdminUsecase
}

func NewCategoryHandler(uc *usecase.CatalogAdminUsecase) http.Handler {
	return &CategoryHandler{uc: uc}
}

type categoryRequest struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case path == "/console/categories":
		switch r.Method {
		case http.MethodGet:
			cs, err := h.uc.Categories(r.Context())
			if err != nil {
				common.WriteDomainError(w, r, err)
				return
			}
			common.WriteJSON(w, http.StatusOK, map[string]any{"items": cs})
		case http.MethodPost:
			h.create(w, r, false)
		default:
			common.MethodNotAllowed(w, r)
		}

	case path == "/console/subcategories":
		switch r.Method {
		case http.MethodGet:
			ss, err := h.uc.Subcategories(r.Context(), strings.TrimSpace(r.URL.Query().Get("categoryId")))
			if err != nil {
				common.WriteDomainError(w, r, err)
				return
			}
			common.WriteJSON(w, http.StatusOK, map[string]any{"items": ss})
		case http.MethodPost:
			h.create(w, r, true)
		default:
			common.MethodNotAllowed(w, r)
		}

	case strings.HasPrefix(path, "/console/categories/"):
		h.delete(w, r, path, "/console/categories/", h.uc.DeleteCategory)
	case strings.HasPrefix(path, "/console/subcategories/"):
		h.delete(w, r, path, "/console/subcategories/", h.uc.DeleteSubcategory)
	default:
		common.NotFound(w, r)
	}
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request, sub bool) {
	var (
		req categoryRequest
		img *usecase.ImageUpload
	)
	if isMultipart(r) {
		if err := parseMultipart(w, r); err != nil {
			common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
			return
		}
		req = categoryRequest{
			CategoryID:  r.FormValue("categoryId"),
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
		}
		var err error
		if img, err = formImage(r, "image"); err != nil {
			log.Printf("[console.category] image rejected: %v", err)
			common.WriteError(w, r, http.StatusBadRequest, "invalid_input")
			return
		}
	} else if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	ctx := r.Context()
	if sub {
		s, err := h.uc.CreateSubcategory(ctx, usecase.CreateSubcategoryInput{
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Description: req.Description,
			Image:       img,
		})
		if err != nil {
			common.WriteDomainError(w, r, err)
			return
		}
		common.WriteJSON(w, http.StatusCreated, s)
		return
	}

	c, err := h.uc.CreateCategory(ctx, usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       img,
	})
	if err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request, path, prefix string, del func(context.Context, string) error) {
	if r.Method != http.MethodDelete {
		common.MethodNotAllowed(w, r)
		return
	}
	id, ok := common.PathID(path, prefix)
	if !ok {
		common.NotFound(w, r)
		return
	}
	if err := del(r.Context(), id); err != nil {
		common.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
