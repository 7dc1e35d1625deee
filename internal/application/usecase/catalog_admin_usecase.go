package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain/catalog"
)

// ImageStore is an outbound port (Cloud Storage).
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
	DeleteByURL(ctx context.Context, publicURL string) error
}

// ImageUpload is one file from a multipart form.
type ImageUpload struct {
	ContentType string
	Data        []byte
}

func (i *ImageUpload) empty() bool { return i == nil || len(i.Data) == 0 }

// Object path prefixes in the images bucket.
const (
	ImagePathCategories     = "categories"
	ImagePathSubcategories  = "subcategories"
	ImagePathProductMain    = "products/main"
	ImagePathProductGallery = "products/gallery"
)

var ErrImageStoreMissing = errors.New("catalog_admin: image store is not configured")

type CreateCategoryInput struct {
	Name        string
	Description string
	Image       *ImageUpload
	ImageURL    string // 既存の公開 URL。Image があればそちらが優先
}

type CreateSubcategoryInput struct {
	CategoryID  string
	Name        string
	Description string
	Image       *ImageUpload
	ImageURL    string
}

type CreateProductInput struct {
	Product   catalog.Product // ID / Sequence / CreatedAt / image URL は無視
	MainImage *ImageUpload
	Gallery   []ImageUpload
}

// CatalogAdminUsecase is the console-side catalog management.
type CatalogAdminUsecase struct {
	repo   catalog.Repository
	images ImageStore
	now    func() time.Time
	newID  func() string
}

func NewCatalogAdminUsecase(repo catalog.Repository, images ImageStore) *CatalogAdminUsecase {
	return &CatalogAdminUsecase{
		repo:   repo,
		images: images,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Read side (console lists use the write repository directly; no live cache).

func (u *CatalogAdminUsecase) Categories(ctx context.Context) ([]catalog.Category, error) {
	return u.repo.Categories(ctx)
}

func (u *CatalogAdminUsecase) Subcategories(ctx context.Context, categoryID string) ([]catalog.Subcategory, error) {
	return u.repo.Subcategories(ctx, strings.TrimSpace(categoryID))
}

func (u *CatalogAdminUsecase) Products(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error) {
	return u.repo.Products(ctx, f)
}

func (u *CatalogAdminUsecase) Product(ctx context.Context, id string) (catalog.Product, error) {
	return u.repo.Product(ctx, strings.TrimSpace(id))
}

// =======================
// Categories
// =======================

func (u *CatalogAdminUsecase) CreateCategory(ctx context.Context, in CreateCategoryInput) (catalog.Category, error) {
	c := catalog.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   u.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return catalog.Category{}, err
	}

	url, err := u.upload(ctx, ImagePathCategories, in.Image)
	if err != nil {
		return catalog.Category{}, err
	}
	c.ImageURL = firstNonEmpty(url, in.ImageURL)

	created, err := u.repo.CreateCategory(ctx, c)
	if err != nil {
		u.discard(ctx, url)
		return catalog.Category{}, err
	}
	return created, nil
}

func (u *CatalogAdminUsecase) DeleteCategory(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	c, err := u.repo.Category(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	u.discard(ctx, c.ImageURL)
	return nil
}

// =======================
// Subcategories
// =======================

func (u *CatalogAdminUsecase) CreateSubcategory(ctx context.Context, in CreateSubcategoryInput) (catalog.Subcategory, error) {
	s := catalog.Subcategory{
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   u.now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return catalog.Subcategory{}, err
	}
	if _, err := u.repo.Category(ctx, s.CategoryID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Subcategory{}, catalog.ErrInvalidCategoryID
		}
		return catalog.Subcategory{}, err
	}

	url, err := u.upload(ctx, ImagePathSubcategories, in.Image)
	if err != nil {
		return catalog.Subcategory{}, err
	}
	s.ImageURL = firstNonEmpty(url, in.ImageURL)

	created, err := u.repo.CreateSubcategory(ctx, s)
	if err != nil {
		u.discard(ctx, url)
		return catalog.Subcategory{}, err
	}
	return created, nil
}

func (u *CatalogAdminUsecase) DeleteSubcategory(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	s, err := u.repo.Subcategory(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.DeleteSubcategory(ctx, id); err != nil {
		return err
	}
	u.discard(ctx, s.ImageURL)
	return nil
}

// =======================
// Products
// =======================

func (u *CatalogAdminUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (catalog.Product, error) {
	p := in.Product.Normalize()
	p.ID, p.Sequence = "", 0
	p.MainImageURL, p.GalleryURLs = "", nil
	p.CreatedAt = u.now().UTC()
	if err := p.Validate(); err != nil {
		return catalog.Product{}, err
	}
	if err := u.checkPlacement(ctx, p.CategoryID, p.SubcategoryID); err != nil {
		return catalog.Product{}, err
	}

	var uploaded []string
	main, err := u.upload(ctx, ImagePathProductMain, in.MainImage)
	if err != nil {
		return catalog.Product{}, err
	}
	if main != "" {
		uploaded = append(uploaded, main)
	}
	p.MainImageURL = main

	for i := range in.Gallery {
		url, err := u.upload(ctx, ImagePathProductGallery, &in.Gallery[i])
		if err != nil {
			u.discard(ctx, uploaded...)
			return catalog.Product{}, err
		}
		if url != "" {
			uploaded = append(uploaded, url)
			p.GalleryURLs = append(p.GalleryURLs, url)
		}
	}

	created, err := u.repo.CreateProduct(ctx, p)
	if err != nil {
		u.discard(ctx, uploaded...)
		return catalog.Product{}, err
	}
	return created, nil
}

func (u *CatalogAdminUsecase) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.Product, error) {
	id = strings.TrimSpace(id)
	current, err := u.repo.Product(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}
	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return catalog.Product{}, err
	}
	if patch.CategoryID != nil || patch.SubcategoryID != nil {
		if err := u.checkPlacement(ctx, next.CategoryID, next.SubcategoryID); err != nil {
			return catalog.Product{}, err
		}
	}
	return u.repo.UpdateProduct(ctx, id, patch)
}

func (u *CatalogAdminUsecase) DeleteProduct(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	p, err := u.repo.Product(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	u.discard(ctx, append([]string{p.MainImageURL}, p.GalleryURLs...)...)
	return nil
}

// checkPlacement: category は必須で存在すること。subcategory は任意だが、指定時はその category 配下であること。
func (u *CatalogAdminUsecase) checkPlacement(ctx context.Context, categoryID, subcategoryID string) error {
	if _, err := u.repo.Category(ctx, categoryID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.ErrInvalidCategoryID
		}
		return err
	}
	if subcategoryID == "" {
		return nil
	}
	s, err := u.repo.Subcategory(ctx, subcategoryID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.ErrInvalidCategoryID
		}
		return err
	}
	if s.CategoryID != categoryID {
		return catalog.ErrInvalidCategoryID
	}
	return nil
}

// upload stores img under dir/{uuid}. A nil or empty image yields "".
func (u *CatalogAdminUsecase) upload(ctx context.Context, dir string, img *ImageUpload) (string, error) {
	if img.empty() {
		return "", nil
	}
	if u.images == nil {
		return "", ErrImageStoreMissing
	}
	ct := strings.TrimSpace(img.ContentType)
	if ct == "" {
		ct = "application/octet-stream"
	}
	url, err := u.images.Upload(ctx, dir+"/"+u.newID(), ct, img.Data)
	if err != nil {
		return "", fmt.Errorf("catalog_admin: upload %s: %w", dir, err)
	}
	return url, nil
}

// discard は画像の後始末 (best-effort)。
func (u *CatalogAdminUsecase) discard(ctx context.Context, urls ...string) {
	if u.images == nil {
		return
	}
	for _, url := range urls {
		if strings.TrimSpace(url) == "" {
			continue
		}
		if err := u.images.DeleteByURL(ctx, url); err != nil {
			log.Printf("[console.catalog] WARN: image cleanup failed url=%s: %v", url, err)
		}
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
