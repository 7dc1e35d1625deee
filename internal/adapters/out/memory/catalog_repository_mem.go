package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	catalogdom "storefront/internal/domain/catalog"
	"storefront/internal/domain/sequence"
)

// CatalogRepositoryMem is the in-process catalog. It backs the fallback read
// model and offline admin sessions; codes follow the same sequence rules as
// the Firestore adapter.
type CatalogRepositoryMem struct {
	mu            sync.RWMutex
	categories    []catalogdom.Category
	subcategories []catalogdom.Subcategory
	products      []catalogdom.Product
	issued        issuedMarks
	now           func() time.Time
}

var _ catalogdom.Repository = (*CatalogRepositoryMem)(nil)

func NewCatalogRepositoryMem(cs []catalogdom.Category, ss []catalogdom.Subcategory, ps []catalogdom.Product) *CatalogRepositoryMem {
	return &CatalogRepositoryMem{
		categories:    append([]catalogdom.Category(nil), cs...),
		subcategories: append([]catalogdom.Subcategory(nil), ss...),
		products:      append([]catalogdom.Product(nil), ps...),
		issued:        issuedMarks{},
		now:           time.Now,
	}
}

// NewFallbackCatalog returns a repository seeded with FallbackCatalog().
func NewFallbackCatalog() *CatalogRepositoryMem {
	return NewCatalogRepositoryMem(FallbackCatalog())
}

// ============================================================
// ReadModel
// ============================================================

func (r *CatalogRepositoryMem) Categories(_ context.Context) ([]catalogdom.Category, error) {
	r.mu.RLock()
	out := append([]catalogdom.Category(nil), r.categories...)
	r.mu.RUnlock()

	catalogdom.SortNewestFirst(out, catalogdom.CategoryKey)
	return out, nil
}

func (r *CatalogRepositoryMem) Category(_ context.Context, id string) (catalogdom.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id = strings.TrimSpace(id)
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return catalogdom.Category{}, catalogdom.ErrNotFound
}

func (r *CatalogRepositoryMem) Subcategories(_ context.Context, categoryID string) ([]catalogdom.Subcategory, error) {
	r.mu.RLock()
	categoryID = strings.TrimSpace(categoryID)
	out := make([]catalogdom.Subcategory, 0, len(r.subcategories))
	for _, s := range r.subcategories {
		if categoryID == "" || s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	r.mu.RUnlock()

	catalogdom.SortNewestFirst(out, catalogdom.SubcategoryKey)
	return out, nil
}

func (r *CatalogRepositoryMem) Subcategory(_ context.Context, id string) (catalogdom.Subcategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id = strings.TrimSpace(id)
	for _, s := range r.subcategories {
		if s.ID == id {
			return s, nil
		}
	}
	return catalogdom.Subcategory{}, catalogdom.ErrNotFound
}

func (r *CatalogRepositoryMem) Products(_ context.Context, f catalogdom.ProductFilter) ([]catalogdom.Product, error) {
	r.mu.RLock()
	out := catalogdom.FilterProducts(r.products, f)
	r.mu.RUnlock()

	for i := range out {
		out[i] = cloneProduct(out[i])
	}
	catalogdom.SortNewestFirst(out, catalogdom.ProductKey)
	return out, nil
}

func (r *CatalogRepositoryMem) Product(_ context.Context, id string) (catalogdom.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.productIndex(strings.TrimSpace(id)); idx >= 0 {
		return cloneProduct(r.products[idx]), nil
	}
	return catalogdom.Product{}, catalogdom.ErrNotFound
}

// ============================================================
// Admin writes
// ============================================================

func (r *CatalogRepositoryMem) CreateCategory(_ context.Context, c catalogdom.Category) (catalogdom.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last := 0
	for _, x := range r.categories {
		last = sequence.Max(last, x.Sequence)
	}
	scope := sequence.CollectionScope(catalogdom.CollectionCategories)
	seq, err := r.issued.next(scope, last)
	if err != nil {
		return catalogdom.Category{}, err
	}
	c.Sequence = seq
	c.ID = sequence.Code(catalogdom.PrefixCategory, seq)
	c.CreatedAt = r.now().UTC()
	for _, x := range r.categories {
		if x.ID == c.ID {
			return catalogdom.Category{}, catalogdom.ErrConflict
		}
	}

	r.issued.commit(scope, seq)
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *CatalogRepositoryMem) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, x := range r.categories {
		if x.ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return catalogdom.ErrNotFound
}

func (r *CatalogRepositoryMem) CreateSubcategory(_ context.Context, s catalogdom.Subcategory) (catalogdom.Subcategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last := 0
	for _, x := range r.subcategories {
		last = sequence.Max(last, x.Sequence)
	}
	scope := sequence.CollectionScope(catalogdom.CollectionSubcategories)
	seq, err := r.issued.next(scope, last)
	if err != nil {
		return catalogdom.Subcategory{}, err
	}
	s.Sequence = seq
	s.ID = sequence.Code(catalogdom.PrefixSubcategory, seq)
	s.CreatedAt = r.now().UTC()
	for _, x := range r.subcategories {
		if x.ID == s.ID {
			return catalogdom.Subcategory{}, catalogdom.ErrConflict
		}
	}

	r.issued.commit(scope, seq)
	r.subcategories = append(r.subcategories, s)
	return s, nil
}

func (r *CatalogRepositoryMem) DeleteSubcategory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, x := range r.subcategories {
		if x.ID == id {
			r.subcategories = append(r.subcategories[:i], r.subcategories[i+1:]...)
			return nil
		}
	}
	return catalogdom.ErrNotFound
}

func (r *CatalogRepositoryMem) CreateProduct(_ context.Context, p catalogdom.Product) (catalogdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last := 0
	for _, x := range r.products {
		last = sequence.Max(last, x.Sequence)
	}
	scope := sequence.CollectionScope(catalogdom.CollectionProducts)
	seq, err := r.issued.next(scope, last)
	if err != nil {
		return catalogdom.Product{}, err
	}
	p.Sequence = seq
	p.ID = sequence.Code(catalogdom.PrefixProduct, seq)
	p.CreatedAt = r.now().UTC()
	if r.productIndex(p.ID) >= 0 {
		return catalogdom.Product{}, catalogdom.ErrConflict
	}

	r.issued.commit(scope, seq)
	r.products = append(r.products, cloneProduct(p))
	return cloneProduct(p), nil
}

func (r *CatalogRepositoryMem) UpdateProduct(_ context.Context, id string, patch catalogdom.ProductPatch) (catalogdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.productIndex(strings.TrimSpace(id))
	if idx < 0 {
		return catalogdom.Product{}, catalogdom.ErrNotFound
	}
	next := patch.Apply(cloneProduct(r.products[idx]))
	if err := next.Validate(); err != nil {
		return catalogdom.Product{}, err
	}
	r.products[idx] = next
	return cloneProduct(next), nil
}

func (r *CatalogRepositoryMem) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.productIndex(strings.TrimSpace(id))
	if idx < 0 {
		return catalogdom.ErrNotFound
	}
	r.products = append(r.products[:idx], r.products[idx+1:]...)
	return nil
}

func (r *CatalogRepositoryMem) productIndex(id string) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneProduct(p catalogdom.Product) catalogdom.Product {
	p.Colors = append([]string(nil), p.Colors...)
	p.UnitOptions = append([]catalogdom.UnitOption(nil), p.UnitOptions...)
	p.GalleryURLs = append([]string(nil), p.GalleryURLs...)
	p.Features = append([]string(nil), p.Features...)
	return p
}
