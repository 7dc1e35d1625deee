package firestore

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	catalogdom "storefront/internal/domain/catalog"
	"storefront/internal/domain/sequence"
)

// CatalogRepositoryFS は categories / subcategories / products の Firestore 実装。
// 読み取りはワンショットのクエリ (管理画面用)。店頭は CatalogLiveFS を使う。
type CatalogRepositoryFS struct {
	Client *firestore.Client
	now    func() time.Time
}

var _ catalogdom.Repository = (*CatalogRepositoryFS)(nil)

func NewCatalogRepositoryFS(client *firestore.Client) *CatalogRepositoryFS {
	return &CatalogRepositoryFS{Client: client, now: time.Now}
}

func (r *CatalogRepositoryFS) col(name string) *firestore.CollectionRef {
	return r.Client.Collection(name)
}

// ============================================================
// ReadModel
// ============================================================

func (r *CatalogRepositoryFS) Categories(ctx context.Context) ([]catalogdom.Category, error) {
	if r.Client == nil {
		return nil, errClientNil
	}
	var out []catalogdom.Category
	err := eachDoc(ctx, r.col(catalogdom.CollectionCategories).Query, func(snap *firestore.DocumentSnapshot) {
		out = append(out, docToCategory(snap))
	})
	if err != nil {
		return nil, err
	}
	catalogdom.SortNewestFirst(out, catalogdom.CategoryKey)
	return out, nil
}

func (r *CatalogRepositoryFS) Category(ctx context.Context, id string) (catalogdom.Category, error) {
	snap, err := r.getDoc(ctx, catalogdom.CollectionCategories, id)
	if err != nil {
		return catalogdom.Category{}, err
	}
	return docToCategory(snap), nil
}

func (r *CatalogRepositoryFS) Subcategories(ctx context.Context, categoryID string) ([]catalogdom.Subcategory, error) {
	if r.Client == nil {
		return nil, errClientNil
	}
	q := r.col(catalogdom.CollectionSubcategories).Query
	if categoryID = strings.TrimSpace(categoryID); categoryID != "" {
		q = q.Where("categoryId", "==", categoryID)
	}

	var out []catalogdom.Subcategory
	err := eachDoc(ctx, q, func(snap *firestore.DocumentSnapshot) {
		out = append(out, docToSubcategory(snap))
	})
	if err != nil {
		return nil, err
	}
	catalogdom.SortNewestFirst(out, catalogdom.SubcategoryKey)
	return out, nil
}

func (r *CatalogRepositoryFS) Subcategory(ctx context.Context, id string) (catalogdom.Subcategory, error) {
	snap, err := r.getDoc(ctx, catalogdom.CollectionSubcategories, id)
	if err != nil {
		return catalogdom.Subcategory{}, err
	}
	return docToSubcategory(snap), nil
}

func (r *CatalogRepositoryFS) Products(ctx context.Context, f catalogdom.ProductFilter) ([]catalogdom.Product, error) {
	if r.Client == nil {
		return nil, errClientNil
	}
	q := r.col(catalogdom.CollectionProducts).Query
	switch {
	case f.SubcategoryID != "":
		q = q.Where("subcategoryId", "==", f.SubcategoryID)
	case f.CategoryID != "":
		q = q.Where("categoryId", "==", f.CategoryID)
	}

	var all []catalogdom.Product
	err := eachDoc(ctx, q, func(snap *firestore.DocumentSnapshot) {
		all = append(all, docToProduct(snap))
	})
	if err != nil {
		return nil, err
	}
	out := catalogdom.FilterProducts(all, f)
	catalogdom.SortNewestFirst(out, catalogdom.ProductKey)
	return out, nil
}

func (r *CatalogRepositoryFS) Product(ctx context.Context, id string) (catalogdom.Product, error) {
	snap, err := r.getDoc(ctx, catalogdom.CollectionProducts, id)
	if err != nil {
		return catalogdom.Product{}, err
	}
	return docToProduct(snap), nil
}

// ============================================================
// Admin writes
// ============================================================

func (r *CatalogRepositoryFS) CreateCategory(ctx context.Context, c catalogdom.Category) (catalogdom.Category, error) {
	err := r.createWithCode(ctx, catalogdom.CollectionCategories, catalogdom.PrefixCategory,
		func(seq int, id string, now time.Time) map[string]any {
			c.ID, c.Sequence, c.CreatedAt = id, seq, now
			return categoryToDoc(c)
		})
	if err != nil {
		return catalogdom.Category{}, err
	}
	return c, nil
}

func (r *CatalogRepositoryFS) CreateSubcategory(ctx context.Context, s catalogdom.Subcategory) (catalogdom.Subcategory, error) {
	err := r.createWithCode(ctx, catalogdom.CollectionSubcategories, catalogdom.PrefixSubcategory,
		func(seq int, id string, now time.Time) map[string]any {
			s.ID, s.Sequence, s.CreatedAt = id, seq, now
			return subcategoryToDoc(s)
		})
	if err != nil {
		return catalogdom.Subcategory{}, err
	}
	return s, nil
}

func (r *CatalogRepositoryFS) CreateProduct(ctx context.Context, p catalogdom.Product) (catalogdom.Product, error) {
	err := r.createWithCode(ctx, catalogdom.CollectionProducts, catalogdom.PrefixProduct,
		func(seq int, id string, now time.Time) map[string]any {
			p.ID, p.Sequence, p.CreatedAt = id, seq, now
			return productToDoc(p)
		})
	if err != nil {
		return catalogdom.Product{}, err
	}
	return p, nil
}

func (r *CatalogRepositoryFS) UpdateProduct(ctx context.Context, id string, patch catalogdom.ProductPatch) (catalogdom.Product, error) {
	if r.Client == nil {
		return catalogdom.Product{}, errClientNil
	}
	ref := r.col(catalogdom.CollectionProducts).Doc(strings.TrimSpace(id))

	var updated catalogdom.Product
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return catalogdom.ErrNotFound
			}
			return err
		}
		next := patch.Apply(docToProduct(snap))
		if err := next.Validate(); err != nil {
			return err
		}
		updated = next
		return tx.Update(ref, productUpdates(next, r.now()))
	})
	if err != nil {
		return catalogdom.Product{}, classify(err, catalogdom.ErrConflict, catalogdom.ErrUnavailable)
	}
	return updated, nil
}

func (r *CatalogRepositoryFS) DeleteCategory(ctx context.Context, id string) error {
	return r.deleteDoc(ctx, catalogdom.CollectionCategories, id)
}

func (r *CatalogRepositoryFS) DeleteSubcategory(ctx context.Context, id string) error {
	return r.deleteDoc(ctx, catalogdom.CollectionSubcategories, id)
}

func (r *CatalogRepositoryFS) DeleteProduct(ctx context.Context, id string) error {
	return r.deleteDoc(ctx, catalogdom.CollectionProducts, id)
}

// ============================================================
// helpers
// ============================================================

// createWithCode assigns the next collection-wide sequence and creates the
// doc under "{PREFIX}-{seq:06}" in one transaction.
func (r *CatalogRepositoryFS) createWithCode(
	ctx context.Context,
	collection, prefix string,
	build func(seq int, id string, now time.Time) map[string]any,
) error {
	if r.Client == nil {
		return errClientNil
	}

	scope := sequence.CollectionScope(collection)
	counter := sequenceCounterFS{client: r.Client}
	latest := r.col(collection).OrderBy(fieldSequence, firestore.Desc).Limit(1)

	var id string
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seq, err := counter.nextTx(tx, scope, latest, fieldSequence)
		if err != nil {
			return err
		}
		now := r.now().UTC()
		id = sequence.Code(prefix, seq)

		if err := tx.Create(r.col(collection).Doc(id), build(seq, id, now)); err != nil {
			return err
		}
		return counter.commitTx(tx, scope, seq, now)
	})
	if err != nil {
		err = classify(err, catalogdom.ErrConflict, catalogdom.ErrUnavailable)
		log.Printf("[catalog_repo_fs] create %s FAILED: %v", collection, err)
		return err
	}

	log.Printf("[catalog_repo_fs] create %s OK id=%s", collection, id)
	return nil
}

func (r *CatalogRepositoryFS) getDoc(ctx context.Context, collection, id string) (*firestore.DocumentSnapshot, error) {
	if r.Client == nil {
		return nil, errClientNil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalogdom.ErrNotFound
	}
	snap, err := r.col(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, catalogdom.ErrNotFound
		}
		return nil, classify(err, catalogdom.ErrConflict, catalogdom.ErrUnavailable)
	}
	return snap, nil
}

func (r *CatalogRepositoryFS) deleteDoc(ctx context.Context, collection, id string) error {
	snap, err := r.getDoc(ctx, collection, id)
	if err != nil {
		return err
	}
	if _, err := snap.Ref.Delete(ctx); err != nil {
		return classify(err, catalogdom.ErrConflict, catalogdom.ErrUnavailable)
	}
	log.Printf("[catalog_repo_fs] delete %s OK id=%s", collection, snap.Ref.ID)
	return nil
}

func eachDoc(ctx context.Context, q firestore.Query, fn func(*firestore.DocumentSnapshot)) error {
	it := q.Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return classify(err, catalogdom.ErrConflict, catalogdom.ErrUnavailable)
		}
		fn(snap)
	}
}
