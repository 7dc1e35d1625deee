package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReadModel は店頭 (store) 向けの読み取り専用ビュー。
// 実装は Firestore のライブ購読キャッシュと、プロセス内フォールバックデータの 2 つ。
// どちらを使うかは設定 (CATALOG_MODE) で決まる。
type ReadModel interface {
	Categories(ctx context.Context) ([]Category, error)
	Category(ctx context.Context, id string) (Category, error)

	// Subcategories returns all subcategories when categoryID is empty.
	Subcategories(ctx context.Context, categoryID string) ([]Subcategory, error)
	Subcategory(ctx context.Context, id string) (Subcategory, error)

	Products(ctx context.Context, f ProductFilter) ([]Product, error)
	Product(ctx context.Context, id string) (Product, error)
}

// ProductPatch は管理画面からの部分更新。nil は「変更なし」。
type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *string
	SubcategoryID *string
	Colors        *[]string
	UnitOptions   *[]UnitOption
	MainImageURL  *string
	GalleryURLs   *[]string
	Materials     *string
	Features      *[]string
}

// Apply returns p with the patch applied (no validation).
func (pt ProductPatch) Apply(p Product) Product {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.CategoryID != nil {
		p.CategoryID = *pt.CategoryID
	}
	if pt.SubcategoryID != nil {
		p.SubcategoryID = *pt.SubcategoryID
	}
	if pt.Colors != nil {
		p.Colors = append([]string(nil), (*pt.Colors)...)
	}
	if pt.UnitOptions != nil {
		p.UnitOptions = append([]UnitOption(nil), (*pt.UnitOptions)...)
	}
	if pt.MainImageURL != nil {
		p.MainImageURL = *pt.MainImageURL
	}
	if pt.GalleryURLs != nil {
		p.GalleryURLs = append([]string(nil), (*pt.GalleryURLs)...)
	}
	if pt.Materials != nil {
		p.Materials = *pt.Materials
	}
	if pt.Features != nil {
		p.Features = append([]string(nil), (*pt.Features)...)
	}
	return p.Normalize()
}

// Repository is the admin write side. Create* assigns the next sequence of the
// entity's collection and stores the entity under sequence.Code(prefix, seq).
type Repository interface {
	ReadModel

	CreateCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateSubcategory(ctx context.Context, s Subcategory) (Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
