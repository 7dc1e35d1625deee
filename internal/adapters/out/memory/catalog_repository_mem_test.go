package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdom "storefront/internal/domain/catalog"
	contactdom "storefront/internal/domain/contact"
)

func TestFallbackCatalog_ReadModel(t *testing.T) {
	ctx := context.Background()
	rm := NewFallbackCatalog()

	cs, err := rm.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.Equal(t, "luxury-fabrics", cs[0].ID)

	subs, err := rm.Subcategories(ctx, "luxury-fabrics")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "velvet", subs[0].ID)

	none, err := rm.Subcategories(ctx, "accessories")
	require.NoError(t, err)
	assert.Empty(t, none)

	p, err := rm.Product(ctx, "velvet-royal-blue")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, catalogdom.UnitPiece, p.DefaultUnit().Type)

	found, err := rm.Products(ctx, catalogdom.ProductFilter{Color: "أزرق"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = rm.Category(ctx, "missing")
	assert.ErrorIs(t, err, catalogdom.ErrNotFound)
}

func TestCatalogRepositoryMem_Codes(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepositoryMem(nil, nil, nil)

	c1, err := repo.CreateCategory(ctx, catalogdom.Category{Name: "Silk"})
	require.NoError(t, err)
	c2, err := repo.CreateCategory(ctx, catalogdom.Category{Name: "Linen"})
	require.NoError(t, err)
	assert.Equal(t, "CAT-000001", c1.ID)
	assert.Equal(t, "CAT-000002", c2.ID)

	s, err := repo.CreateSubcategory(ctx, catalogdom.Subcategory{Name: "Raw", CategoryID: c1.ID})
	require.NoError(t, err)
	assert.Equal(t, "SUB-000001", s.ID)

	p, err := repo.CreateProduct(ctx, catalogdom.Product{Name: "Raw silk", CategoryID: c1.ID, Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "PROD-000001", p.ID)
	assert.Equal(t, "PROD-000001", p.Code())

	require.NoError(t, repo.DeleteCategory(ctx, c2.ID))
	c3, err := repo.CreateCategory(ctx, catalogdom.Category{Name: "Wool"})
	require.NoError(t, err)
	assert.Equal(t, "CAT-000003", c3.ID, "deleted codes are never issued again")

	price := decimal.NewFromInt(12)
	updated, err := repo.UpdateProduct(ctx, p.ID, catalogdom.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))

	blank := ""
	_, err = repo.UpdateProduct(ctx, p.ID, catalogdom.ProductPatch{Name: &blank})
	assert.ErrorIs(t, err, catalogdom.ErrInvalidName)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), catalogdom.ErrNotFound)
}

func TestCatalogRepositoryMem_DeletedNewestCodeIsNotReused(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepositoryMem(nil, nil, nil)

	first, err := repo.CreateProduct(ctx, catalogdom.Product{Name: "Velvet", CategoryID: "CAT-000001", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteProduct(ctx, first.ID))

	next, err := repo.CreateProduct(ctx, catalogdom.Product{Name: "Silk", CategoryID: "CAT-000001", Price: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, "PROD-000001", first.ID)
	assert.Equal(t, "PROD-000002", next.ID)
	assert.Equal(t, 2, next.Sequence)

	sub, err := repo.CreateSubcategory(ctx, catalogdom.Subcategory{Name: "Raw", CategoryID: "CAT-000001"})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteSubcategory(ctx, sub.ID))
	sub2, err := repo.CreateSubcategory(ctx, catalogdom.Subcategory{Name: "Washed", CategoryID: "CAT-000001"})
	require.NoError(t, err)
	assert.Equal(t, "SUB-000002", sub2.ID)
}

func TestContactRepositoryMem(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepositoryMem()

	empty, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", empty.Phone)

	saved, err := repo.Save(ctx, contactInfo(" 011 "))
	require.NoError(t, err)
	assert.Equal(t, "011", saved.Phone)
	assert.NotNil(t, saved.UpdatedAt)
}

func contactInfo(phone string) contactdom.Info {
	return contactdom.Info{Phone: phone}
}
