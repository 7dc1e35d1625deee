package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductUnits(t *testing.T) {
	base := Product{ID: "p1", Name: "Velvet", CategoryID: "c1", Price: decimal.NewFromInt(120)}

	t.Run("implicit piece at base price", func(t *testing.T) {
		u := base.DefaultUnit()
		assert.Equal(t, UnitPiece, u.Type)
		assert.True(t, u.Price.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, 1, u.PiecesPerUnit)
	})

	t.Run("first declared option wins", func(t *testing.T) {
		p := base
		p.UnitOptions = []UnitOption{
			{Type: UnitBundle, Price: decimal.NewFromInt(1000), PiecesPerUnit: 10},
			{Type: UnitPiece, Price: decimal.NewFromInt(110)},
		}
		assert.Equal(t, UnitBundle, p.DefaultUnit().Type)

		u, ok := p.UnitByType(UnitPiece)
		require.True(t, ok)
		assert.True(t, u.Price.Equal(decimal.NewFromInt(110)))

		_, ok = p.UnitByType(UnitCarton)
		assert.False(t, ok)
	})
}

func TestProductValidate(t *testing.T) {
	ok := Product{Name: "Silk", CategoryID: "c1", Price: decimal.NewFromInt(5)}
	require.NoError(t, ok.Validate())

	noName := ok
	noName.Name = " "
	assert.ErrorIs(t, noName.Validate(), ErrInvalidName)

	badBundle := ok
	badBundle.UnitOptions = []UnitOption{{Type: UnitBundle, Price: decimal.NewFromInt(50)}}
	assert.ErrorIs(t, badBundle.Validate(), ErrInvalidPiecesPerUnit)

	dup := ok
	dup.UnitOptions = []UnitOption{{Type: UnitPiece}, {Type: UnitPiece}}
	assert.ErrorIs(t, dup.Validate(), ErrDuplicateUnitType)

	neg := ok
	neg.Price = decimal.NewFromInt(-1)
	assert.ErrorIs(t, neg.Validate(), ErrInvalidPrice)
}

func TestParseUnitType(t *testing.T) {
	u, err := ParseUnitType(" Carton ")
	require.NoError(t, err)
	assert.Equal(t, UnitCarton, u)

	_, err = ParseUnitType("pallet")
	assert.ErrorIs(t, err, ErrInvalidUnitType)
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Piece", UnitOption{Type: UnitPiece}.DisplayLabel())
	assert.Equal(t, "Bundle (12 pcs)", UnitOption{Type: UnitBundle, PiecesPerUnit: 12}.DisplayLabel())
	assert.Equal(t, "رزمة", UnitOption{Type: UnitBundle, Label: " رزمة "}.DisplayLabel())
}

func TestProductFilter(t *testing.T) {
	limit := decimal.NewFromInt(100)
	products := []Product{
		{ID: "a", Name: "Royal Velvet", CategoryID: "c1", SubcategoryID: "s1", Colors: []string{"أزرق / Синий"}, Price: decimal.NewFromInt(120)},
		{ID: "b", Name: "Linen", Description: "light velvet touch", CategoryID: "c1", Colors: []string{"Red"}, Price: decimal.NewFromInt(40)},
		{ID: "c", Name: "Cotton", CategoryID: "c2", Price: decimal.NewFromInt(10)},
	}

	ids := func(ps []Product) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterProducts(products, ProductFilter{})))
	assert.Equal(t, []string{"a", "b"}, ids(FilterProducts(products, ProductFilter{Term: "VELVET"})))
	assert.Equal(t, []string{"a"}, ids(FilterProducts(products, ProductFilter{Color: "синий"})))
	assert.Equal(t, []string{"b"}, ids(FilterProducts(products, ProductFilter{Term: "velvet", MaxPrice: &limit})))
	assert.Equal(t, []string{"a"}, ids(FilterProducts(products, ProductFilter{SubcategoryID: "s1"})))
	assert.Equal(t, []string{"c"}, ids(FilterProducts(products, ProductFilter{CategoryID: "c2"})))
}

func TestProductPatchApply(t *testing.T) {
	p := Product{ID: "PROD-000001", Name: "Silk", CategoryID: "c1", Colors: []string{"red"}}
	name := "  Raw Silk "
	colors := []string{"blue", " ", "green"}
	got := ProductPatch{Name: &name, Colors: &colors}.Apply(p)

	assert.Equal(t, "Raw Silk", got.Name)
	assert.Equal(t, []string{"blue", "green"}, got.Colors)
	assert.Equal(t, []string{"red"}, p.Colors)
}

func TestProductDeclaredColor(t *testing.T) {
	p := Product{Colors: []string{" Royal Blue ", "red"}}

	got, ok := p.DeclaredColor("royal blue")
	assert.True(t, ok)
	assert.Equal(t, "Royal Blue", got)
	assert.True(t, p.HasColor("RED"))

	_, ok = p.DeclaredColor("green")
	assert.False(t, ok)
}

func TestSortNewestFirst(t *testing.T) {
	now := time.Now()
	cs := []Category{
		{ID: "old", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", CreatedAt: now},
		{ID: "tie-b", CreatedAt: now.Add(-time.Minute), Sequence: 2},
		{ID: "tie-a", CreatedAt: now.Add(-time.Minute), Sequence: 3},
	}
	SortNewestFirst(cs, CategoryKey)
	assert.Equal(t, "new", cs[0].ID)
	assert.Equal(t, "tie-a", cs[1].ID)
	assert.Equal(t, "tie-b", cs[2].ID)
	assert.Equal(t, "old", cs[3].ID)
}

func TestProductCode(t *testing.T) {
	assert.Equal(t, "PROD-000042", Product{Sequence: 42}.Code())
	assert.Equal(t, "", Product{}.Code())
}
