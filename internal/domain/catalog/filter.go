package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductFilter は商品一覧/検索の条件。ゼロ値は全件。
type ProductFilter struct {
	CategoryID    string
	SubcategoryID string
	Term          string           // name/description 部分一致 (大文字小文字無視)
	Color         string           // 宣言済みカラーの部分一致
	MaxPrice      *decimal.Decimal // 基本価格の上限 (含む)
}

func (f ProductFilter) Match(p Product) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.SubcategoryID != "" && p.SubcategoryID != f.SubcategoryID {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Term)); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if color := strings.ToLower(strings.TrimSpace(f.Color)); color != "" {
		found := false
		for _, c := range p.Colors {
			if strings.Contains(strings.ToLower(c), color) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// FilterProducts applies f and keeps the input order.
func FilterProducts(all []Product, f ProductFilter) []Product {
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// SortNewestFirst orders by CreatedAt desc, then Sequence desc, then ID.
func SortNewestFirst[T any](xs []T, createdAt func(T) (int64, int, string)) {
	sort.SliceStable(xs, func(i, j int) bool {
		ti, si, ii := createdAt(xs[i])
		tj, sj, ij := createdAt(xs[j])
		if ti != tj {
			return ti > tj
		}
		if si != sj {
			return si > sj
		}
		return ii < ij
	})
}

func CategoryKey(c Category) (int64, int, string) {
	return c.CreatedAt.UnixNano(), c.Sequence, c.ID
}

func SubcategoryKey(s Subcategory) (int64, int, string) {
	return s.CreatedAt.UnixNano(), s.Sequence, s.ID
}

func ProductKey(p Product) (int64, int, string) {
	return p.CreatedAt.UnixNano(), p.Sequence, p.ID
}
