package memory

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdom "storefront/internal/domain/catalog"
)

const (
	fallbackName = "أقمشة فاخرة"
	fallbackDesc = "مجموعة مختارة من الأقمشة الراقية للحفلات والمناسبات الخاصة."
)

// FallbackCatalog is the built-in dataset served when Firestore is not
// configured or the live subscription has nothing to show.
func FallbackCatalog() ([]catalogdom.Category, []catalogdom.Subcategory, []catalogdom.Product) {
	at := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	categories := []catalogdom.Category{
		{
			ID:          "luxury-fabrics",
			Name:        fallbackName,
			Description: fallbackDesc,
			ImageURL:    "https://images.unsplash.com/photo-1512436991641-6745cdb1723f?auto=format&fit=crop&w=800&q=80",
			CreatedAt:   at.Add(3 * time.Minute),
		},
		{
			ID:          "seasonal-collections",
			Name:        fallbackName,
			Description: fallbackDesc,
			ImageURL:    "https://images.unsplash.com/photo-1490481651871-ab68de25d43d?auto=format&fit=crop&w=800&q=80",
			CreatedAt:   at.Add(2 * time.Minute),
		},
		{
			ID:          "accessories",
			Name:        fallbackName,
			Description: fallbackDesc,
			ImageURL:    "https://images.unsplash.com/photo-1606214174559-011cda8d08d5?auto=format&fit=crop&w=800&q=80",
			CreatedAt:   at.Add(time.Minute),
		},
	}

	subcategories := []catalogdom.Subcategory{
		{
			ID:          "velvet",
			CategoryID:  "luxury-fabrics",
			Name:        fallbackName,
			Description: fallbackDesc,
			ImageURL:    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?auto=format&fit=crop&w=800&q=80",
			CreatedAt:   at,
		},
	}

	products := []catalogdom.Product{
		{
			ID:            "velvet-royal-blue",
			CategoryID:    "luxury-fabrics",
			SubcategoryID: "velvet",
			Name:          fallbackName,
			Description:   fallbackDesc,
			Price:         decimal.NewFromInt(120),
			Colors:        []string{"أزرق / Синий"},
			MainImageURL:  "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?auto=format&fit=crop&w=800&q=80",
			GalleryURLs: []string{
				"https://images.unsplash.com/photo-1512436991641-6745cdb1723f?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1490481651871-ab68de25d43d?auto=format&fit=crop&w=800&q=80",
				"https://images.unsplash.com/photo-1606214174559-011cda8d08d5?auto=format&fit=crop&w=800&q=80",
			},
			Materials: "80% فيسكوز، 20% حرير",
			Features:  []string{"عرض القماش 140 سم", "صنع في إيطاليا"},
			CreatedAt: at,
		},
	}

	return categories, subcategories, products
}
