package firestore

import (
	"time"

	"cloud.google.com/go/firestore"

	catalogdom "storefront/internal/domain/catalog"
)

const fieldSequence = "sequence"

func docToCategory(snap *firestore.DocumentSnapshot) catalogdom.Category {
	data := snap.Data()
	c := catalogdom.Category{
		ID:          snap.Ref.ID,
		Name:        asString(data["name"]),
		Description: asString(data["description"]),
		ImageURL:    asString(data["imageUrl"]),
		Sequence:    asInt(data[fieldSequence]),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		c.CreatedAt = t
	}
	return c
}

func categoryToDoc(c catalogdom.Category) map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"imageUrl":    c.ImageURL,
		fieldSequence: c.Sequence,
		"createdAt":   c.CreatedAt.UTC(),
	}
}

func docToSubcategory(snap *firestore.DocumentSnapshot) catalogdom.Subcategory {
	data := snap.Data()
	s := catalogdom.Subcategory{
		ID:          snap.Ref.ID,
		CategoryID:  asString(data["categoryId"]),
		Name:        asString(data["name"]),
		Description: asString(data["description"]),
		ImageURL:    asString(data["imageUrl"]),
		Sequence:    asInt(data[fieldSequence]),
	}
	if t, ok := asTime(data["createdAt"]); ok {
		s.CreatedAt = t
	}
	return s
}

func subcategoryToDoc(s catalogdom.Subcategory) map[string]any {
	return map[string]any{
		"categoryId":  s.CategoryID,
		"name":        s.Name,
		"description": s.Description,
		"imageUrl":    s.ImageURL,
		fieldSequence: s.Sequence,
		"createdAt":   s.CreatedAt.UTC(),
	}
}

func docToProduct(snap *firestore.DocumentSnapshot) catalogdom.Product {
	data := snap.Data()
	p := catalogdom.Product{
		ID:            snap.Ref.ID,
		Name:          asString(data["name"]),
		Description:   asString(data["description"]),
		Price:         asDecimal(data["price"]),
		CategoryID:    asString(data["categoryId"]),
		SubcategoryID: asString(data["subcategoryId"]),
		Colors:        asStringSlice(data["colors"]),
		MainImageURL:  asString(data["mainImageUrl"]),
		GalleryURLs:   asStringSlice(data["galleryUrls"]),
		Materials:     asString(data["materials"]),
		Features:      asStringSlice(data["features"]),
		Sequence:      asInt(data[fieldSequence]),
	}
	// 旧スキーマ: color (単一文字列)
	if len(p.Colors) == 0 {
		p.Colors = asStringSlice(data["color"])
	}
	for _, m := range asMapSlice(data["unitOptions"]) {
		u := catalogdom.UnitOption{
			Type:          catalogdom.UnitType(asString(m["type"])),
			Label:         asString(m["label"]),
			Price:         asDecimal(m["price"]),
			PiecesPerUnit: asInt(m["piecesPerUnit"]),
		}
		if u.Type.Valid() {
			p.UnitOptions = append(p.UnitOptions, u)
		}
	}
	if t, ok := asTime(data["createdAt"]); ok {
		p.CreatedAt = t
	}
	return p.Normalize()
}

func productToDoc(p catalogdom.Product) map[string]any {
	units := make([]map[string]any, 0, len(p.UnitOptions))
	for _, u := range p.UnitOptions {
		units = append(units, map[string]any{
			"type":          string(u.Type),
			"label":         u.Label,
			"price":         money(u.Price),
			"piecesPerUnit": u.PiecesPerUnit,
		})
	}
	return map[string]any{
		"name":          p.Name,
		"description":   p.Description,
		"price":         money(p.Price),
		"categoryId":    p.CategoryID,
		"subcategoryId": p.SubcategoryID,
		"colors":        nonNil(p.Colors),
		"unitOptions":   units,
		"mainImageUrl":  p.MainImageURL,
		"galleryUrls":   nonNil(p.GalleryURLs),
		"materials":     p.Materials,
		"features":      nonNil(p.Features),
		fieldSequence:   p.Sequence,
		"code":          p.Code(),
		"createdAt":     p.CreatedAt.UTC(),
	}
}

func productUpdates(p catalogdom.Product, now time.Time) []firestore.Update {
	doc := productToDoc(p)
	delete(doc, "createdAt")
	delete(doc, fieldSequence)
	delete(doc, "code")

	ups := make([]firestore.Update, 0, len(doc)+1)
	for k, v := range doc {
		ups = append(ups, firestore.Update{Path: k, Value: v})
	}
	ups = append(ups, firestore.Update{Path: "updatedAt", Value: now.UTC()})
	return ups
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
