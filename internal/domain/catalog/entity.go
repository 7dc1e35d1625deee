package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/sequence"
)

// コード接頭辞 (sequence.Code と組み合わせて使う)
const (
	PrefixCategory    = "CAT"
	PrefixSubcategory = "SUB"
	PrefixProduct     = "PROD"
)

// Firestore コレクション名
const (
	CollectionCategories    = "categories"
	CollectionSubcategories = "subcategories"
	CollectionProducts      = "products"
)

var (
	ErrNotFound             = errors.New("catalog: not found")
	ErrConflict             = errors.New("catalog: conflict")
	ErrUnavailable          = errors.New("catalog: storage unavailable")
	ErrInvalidName          = errors.New("catalog: invalid name")
	ErrInvalidCategoryID    = errors.New("catalog: invalid categoryId")
	ErrInvalidPrice         = errors.New("catalog: invalid price")
	ErrInvalidUnitType      = errors.New("catalog: invalid unit type")
	ErrInvalidPiecesPerUnit = errors.New("catalog: invalid piecesPerUnit")
	ErrDuplicateUnitType    = errors.New("catalog: duplicate unit type")
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Sequence    int       `json:"sequence,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}
	return nil
}

type Subcategory struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Sequence    int       `json:"sequence,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s Subcategory) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(s.CategoryID) == "" {
		return ErrInvalidCategoryID
	}
	return nil
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    string          `json:"categoryId"`
	SubcategoryID string          `json:"subcategoryId,omitempty"`
	Colors        []string        `json:"colors,omitempty"`
	UnitOptions   []UnitOption    `json:"unitOptions,omitempty"`
	MainImageURL  string          `json:"mainImageUrl,omitempty"`
	GalleryURLs   []string        `json:"galleryUrls,omitempty"`
	Materials     string          `json:"materials,omitempty"`
	Features      []string        `json:"features,omitempty"`
	Sequence      int             `json:"sequence,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Code is the human-facing id, PROD-000042. Empty when the product has no sequence.
func (p Product) Code() string {
	if p.Sequence <= 0 {
		return ""
	}
	return sequence.Code(PrefixProduct, p.Sequence)
}

// Units returns the effective unit options: declared ones, or the implicit piece.
func (p Product) Units() []UnitOption {
	if len(p.UnitOptions) == 0 {
		return []UnitOption{PieceOption(p.Price)}
	}
	out := make([]UnitOption, len(p.UnitOptions))
	copy(out, p.UnitOptions)
	return out
}

// DefaultUnit is the first declared option, else a piece at base price.
func (p Product) DefaultUnit() UnitOption {
	return p.Units()[0]
}

// UnitByType looks up an effective unit option by type.
func (p Product) UnitByType(t UnitType) (UnitOption, bool) {
	for _, u := range p.Units() {
		if u.Type == t {
			return u, true
		}
	}
	return UnitOption{}, false
}

// HasColor reports whether c is one of the declared colors (case-insensitive).
func (p Product) HasColor(c string) bool {
	_, ok := p.DeclaredColor(c)
	return ok
}

// DeclaredColor returns the product's own spelling of c.
func (p Product) DeclaredColor(c string) (string, bool) {
	c = strings.TrimSpace(c)
	for _, pc := range p.Colors {
		if pc = strings.TrimSpace(pc); strings.EqualFold(pc, c) {
			return pc, true
		}
	}
	return "", false
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(p.CategoryID) == "" {
		return ErrInvalidCategoryID
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	seen := map[UnitType]struct{}{}
	for _, u := range p.UnitOptions {
		if err := u.validate(); err != nil {
			return err
		}
		if _, dup := seen[u.Type]; dup {
			return ErrDuplicateUnitType
		}
		seen[u.Type] = struct{}{}
	}
	return nil
}

// Normalize trims text fields and drops empty list entries.
func (p Product) Normalize() Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.CategoryID = strings.TrimSpace(p.CategoryID)
	p.SubcategoryID = strings.TrimSpace(p.SubcategoryID)
	p.MainImageURL = strings.TrimSpace(p.MainImageURL)
	p.Materials = strings.TrimSpace(p.Materials)
	p.Colors = compact(p.Colors)
	p.GalleryURLs = compact(p.GalleryURLs)
	p.Features = compact(p.Features)
	for i := range p.UnitOptions {
		p.UnitOptions[i] = normalizeUnitOption(p.UnitOptions[i])
	}
	return p
}

func compact(xs []string) []string {
	if len(xs) == 0 {
		return nil
	}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
