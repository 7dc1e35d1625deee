package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// UnitType は購入単位 (piece / bundle / carton)
type UnitType string

const (
	UnitPiece  UnitType = "piece"
	UnitBundle UnitType = "bundle"
	UnitCarton UnitType = "carton"
)

func (t UnitType) Valid() bool {
	switch t {
	case UnitPiece, UnitBundle, UnitCarton:
		return true
	}
	return false
}

// ParseUnitType normalizes user input ("Bundle ", "CARTON").
func ParseUnitType(s string) (UnitType, error) {
	t := UnitType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnitType, s)
	}
	return t, nil
}

// UnitOption is one purchasable variant of a product.
// PiecesPerUnit is meaningful for bundle and carton only.
type UnitOption struct {
	Type          UnitType        `json:"type"`
	Label         string          `json:"label,omitempty"`
	Price         decimal.Decimal `json:"price"`
	PiecesPerUnit int             `json:"piecesPerUnit,omitempty"`
}

// PieceOption is the implicit option of a product without declared units.
func PieceOption(price decimal.Decimal) UnitOption {
	return UnitOption{Type: UnitPiece, Price: price, PiecesPerUnit: 1}
}

// DisplayLabel returns Label, or a label derived from the type.
func (o UnitOption) DisplayLabel() string {
	if l := strings.TrimSpace(o.Label); l != "" {
		return l
	}
	switch o.Type {
	case UnitBundle:
		return fmt.Sprintf("Bundle (%d pcs)", o.PiecesPerUnit)
	case UnitCarton:
		return fmt.Sprintf("Carton (%d pcs)", o.PiecesPerUnit)
	default:
		return "Piece"
	}
}

func (o UnitOption) validate() error {
	if !o.Type.Valid() {
		return ErrInvalidUnitType
	}
	if o.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if o.Type != UnitPiece && o.PiecesPerUnit <= 0 {
		return ErrInvalidPiecesPerUnit
	}
	return nil
}

func normalizeUnitOption(o UnitOption) UnitOption {
	o.Label = strings.TrimSpace(o.Label)
	if o.Type == UnitPiece && o.PiecesPerUnit <= 0 {
		o.PiecesPerUnit = 1
	}
	return o
}
