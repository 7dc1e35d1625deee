package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
)

// LineKey identifies a cart line. Color "" means no color.
type LineKey struct {
	ProductID string           `json:"productId"`
	UnitType  catalog.UnitType `json:"unitType"`
	Color     string           `json:"color,omitempty"`
}

func NewLineKey(productID string, unit catalog.UnitType, color string) LineKey {
	return LineKey{
		ProductID: strings.TrimSpace(productID),
		UnitType:  unit,
		Color:     strings.TrimSpace(color),
	}
}

// Matches compares keys; color is case-insensitive ("red" と "RED" は同じ行)。
func (k LineKey) Matches(o LineKey) bool {
	return k.ProductID == o.ProductID &&
		k.UnitType == o.UnitType &&
		strings.EqualFold(k.Color, o.Color)
}

// Line represents "one line item" in a cart.
// 商品名と単位オプションは追加時点の値を保持する (注文時の非正規化に使う)。
type Line struct {
	ProductID   string             `json:"productId"`
	ProductName string             `json:"productName"`
	Unit        catalog.UnitOption `json:"unit"`
	Color       string             `json:"color,omitempty"`
	Quantity    int                `json:"quantity"`
}

func (l Line) Key() LineKey {
	return NewLineKey(l.ProductID, l.Unit.Type, l.Color)
}

// Subtotal = quantity × unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.Unit.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) valid() bool {
	return strings.TrimSpace(l.ProductID) != "" &&
		l.Quantity > 0 &&
		l.Unit.Type.Valid() &&
		!l.Unit.Price.IsNegative()
}

func cloneLines(src []Line) []Line {
	if len(src) == 0 {
		return []Line{}
	}
	out := make([]Line, len(src))
	copy(out, src)
	return out
}

func findLineIndex(lines []Line, key LineKey) int {
	for i := range lines {
		if lines[i].Key().Matches(key) {
			return i
		}
	}
	return -1
}

func removeIndex(lines []Line, idx int) []Line {
	out := make([]Line, 0, len(lines)-1)
	out = append(out, lines[:idx]...)
	return append(out, lines[idx+1:]...)
}

// sumTotal はラインの合計金額を毎回計算する (キャッシュしない)。
func sumTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
