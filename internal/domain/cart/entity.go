package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
)

// DefaultCartTTL is the inactivity window after which a persisted cart may expire.
const DefaultCartTTL = 7 * 24 * time.Hour

const persistVersion = 1

// Cart is the shopper's aggregate for one session.
//   - at most one line per (productId, unitType, color)
//   - totals are computed on read
//   - every mutation persists the full line set to LocalStorage (best-effort)
type Cart struct {
	mu    sync.Mutex
	lines []Line

	store LocalStorage
	key   string
}

type persistedCart struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

// New returns an empty cart without persistence.
func New() *Cart {
	return &Cart{lines: []Line{}}
}

// Open loads the cart stored under key. Absent, malformed or invalid state
// yields an empty cart; Open never fails.
func Open(ctx context.Context, store LocalStorage, key string) *Cart {
	c := &Cart{lines: []Line{}, store: store, key: strings.TrimSpace(key)}
	if c.key == "" {
		c.key = StorageKey
	}
	if store == nil {
		return c
	}

	raw, ok, err := store.Get(ctx, c.key)
	if err != nil {
		log.Printf("[cart] WARN: load failed key=%s: %v (starting empty)", c.key, err)
		return c
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return c
	}

	lines, err := decodeLines(raw)
	if err != nil {
		log.Printf("[cart] discarding saved cart key=%s: %v", c.key, err)
		return c
	}
	c.lines = lines
	return c
}

func decodeLines(raw string) ([]Line, error) {
	var p persistedCart
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	for _, l := range p.Lines {
		if !l.valid() {
			return nil, ErrInvalidCart
		}
	}
	return normalizeAndMerge(p.Lines), nil
}

// normalizeAndMerge trims keys and merges duplicate keys, keeping first-seen order.
func normalizeAndMerge(src []Line) []Line {
	out := make([]Line, 0, len(src))
	for _, l := range src {
		l.ProductID = strings.TrimSpace(l.ProductID)
		l.Color = strings.TrimSpace(l.Color)
		if idx := findLineIndex(out, l.Key()); idx >= 0 {
			out[idx].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return out
}

// Add resolves the unit option (explicit, else the product's default) and the
// color, then merges into an existing line or appends a new one with quantity 1.
func (c *Cart) Add(ctx context.Context, p catalog.Product, unit *catalog.UnitOption, color string) Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	u := p.DefaultUnit()
	if unit != nil {
		u = *unit
	}

	line := Line{
		ProductID:   strings.TrimSpace(p.ID),
		ProductName: strings.TrimSpace(p.Name),
		Unit:        u,
		Color:       strings.TrimSpace(color),
		Quantity:    1,
	}

	if idx := findLineIndex(c.lines, line.Key()); idx >= 0 {
		c.lines[idx].Quantity++
		line = c.lines[idx]
	} else {
		c.lines = append(c.lines, line)
	}

	c.persist(ctx)
	return line
}

// Increment adds one to the line. Returns false when the line does not exist.
func (c *Cart) Increment(ctx context.Context, key LineKey) bool {
	return c.adjust(ctx, key, 1)
}

// Decrement subtracts one; reaching zero removes the line.
func (c *Cart) Decrement(ctx context.Context, key LineKey) bool {
	return c.adjust(ctx, key, -1)
}

func (c *Cart) adjust(ctx context.Context, key LineKey, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := findLineIndex(c.lines, normalizeKey(key))
	if idx < 0 {
		return false
	}
	next := c.lines[idx].Quantity + delta
	if next <= 0 {
		c.lines = removeIndex(c.lines, idx)
	} else {
		c.lines[idx].Quantity = next
	}

	c.persist(ctx)
	return true
}

// SetQuantity sets an absolute quantity. NaN, infinities and negatives are
// ignored; fractions are floored; zero removes the line.
func (c *Cart) SetQuantity(ctx context.Context, key LineKey, qty float64) bool {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return false
	}
	q := math.Floor(qty)
	if q > math.MaxInt32 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := findLineIndex(c.lines, normalizeKey(key))
	if idx < 0 {
		return false
	}
	if q == 0 {
		c.lines = removeIndex(c.lines, idx)
	} else {
		c.lines[idx].Quantity = int(q)
	}

	c.persist(ctx)
	return true
}

func (c *Cart) Remove(ctx context.Context, key LineKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := findLineIndex(c.lines, normalizeKey(key))
	if idx < 0 {
		return false
	}
	c.lines = removeIndex(c.lines, idx)
	c.persist(ctx)
	return true
}

func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = []Line{}
	c.persist(ctx)
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLines(c.lines)
}

func (c *Cart) LineCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sumTotal(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.LineCount() == 0
}

// Snapshot returns a deep copy of the lines and their total.
// Line holds only value fields, so copying the slice is enough.
func (c *Cart) Snapshot(now time.Time) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := cloneLines(c.lines)
	return Snapshot{
		Lines:   lines,
		Total:   sumTotal(lines),
		TakenAt: now,
	}
}

// persist は mu を保持した状態で呼ぶこと。
func (c *Cart) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	if len(c.lines) == 0 {
		if err := c.store.Remove(ctx, c.key); err != nil {
			log.Printf("[cart] WARN: remove failed key=%s: %v", c.key, err)
		}
		return
	}

	b, err := json.Marshal(persistedCart{Version: persistVersion, Lines: c.lines})
	if err != nil {
		log.Printf("[cart] WARN: encode failed key=%s: %v", c.key, err)
		return
	}
	if err := c.store.Set(ctx, c.key, string(b)); err != nil {
		log.Printf("[cart] WARN: persist failed key=%s: %v", c.key, err)
	}
}

func normalizeKey(k LineKey) LineKey {
	return NewLineKey(k.ProductID, k.UnitType, k.Color)
}
